package config

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/san-kum/robosim/internal/log"
	"github.com/san-kum/robosim/internal/pilots"
)

var Presets = map[string]*Config{
	"single_diff_drive": {
		Name: "single_diff_drive", Dt: 0.05, Ticks: 300, Log: log.DefaultConfig(),
		Map: MapConfig{Width: 10, Height: 10, Resolution: 0.5},
		Models: map[string]ModelConfig{
			"base": {Type: "diff_drive", Params: map[string]float64{"wheel_radius": 0.1, "axle_length": 0.5}},
		},
		Robots: []RobotConfig{
			{
				UID: 0, Model: "base", Pose: []float64{1, 1, 0},
				Footprint: FootprintConfig{Shape: "circle", Radius: 0.25},
				Pilot:     PilotConfig{Type: "go_to_goal", Goal: []float64{8, 7}, Speed: 0.6},
			},
		},
	},
	"mixed_fleet": {
		Name: "mixed_fleet", Dt: 0.05, Ticks: 400, Log: log.DefaultConfig(),
		Map: MapConfig{
			Width: 20, Height: 20, Resolution: 0.5,
			Obstacles: []Obstacle{{X0: 9, Y0: 4, X1: 11, Y1: 16}},
		},
		Models: map[string]ModelConfig{
			"rover": {Type: "diff_drive"},
			"car":   {Type: "ackermann"},
			"trike": {Type: "tricycle"},
			"plane": {Type: "dubins", Params: map[string]float64{"turning_radius": 1.5}},
		},
		Robots: []RobotConfig{
			{
				UID: 1, Model: "rover", Pose: []float64{2, 2, 0},
				Footprint: FootprintConfig{Shape: "rounded_rectangle", Width: 0.6, Height: 0.4, Radius: 0.1},
				Pilot:     PilotConfig{Type: "go_to_goal", Goal: []float64{17, 3}, Speed: 0.8, Guard: &GuardConfig{}},
			},
			{
				UID: 2, Model: "car", Pose: []float64{2, 18, 0, 0}, Integrator: "midpoint",
				Footprint: FootprintConfig{Shape: "rectangle", Width: 4, Height: 1.8},
				Pilot:     PilotConfig{Type: "go_to_goal", Goal: []float64{17, 18}, Speed: 1.5},
			},
			{
				UID: 3, Model: "trike", Pose: []float64{4, 10, math.Pi / 2, 0},
				Footprint: FootprintConfig{Shape: "triangle", Base: 0.8, Height: 1.0},
				Pilot: PilotConfig{Type: "scripted", Loop: true, Script: []pilots.Segment{
					{Ticks: 40, Input: []float64{4, 0}},
					{Ticks: 10, Input: []float64{4, 0.5}},
					{Ticks: 40, Input: []float64{4, 0}},
					{Ticks: 10, Input: []float64{4, -0.5}},
				}},
			},
			{
				UID: 4, Model: "plane", Pose: []float64{15, 10, math.Pi / 2},
				Footprint: FootprintConfig{Shape: "circle", Radius: 0.3, Segments: 8},
				Pilot:     PilotConfig{Type: "constant", Input: []float64{1.2, 0.8}},
			},
		},
	},
	"convoy": {
		Name: "convoy", Dt: 0.1, Ticks: 150, Log: log.DefaultConfig(),
		Map: MapConfig{Width: 30, Height: 10, Resolution: 1},
		Models: map[string]ModelConfig{
			"truck": {Type: "diff_drive", Params: map[string]float64{"wheel_radius": 0.2, "axle_length": 0.8}},
		},
		Robots: convoy([]string{"euler", "midpoint", "rk4"}),
	},
}

// convoy lines up one truck per integrator, each running the same script,
// so their trajectories differ only by integration error.
func convoy(kinds []string) []RobotConfig {
	return lo.Map(kinds, func(kind string, i int) RobotConfig {
		return RobotConfig{
			UID: i, Model: "truck", Integrator: kind,
			Pose:      []float64{2, 2 + 3*float64(i), 0},
			Footprint: FootprintConfig{Shape: "rectangle", Width: 1.2, Height: 0.8},
			Pilot: PilotConfig{Type: "scripted", Script: []pilots.Segment{
				{Ticks: 50, Input: []float64{5, 5}},
				{Ticks: 30, Input: []float64{4, 6}},
				{Ticks: 50, Input: []float64{5, 5}},
			}},
		}
	})
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := lo.Keys(Presets)
	sort.Strings(names)
	return names
}
