package models

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/san-kum/robosim/internal/dynamo"
)

type factory struct {
	defaults map[string]float64
	build    func(p map[string]float64) (dynamo.KinematicModel, error)
}

var registry = map[string]factory{
	"diff_drive": {
		defaults: map[string]float64{"wheel_radius": 0.1, "axle_length": 0.5},
		build: func(p map[string]float64) (dynamo.KinematicModel, error) {
			return NewDiffDrive(p["wheel_radius"], p["axle_length"])
		},
	},
	"dubins": {
		defaults: map[string]float64{"turning_radius": 1.0},
		build: func(p map[string]float64) (dynamo.KinematicModel, error) {
			return NewDubins(p["turning_radius"])
		},
	},
	"tricycle": {
		defaults: map[string]float64{"wheel_radius": 0.15, "wheelbase": 0.8, "max_steer": math.Pi / 3},
		build: func(p map[string]float64) (dynamo.KinematicModel, error) {
			return NewTricycle(p["wheel_radius"], p["wheelbase"], p["max_steer"])
		},
	},
	"ackermann": {
		defaults: map[string]float64{"wheel_radius": 0.3, "wheelbase": 2.5, "max_steer": math.Pi / 5},
		build: func(p map[string]float64) (dynamo.KinematicModel, error) {
			return NewAckermann(p["wheel_radius"], p["wheelbase"], p["max_steer"])
		},
	},
}

// New builds a model by kind name. Params override the kind's defaults;
// unknown parameter names are rejected.
func New(kind string, params map[string]float64) (dynamo.KinematicModel, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "unknown model: %s", kind)
	}
	merged := lo.Assign(f.defaults)
	for name, value := range params {
		if _, ok := f.defaults[name]; !ok {
			return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "unknown param for %s: %s", kind, name)
		}
		merged[name] = value
	}
	m, err := f.build(merged)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", kind)
	}
	return m, nil
}

// Kinds lists the registered model names in sorted order.
func Kinds() []string {
	kinds := lo.Keys(registry)
	sort.Strings(kinds)
	return kinds
}

// Defaults returns a copy of the default parameters for kind.
func Defaults(kind string) (map[string]float64, bool) {
	f, ok := registry[kind]
	if !ok {
		return nil, false
	}
	return lo.Assign(f.defaults), true
}
