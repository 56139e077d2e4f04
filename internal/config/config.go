package config

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/log"
	"github.com/san-kum/robosim/internal/models"
	"github.com/san-kum/robosim/internal/pilots"
)

const (
	DefaultDt         = 0.05
	DefaultTicks      = 200
	DefaultMapSize    = 20.0
	DefaultResolution = 0.5
	DefaultIntegrator = "rk4"
	DefaultSegments   = 16
	DefaultLookahead  = 0.3
)

// Config is one scenario: a map, a set of shared models and the robots
// that use them.
type Config struct {
	Name   string                 `yaml:"name"`
	Dt     float64                `yaml:"dt"`
	Ticks  int                    `yaml:"ticks"`
	Log    log.Config             `yaml:"log"`
	Map    MapConfig              `yaml:"map"`
	Models map[string]ModelConfig `yaml:"models"`
	Robots []RobotConfig          `yaml:"robots"`
}

type MapConfig struct {
	Width      float64    `yaml:"width"`
	Height     float64    `yaml:"height"`
	Resolution float64    `yaml:"resolution"`
	Obstacles  []Obstacle `yaml:"obstacles,omitempty"`
}

// Obstacle fills the cells inside a world rectangle. A zero value means
// fully occupied.
type Obstacle struct {
	X0    float64 `yaml:"x0"`
	Y0    float64 `yaml:"y0"`
	X1    float64 `yaml:"x1"`
	Y1    float64 `yaml:"y1"`
	Value float64 `yaml:"value,omitempty"`
}

// ModelConfig names a model kind from the models registry. Params not
// given take the registry defaults.
type ModelConfig struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

type RobotConfig struct {
	UID        int             `yaml:"uid"`
	Model      string          `yaml:"model"`
	Footprint  FootprintConfig `yaml:"footprint"`
	Pose       []float64       `yaml:"pose,omitempty"`
	Velocity   []float64       `yaml:"velocity,omitempty"`
	Integrator string          `yaml:"integrator,omitempty"`
	Pilot      PilotConfig     `yaml:"pilot"`
}

type FootprintConfig struct {
	Shape    string       `yaml:"shape"`
	Radius   float64      `yaml:"radius,omitempty"`
	Width    float64      `yaml:"width,omitempty"`
	Height   float64      `yaml:"height,omitempty"`
	Base     float64      `yaml:"base,omitempty"`
	Segments int          `yaml:"segments,omitempty"`
	Points   [][2]float64 `yaml:"points,omitempty"`
}

type PilotConfig struct {
	Type      string           `yaml:"type"`
	Input     []float64        `yaml:"input,omitempty"`
	Script    []pilots.Segment `yaml:"script,omitempty"`
	Loop      bool             `yaml:"loop,omitempty"`
	Goal      []float64        `yaml:"goal,omitempty"`
	Speed     float64          `yaml:"speed,omitempty"`
	Tolerance float64          `yaml:"tolerance,omitempty"`
	Gains     []float64        `yaml:"gains,omitempty"`
	Guard     *GuardConfig     `yaml:"guard,omitempty"`
}

// GuardConfig wraps the pilot so it stops short of obstacles.
type GuardConfig struct {
	Lookahead float64 `yaml:"lookahead"`
}

var (
	footprintShapes = []string{"circle", "rectangle", "rounded_rectangle", "triangle", "polygon"}
	pilotTypes      = []string{"idle", "constant", "scripted", "go_to_goal"}
)

func DefaultConfig() *Config {
	return &Config{
		Name:  "scenario",
		Dt:    DefaultDt,
		Ticks: DefaultTicks,
		Log:   log.DefaultConfig(),
		Map: MapConfig{
			Width:      DefaultMapSize,
			Height:     DefaultMapSize,
			Resolution: DefaultResolution,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML scenario over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(errors.Wrap(err, "clone config"))
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(errors.Wrap(err, "clone config"))
	}
	return out
}

// ModelKeys returns the model keys in sorted order.
func (c *Config) ModelKeys() []string {
	keys := lo.Keys(c.Models)
	sort.Strings(keys)
	return keys
}

// Validate reports every problem in the scenario at once. Geometry and
// model parameters are checked later by Build.
func (c *Config) Validate() error {
	var err error
	if !(c.Dt > 0) {
		err = multierr.Append(err, errors.Errorf("dt must be positive, got %g", c.Dt))
	}
	if c.Ticks < 0 {
		err = multierr.Append(err, errors.Errorf("ticks must be non-negative, got %d", c.Ticks))
	}
	if !(c.Map.Width > 0 && c.Map.Height > 0 && c.Map.Resolution > 0) {
		err = multierr.Append(err, errors.Errorf("map %gx%g at %g must be positive",
			c.Map.Width, c.Map.Height, c.Map.Resolution))
	}
	if len(c.Robots) == 0 {
		err = multierr.Append(err, errors.New("no robots"))
	}

	kinds := models.Kinds()
	for _, key := range c.ModelKeys() {
		if !lo.Contains(kinds, c.Models[key].Type) {
			err = multierr.Append(err, errors.Errorf("model %q: unknown type %q", key, c.Models[key].Type))
		}
	}

	for _, dup := range lo.FindDuplicatesBy(c.Robots, func(r RobotConfig) int { return r.UID }) {
		err = multierr.Append(err, errors.Errorf("robot uid %d used more than once", dup.UID))
	}
	for i, r := range c.Robots {
		err = multierr.Append(err, r.validate(i, c.Models))
	}
	return err
}

func (r RobotConfig) validate(i int, known map[string]ModelConfig) error {
	var err error
	if r.UID < 0 {
		err = multierr.Append(err, errors.Errorf("robot %d: negative uid %d", i, r.UID))
	}
	if _, ok := known[r.Model]; !ok {
		err = multierr.Append(err, errors.Errorf("robot %d: unknown model key %q", i, r.Model))
	}
	if !lo.Contains(footprintShapes, r.Footprint.Shape) {
		err = multierr.Append(err, errors.Errorf("robot %d: unknown footprint shape %q", i, r.Footprint.Shape))
	}
	if r.Integrator != "" {
		if _, e := integrators.ParseKind(r.Integrator); e != nil {
			err = multierr.Append(err, errors.Wrapf(e, "robot %d", i))
		}
	}
	if !lo.Contains(pilotTypes, r.Pilot.Type) {
		err = multierr.Append(err, errors.Errorf("robot %d: unknown pilot type %q", i, r.Pilot.Type))
	}
	if r.Pilot.Type == "go_to_goal" && len(r.Pilot.Goal) != 2 {
		err = multierr.Append(err, errors.Errorf("robot %d: go_to_goal needs a goal [x, y]", i))
	}
	if n := len(r.Pilot.Gains); n != 0 && n != 3 {
		err = multierr.Append(err, errors.Errorf("robot %d: gains must be [kp, ki, kd]", i))
	}
	return err
}
