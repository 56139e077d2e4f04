// Package metrics collects per-robot measurements from a running
// playground. Every metric is a playground.Observer.
package metrics

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/robosim/internal/playground"
)

// Metric accumulates one scalar per robot.
type Metric interface {
	playground.Observer
	Name() string
	Value(uid int) float64
	Reset()
}

// Summary describes a metric across the fleet.
type Summary struct {
	Name   string
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
}

// Summarize reduces m over the given robots.
func Summarize(m Metric, uids []int) (Summary, error) {
	data := make(stats.Float64Data, 0, len(uids))
	for _, uid := range uids {
		data = append(data, m.Value(uid))
	}
	return describe(m.Name(), data)
}

func describe(name string, data stats.Float64Data) (Summary, error) {
	if data.Len() == 0 {
		return Summary{}, errors.Errorf("%s: no samples", name)
	}
	mean, err1 := data.Mean()
	lo, err2 := data.Min()
	hi, err3 := data.Max()
	sd, err4 := data.StandardDeviation()
	if err := multierr.Combine(err1, err2, err3, err4); err != nil {
		return Summary{}, errors.Wrap(err, name)
	}
	return Summary{Name: name, Count: data.Len(), Mean: mean, Min: lo, Max: hi, StdDev: sd}, nil
}
