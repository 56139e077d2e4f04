// Package store persists finished runs on disk: one directory per run
// holding metadata.json and one CSV trajectory per robot.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/robosim/internal/metrics"
)

const metadataFile = "metadata.json"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RobotMeta describes one robot of a run.
type RobotMeta struct {
	UID        int                `json:"uid"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

type RunMetadata struct {
	ID        string      `json:"id"`
	Scenario  string      `json:"scenario"`
	Timestamp time.Time   `json:"timestamp"`
	Dt        float64     `json:"dt"`
	Ticks     int         `json:"ticks"`
	Robots    []RobotMeta `json:"robots"`
}

// Save writes meta and the trajectory of every robot in trace. The run
// directory is named after meta.ID.
func (s *Store) Save(meta RunMetadata, trace *metrics.Trace) error {
	if meta.ID == "" {
		return errors.New("run id is empty")
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	for _, uid := range trace.UIDs() {
		if err := writeTrajectory(filepath.Join(runDir, trajectoryFile(uid)), trace.Samples(uid)); err != nil {
			return errors.Wrapf(err, "robot %d", uid)
		}
	}
	return nil
}

func trajectoryFile(uid int) string {
	return fmt.Sprintf("robot_%d.csv", uid)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeTrajectory(path string, samples []metrics.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(samples) == 0 {
		w.Flush()
		return w.Error()
	}

	numStates := samples[0].State.Size()
	numControls := 0
	for _, s := range samples {
		if s.Input.Size() > 0 {
			numControls = s.Input.Size()
			break
		}
	}

	header := []string{"tick", "time"}
	for i := 0; i < numStates; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < numControls; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{strconv.Itoa(s.Tick), formatFloat(s.Time)}
		data, _ := s.State.Data()
		for _, v := range data {
			row = append(row, formatFloat(v))
		}
		if s.Input.Size() > 0 {
			for _, v := range s.Input {
				row = append(row, formatFloat(v))
			}
		} else {
			for j := 0; j < numControls; j++ {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}
	return &meta, nil
}

// Trajectory is one robot's stored samples. States[i] is the flattened
// state at Times[i].
type Trajectory struct {
	Ticks  []int
	Times  []float64
	States [][]float64
	Inputs [][]float64
}

// Series returns flattened state element i over time.
func (t *Trajectory) Series(i int) []float64 {
	out := make([]float64, 0, len(t.States))
	for _, s := range t.States {
		if i >= 0 && i < len(s) {
			out = append(out, s[i])
		}
	}
	return out
}

// LoadTrajectory reads the CSV written for robot uid of a run.
func (s *Store) LoadTrajectory(runID string, uid int) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile(uid)))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Trajectory{}
	if len(records) < 2 {
		return t, nil
	}

	numStates := 0
	for _, col := range records[0] {
		if strings.HasPrefix(col, "x") {
			numStates++
		}
	}

	for line, record := range records[1:] {
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line+2)
		}
		values := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line+2)
			}
			values[j] = v
		}
		t.Ticks = append(t.Ticks, tick)
		t.Times = append(t.Times, values[0])
		t.States = append(t.States, values[1:1+numStates])
		t.Inputs = append(t.Inputs, values[1+numStates:])
	}
	return t, nil
}
