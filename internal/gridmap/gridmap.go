// Package gridmap provides the occupancy grid robots drive on.
//
// Cells hold an occupancy value in [0, 1]. Row indices grow with y and
// column indices grow with x; the origin is the lower-left map corner.
package gridmap

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/robosim/internal/dynamo"
)

// OccupiedThreshold is the cell value at or above which a cell is blocked.
const OccupiedThreshold = 0.5

// Map is a rectangular occupancy grid with square cells.
type Map struct {
	cells      *mat.Dense
	resolution float64
}

// New returns an empty map covering width × height metres.
func New(width, height, resolution float64) (*Map, error) {
	if !(resolution > 0) {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "resolution must be positive, got %g", resolution)
	}
	rows, err := cellCount("height", height, resolution)
	if err != nil {
		return nil, err
	}
	cols, err := cellCount("width", width, resolution)
	if err != nil {
		return nil, err
	}
	return &Map{cells: mat.NewDense(rows, cols, nil), resolution: resolution}, nil
}

// FromGrid builds a map from row-major cell values; rows[0] is the row at
// y = 0.
func FromGrid(rows [][]float64, resolution float64) (*Map, error) {
	if !(resolution > 0) {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "resolution must be positive, got %g", resolution)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "grid is empty")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrapf(dynamo.ErrSizeMismatch, "row %d has %d cells, want %d", i, len(row), cols)
		}
		for j, v := range row {
			if err := checkValue(v); err != nil {
				return nil, errors.Wrapf(err, "cell (%d, %d)", i, j)
			}
		}
		data = append(data, row...)
	}
	return &Map{cells: mat.NewDense(len(rows), cols, data), resolution: resolution}, nil
}

func cellCount(what string, extent, resolution float64) (int, error) {
	if !(extent > 0) {
		return 0, errors.Wrapf(dynamo.ErrInvalidArgument, "%s must be positive, got %g", what, extent)
	}
	n := math.Round(extent / resolution)
	if n < 1 || math.Abs(n*resolution-extent) > 1e-9*extent {
		return 0, errors.Wrapf(dynamo.ErrInvalidArgument,
			"resolution %g does not divide %s %g", resolution, what, extent)
	}
	return int(n), nil
}

func checkValue(v float64) error {
	if !(v >= 0 && v <= 1) {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "occupancy %g outside [0, 1]", v)
	}
	return nil
}

func (m *Map) Rows() int {
	r, _ := m.cells.Dims()
	return r
}

func (m *Map) Cols() int {
	_, c := m.cells.Dims()
	return c
}

func (m *Map) Resolution() float64 { return m.resolution }
func (m *Map) Width() float64      { return float64(m.Cols()) * m.resolution }
func (m *Map) Height() float64     { return float64(m.Rows()) * m.resolution }

func (m *Map) checkCell(row, col int) error {
	if row < 0 || row >= m.Rows() || col < 0 || col >= m.Cols() {
		return errors.Wrapf(dynamo.ErrOutOfRange, "cell (%d, %d) outside %dx%d grid", row, col, m.Rows(), m.Cols())
	}
	return nil
}

// At returns the occupancy of a cell.
func (m *Map) At(row, col int) (float64, error) {
	if err := m.checkCell(row, col); err != nil {
		return 0, err
	}
	return m.cells.At(row, col), nil
}

// Set writes the occupancy of a cell.
func (m *Map) Set(row, col int, v float64) error {
	if err := m.checkCell(row, col); err != nil {
		return err
	}
	if err := checkValue(v); err != nil {
		return err
	}
	m.cells.Set(row, col, v)
	return nil
}

// WorldToGrid returns the cell containing the world point (x, y).
func (m *Map) WorldToGrid(x, y float64) (row, col int, err error) {
	if !(x >= 0 && x < m.Width() && y >= 0 && y < m.Height()) {
		return 0, 0, errors.Wrapf(dynamo.ErrOutOfRange, "point (%g, %g) outside %gx%g map", x, y, m.Width(), m.Height())
	}
	row = int(math.Floor(y / m.resolution))
	col = int(math.Floor(x / m.resolution))
	// Floor can land on the far edge for points a rounding error short of it.
	return min(row, m.Rows()-1), min(col, m.Cols()-1), nil
}

// GridToWorld returns the world coordinates of a cell centre.
func (m *Map) GridToWorld(row, col int) (x, y float64, err error) {
	if err := m.checkCell(row, col); err != nil {
		return 0, 0, err
	}
	return (float64(col) + 0.5) * m.resolution, (float64(row) + 0.5) * m.resolution, nil
}

// Occupied reports whether the cell under (x, y) is blocked. Points off
// the map are an ErrOutOfRange error.
func (m *Map) Occupied(x, y float64) (bool, error) {
	row, col, err := m.WorldToGrid(x, y)
	if err != nil {
		return false, err
	}
	return m.cells.At(row, col) >= OccupiedThreshold, nil
}

// FillRect sets every cell whose centre lies inside the world rectangle
// spanned by (x0, y0) and (x1, y1). The rectangle is clipped to the map.
func (m *Map) FillRect(x0, y0, x1, y1, v float64) error {
	if err := checkValue(v); err != nil {
		return err
	}
	xmin, xmax := math.Min(x0, x1), math.Max(x0, x1)
	ymin, ymax := math.Min(y0, y1), math.Max(y0, y1)
	for row := 0; row < m.Rows(); row++ {
		cy := (float64(row) + 0.5) * m.resolution
		if cy < ymin || cy > ymax {
			continue
		}
		for col := 0; col < m.Cols(); col++ {
			cx := (float64(col) + 0.5) * m.resolution
			if cx >= xmin && cx <= xmax {
				m.cells.Set(row, col, v)
			}
		}
	}
	return nil
}

// OccupiedFraction returns the share of blocked cells.
func (m *Map) OccupiedFraction() float64 {
	rows, cols := m.cells.Dims()
	blocked := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.cells.At(i, j) >= OccupiedThreshold {
				blocked++
			}
		}
	}
	return float64(blocked) / float64(rows*cols)
}
