package analysis

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/sim"
)

// Point is one sample of a body's path projected onto two axes.
type Point struct {
	X, Y float64
}

// Series extracts one coordinate of one body from recorded frames.
func Series(frames []sim.Frame, dim, body, axis int) ([]float64, error) {
	if axis < 0 || axis >= dim {
		return nil, fmt.Errorf("axis %d out of range for dim %d", axis, dim)
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		idx := body*dim + axis
		if body < 0 || idx >= len(f.Positions) {
			return nil, fmt.Errorf("body %d not present in frame %d", body, i)
		}
		out[i] = f.Positions[idx]
	}
	return out, nil
}

// Trajectory projects one body's path onto the x and y axes given. A 1-D
// system uses its single axis for x and time for y.
func Trajectory(frames []sim.Frame, dim, body, xAxis, yAxis int) ([]Point, error) {
	xs, err := Series(frames, dim, body, xAxis)
	if err != nil {
		return nil, err
	}

	pts := make([]Point, len(frames))
	if dim == 1 {
		for i, f := range frames {
			pts[i] = Point{X: xs[i], Y: f.Time}
		}
		return pts, nil
	}

	ys, err := Series(frames, dim, body, yAxis)
	if err != nil {
		return nil, err
	}
	for i := range pts {
		pts[i] = Point{X: xs[i], Y: ys[i]}
	}
	return pts, nil
}

// Energies returns the energy column of the frames.
func Energies(frames []sim.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Energy
	}
	return out
}
