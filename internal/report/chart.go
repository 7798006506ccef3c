package report

import (
	"math"

	"github.com/gasnet/calculator/internal/result"
)

// Axis is the range of one chart axis.
type Axis struct {
	Title string  `json:"title"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Chart is the pressure and velocity profile along the evaluated segments.
// Pressures are plotted on the left axis and velocities on the right one.
type Chart struct {
	Title      string    `json:"title"`
	Labels     []string  `json:"labels"`
	Pressures  []float64 `json:"pressures"`
	Velocities []float64 `json:"velocities"`
	Pressure   Axis      `json:"pressure_axis"`
	Velocity   Axis      `json:"velocity_axis"`
}

// BuildChart derives the chart series from an evaluation.
func BuildChart(ev *result.Evaluation) Chart {
	c := Chart{
		Title:    "Pressure and Velocity Profile",
		Pressure: Axis{Title: "Pressure (mbar)"},
		Velocity: Axis{Title: "Velocity (m/s)", Max: 12},
	}
	if ev.Empty() {
		return c
	}

	minP, maxP := math.Inf(1), math.Inf(-1)
	maxV := math.Inf(-1)
	for _, r := range ev.Segments {
		c.Labels = append(c.Labels, r.Label())
		c.Pressures = append(c.Pressures, r.OutletPressure)
		c.Velocities = append(c.Velocities, r.Velocity)
		minP = math.Min(minP, r.OutletPressure)
		maxP = math.Max(maxP, r.OutletPressure)
		maxV = math.Max(maxV, r.Velocity)
	}
	c.Pressure.Min = math.Max(0, minP-5)
	c.Pressure.Max = math.Max(maxP, c.Pressure.Min+1)
	c.Velocity.Max = math.Max(10, maxV+2)
	return c
}
