// Package plotting renders converged nozzle solutions to image files.
package plotting

import (
	"fmt"

	"github.com/notargets/gonozzle/model_problems/Nozzle1D"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func xys(x, y []float64) (pts plotter.XYs) {
	pts = make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X, pts[i].Y = x[i], y[i]
	}
	return
}

// SaveProfiles writes the Mach number and normalized pressure
// distributions of a solved flow field to a single image at path. The
// image format follows the file extension (png, pdf, svg, ...).
func SaveProfiles(ff Nozzle1D.FlowField, title, path string) (err error) {
	if len(ff.X) == 0 {
		return fmt.Errorf("empty flow field")
	}
	var (
		p     = plot.New()
		pNorm = make([]float64, len(ff.P))
		p0    = ff.P0[0]
	)
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	for i, pp := range ff.P {
		pNorm[i] = pp / p0
	}
	maLine, err := plotter.NewLine(xys(ff.X, ff.Ma))
	if err != nil {
		return
	}
	pLine, err := plotter.NewLine(xys(ff.X, pNorm))
	if err != nil {
		return
	}
	pLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(maLine, pLine, plotter.NewGrid())
	p.Legend.Add("Ma", maLine)
	p.Legend.Add("p/p0", pLine)
	p.Legend.Top = true
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// SaveGeometry writes the nozzle wall contour to an image at path.
func SaveGeometry(par Nozzle1D.NozzleParams, numPoints int, path string) (err error) {
	var (
		p     = plot.New()
		upper = make(plotter.XYs, numPoints)
		lower = make(plotter.XYs, numPoints)
	)
	p.Title.Text = "nozzle contour"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "r (m)"
	for i := 0; i < numPoints; i++ {
		var (
			x       = par.Length * float64(i) / float64(numPoints-1)
			diam, _ = Nozzle1D.SymmetricNozzleGeometry(x, par.Length, par.DIn)
		)
		upper[i].X, upper[i].Y = x, 0.5*diam
		lower[i].X, lower[i].Y = x, -0.5*diam
	}
	up, err := plotter.NewLine(upper)
	if err != nil {
		return
	}
	lo, err := plotter.NewLine(lower)
	if err != nil {
		return
	}
	p.Add(up, lo, plotter.NewGrid())
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
