package fit

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/hepkit/pkg/errors"
)

// PlotHistogram draws the distribution of variable name over the variable's
// range and saves it to path. The image format follows the file extension
// (.png, .svg, .pdf, ...).
func PlotHistogram(ds *Dataset, name string, bins int, path string) error {
	if bins <= 0 {
		return errors.NewValidationError("bins", "must be positive", bins)
	}
	v := ds.vars.Find(name)
	if v == nil {
		return errors.NewColumnNotFoundError("PlotHistogram", name)
	}
	x, err := ds.finiteColumn(name)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = ds.title
	p.X.Label.Text = v.Title
	p.Y.Label.Text = "Events"

	h, err := plotter.NewHist(plotter.Values(x), bins)
	if err != nil {
		return errors.Wrap(err, "build histogram")
	}
	p.Add(h)
	if v.Max > v.Min {
		p.X.Min, p.X.Max = v.Min, v.Max
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save histogram to %s", path)
	}
	return nil
}
