package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"BreakScan/internal/domain/models"
	applogger "BreakScan/pkg/logger"
)

// PlotRenderer draws PNG charts from finalized reports into a single
// output directory.
type PlotRenderer struct {
	dir       string
	threshold float64
	l         *applogger.Logger
}

func NewPlotRenderer(dir string, threshold float64, l *applogger.Logger) (*PlotRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir %s: %w", dir, err)
	}
	return &PlotRenderer{dir: dir, threshold: threshold, l: l}, nil
}

// Dashboard renders the four-panel per-asset view: break signals with
// the alert threshold, rolling volatility, the return distribution
// against a fitted normal, and a normal Q-Q plot.
func (r *PlotRenderer) Dashboard(rep *models.AssetReport) error {
	panels := [][]*plot.Plot{
		{r.signalPanel(rep), r.volPanel(rep)},
		{r.histPanel(rep), r.qqPanel(rep)},
	}

	img := vgimg.New(vg.Points(1100), vg.Points(750))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2, Cols: 2,
		PadX: vg.Millimeter * 3, PadY: vg.Millimeter * 3,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(panels, tiles, dc)
	for i := range panels {
		for j, p := range panels[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}

	path := r.path(rep.Name, "dashboard")
	if err := writePNG(img, path); err != nil {
		return err
	}
	r.l.Info("dashboard rendered",
		applogger.String("asset", rep.Name),
		applogger.String("path", path),
	)
	return nil
}

// Breakdown renders one single-series chart per rolling feature on the
// asset's trading calendar. Features with no computable points are
// skipped, not drawn empty.
func (r *PlotRenderer) Breakdown(rep *models.AssetReport) error {
	series := []struct {
		suffix string
		title  string
		fs     models.FeatureSeries
	}{
		{"roll_mean", "rolling mean", rep.RollMean},
		{"roll_vol", "rolling volatility", rep.RollVol},
		{"roll_ks", "KS distance", rep.RollKS},
	}
	for i, s := range series {
		if s.fs.Len() == 0 {
			continue
		}
		p := newTimePlot(rep.Name + ": " + s.title)
		p.Y.Label.Text = s.title
		line, err := plotter.NewLine(featureXYs(s.fs))
		if err != nil {
			return fmt.Errorf("breakdown line %s: %w", s.title, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		if err := r.save(p, r.path(rep.Name, s.suffix)); err != nil {
			return err
		}
	}
	return nil
}

// Overlay renders every asset's z-scored rolling volatility on one
// chart for side-by-side comparison. Assets are drawn in name order so
// colors are stable across runs.
func (r *PlotRenderer) Overlay(b *models.ComparisonBundle) error {
	p := newTimePlot("z-scored rolling volatility by asset")
	p.Y.Label.Text = "z-score"

	names := make([]string, 0, len(b.Volatility))
	for name := range b.Volatility {
		names = append(names, name)
	}
	sort.Strings(names)

	var first, last float64
	for i, name := range names {
		z := b.Volatility[name]
		line, err := plotter.NewLine(featureXYs(z))
		if err != nil {
			return fmt.Errorf("overlay line %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)

		if x := float64(z.Points[0].Date.Unix()); first == 0 || x < first {
			first = x
		}
		if x := float64(z.Points[z.Len()-1].Date.Unix()); x > last {
			last = x
		}
	}

	if len(names) > 0 {
		thr, err := plotter.NewLine(plotter.XYs{
			{X: first, Y: r.threshold},
			{X: last, Y: r.threshold},
		})
		if err == nil {
			thr.Color = color.RGBA{R: 200, A: 255}
			thr.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(thr)
			p.Legend.Add("threshold", thr)
		}
	}

	path := filepath.Join(r.dir, "volatility_comparison.png")
	if err := r.save(p, path); err != nil {
		return err
	}
	r.l.Info("comparison overlay rendered",
		applogger.String("path", path),
		applogger.Int("assets", len(names)),
	)
	return nil
}

func (r *PlotRenderer) signalPanel(rep *models.AssetReport) *plot.Plot {
	p := newTimePlot(rep.Name + ": break signals")
	p.Y.Label.Text = "z-score"

	idx := 0
	for _, z := range []models.ZSeries{rep.ZVol, rep.ZKS} {
		if z.Len() == 0 {
			continue
		}
		line, err := plotter.NewLine(featureXYs(z))
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(idx)
		p.Add(line)
		p.Legend.Add(z.Name, line)
		idx++
	}

	if thr := thresholdLine(rep, r.threshold); thr != nil {
		p.Add(thr)
		p.Legend.Add("threshold", thr)
	}
	return p
}

func (r *PlotRenderer) volPanel(rep *models.AssetReport) *plot.Plot {
	p := newTimePlot(rep.Name + ": rolling volatility")
	p.Y.Label.Text = "std dev"
	if rep.RollVol.Len() > 0 {
		if line, err := plotter.NewLine(featureXYs(rep.RollVol)); err == nil {
			line.Color = plotutil.Color(0)
			p.Add(line)
		}
	}
	return p
}

func (r *PlotRenderer) histPanel(rep *models.AssetReport) *plot.Plot {
	p := plot.New()
	p.Title.Text = rep.Name + ": return distribution"
	p.X.Label.Text = "log-return"
	p.Y.Label.Text = "density"

	vals := rep.Returns.Values()
	if len(vals) == 0 {
		return p
	}
	hist, err := plotter.NewHist(plotter.Values(vals), 40)
	if err != nil {
		return p
	}
	hist.Normalize(1)
	hist.FillColor = color.RGBA{R: 120, G: 160, B: 220, A: 255}
	p.Add(hist)

	mu, sigma := stat.MeanStdDev(vals, nil)
	if sigma > 0 {
		dist := distuv.Normal{Mu: mu, Sigma: sigma}
		f := plotter.NewFunction(dist.Prob)
		f.Color = color.RGBA{R: 200, A: 255}
		f.Samples = 200
		p.Add(f)
		p.Legend.Add("fitted normal", f)
	}
	return p
}

func (r *PlotRenderer) qqPanel(rep *models.AssetReport) *plot.Plot {
	p := plot.New()
	p.Title.Text = rep.Name + ": normal Q-Q"
	p.X.Label.Text = "theoretical quantile"
	p.Y.Label.Text = "sample quantile"

	vals := rep.Returns.Values()
	n := len(vals)
	if n < 3 {
		return p
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)

	mu, sigma := stat.MeanStdDev(sorted, nil)
	if sigma <= 0 {
		return p
	}
	dist := distuv.Normal{Mu: mu, Sigma: sigma}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = dist.Quantile((float64(i) + 0.5) / float64(n))
		pts[i].Y = sorted[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return p
	}
	scatter.GlyphStyle.Radius = vg.Points(1.2)
	p.Add(scatter)

	ref, err := plotter.NewLine(plotter.XYs{
		{X: pts[0].X, Y: pts[0].X},
		{X: pts[n-1].X, Y: pts[n-1].X},
	})
	if err == nil {
		ref.Color = color.RGBA{R: 200, A: 255}
		ref.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(ref)
	}
	return p
}

func (r *PlotRenderer) path(asset, suffix string) string {
	return filepath.Join(r.dir, slug(asset)+"_"+suffix+".png")
}

func (r *PlotRenderer) save(p *plot.Plot, path string) error {
	if err := p.Save(vg.Points(900), vg.Points(450), path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

func newTimePlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	return p
}

func featureXYs(fs models.FeatureSeries) plotter.XYs {
	xys := make(plotter.XYs, fs.Len())
	for i, pt := range fs.Points {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = pt.Value
	}
	return xys
}

// thresholdLine spans the alert threshold across the report's signal
// date range. Nil when there is nothing to span.
func thresholdLine(rep *models.AssetReport, threshold float64) *plotter.Line {
	z := rep.ZVol
	if z.Len() == 0 {
		z = rep.ZKS
	}
	if z.Len() == 0 {
		return nil
	}
	line, err := plotter.NewLine(plotter.XYs{
		{X: float64(z.Points[0].Date.Unix()), Y: threshold},
		{X: float64(z.Points[z.Len()-1].Date.Unix()), Y: threshold},
	})
	if err != nil {
		return nil
	}
	line.Color = color.RGBA{R: 200, A: 255}
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return line
}

func writePNG(img *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func slug(name string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
