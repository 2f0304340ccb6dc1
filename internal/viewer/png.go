// Package viewer draws track events: PNG projections for reports and an
// HTML page of interactive scatter charts for browsing a run.
package viewer

import (
	"fmt"
	"image/color"
	"path"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rest-for-physics/tracklib/internal/fsutil"
	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// Projection is one drawable plane. Axis is the transverse axis; depth is
// always Z.
type Projection struct {
	Name string
	Axis hits.HitType
}

// Projections lists the planes the viewer draws.
var Projections = []Projection{
	{Name: "xz", Axis: hits.X},
	{Name: "yz", Axis: hits.Y},
}

// points returns the hits of t that define p's transverse axis and depth,
// in track order, with their energies.
func points(t *track.Track, p Projection) (plotter.XYs, []float64) {
	hs := t.Hits()
	out := make(plotter.XYs, 0, hs.Len())
	energies := make([]float64, 0, hs.Len())
	for i := 0; i < hs.Len(); i++ {
		if !hs.Type(i).Has(p.Axis | hits.Z) {
			continue
		}
		h := hs.At(i)
		out = append(out, plotter.XY{X: h.Coord(p.Axis), Y: h.Pos.Z})
		energies = append(energies, h.Energy)
	}
	return out, energies
}

// RenderPNG writes one PNG per projection holding the top-level tracks of
// ev, each drawn as its hits joined in order. Projections without hits are
// skipped. It returns the written paths.
func RenderPNG(fsys fsutil.FileSystem, dir string, ev *track.Event) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	top := ev.TopLevelTracks()
	colors := generateColors(len(top))

	var written []string
	for _, proj := range Projections {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Event %d - %s", ev.ID, proj.Name)
		p.X.Label.Text = proj.Axis.String() + " (mm)"
		p.Y.Label.Text = "Z (mm)"

		drawn := 0
		for i, t := range top {
			pts, _ := points(t, proj)
			if len(pts) == 0 {
				continue
			}
			line, scatter, err := plotter.NewLinePoints(pts)
			if err != nil {
				return nil, err
			}
			line.Color = colors[i]
			line.Width = vg.Points(1)
			scatter.Color = colors[i]
			scatter.Shape = draw.CircleGlyph{}
			p.Add(line, scatter)
			p.Legend.Add(fmt.Sprintf("track %d", t.ID()), line, scatter)
			drawn++
		}
		if drawn == 0 {
			continue
		}
		p.Legend.Top = true
		p.Legend.Left = false
		p.Legend.XOffs = -10
		p.Legend.YOffs = -10

		file := path.Join(dir, fmt.Sprintf("event_%06d_%s.png", ev.ID, proj.Name))
		if err := savePNG(fsys, p, file); err != nil {
			return nil, err
		}
		written = append(written, file)
	}
	monitoring.Diagf("[Viewer] event %d: wrote %d plots to %s", ev.ID, len(written), dir)
	return written, nil
}

func savePNG(fsys fsutil.FileSystem, p *plot.Plot, file string) error {
	wt, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", file, err)
	}
	f, err := fsys.Create(file)
	if err != nil {
		return fmt.Errorf("create %s: %w", file, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", file, err)
	}
	return f.Close()
}

// generateColors spreads n colors evenly around the hue circle.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := range colors {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return channel(p, q, h+1.0/3), channel(p, q, h), channel(p, q, h-1.0/3)
}

func channel(p, q, t float64) uint8 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	var v float64
	switch {
	case t < 1.0/6:
		v = p + (q-p)*6*t
	case t < 0.5:
		v = q
	case t < 2.0/3:
		v = p + (q-p)*(2.0/3-t)*6
	default:
		v = p
	}
	return uint8(v * 255)
}
