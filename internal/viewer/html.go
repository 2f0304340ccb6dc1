package viewer

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rest-for-physics/tracklib/internal/track"
)

// RenderHTML writes a page with one scatter chart per event and projection.
// Every track becomes a series named by its ID and hierarchy level; point
// values are (coordinate, Z, energy). Nil events are skipped.
func RenderHTML(w io.Writer, events []*track.Event) error {
	page := components.NewPage()

	for _, ev := range events {
		if ev == nil {
			continue
		}
		for _, proj := range Projections {
			scatter := charts.NewScatter()
			scatter.SetGlobalOptions(
				charts.WithInitializationOpts(opts.Initialization{PageTitle: "Track events", Width: "900px", Height: "600px"}),
				charts.WithTitleOpts(opts.Title{
					Title:    fmt.Sprintf("Event %d %s", ev.ID, proj.Name),
					Subtitle: fmt.Sprintf("tracks=%d ok=%t", ev.NumberOfTracks(), ev.OK),
				}),
				charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
				charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
				charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: proj.Axis.String() + " (mm)", NameLocation: "middle", NameGap: 25}),
				charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Z (mm)", NameLocation: "middle", NameGap: 30}),
			)
			series := 0
			for i, t := range ev.Tracks() {
				pts, energies := points(t, proj)
				if len(pts) == 0 {
					continue
				}
				data := make([]opts.ScatterData, len(pts))
				for j, pt := range pts {
					data[j] = opts.ScatterData{Value: []interface{}{pt.X, pt.Y, energies[j]}}
				}
				name := fmt.Sprintf("track %d (level %d)", t.ID(), ev.Level(i))
				scatter.AddSeries(name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
				series++
			}
			if series > 0 {
				page.AddCharts(scatter)
			}
		}
	}
	return page.Render(w)
}
