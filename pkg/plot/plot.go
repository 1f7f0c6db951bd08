// Package plot renders record progression charts as standalone HTML.
package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

const (
	chartWidth  = "1200px"
	chartHeight = "600px"
)

// RecordChart builds a line chart of z and v record values over the
// record-setting n, log-scaled on the walk axis by using the n labels as
// categories.
func RecordChart(events []walker.Event, title string) *charts.Line {
	labels := make([]string, len(events))
	zData := make([]opts.LineData, len(events))
	vData := make([]opts.LineData, len(events))

	for i, ev := range events {
		labels[i] = ev.N.String()
		zData[i] = opts.LineData{Value: ev.Z}
		vData[i] = opts.LineData{Value: ev.V}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "n"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "record value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(labels)
	line.AddSeries("z(n)", zData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	line.AddSeries("v(n)", vData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)

	return line
}

// WriteHTML renders the record chart for events to w.
func WriteHTML(events []walker.Event, title string, w io.Writer) error {
	err := RecordChart(events, title).Render(w)
	if err != nil {
		return fmt.Errorf("render record chart: %w", err)
	}

	return nil
}
