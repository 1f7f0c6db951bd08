package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/zaremba/pkg/plot"
	"github.com/Sumatoshi-tech/zaremba/pkg/render"
)

// PlotCommand holds flags for the plot command.
type PlotCommand struct {
	input  string
	output string
	title  string
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	pc := &PlotCommand{}

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a record series as an HTML chart",
		Long: `Reads record events produced by "records --format json" and renders the
z and v series as an interactive HTML chart.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return pc.run()
		},
	}

	cmd.Flags().StringVarP(&pc.input, "input", "i", "", "JSON events file (default stdin)")
	cmd.Flags().StringVarP(&pc.output, "output", "o", "records.html", "output HTML file")
	cmd.Flags().StringVar(&pc.title, "title", "Zaremba records", "chart title")

	return cmd
}

func (pc *PlotCommand) run() error {
	var in io.Reader = os.Stdin

	if pc.input != "" {
		f, err := os.Open(pc.input)
		if err != nil {
			return err
		}
		defer f.Close()

		in = f
	}

	events, err := render.ReadEvents(in)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return fmt.Errorf("no events in input")
	}

	out, err := os.Create(pc.output)
	if err != nil {
		return err
	}
	defer out.Close()

	err = plot.WriteHTML(events, pc.title, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %s (%d records)\n", pc.output, len(events))

	return nil
}
