package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/infrastructure/cli/helpers"
	"github.com/doeshing/medilogic/internal/infrastructure/render"
)

const reportTitle = "MediLogic report"

// NewExportCommand creates the export command
func NewExportCommand(rt *Runtime) *cobra.Command {
	var (
		sessionID string
		index     int
		outPath   string
		chartPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a printable HTML report of a recorded analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return errors.New(ErrOutRequired)
			}
			if index < 0 {
				return errors.New(ErrInvalidIndex)
			}
			ctx := cmd.Context()
			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}

			term := helpers.NewTerminal(io.Discard, container.Config.Vocabulary)
			controller, closeFn, err := helpers.OpenController(ctx, container, sessionID, term)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := viewEntry(ctx, controller, index); err != nil {
				return err
			}
			fragment := controller.Current()

			doc, err := container.Renderer.Report(reportTitle, fragment)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), outPath, doc); err != nil {
				return err
			}
			if outPath != StdoutPath {
				fmt.Fprintf(cmd.OutOrStdout(), MsgReportWritten, outPath)
			}

			if chartPath == "" {
				return nil
			}
			return exportChart(cmd.OutOrStdout(), chartPath, fragment)
		},
	}

	cmd.Flags().StringVar(&sessionID, FlagSession, domain.DefaultCLISession, "History session to export from")
	cmd.Flags().IntVar(&index, "index", 0, "History entry to export (0 is the newest)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Report file path, or - for stdout")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write the affinity chart as PNG")
	return cmd
}

func exportChart(out io.Writer, path string, fragment domain.Fragment) error {
	if fragment.Empty || len(fragment.Rows) == 0 {
		return errors.New(ErrNoChart)
	}
	var buf bytes.Buffer
	if err := render.ChartPNG(&buf, fragment.Rows); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), ReportFilePermissions); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(out, MsgChartWritten, path)
	return nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == StdoutPath {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, ReportFilePermissions); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
