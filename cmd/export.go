package main

import (
	"context"

	"github.com/desertthunder/catalogdb/internal/formatter"
	"github.com/desertthunder/catalogdb/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes every standard report to a directory.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	years, err := yearRange(cmd)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	c, done, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer done()

	reports := tasks.StandardReports(tasks.ReportParams{
		Years: years,
		Year:  cmd.Int("year"),
		Limit: cmd.Int("n"),
	})

	r.logger.Info("exporting reports", "count", len(reports), "dir", cmd.String("dir"), "format", format)

	progressCh := make(chan tasks.ProgressUpdate, 20)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for update := range progressCh {
			switch update.Phase {
			case tasks.WriteReport:
				r.writePlain("%s %s\n", r.palette.Mark(true), update.Message)
			case tasks.ReportFailed:
				r.writePlain("%s %s\n", r.palette.Mark(false), update.Message)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()

	result, err := tasks.NewExporter(c, r.logger).Export(ctx, progressCh, reports, tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
	})
	close(progressCh)
	<-progressDone

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Reports: %d/%d written\n", result.Successful, result.TotalReports)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
