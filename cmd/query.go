package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/catalogdb/internal/formatter"
	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/shared"
	"github.com/desertthunder/catalogdb/internal/tasks"
	"github.com/urfave/cli/v3"
)

// runReport renders a single report to the runner's output.
func (r *Runner) runReport(ctx context.Context, cmd *cli.Command, report tasks.Report) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	c, done, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer done()

	r.logger.Debug("running report", "report", report.Name)
	t, err := report.Run(ctx, c)
	if err != nil {
		return err
	}
	return r.writeTable(t, format)
}

// yearRange reads --from and --to. A missing --to means a single year.
func yearRange(cmd *cli.Command) (models.YearRange, error) {
	years := models.Years(cmd.Int("from"), cmd.Int("from"))
	if cmd.IsSet("to") {
		years.End = cmd.Int("to")
	}
	if err := years.Validate(); err != nil {
		return years, fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}
	return years, nil
}

// QueryGenres prints genres ranked by song count.
func (r *Runner) QueryGenres(ctx context.Context, cmd *cli.Command) error {
	return r.runReport(ctx, cmd, tasks.TopGenresReport(cmd.Int("n")))
}

// QueryProlific prints artists ranked by songs released in a year range.
func (r *Runner) QueryProlific(ctx context.Context, cmd *cli.Command) error {
	years, err := yearRange(cmd)
	if err != nil {
		return err
	}
	return r.runReport(ctx, cmd, tasks.ProlificArtistsReport(years, cmd.Int("n")))
}

// QueryLastSingle prints artists whose latest single came out in --year.
func (r *Runner) QueryLastSingle(ctx context.Context, cmd *cli.Command) error {
	return r.runReport(ctx, cmd, tasks.LastSingleReport(cmd.Int("year")))
}

// QueryAlbumAndSingle prints artists with both singles and album tracks.
func (r *Runner) QueryAlbumAndSingle(ctx context.Context, cmd *cli.Command) error {
	return r.runReport(ctx, cmd, tasks.AlbumAndSingleReport())
}

// QueryMostRated prints songs ranked by ratings received in a year range.
func (r *Runner) QueryMostRated(ctx context.Context, cmd *cli.Command) error {
	years, err := yearRange(cmd)
	if err != nil {
		return err
	}
	return r.runReport(ctx, cmd, tasks.MostRatedReport(years, cmd.Int("n")))
}

// QueryEngaged prints users ranked by ratings given in a year range.
func (r *Runner) QueryEngaged(ctx context.Context, cmd *cli.Command) error {
	years, err := yearRange(cmd)
	if err != nil {
		return err
	}
	return r.runReport(ctx, cmd, tasks.MostEngagedReport(years, cmd.Int("n")))
}
