package tasks

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/catalogdb/internal/formatter"
	"golang.org/x/time/rate"
)

// ManifestName is the file written next to the exported reports.
const ManifestName = "export_manifest.json"

// ExportOpts contains configuration for report exports.
type ExportOpts struct {
	Format     formatter.Format // Output format for every report
	OutputDir  string           // Output directory (default: catalog_reports_{epoch})
	NumWorkers int              // Concurrent workers (default: 3, max: 8)
	RateLimit  float64          // Reports started per second, 0 for no limit
}

// ReportResult is the outcome of one exported report.
type ReportResult struct {
	Name  string `json:"name"`
	File  string `json:"file,omitempty"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// Success reports whether the report was written.
func (r ReportResult) Success() bool { return r.Error == "" }

// ExportResult summarises an export and is written as the manifest.
type ExportResult struct {
	Format          formatter.Format `json:"format"`
	OutputDirectory string           `json:"output_directory"`
	ExportedAt      time.Time        `json:"exported_at"`
	TotalReports    int              `json:"total_reports"`
	Successful      int              `json:"successful"`
	Failed          int              `json:"failed"`
	Results         []ReportResult   `json:"results"`
	ManifestPath    string           `json:"-"`
}

// Export runs every report concurrently and writes one file per report plus a
// manifest to opts.OutputDir.
//
// Report failures are recorded in the result. An error is returned only when
// the output directory or manifest cannot be written or ctx is cancelled.
func (e *Exporter) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	reports []Report,
	opts ExportOpts,
) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatCSV
	}
	format, err := formatter.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("catalog_reports_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now().UTC(),
		TotalReports:    len(reports),
		Results:         make([]ReportResult, 0, len(reports)),
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan Report, len(reports))
	results := make(chan ReportResult, len(reports))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, report := range reports {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			e.sendProgress(prog, runningReportUpdate(i+1, len(reports), report.Name))
			jobs <- report
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success() {
			result.Successful++
			e.sendProgress(prog, reportWrittenUpdate(completed, len(reports), res.Name, res.Rows))
		} else {
			result.Failed++
			e.logger.Warn("report failed", "report", res.Name, "error", res.Error)
			e.sendProgress(prog, reportFailedUpdate(completed, len(reports), res.Name, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled after %d of %d reports: %w", completed, len(reports), err)
	}

	slices.SortFunc(result.Results, func(a, b ReportResult) int { return cmp.Compare(a.Name, b.Name) })

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	e.sendProgress(prog, writingManifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("reports exported", "dir", opts.OutputDir, "successful", result.Successful, "failed", result.Failed)
	return result, nil
}

// exportWorker is a worker goroutine that exports reports from the jobs channel.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan Report,
	results chan<- ReportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for report := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportReport(ctx, report, opts)
	}
}

// exportReport runs a single report and writes it in the requested format.
func (e *Exporter) exportReport(ctx context.Context, report Report, opts ExportOpts) ReportResult {
	result := ReportResult{Name: report.Name}

	table, err := report.Run(ctx, e.catalog)
	if err != nil {
		result.Error = fmt.Sprintf("query failed: %v", err)
		return result
	}
	result.Rows = len(table.Rows)

	data, err := formatter.Encode(table, opts.Format)
	if err != nil {
		result.Error = fmt.Sprintf("encode failed: %v", err)
		return result
	}

	path := filepath.Join(opts.OutputDir, report.Name+extension(opts.Format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		result.Error = fmt.Sprintf("write failed: %v", err)
		return result
	}
	result.File = path
	return result
}

func writeManifest(result *ExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func extension(f formatter.Format) string {
	switch f {
	case formatter.FormatCSV:
		return ".csv"
	case formatter.FormatJSON:
		return ".json"
	case formatter.FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}
