package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Phase identifies a stage of an export.
type Phase int

const (
	RunReport Phase = iota
	WriteReport
	ReportFailed
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case RunReport:
		return "run_report"
	case WriteReport:
		return "write_report"
	case ReportFailed:
		return "report_failed"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func runningReportUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunReport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Running %s (%d/%d)", name, step, total),
	}
}

func reportWrittenUpdate(step, total int, name string, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Wrote %s: %d rows (%d/%d)", name, rows, step, total),
	}
}

func reportFailedUpdate(step, total int, name, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReportFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed %s: %s (%d/%d)", name, reason, step, total),
	}
}

func writingManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest %s", path),
	}
}
