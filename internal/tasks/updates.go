package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase identifies the stage an operation is in.
type Phase int

const (
	FetchLiked Phase = iota
	FetchHistory
	FetchPlaylists
	SaveLibrary
	ExportCollection
)

func (p Phase) String() string {
	switch p {
	case FetchLiked:
		return "fetch_liked"
	case FetchHistory:
		return "fetch_history"
	case FetchPlaylists:
		return "fetch_playlists"
	case SaveLibrary:
		return "save_library"
	case ExportCollection:
		return "export_collection"
	default:
		return ""
	}
}

func fetchUpdate(phase Phase, step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", what),
	}
}

func fetchedUpdate(phase Phase, step, total int, what string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loaded %d %s", count, what),
		Data:    count,
	}
}

func fetchFailedUpdate(phase Phase, step, total int, what string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Could not load %s: %v", what, err),
	}
}

func saveUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveLibrary,
		Step:    1,
		Total:   1,
		Message: "Saving library...",
	}
}

func exportingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
