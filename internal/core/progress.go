package core

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// ProgressBarSize is the number of units in the rendered bar
	ProgressBarSize = 20
	// LiveIndicator replaces the trailing time label for live streams
	LiveIndicator = " ◉ LIVE"

	barLine   = "▬"
	barSlider = "🔘"

	secondsPerDay = 24 * 60 * 60
)

// ProgressView is the now-playing telemetry for one clock reading.
type ProgressView struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	ElapsedSeconds   int `json:"elapsed_seconds"`
	RemainingSeconds int `json:"remaining_seconds"`
	// Ratio is the filled fraction of the bar, always within [0, 1].
	Ratio  float64 `json:"ratio"`
	Filled int     `json:"filled"`

	// ShowProgress is false when the track has no positive duration; the fields below are then empty.
	ShowProgress   bool   `json:"show_progress"`
	Bar            string `json:"bar,omitempty"`
	ElapsedLabel   string `json:"elapsed_label,omitempty"`
	TotalLabel     string `json:"total_label,omitempty"`
	RemainingLabel string `json:"remaining_label,omitempty"`
}

// Line renders "elapsed[bar]total" as a single line.
func (v ProgressView) Line() string {
	if !v.ShowProgress {
		return ""
	}
	return v.ElapsedLabel + "[" + v.Bar + "]" + v.TotalLabel
}

// ComputeProgress derives elapsed/remaining time and a proportional bar from a playback clock
// reading. Remaining time is taken from the exact reading and truncated to whole seconds only
// afterwards. The bar block is only shown when the track has a positive duration.
func ComputeProgress(elapsed time.Duration, track Track) ProgressView {
	if elapsed < 0 {
		elapsed = 0
	}
	seek := int(elapsed / time.Second)
	duration := track.DurationSeconds
	remaining := time.Duration(duration)*time.Second - elapsed

	view := ProgressView{
		Title:            track.Title,
		URL:              track.URL,
		ElapsedSeconds:   seek,
		RemainingSeconds: int(remaining / time.Second),
	}

	reference := duration
	if reference <= 0 {
		reference = seek
	}
	bar, filled, ratio := renderBar(reference, seek, ProgressBarSize)
	view.Ratio = ratio
	view.Filled = filled

	if duration <= 0 {
		return view
	}

	view.ShowProgress = true
	view.Bar = bar
	view.ElapsedLabel = FormatClock(seek)
	view.TotalLabel = totalLabel(duration)
	view.RemainingLabel = FormatClock(view.RemainingSeconds)
	return view
}

// totalLabel is only called with a positive duration, so the live branch is unreachable from ComputeProgress.
func totalLabel(duration int) string {
	if duration == 0 {
		return LiveIndicator
	}
	return FormatClock(duration)
}

// renderBar draws size units with the slider on the last filled unit. A zero total with a
// zero position renders an empty bar; a zero total with any progress renders a full one.
func renderBar(total, current, size int) (bar string, filled int, ratio float64) {
	switch {
	case total > 0:
		ratio = float64(current) / float64(total)
	case current > 0:
		ratio = 1
	}
	ratio = math.Max(0, math.Min(1, ratio))

	filled = int(math.Round(float64(size) * ratio))

	var b strings.Builder
	if filled > 0 {
		b.WriteString(strings.Repeat(barLine, filled-1))
		b.WriteString(barSlider)
	}
	b.WriteString(strings.Repeat(barLine, size-filled))
	return b.String(), filled, ratio
}

// FormatClock renders whole seconds as HH:MM:SS. Hours wrap at 24 and negative values clamp to zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	seconds %= secondsPerDay
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
