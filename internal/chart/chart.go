// Package chart renders the temperature history as a colored sparkline, a
// timeline row with minute ticks and a set-point scale bar.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/coldroom/internal/history"
	"github.com/luki/coldroom/internal/status"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	tickStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

// BandColor returns the display color of a storage band.
func BandColor(b status.Band) lipgloss.Color {
	switch b {
	case status.Frozen:
		return lipgloss.Color("39") // blue
	case status.OptimalCold:
		return lipgloss.Color("78") // soft green
	case status.Caution:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("196") // red
	}
}

// Range returns the value range to plot samples in, padded so a flat line
// sits mid-chart.
func Range(samples []history.Sample) (lo, hi float64) {
	if len(samples) == 0 {
		return 0, 1
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		lo = math.Min(lo, s.Value)
		hi = math.Max(hi, s.Value)
	}
	pad := (hi - lo) * 0.1
	if pad < 0.5 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}

// isMinuteTick reports whether sample i starts a new minute.
func isMinuteTick(samples []history.Sample, i int) bool {
	at := samples[i].At
	if at.IsZero() {
		return false
	}
	if at.Second() == 0 {
		return true
	}
	if i > 0 && !samples[i-1].At.IsZero() {
		return at.Minute() != samples[i-1].At.Minute()
	}
	return false
}

// Sparkline renders samples oldest to newest, right-aligned in width cells.
// Each block is colored by its storage band. Every sample keeps its cell;
// minute boundaries are marked on the Timeline row instead.
func Sparkline(samples []history.Sample, width int, lo, hi float64) string {
	if width <= 0 {
		return ""
	}
	if len(samples) == 0 {
		return dimStyle.Render(strings.Repeat("╌", width))
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	span := hi - lo
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	sb.WriteString(dimStyle.Render(strings.Repeat("╌", width-len(samples))))

	for _, s := range samples {
		norm := math.Max(0, math.Min(1, (s.Value-lo)/span))
		idx := min(int(norm*7), 7)

		band := status.Classify(s.Value)
		style := lipgloss.NewStyle().Foreground(BandColor(band))
		if band == status.Hot {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}
	return sb.String()
}

// Timeline renders a tick and an HH:MM label under the first sample of each
// minute in the matching Sparkline. Labels that would overlap are dropped.
func Timeline(samples []history.Sample, width int) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}
	padLen := width - len(samples)

	line := []rune(strings.Repeat(" ", width))
	lastEnd := -1
	for i := range samples {
		if !isMinuteTick(samples, i) {
			continue
		}
		label := []rune("╵" + samples[i].At.Format("15:04"))
		start := padLen + i
		end := start + len(label)
		if end > width || start <= lastEnd {
			continue
		}
		copy(line[start:], label)
		lastEnd = end
	}
	return tickStyle.Render(string(line))
}

// Scale renders a bar from lo to hi with the set-point bounds marked and
// the current value drawn as a diamond, green inside the range and red
// outside it.
func Scale(current float64, sp status.SetPoint, lo, hi float64, width int) string {
	if width <= 0 {
		return ""
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	pos := func(v float64) int {
		p := int(float64(width-1) * (v - lo) / span)
		return max(0, min(width-1, p))
	}

	minPos, maxPos := pos(sp.Min), pos(sp.Max)
	curPos := pos(current)

	curColor := lipgloss.Color("196")
	if sp.Contains(current) {
		curColor = lipgloss.Color("78")
	}
	curStyle := lipgloss.NewStyle().Foreground(curColor).Bold(true)
	boundStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	rangeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == curPos:
			sb.WriteString(curStyle.Render("◆"))
		case i == minPos || i == maxPos:
			sb.WriteString(boundStyle.Render("▪"))
		case i > minPos && i < maxPos:
			sb.WriteString(rangeStyle.Render("─"))
		default:
			sb.WriteString(dimStyle.Render("·"))
		}
	}
	return sb.String()
}

// TempValue renders a temperature colored by its storage band.
func TempValue(temp float64) string {
	band := status.Classify(temp)
	style := lipgloss.NewStyle().Foreground(BandColor(band))
	if band == status.Hot {
		style = style.Bold(true)
	}
	return style.Render(fmt.Sprintf("%5.1f°C", temp))
}
