package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/coldroom/internal/history"
	"github.com/luki/coldroom/internal/status"
)

func samplesFrom(base time.Time, step time.Duration, values ...float64) []history.Sample {
	out := make([]history.Sample, len(values))
	for i, v := range values {
		at := base.Add(time.Duration(i) * step)
		out[i] = history.Sample{At: at, Label: at.Format("15:04:05"), Value: v}
	}
	return out
}

func TestSparkline(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 1, 0, time.UTC)
	pts := samplesFrom(base, time.Second, -1, 2, 5, 9)
	lo, hi := Range(pts)

	result := Sparkline(pts, 10, lo, hi)
	if w := lipgloss.Width(result); w != 10 {
		t.Errorf("width = %d, want 10", w)
	}
	t.Logf("Sparkline: %s", result)
}

func TestSparklineEmpty(t *testing.T) {
	if got := Sparkline(nil, 5, 0, 1); !strings.Contains(got, "╌╌╌╌╌") {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := Sparkline(nil, 0, 0, 1); got != "" {
		t.Errorf("zero width = %q", got)
	}
}

func countBlocks(s string) int {
	n := 0
	for _, r := range s {
		for _, b := range sparkBlocks {
			if r == b {
				n++
			}
		}
	}
	return n
}

func TestMinuteTicksOnTimelineOnly(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 50, 0, time.UTC)
	var values []float64
	for i := 0; i < 20; i++ {
		values = append(values, 4+float64(i%5)/10)
	}
	pts := samplesFrom(base, time.Second, values...)

	result := Sparkline(pts, 20, 3, 5)
	if strings.Contains(result, "│") {
		t.Error("minute tick drawn over a sample")
	}
	if n := countBlocks(result); n != 20 {
		t.Errorf("%d blocks drawn, want one per sample (20)", n)
	}

	line := Timeline(pts, 20)
	if w := lipgloss.Width(line); w != 20 {
		t.Errorf("timeline width = %d, want 20", w)
	}
	// 14:01:00 is the 11th sample
	if idx := strings.Index(line, "╵14:01"); idx < 0 {
		t.Errorf("timeline %q missing the 14:01 tick", line)
	} else if pos := len([]rune(line[:idx])); pos != 10 {
		t.Errorf("tick at column %d, want 10", pos)
	}
}

func TestSparklineKeepsNewest(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 1, 0, time.UTC)
	pts := samplesFrom(base, 5*time.Second, 0, 0, 0, 0, 10)

	result := Sparkline(pts, 3, 0, 10)
	if w := lipgloss.Width(result); w != 3 {
		t.Fatalf("width = %d, want 3", w)
	}
	if !strings.Contains(result, "█") {
		t.Errorf("newest (max) sample not drawn: %q", result)
	}
}

func TestRange(t *testing.T) {
	lo, hi := Range(nil)
	if lo != 0 || hi != 1 {
		t.Errorf("empty range = %v..%v", lo, hi)
	}

	flat := samplesFrom(time.Now(), time.Second, 4, 4, 4)
	lo, hi = Range(flat)
	if lo >= 4 || hi <= 4 {
		t.Errorf("flat range %v..%v does not bracket 4", lo, hi)
	}
}

func TestScale(t *testing.T) {
	sp := status.SetPoint{Min: 2, Max: 6}
	got := Scale(4, sp, 0, 10, 11)
	if w := lipgloss.Width(got); w != 11 {
		t.Errorf("width = %d, want 11", w)
	}
	if strings.Count(got, "◆") != 1 {
		t.Errorf("scale %q should mark current once", got)
	}
	if strings.Count(got, "▪") != 2 {
		t.Errorf("scale %q should mark both bounds", got)
	}
}

func TestBandColors(t *testing.T) {
	seen := map[lipgloss.Color]bool{}
	for _, b := range []status.Band{status.Frozen, status.OptimalCold, status.Caution, status.Hot} {
		seen[BandColor(b)] = true
	}
	if len(seen) != 4 {
		t.Errorf("bands share colors: %v", seen)
	}
}

func TestTempValue(t *testing.T) {
	if got := TempValue(4.25); !strings.Contains(got, "4.2°C") && !strings.Contains(got, "4.3°C") {
		t.Errorf("TempValue = %q", got)
	}
}
