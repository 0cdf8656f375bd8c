// Package history provides the rolling sample window behind the
// temperature chart: a fixed-capacity FIFO with label de-duplication.
package history

import (
	"math"
	"time"
)

// DefaultCapacity is the number of samples kept for the chart.
const DefaultCapacity = 20

// Sample is a single normalized reading.
type Sample struct {
	At    time.Time // instant of the reading, UTC
	Label string    // display time, also the de-duplication key
	Value float64
}

// LabelFunc formats an instant into a display label.
type LabelFunc func(time.Time) string

// Buffer is an oldest-first sliding window of samples. Adjacent samples
// never share a label and the length never exceeds the capacity.
type Buffer struct {
	points []Sample
	max    int
}

// NewBuffer creates an empty window with the given capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		points: make([]Sample, 0, capacity),
		max:    capacity,
	}
}

// Seed fills a fresh window with placeholder samples one second apart,
// ending at now, with values in [baseline, baseline+jitter).
func Seed(capacity int, now time.Time, label LabelFunc, baseline, jitter float64, rnd func() float64) *Buffer {
	b := NewBuffer(capacity)
	for i := 0; i < b.max; i++ {
		at := now.Add(-time.Duration(b.max-1-i) * time.Second)
		b.Append(Sample{
			At:    at.UTC(),
			Label: label(at),
			Value: baseline + rnd()*jitter,
		})
	}
	return b
}

// Append adds a sample to the window. A sample carrying the same label as
// the newest one is dropped and Append reports false.
func (b *Buffer) Append(s Sample) bool {
	if n := len(b.points); n > 0 && b.points[n-1].Label == s.Label {
		return false
	}
	if len(b.points) >= b.max {
		copy(b.points, b.points[1:])
		b.points[len(b.points)-1] = s
	} else {
		b.points = append(b.points, s)
	}
	return true
}

// Len returns the number of samples held.
func (b *Buffer) Len() int { return len(b.points) }

// Cap returns the window capacity.
func (b *Buffer) Cap() int { return b.max }

// Last returns the newest sample.
func (b *Buffer) Last() (Sample, bool) {
	if len(b.points) == 0 {
		return Sample{}, false
	}
	return b.points[len(b.points)-1], true
}

// Min returns the lowest value in the window, or 0 if empty.
func (b *Buffer) Min() float64 {
	if len(b.points) == 0 {
		return 0
	}
	lo := math.MaxFloat64
	for _, p := range b.points {
		lo = math.Min(lo, p.Value)
	}
	return lo
}

// Max returns the highest value in the window, or 0 if empty.
func (b *Buffer) Max() float64 {
	if len(b.points) == 0 {
		return 0
	}
	hi := -math.MaxFloat64
	for _, p := range b.points {
		hi = math.Max(hi, p.Value)
	}
	return hi
}

// Avg returns the mean value in the window.
func (b *Buffer) Avg() float64 {
	if len(b.points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range b.points {
		sum += p.Value
	}
	return sum / float64(len(b.points))
}

// Recent returns up to n samples, newest first (for the reading log).
func (b *Buffer) Recent(n int) []Sample {
	if n <= 0 || len(b.points) == 0 {
		return nil
	}
	if n > len(b.points) {
		n = len(b.points)
	}
	out := make([]Sample, 0, n)
	for i := len(b.points) - 1; i >= len(b.points)-n; i-- {
		out = append(out, b.points[i])
	}
	return out
}

// Samples returns a copy of the window, oldest first.
func (b *Buffer) Samples() []Sample {
	out := make([]Sample, len(b.points))
	copy(out, b.points)
	return out
}
