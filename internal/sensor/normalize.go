package sensor

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/luki/coldroom/internal/history"
)

// DefaultLayout is the 24-hour wall-clock label format.
const DefaultLayout = "15:04:05"

// ErrMalformed marks a payload with missing or unusable fields.
var ErrMalformed = errors.New("malformed sensor payload")

var (
	zoneSuffixRe    = regexp.MustCompile(`(Z|[+-]\d{2}:?\d{2})$`)
	compactOffsetRe = regexp.MustCompile(`([+-]\d{2})(\d{2})$`)
)

// Normalizer converts sensor readings into history samples. Labels are
// rendered in Location using Layout.
type Normalizer struct {
	Location *time.Location
	Layout   string
}

// NewNormalizer returns a normalizer for the given display zone and layout.
// Empty values fall back to local time and DefaultLayout.
func NewNormalizer(loc *time.Location, layout string) Normalizer {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultLayout
	}
	return Normalizer{Location: loc, Layout: layout}
}

// Label formats an instant as a display label.
func (n Normalizer) Label(t time.Time) string {
	return t.In(n.Location).Format(n.Layout)
}

// Normalize validates r and returns its temperature sample and humidity.
func (n Normalizer) Normalize(r Reading) (history.Sample, float64, error) {
	temp, err := finiteValue("temperature", r.Temperature)
	if err != nil {
		return history.Sample{}, 0, err
	}
	hum, err := finiteValue("humidity", r.Humidity)
	if err != nil {
		return history.Sample{}, 0, err
	}
	at, err := ParseTimestamp(r.Timestamp)
	if err != nil {
		return history.Sample{}, 0, err
	}
	return history.Sample{At: at, Label: n.Label(at), Value: temp}, hum, nil
}

// ParseTimestamp parses an RFC 3339 timestamp. A space may separate date
// and time, offsets may omit the colon (+0700), and a timestamp without a
// zone designator is taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrMalformed)
	}
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	if hasZone(s) {
		s = compactOffsetRe.ReplaceAllString(s, "$1:$2")
	} else {
		s += "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrMalformed, s, err)
	}
	return t.UTC(), nil
}

func hasZone(s string) bool {
	// the date part has hyphens that would look like an offset
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return zoneSuffixRe.MatchString(s[i:])
	}
	return zoneSuffixRe.MatchString(s)
}

func finiteValue(field string, n Number) (float64, error) {
	if !n.Set {
		return 0, fmt.Errorf("%w: %s is not numeric (%s)", ErrMalformed, field, n.Raw)
	}
	if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrMalformed, field)
	}
	return n.Value, nil
}
