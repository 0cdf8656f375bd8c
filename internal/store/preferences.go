package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/luki/coldroom/internal/status"
)

// Preference keys.
const (
	KeyMinSetPoint = "minSetPoint"
	KeyMaxSetPoint = "maxSetPoint"
	KeyTheme       = "dashboardTheme"
)

const (
	themeDark  = "dark"
	themeLight = "light"
)

// Preferences is everything the dashboard remembers between runs.
type Preferences struct {
	SetPoint status.SetPoint
	Dark     bool
}

// LoadPreferences reads preferences from s. Missing or unusable values
// keep their defaults; the returned error reports storage failures and
// rejected values, and the returned Preferences is always usable.
func LoadPreferences(ctx context.Context, s Store, defaults Preferences) (Preferences, error) {
	p := defaults
	var errs []error

	sp := p.SetPoint
	if v, ok, err := loadFloat(ctx, s, KeyMinSetPoint); err != nil {
		errs = append(errs, err)
	} else if ok {
		sp.Min = v
	}
	if v, ok, err := loadFloat(ctx, s, KeyMaxSetPoint); err != nil {
		errs = append(errs, err)
	} else if ok {
		sp.Max = v
	}
	if err := sp.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("stored set-point: %w", err))
	} else {
		p.SetPoint = sp
	}

	if v, ok, err := s.Load(ctx, KeyTheme); err != nil {
		errs = append(errs, err)
	} else if ok {
		p.Dark = v == themeDark
	}

	return p, errors.Join(errs...)
}

// SaveSetPoint writes both set-point bounds.
func SaveSetPoint(ctx context.Context, s Store, sp status.SetPoint) error {
	if err := s.Save(ctx, KeyMinSetPoint, formatFloat(sp.Min)); err != nil {
		return err
	}
	return s.Save(ctx, KeyMaxSetPoint, formatFloat(sp.Max))
}

// SaveTheme writes the theme flag.
func SaveTheme(ctx context.Context, s Store, dark bool) error {
	v := themeLight
	if dark {
		v = themeDark
	}
	return s.Save(ctx, KeyTheme, v)
}

func loadFloat(ctx context.Context, s Store, key string) (float64, bool, error) {
	raw, ok, err := s.Load(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("stored %s %q: %w", key, raw, err)
	}
	return v, true, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
