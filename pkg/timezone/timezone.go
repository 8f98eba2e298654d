// Package timezone provides the zone conversion and validity helpers the
// validator and the host executor share. All functions are pure: they
// load zones through the platform tz database and never cache state.
package timezone

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidValue marks inputs that are neither a time.Time nor an
	// ISO 8601 string.
	ErrInvalidValue = errors.New("timezone: invalid time value")

	// ErrInvalidZone marks zone names the tz database cannot resolve.
	ErrInvalidZone = errors.New("timezone: invalid zone")
)

// Options is the timezone block of the module configuration.
type Options struct {
	Type     string `json:"type" yaml:"type" env:"TYPE"`
	Validate bool   `json:"validate" yaml:"validate" env:"VALIDATE"`
	Strict   bool   `json:"strict" yaml:"strict" env:"STRICT"`
}

// isoLayouts are the accepted textual timestamp shapes, tried in order.
// Offset-less layouts are interpreted in the source zone.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Convert re-expresses value in the target zone. value is a time.Time or
// an ISO 8601 string; strings without an explicit offset are read as
// wall-clock time in the source zone.
func Convert(value any, from, to string) (time.Time, error) {
	fromLoc, err := loadZone(from)
	if err != nil {
		return time.Time{}, err
	}
	toLoc, err := loadZone(to)
	if err != nil {
		return time.Time{}, err
	}
	t, err := coerce(value, fromLoc)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(toLoc), nil
}

// ConvertFormat converts like Convert and renders the result with the
// given layout.
func ConvertFormat(value any, from, to, layout string) (string, error) {
	t, err := Convert(value, from, to)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// ToLocal re-expresses a value from the given zone in the process-local
// zone.
func ToLocal(value any, from string) (time.Time, error) {
	fromLoc, err := loadZone(from)
	if err != nil {
		return time.Time{}, err
	}
	t, err := coerce(value, fromLoc)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(time.Local), nil
}

// ToLocalFormat converts like ToLocal and renders the result with the
// given layout.
func ToLocalFormat(value any, from, layout string) (string, error) {
	t, err := ToLocal(value, from)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// FromLocal interprets a value in the process-local zone and re-expresses
// it in the target zone.
func FromLocal(value any, to string) (time.Time, error) {
	toLoc, err := loadZone(to)
	if err != nil {
		return time.Time{}, err
	}
	t, err := coerce(value, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(toLoc), nil
}

// FromLocalFormat converts like FromLocal and renders the result with
// the given layout.
func FromLocalFormat(value any, to, layout string) (string, error) {
	t, err := FromLocal(value, to)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// InDST reports whether the zone currently observes daylight saving.
func InDST(zone string) (bool, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return false, err
	}
	return inDSTAt(time.Now().In(loc), loc), nil
}

// inDSTAt compares the offset at t with the zone's standard offset. The
// standard offset is the smaller of the January and July offsets, which
// holds in both hemispheres.
func inDSTAt(t time.Time, loc *time.Location) bool {
	_, cur := t.Zone()
	_, jan := time.Date(t.Year(), time.January, 1, 12, 0, 0, 0, loc).Zone()
	_, jul := time.Date(t.Year(), time.July, 1, 12, 0, 0, 0, loc).Zone()
	std := jan
	if jul < std {
		std = jul
	}
	return cur > std
}

// Offset returns the zone's UTC offset as "±HH:MM" for the given instant,
// or for now when no instant is supplied.
func Offset(zone string, at ...time.Time) (string, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return "", err
	}
	t := time.Now()
	if len(at) > 0 {
		t = at[0]
	}
	_, secs := t.In(loc).Zone()
	sign := "+"
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%02d:%02d", sign, secs/3600, (secs%3600)/60), nil
}

// IsValid reports whether spec names a resolvable zone. spec may be a
// plain zone-name string or an Options value whose Type holds the name;
// nil and unsupported shapes are invalid.
func IsValid(spec any) bool {
	switch v := spec.(type) {
	case string:
		return zoneResolves(v)
	case Options:
		return zoneResolves(v.Type)
	case *Options:
		return v != nil && zoneResolves(v.Type)
	default:
		return false
	}
}

func zoneResolves(name string) bool {
	_, err := loadZone(name)
	return err == nil
}

func loadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		// time.LoadLocation("") silently means UTC; an empty zone name is
		// a caller bug here, not a request for UTC.
		return nil, fmt.Errorf("%w: empty zone name", ErrInvalidZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZone, name)
	}
	return loc, nil
}

func coerce(value any, loc *time.Location) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, fmt.Errorf("%w: zero time", ErrInvalidValue)
		}
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidValue, v)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, value)
	}
}
