package cronexpr

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Field identifies one of the five cron positions.
type Field int

const (
	FieldMinute Field = iota
	FieldHour
	FieldDayOfMonth
	FieldMonth
	FieldDayOfWeek
)

func (f Field) String() string {
	switch f {
	case FieldMinute:
		return "minute"
	case FieldHour:
		return "hour"
	case FieldDayOfMonth:
		return "dayOfMonth"
	case FieldMonth:
		return "month"
	case FieldDayOfWeek:
		return "dayOfWeek"
	default:
		return "unknown"
	}
}

type bounds struct{ min, max int }

var fieldBounds = [...]bounds{
	FieldMinute:     {0, 59},
	FieldHour:       {0, 23},
	FieldDayOfMonth: {1, 31},
	FieldMonth:      {1, 12},
	FieldDayOfWeek:  {0, 6},
}

// ParsedCron holds the resolved occurrence set of every field.
// Each slice is ascending, duplicate-free and within the field bounds.
type ParsedCron struct {
	Minute     []int `json:"minute"`
	Hour       []int `json:"hour"`
	DayOfMonth []int `json:"dayOfMonth"`
	Month      []int `json:"month"`
	DayOfWeek  []int `json:"dayOfWeek"`
}

// ParseError describes a malformed or out-of-range cron field. It always
// carries the field name and the offending literal so callers can build
// an actionable message without re-parsing.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cron %s field %q: %s", e.Field, e.Value, e.Reason)
}

// Parse converts a 5-field cron expression into its occurrence sets.
// The expression splits on any Unicode whitespace; anything other than
// exactly five tokens fails.
func Parse(expr string) (*ParsedCron, error) {
	tokens := strings.Fields(expr)
	if len(tokens) != 5 {
		return nil, &ParseError{
			Field:  "expression",
			Value:  expr,
			Reason: fmt.Sprintf("expected 5 fields, got %d", len(tokens)),
		}
	}

	p := &ParsedCron{}
	for i, dst := range []*[]int{&p.Minute, &p.Hour, &p.DayOfMonth, &p.Month, &p.DayOfWeek} {
		vals, err := ParseField(Field(i), tokens[i])
		if err != nil {
			return nil, err
		}
		*dst = vals
	}
	return p, nil
}

// ParseField resolves a single field token against the field's bounds.
func ParseField(f Field, token string) ([]int, error) {
	if f < FieldMinute || f > FieldDayOfWeek {
		return nil, &ParseError{Field: f.String(), Value: token, Reason: "unknown field"}
	}
	vals, err := parseToken(f, fieldBounds[f], strings.TrimSpace(token))
	if err != nil {
		return nil, asParseError(f, token, err)
	}
	return vals, nil
}

// asParseError keeps the one-taxonomy guarantee: anything that is not
// already a *ParseError gets wrapped into one.
func asParseError(f Field, token string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Field: f.String(), Value: token, Reason: err.Error()}
}

func parseToken(f Field, b bounds, tok string) ([]int, error) {
	switch {
	case tok == "*":
		return sequence(b.min, b.max, 1), nil
	case strings.Contains(tok, ","):
		return parseList(f, b, tok)
	case strings.Contains(tok, "/"):
		return parseStep(f, b, tok)
	case strings.Contains(tok, "-"):
		return parseRange(f, b, tok)
	default:
		v, err := parseValue(f, b, tok)
		if err != nil {
			return nil, err
		}
		return []int{v}, nil
	}
}

func parseList(f Field, b bounds, tok string) ([]int, error) {
	set := make(map[int]struct{})
	for _, part := range strings.Split(tok, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, &ParseError{Field: f.String(), Value: tok, Reason: "empty list element"}
		}
		vals, err := parseToken(f, b, part)
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			set[v] = struct{}{}
		}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}

func parseStep(f Field, b bounds, tok string) ([]int, error) {
	base, stepStr, _ := strings.Cut(tok, "/")
	step, err := strconv.Atoi(strings.TrimSpace(stepStr))
	if err != nil || step <= 0 || step > b.max {
		return nil, &ParseError{
			Field:  f.String(),
			Value:  tok,
			Reason: fmt.Sprintf("step must be a positive integer <= %d", b.max),
		}
	}

	base = strings.TrimSpace(base)
	switch {
	case base == "*":
		start := b.min
		if f == FieldMonth {
			// Contractual grammar: a stepped month wildcard starts at 2,
			// so "*/2" yields 2,4,6,8,10,12.
			start = 2
		}
		return sequence(start, b.max, step), nil
	case strings.Contains(base, "-"):
		rng, err := parseRange(f, b, base)
		if err != nil {
			return nil, err
		}
		// Positional filtering: keep the elements at offsets 0, step,
		// 2*step... of the resolved range.
		out := make([]int, 0, len(rng)/step+1)
		for i := 0; i < len(rng); i += step {
			out = append(out, rng[i])
		}
		return out, nil
	default:
		start, err := parseValue(f, b, base)
		if err != nil {
			return nil, err
		}
		return sequence(start, b.max, step), nil
	}
}

// rangeRE tolerates internal spaces around the dash ("1 - 5").
var rangeRE = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)

func parseRange(f Field, b bounds, tok string) ([]int, error) {
	m := rangeRE.FindStringSubmatch(tok)
	if m == nil {
		return nil, &ParseError{Field: f.String(), Value: tok, Reason: "invalid range"}
	}
	start, err := parseValue(f, b, m[1])
	if err != nil {
		return nil, err
	}
	end, err := parseValue(f, b, m[2])
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, &ParseError{Field: f.String(), Value: tok, Reason: "range start exceeds end"}
	}
	return sequence(start, end, 1), nil
}

func parseValue(f Field, b bounds, tok string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return 0, &ParseError{Field: f.String(), Value: tok, Reason: "not an integer"}
	}
	if v < b.min || v > b.max {
		return 0, &ParseError{
			Field:  f.String(),
			Value:  tok,
			Reason: fmt.Sprintf("value out of range [%d,%d]", b.min, b.max),
		}
	}
	return v, nil
}

func sequence(start, end, step int) []int {
	out := make([]int, 0, (end-start)/step+1)
	for v := start; v <= end; v += step {
		out = append(out, v)
	}
	return out
}
