package cronexpr

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFieldVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field Field
		token string
		want  []int
	}{
		{name: "minute wildcard step", field: FieldMinute, token: "*/15", want: []int{0, 15, 30, 45}},
		{name: "minute value step", field: FieldMinute, token: "5/15", want: []int{5, 20, 35, 50}},
		{name: "month wildcard step starts at 2", field: FieldMonth, token: "*/2", want: []int{2, 4, 6, 8, 10, 12}},
		{name: "overlapping ranges dedup", field: FieldMinute, token: "1-5,3-7", want: []int{1, 2, 3, 4, 5, 6, 7}},
		{name: "range with spaces", field: FieldHour, token: "9 - 17", want: []int{9, 10, 11, 12, 13, 14, 15, 16, 17}},
		{name: "range step is positional", field: FieldMinute, token: "1-10/3", want: []int{1, 4, 7, 10}},
		{name: "list of singles", field: FieldDayOfWeek, token: "1,3,5", want: []int{1, 3, 5}},
		{name: "list sorted and deduped", field: FieldHour, token: "5,1,5,3", want: []int{1, 3, 5}},
		{name: "single value", field: FieldDayOfMonth, token: "15", want: []int{15}},
		{name: "list of steps", field: FieldMinute, token: "0/30,7", want: []int{0, 7, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseField(tt.field, tt.token)
			if err != nil {
				t.Fatalf("ParseField(%v, %q) error: %v", tt.field, tt.token, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseField(%v, %q) = %v, want %v", tt.field, tt.token, got, tt.want)
			}
		})
	}
}

func TestParseFieldWildcard(t *testing.T) {
	t.Parallel()
	got, err := ParseField(FieldMinute, "*")
	if err != nil {
		t.Fatalf("ParseField error: %v", err)
	}
	if len(got) != 60 || got[0] != 0 || got[59] != 59 {
		t.Fatalf("minute wildcard = %v, want 0..59", got)
	}
}

func TestParseFieldErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field Field
		token string
	}{
		{name: "out of bounds high", field: FieldMinute, token: "60"},
		{name: "weekday 7", field: FieldDayOfWeek, token: "7"},
		{name: "month 0", field: FieldMonth, token: "0"},
		{name: "not an integer", field: FieldHour, token: "noon"},
		{name: "float", field: FieldMinute, token: "1.5"},
		{name: "inverted range", field: FieldHour, token: "17-9"},
		{name: "empty list element", field: FieldMinute, token: "1,,2"},
		{name: "trailing comma", field: FieldMinute, token: "1,2,"},
		{name: "zero step", field: FieldMinute, token: "*/0"},
		{name: "step not a number", field: FieldMinute, token: "*/x"},
		{name: "step above field max", field: FieldHour, token: "*/24"},
		{name: "negative value", field: FieldMinute, token: "-5"},
		{name: "range end out of bounds", field: FieldHour, token: "9-24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseField(tt.field, tt.token)
			if err == nil {
				t.Fatalf("ParseField(%v, %q) succeeded, want error", tt.field, tt.token)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if pe.Field != tt.field.String() {
				t.Fatalf("error field = %q, want %q", pe.Field, tt.field.String())
			}
			if pe.Value == "" {
				t.Fatal("error is missing the offending literal")
			}
		})
	}
}

func TestParseTokenCount(t *testing.T) {
	t.Parallel()
	for _, expr := range []string{"", "* * * *", "* * * * * *", "   ", "*"} {
		if _, err := Parse(expr); err == nil {
			t.Fatalf("Parse(%q) succeeded, want field-count error", expr)
		}
	}
}

func TestParseMultibyteWhitespace(t *testing.T) {
	t.Parallel()
	// U+3000 ideographic space between fields still splits into 5 tokens.
	p, err := Parse("0　0 * * *")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !reflect.DeepEqual(p.Minute, []int{0}) || !reflect.DeepEqual(p.Hour, []int{0}) {
		t.Fatalf("unexpected sets: minute=%v hour=%v", p.Minute, p.Hour)
	}
}

func TestParseOutOfBoundsExpression(t *testing.T) {
	t.Parallel()
	for _, expr := range []string{"60 * * * *", "* 24 * * *", "* * 32 * *", "* * * 13 *", "* * * * 7"} {
		_, err := Parse(expr)
		if err == nil {
			t.Fatalf("Parse(%q) succeeded, want range error", expr)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Parse(%q) error type = %T, want *ParseError", expr, err)
		}
	}
}

func TestParseSetsAreCanonical(t *testing.T) {
	t.Parallel()
	exprs := []string{
		"* * * * *",
		"*/5 8-18 1,15 */2 1-5",
		"0 0 1 1 0",
		"59 23 31 12 6",
		"30,10,30 */6 1-7/2 6 0,6",
	}

	for _, expr := range exprs {
		p, err := Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", expr, err)
		}
		sets := map[Field][]int{
			FieldMinute:     p.Minute,
			FieldHour:       p.Hour,
			FieldDayOfMonth: p.DayOfMonth,
			FieldMonth:      p.Month,
			FieldDayOfWeek:  p.DayOfWeek,
		}
		for f, set := range sets {
			if len(set) == 0 {
				t.Fatalf("Parse(%q): %v set is empty", expr, f)
			}
			b := fieldBounds[f]
			for i, v := range set {
				if v < b.min || v > b.max {
					t.Fatalf("Parse(%q): %v value %d outside [%d,%d]", expr, f, v, b.min, b.max)
				}
				if i > 0 && set[i-1] >= v {
					t.Fatalf("Parse(%q): %v set not strictly ascending: %v", expr, f, set)
				}
			}
		}
	}
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()
	const expr = "*/10 1-12/3 1,15,31 */2 0,3-5"
	first, err := Parse(expr)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	second, err := Parse(expr)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated parses differ: %v vs %v", first, second)
	}
}
