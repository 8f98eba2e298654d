// Package cronexpr parses 5-field cron expressions into explicit
// per-field occurrence sets.
//
// An expression has minute, hour, day-of-month, month and day-of-week
// fields separated by whitespace. Each field resolves to an ascending,
// duplicate-free set of integers inside that field's bounds:
//
//	minute      0-59
//	hour        0-23
//	dayOfMonth  1-31
//	month       1-12
//	dayOfWeek   0-6 (Sunday = 0)
//
// Supported per-field syntax: "*", lists ("1,5,30"), ranges ("1-5"),
// steps ("*/15", "5/15", "1-10/3") and single values. Two grammar rules
// are contractual and differ from classic cron:
//
//   - A stepped month wildcard starts at 2: "*/2" in the month field
//     yields 2,4,6,8,10,12.
//   - Stepping a range keeps elements by position inside the resolved
//     range, not by absolute value: "1-10/3" yields 1,4,7,10 regardless
//     of where the range starts.
//
// Parsing is pure and deterministic; every failure is a *ParseError
// naming the field and the offending literal.
package cronexpr
