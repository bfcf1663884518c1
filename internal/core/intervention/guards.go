// Package intervention contains the pure business logic of the escalation engine:
// the decision tree and the Tier-B, Tier-C and re-entry state machines.
// Nothing here performs I/O; callers pass the current time and configuration in.
package intervention

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a rejected rule.
type Kind int

const (
	// KindValidation marks missing or malformed input.
	KindValidation Kind = iota + 1
	// KindConflict marks an illegal state transition.
	KindConflict
)

// RuleError is returned when a guard rejects an operation.
type RuleError struct {
	Kind   Kind
	Reason string
}

func (e *RuleError) Error() string { return e.Reason }

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    Kind
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &RuleError{Kind: r.Kind, Reason: r.Reason}
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func invalid(format string, args ...interface{}) error {
	return &RuleError{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &RuleError{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsConflict reports whether err is an illegal transition.
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

func kindOf(err error) Kind {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

// DateLayout is the calendar date format used for daily logs.
const DateLayout = "2006-01-02"

// CalendarDate renders t as a calendar date in loc.
func CalendarDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ParseCalendarDate validates a YYYY-MM-DD date.
func ParseCalendarDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, invalid("date %q must be formatted as YYYY-MM-DD", raw)
	}
	return d, nil
}

// periodEnded reports whether the calendar day of now is on or after the calendar day
// of end.
func periodEnded(end *time.Time, now time.Time, loc *time.Location) bool {
	if end == nil {
		return false
	}
	return CalendarDate(now, loc) >= CalendarDate(*end, loc)
}
