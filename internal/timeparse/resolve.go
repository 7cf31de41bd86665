package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wasilibs/go-re2"
)

// AbsoluteLayout is the literal format accepted for KindAbsolute values.
const AbsoluteLayout = "2006-01-02 15:04"

// clockLayout is the format for time-of-day fragments in relative values.
const clockLayout = "15:04"

// DefaultWeekdayHour is the time of day used for WEEKDAY-only descriptors,
// which carry no explicit time.
const DefaultWeekdayHour = 9

// Relative value prefixes.
const (
	relTime           = "TIME"
	relWeekday        = "WEEKDAY"
	relWeekdayAndTime = "WEEKDAY_AND_TIME"
)

// delayPattern is the fixed-order delay grammar. The two "m" units are
// disambiguated by position: months come before days, minutes after hours.
var delayPattern = re2.MustCompile(
	`^(?:(?P<years>\d+)y)?(?:(?P<months>\d+)m)?(?:(?P<days>\d+)d)?` +
		`(?:(?P<hours>\d+)h)?(?:(?P<minutes>\d+)m)?(?:(?P<seconds>\d+)s)?$`)

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Resolve turns a descriptor into a concrete instant strictly after now.
// It returns ErrNoTimeSpecified for the "undefined" sentinel, ErrInPast
// when the resolved instant is not in the future, and
// ErrMalformedDescriptor when the value does not match its grammar.
func Resolve(d Descriptor, now time.Time) (time.Time, error) {
	now = now.Truncate(time.Second)

	var (
		target time.Time
		err    error
	)

	switch d.Kind {
	case KindDelay:
		if d.Undefined() {
			return time.Time{}, ErrNoTimeSpecified
		}
		target, err = resolveDelay(d.Value, now)
	case KindAbsolute:
		target, err = resolveAbsolute(d.Value)
	case KindRelative:
		target, err = resolveRelative(d.Value, now)
	default:
		return time.Time{}, fmt.Errorf("%w: unknown time type %q", ErrMalformedDescriptor, d.Kind)
	}
	if err != nil {
		return time.Time{}, err
	}

	// Uniform post-condition: never hand back an instant that already passed.
	if !target.After(now) {
		return time.Time{}, ErrInPast
	}
	return target, nil
}

// resolveDelay applies a duration offset to now. Days, hours, minutes and
// seconds are fixed durations; years and months are calendar-relative
// (adding one month to Jan 31 lands in early March, matching time.AddDate).
func resolveDelay(value string, now time.Time) (time.Time, error) {
	groups := delayPattern.FindStringSubmatch(value)
	if groups == nil {
		return time.Time{}, fmt.Errorf("%w: invalid delay %q", ErrMalformedDescriptor, value)
	}

	fields := make(map[string]int, 6)
	for i, name := range delayPattern.SubexpNames() {
		if i == 0 || name == "" || groups[i] == "" {
			continue
		}
		n, err := strconv.Atoi(groups[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid delay field %q: %v", ErrMalformedDescriptor, groups[i], err)
		}
		fields[name] = n
	}

	target := now.Add(
		time.Duration(fields["days"])*24*time.Hour +
			time.Duration(fields["hours"])*time.Hour +
			time.Duration(fields["minutes"])*time.Minute +
			time.Duration(fields["seconds"])*time.Second)
	return target.AddDate(fields["years"], fields["months"], 0), nil
}

// resolveAbsolute parses a strict "YYYY-MM-DD HH:MM" literal in local time.
func resolveAbsolute(value string) (time.Time, error) {
	target, err := time.ParseInLocation(AbsoluteLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid absolute time %q: %v", ErrMalformedDescriptor, value, err)
	}
	return target, nil
}

// resolveRelative dispatches on the relative value prefix.
func resolveRelative(value string, now time.Time) (time.Time, error) {
	prefix, rest, _ := strings.Cut(value, ":")

	switch prefix {
	case relTime:
		return resolveTimeOfDay(rest, now)
	case relWeekday:
		return resolveWeekday(rest, now)
	case relWeekdayAndTime:
		return resolveWeekdayAndTime(rest, now)
	default:
		return time.Time{}, fmt.Errorf("%w: unknown relative expression %q", ErrMalformedDescriptor, value)
	}
}

// resolveTimeOfDay combines today's date with the given clock time, rolling
// forward one day when that combination already passed.
func resolveTimeOfDay(value string, now time.Time) (time.Time, error) {
	clock, err := parseClock(value)
	if err != nil {
		return time.Time{}, err
	}

	target := atClock(now, 0, clock)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, nil
}

// resolveWeekday returns the next occurrence of the named weekday at the
// default hour. "Next Wednesday" on a Wednesday always means a week from
// now, never today.
func resolveWeekday(value string, now time.Time) (time.Time, error) {
	weekday, err := parseWeekday(value)
	if err != nil {
		return time.Time{}, err
	}

	daysAhead := int(weekday-now.Weekday()+7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	return atClock(now, daysAhead, time.Duration(DefaultWeekdayHour)*time.Hour), nil
}

// resolveWeekdayAndTime returns the next occurrence of the named weekday at
// the given clock time. Same-day resolution is allowed when the time of day
// has not yet passed.
func resolveWeekdayAndTime(value string, now time.Time) (time.Time, error) {
	name, rest, ok := strings.Cut(value, ":")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: invalid weekday-and-time %q", ErrMalformedDescriptor, value)
	}
	weekday, err := parseWeekday(name)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := parseClock(rest)
	if err != nil {
		return time.Time{}, err
	}

	daysAhead := int(weekday-now.Weekday()+7) % 7
	if daysAhead == 0 && !atClock(now, 0, clock).After(now) {
		daysAhead = 7
	}
	return atClock(now, daysAhead, clock), nil
}

// parseClock parses an "HH:MM" fragment into an offset from midnight.
func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time of day %q: %v", ErrMalformedDescriptor, value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// parseWeekday matches a full English weekday name, case-insensitively.
func parseWeekday(name string) (time.Weekday, error) {
	weekday, ok := weekdayNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weekday %q", ErrMalformedDescriptor, name)
	}
	return weekday, nil
}

// atClock builds the instant daysAhead days after now's date at the given
// offset from local midnight.
func atClock(now time.Time, daysAhead int, clock time.Duration) time.Time {
	year, month, day := now.AddDate(0, 0, daysAhead).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).Add(clock)
}
