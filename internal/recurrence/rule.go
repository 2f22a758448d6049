package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRule is wrapped by every rule validation and parse failure.
var ErrInvalidRule = errors.New("invalid recurrence rule")

type Kind string

const (
	Manual           Kind = "manual"
	Daily            Kind = "daily"
	Weekly           Kind = "weekly"
	MonthlyByDate    Kind = "monthly_date"
	MonthlyByWeekday Kind = "monthly_weekday"
	Yearly           Kind = "yearly"
)

// Kinds lists every recurrence kind in the order they are offered to users.
var Kinds = []Kind{Manual, Daily, Weekly, MonthlyByDate, MonthlyByWeekday, Yearly}

var kindLabels = map[Kind]string{
	Manual:           "Manual",
	Daily:            "Daily",
	Weekly:           "Weekly",
	MonthlyByDate:    "Monthly - date of month",
	MonthlyByWeekday: "Monthly - day of week",
	Yearly:           "Yearly",
}

// ParseKind resolves a stored or user supplied kind name. The legacy name
// "monthly" is an alias for MonthlyByDate.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "monthly" {
		return MonthlyByDate, nil
	}
	k := Kind(name)
	if _, ok := kindLabels[k]; !ok {
		return "", fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidRule, s)
	}
	return k, nil
}

// Label returns the human readable name of the kind.
func (k Kind) Label() string {
	return kindLabels[k]
}

// WeekOrdinal selects which occurrence of a weekday inside a month is meant.
type WeekOrdinal int

const (
	First WeekOrdinal = iota + 1
	Second
	Third
	Fourth
	Last
)

var ordinalNames = map[WeekOrdinal]string{
	First:  "1st",
	Second: "2nd",
	Third:  "3rd",
	Fourth: "4th",
	Last:   "Last",
}

var ordinalFromName = map[string]WeekOrdinal{
	"1st":  First,
	"2nd":  Second,
	"3rd":  Third,
	"4th":  Fourth,
	"last": Last,
}

func (o WeekOrdinal) String() string {
	return ordinalNames[o]
}

// ParseWeekOrdinal accepts "1st".."4th" and "Last" in any case.
func ParseWeekOrdinal(s string) (WeekOrdinal, bool) {
	o, ok := ordinalFromName[strings.ToLower(strings.TrimSpace(s))]
	return o, ok
}

var weekdayFromName = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var dayNames = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var dayAbbrev = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// WeekdayNames lists the weekdays Monday first, as presented to users.
var WeekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ParseWeekday resolves a full English weekday name, ignoring case.
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdayFromName[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// Rule describes how a chore repeats. Fields that do not apply to Kind are
// ignored by Next.
type Rule struct {
	Kind            Kind
	Interval        int            // default 1; ignored for Manual
	Weekdays        []time.Weekday // Weekly: empty = plain interval weeks
	DayOfMonth      int            // MonthlyByDate, Yearly: 0 = day of the reference date
	Month           time.Month     // Yearly
	MonthlyWeekdays []time.Weekday // MonthlyByWeekday
	MonthlyWeeks    []WeekOrdinal  // MonthlyByWeekday, iterated in this order
}

// Validate checks the parameters that apply to the rule's kind.
func (r Rule) Validate() error {
	if _, ok := kindLabels[r.Kind]; !ok {
		return fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidRule, r.Kind)
	}
	if r.Kind == Manual {
		return nil
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval must be at least 1, got %d", ErrInvalidRule, r.Interval)
	}

	switch r.Kind {
	case MonthlyByDate, Yearly:
		if r.DayOfMonth < 0 || r.DayOfMonth > 31 {
			return fmt.Errorf("%w: day of month must be between 1 and 31, got %d", ErrInvalidRule, r.DayOfMonth)
		}
	}
	if r.Kind == Yearly && (r.Month < time.January || r.Month > time.December) {
		return fmt.Errorf("%w: yearly rules need a month between 1 and 12, got %d", ErrInvalidRule, r.Month)
	}
	if r.Kind == MonthlyByWeekday {
		for _, o := range r.MonthlyWeeks {
			if o < First || o > Last {
				return fmt.Errorf("%w: unknown week ordinal %d", ErrInvalidRule, o)
			}
		}
	}
	return nil
}

// Parse parses the compact stored form produced by String, e.g.
// "KIND=monthly_weekday;INTERVAL=2;BYWEEKDAY=MO;BYWEEK=2,LAST".
func Parse(rule string) (Rule, error) {
	if rule == "" {
		return Rule{}, fmt.Errorf("%w: empty rule", ErrInvalidRule)
	}

	r := Rule{Interval: 1}
	var hasKind bool

	parts := strings.Split(rule, ";")
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return Rule{}, fmt.Errorf("%w: invalid rule part %q", ErrInvalidRule, part)
		}
		key, val := kv[0], kv[1]

		switch key {
		case "KIND":
			k, err := ParseKind(val)
			if err != nil {
				return Rule{}, err
			}
			r.Kind = k
			hasKind = true

		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, fmt.Errorf("%w: invalid interval %q", ErrInvalidRule, val)
			}
			r.Interval = n

		case "BYDAY", "BYWEEKDAY":
			days, err := parseDayList(val)
			if err != nil {
				return Rule{}, err
			}
			if key == "BYDAY" {
				r.Weekdays = days
			} else {
				r.MonthlyWeekdays = days
			}

		case "BYMONTHDAY":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 31 {
				return Rule{}, fmt.Errorf("%w: invalid BYMONTHDAY %q", ErrInvalidRule, val)
			}
			r.DayOfMonth = n

		case "BYMONTH":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 12 {
				return Rule{}, fmt.Errorf("%w: invalid BYMONTH %q", ErrInvalidRule, val)
			}
			r.Month = time.Month(n)

		case "BYWEEK":
			for _, w := range strings.Split(val, ",") {
				w = strings.TrimSpace(w)
				if o, ok := ParseWeekOrdinal(w); ok {
					r.MonthlyWeeks = append(r.MonthlyWeeks, o)
					continue
				}
				n, err := strconv.Atoi(w)
				if err != nil || n < int(First) || n > int(Fourth) {
					return Rule{}, fmt.Errorf("%w: unknown week %q", ErrInvalidRule, w)
				}
				r.MonthlyWeeks = append(r.MonthlyWeeks, WeekOrdinal(n))
			}

		default:
			return Rule{}, fmt.Errorf("%w: unsupported rule key %q", ErrInvalidRule, key)
		}
	}

	if !hasKind {
		return Rule{}, fmt.Errorf("%w: KIND is required", ErrInvalidRule)
	}

	return r, nil
}

func parseDayList(val string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, d := range strings.Split(val, ",") {
		wd, ok := dayNames[strings.TrimSpace(d)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidRule, d)
		}
		days = append(days, wd)
	}
	return days, nil
}

// String serializes the rule to its compact stored form.
func (r Rule) String() string {
	var parts []string
	parts = append(parts, "KIND="+string(r.Kind))

	if r.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", r.Interval))
	}

	if len(r.Weekdays) > 0 {
		parts = append(parts, "BYDAY="+joinDays(r.Weekdays))
	}

	if r.DayOfMonth > 0 {
		parts = append(parts, fmt.Sprintf("BYMONTHDAY=%d", r.DayOfMonth))
	}

	if r.Month > 0 {
		parts = append(parts, fmt.Sprintf("BYMONTH=%d", int(r.Month)))
	}

	if len(r.MonthlyWeekdays) > 0 {
		parts = append(parts, "BYWEEKDAY="+joinDays(r.MonthlyWeekdays))
	}

	if len(r.MonthlyWeeks) > 0 {
		var weeks []string
		for _, o := range r.MonthlyWeeks {
			if o == Last {
				weeks = append(weeks, "LAST")
			} else {
				weeks = append(weeks, strconv.Itoa(int(o)))
			}
		}
		parts = append(parts, "BYWEEK="+strings.Join(weeks, ","))
	}

	return strings.Join(parts, ";")
}

func joinDays(days []time.Weekday) string {
	var abbr []string
	for _, d := range days {
		abbr = append(abbr, dayAbbrev[d])
	}
	return strings.Join(abbr, ",")
}

// Describe returns a human-readable description of the rule.
func (r Rule) Describe() string {
	switch r.Kind {
	case Manual:
		return "Completed manually"
	case Daily:
		if r.Interval > 1 {
			return fmt.Sprintf("Repeats every %d days", r.Interval)
		}
		return "Repeats daily"
	case Weekly:
		prefix := "Repeats weekly"
		if r.Interval == 2 {
			prefix = "Repeats every 2 weeks"
		} else if r.Interval > 2 {
			prefix = fmt.Sprintf("Repeats every %d weeks", r.Interval)
		}
		if len(r.Weekdays) > 0 {
			return prefix + " on " + shortNames(r.Weekdays)
		}
		return prefix
	case MonthlyByDate:
		prefix := "Repeats monthly"
		if r.Interval > 1 {
			prefix = fmt.Sprintf("Repeats every %d months", r.Interval)
		}
		if r.DayOfMonth > 0 {
			return fmt.Sprintf("%s on day %d", prefix, r.DayOfMonth)
		}
		return prefix
	case MonthlyByWeekday:
		prefix := "Repeats monthly"
		if r.Interval > 1 {
			prefix = fmt.Sprintf("Repeats every %d months", r.Interval)
		}
		if len(r.MonthlyWeeks) == 0 || len(r.MonthlyWeekdays) == 0 {
			return prefix
		}
		var weeks []string
		for _, o := range r.MonthlyWeeks {
			weeks = append(weeks, o.String())
		}
		return fmt.Sprintf("%s on the %s %s", prefix, strings.Join(weeks, "/"), shortNames(r.MonthlyWeekdays))
	case Yearly:
		prefix := "Repeats yearly"
		if r.Interval > 1 {
			prefix = fmt.Sprintf("Repeats every %d years", r.Interval)
		}
		if r.Month > 0 && r.DayOfMonth > 0 {
			return fmt.Sprintf("%s on %s %d", prefix, r.Month, r.DayOfMonth)
		}
		return prefix
	}
	return ""
}

func shortNames(days []time.Weekday) string {
	var names []string
	for _, d := range days {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ", ")
}
