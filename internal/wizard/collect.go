package wizard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/choretracker/internal/model"
	"github.com/dukerupert/choretracker/internal/recurrence"
)

var ErrInvalidInput = errors.New("invalid chore input")

// Input is the combined answer to every wizard step. Month accepts a month
// name or number.
type Input struct {
	Name            string   `json:"name" yaml:"name"`
	Icon            string   `json:"icon" yaml:"icon"`
	Person          *int64   `json:"person" yaml:"person"`
	RecurrenceType  string   `json:"recurrence_type" yaml:"recurrence_type"`
	Interval        int      `json:"interval" yaml:"interval"`
	Weekdays        []string `json:"weekdays" yaml:"weekdays"`
	DayOfMonth      int      `json:"day_of_month" yaml:"day_of_month"`
	Month           any      `json:"month" yaml:"month"`
	MonthlyWeekdays []string `json:"monthly_weekdays" yaml:"monthly_weekdays"`
	MonthlyWeeks    []string `json:"monthly_weeks" yaml:"monthly_weeks"`
	StartDate       string   `json:"start_date" yaml:"start_date"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Collect validates in and converts it into a chore ready to be created.
// Fields that are not part of the chosen kind's form are ignored.
func Collect(in Input, today time.Time) (model.Chore, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Chore{}, invalid("name is required")
	}

	typ := strings.TrimSpace(in.RecurrenceType)
	if typ == "" {
		typ = string(recurrence.Daily)
	}
	kind, err := recurrence.ParseKind(typ)
	if err != nil {
		return model.Chore{}, invalid("unknown recurrence type %q", in.RecurrenceType)
	}

	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = defaultIcon
	}

	rule := recurrence.Rule{Kind: kind, Interval: 1}

	if hasField(kind, "interval") && in.Interval != 0 {
		if in.Interval < 1 {
			return model.Chore{}, invalid("interval must be at least 1, got %d", in.Interval)
		}
		rule.Interval = in.Interval
	}

	if hasField(kind, "weekdays") {
		for _, v := range in.Weekdays {
			if _, day, ok := strings.Cut(v, "_"); ok {
				v = day
			}
			if wd, ok := recurrence.ParseWeekday(v); ok {
				rule.Weekdays = append(rule.Weekdays, wd)
			}
		}
	}

	if hasField(kind, "monthly_weekdays") {
		for _, v := range in.MonthlyWeekdays {
			if wd, ok := recurrence.ParseWeekday(v); ok {
				rule.MonthlyWeekdays = append(rule.MonthlyWeekdays, wd)
			}
		}
	}

	if hasField(kind, "monthly_weeks") {
		for _, v := range in.MonthlyWeeks {
			if o, ok := recurrence.ParseWeekOrdinal(strings.TrimSpace(v)); ok {
				rule.MonthlyWeeks = append(rule.MonthlyWeeks, o)
			}
		}
	}

	if hasField(kind, "day_of_month") {
		day := in.DayOfMonth
		if day == 0 {
			day = 1
		}
		if day < 1 || day > 31 {
			return model.Chore{}, invalid("day of month must be between 1 and 31, got %d", in.DayOfMonth)
		}
		rule.DayOfMonth = day
	}

	if hasField(kind, "month") {
		m, err := parseMonth(in.Month)
		if err != nil {
			return model.Chore{}, err
		}
		rule.Month = m
	}

	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if kind != recurrence.Manual && strings.TrimSpace(in.StartDate) != "" {
		start, err = time.Parse(time.DateOnly, strings.TrimSpace(in.StartDate))
		if err != nil {
			return model.Chore{}, invalid("start date %q is not a YYYY-MM-DD date", in.StartDate)
		}
	}

	if err := rule.Validate(); err != nil {
		return model.Chore{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return model.Chore{
		Name:       name,
		Icon:       icon,
		AssignedTo: in.Person,
		Rule:       rule,
		StartDate:  start,
	}, nil
}

// parseMonth accepts a month name, a numeric string, or a whole number.
// An empty value means January.
func parseMonth(v any) (time.Month, error) {
	var n int
	switch m := v.(type) {
	case nil:
		return time.January, nil
	case int:
		n = m
	case int64:
		n = int(m)
	case float64:
		if m != math.Trunc(m) {
			return 0, invalid("month %v is not a whole number", m)
		}
		n = int(m)
	case string:
		s := strings.TrimSpace(m)
		if s == "" {
			return time.January, nil
		}
		for i := 1; i <= 12; i++ {
			if strings.EqualFold(s, monthName(i)) {
				return time.Month(i), nil
			}
		}
		var err error
		if n, err = strconv.Atoi(s); err != nil {
			return 0, invalid("unknown month %q", s)
		}
	default:
		return 0, invalid("unsupported month value %v", v)
	}
	if n < 1 || n > 12 {
		return 0, invalid("month must be between 1 and 12, got %d", n)
	}
	return time.Month(n), nil
}

func monthName(m int) string {
	return time.Month(m).String()
}
