package wizard

import (
	"github.com/dukerupert/choretracker/internal/recurrence"
)

// Step IDs.
const (
	StepUser       = "user"
	StepRecurrence = "recurrence"
)

type FieldType string

const (
	FieldText        FieldType = "text"
	FieldIcon        FieldType = "icon"
	FieldMember      FieldType = "member"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multi_select"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one form input. A date field without a default defaults to
// today.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Default  any       `json:"default,omitempty"`
	Options  []Option  `json:"options,omitempty"`
	Min      int       `json:"min,omitempty"`
	Max      int       `json:"max,omitempty"`
	Unit     string    `json:"unit,omitempty"`
}

type Step struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

const defaultIcon = "mdi:broom"

func intervalField(unit string) Field {
	return Field{Name: "interval", Type: FieldNumber, Required: true, Default: 1, Min: 1, Unit: unit}
}

var dayOfMonthField = Field{Name: "day_of_month", Type: FieldNumber, Required: true, Default: 1, Min: 1, Max: 31}

// recurrenceFields lists the second-step fields per kind, in display order.
// start_date is appended to every list by Steps.
var recurrenceFields = map[recurrence.Kind][]Field{
	recurrence.Daily: {
		intervalField("days"),
	},
	recurrence.Weekly: {
		intervalField("weeks"),
		{Name: "weekdays", Type: FieldMultiSelect, Default: []string{}, Options: numberedWeekdayOptions()},
	},
	recurrence.MonthlyByDate: {
		intervalField("months"),
		dayOfMonthField,
	},
	recurrence.MonthlyByWeekday: {
		{Name: "monthly_weekdays", Type: FieldMultiSelect, Default: []string{}, Options: plainOptions(recurrence.WeekdayNames)},
		{Name: "monthly_weeks", Type: FieldMultiSelect, Default: []string{}, Options: weekOptions()},
		intervalField("months"),
	},
	recurrence.Yearly: {
		intervalField("years"),
		{Name: "month", Type: FieldSelect, Required: true, Default: "January", Options: monthOptions()},
		dayOfMonthField,
	},
}

var startDateField = Field{Name: "start_date", Type: FieldDate, Required: true}

// Steps returns the form steps for kind. The first step is always the basic
// chore info; manual chores have no second step.
func Steps(kind recurrence.Kind) []Step {
	steps := []Step{userStep()}
	if kind == recurrence.Manual {
		return steps
	}
	fields, ok := recurrenceFields[kind]
	if !ok {
		return steps
	}
	all := make([]Field, 0, len(fields)+1)
	all = append(all, fields...)
	all = append(all, startDateField)
	return append(steps, Step{ID: StepRecurrence, Fields: all})
}

func userStep() Step {
	kinds := make([]Option, 0, len(recurrence.Kinds))
	for _, k := range recurrence.Kinds {
		kinds = append(kinds, Option{Value: string(k), Label: k.Label()})
	}
	return Step{
		ID: StepUser,
		Fields: []Field{
			{Name: "name", Type: FieldText, Required: true},
			{Name: "icon", Type: FieldIcon, Default: defaultIcon},
			{Name: "person", Type: FieldMember},
			{Name: "recurrence_type", Type: FieldSelect, Required: true, Default: string(recurrence.Daily), Options: kinds},
		},
	}
}

// hasField reports whether kind's recurrence step collects name.
func hasField(kind recurrence.Kind, name string) bool {
	for _, f := range recurrenceFields[kind] {
		if f.Name == name {
			return true
		}
	}
	return false
}

// numberedWeekdayOptions prefixes values with their position so that
// clients which sort option values keep Monday first.
func numberedWeekdayOptions() []Option {
	opts := make([]Option, 0, len(recurrence.WeekdayNames))
	for i, name := range recurrence.WeekdayNames {
		opts = append(opts, Option{Value: string(rune('1'+i)) + "_" + name, Label: name})
	}
	return opts
}

func plainOptions(values []string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}

func weekOptions() []Option {
	ords := []recurrence.WeekOrdinal{recurrence.First, recurrence.Second, recurrence.Third, recurrence.Fourth, recurrence.Last}
	opts := make([]Option, 0, len(ords))
	for _, o := range ords {
		opts = append(opts, Option{Value: o.String(), Label: o.String()})
	}
	return opts
}

func monthOptions() []Option {
	opts := make([]Option, 0, 12)
	for m := 1; m <= 12; m++ {
		name := monthName(m)
		opts = append(opts, Option{Value: name, Label: name})
	}
	return opts
}
