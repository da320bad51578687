package leaveform

import (
	"strings"
	"time"

	leaveformerrors "go-leaveform/internal/leaveform/errors"
)

// Field names accepted by UpdateField. They match the json keys of FormState.
type Field string

const (
	FieldName      Field = "name"
	FieldStartDate Field = "start_date"
	FieldEndDate   Field = "end_date"
	FieldReason    Field = "reason"
)

func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldName, FieldStartDate, FieldEndDate, FieldReason:
		return f, nil
	}
	return "", leaveformerrors.ErrUnknownField
}

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

// FormState is everything the form holds between events. Dates are calendar
// days stored as midnight UTC; nil means the picker is empty.
type FormState struct {
	Name       string     `json:"name"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Reason     string     `json:"reason"`
	Submitted  bool       `json:"submitted"`
	Submitting bool       `json:"submitting"`
}

func (s FormState) Phase() Phase {
	switch {
	case s.Submitted:
		return PhaseSubmitted
	case s.Submitting:
		return PhaseSubmitting
	default:
		return PhaseEditing
	}
}

// DateRangeInvalid reports an end date before the start date. It is false
// while either date is empty.
func (s FormState) DateRangeInvalid() bool {
	return s.StartDate != nil && s.EndDate != nil && s.EndDate.Before(*s.StartDate)
}

// Valid reports whether the state may be submitted.
func (s FormState) Valid() bool {
	return strings.TrimSpace(s.Name) != "" &&
		strings.TrimSpace(s.Reason) != "" &&
		s.StartDate != nil &&
		s.EndDate != nil &&
		!s.DateRangeInvalid()
}

const (
	isoDateLayout = "2006-01-02"
	// DateLayout is dd/mm/yyyy, used on the wire and accepted as input.
	DateLayout = "02/01/2006"
)

// ParseDate accepts yyyy-mm-dd, dd/mm/yyyy or an RFC 3339 timestamp and
// returns the calendar day. An empty value returns nil.
func ParseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{isoDateLayout, DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			d := civilDate(t)
			return &d, nil
		}
	}
	return nil, leaveformerrors.ErrInvalidDateFormat
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
