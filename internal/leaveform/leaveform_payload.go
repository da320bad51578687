package leaveform

import (
	"time"

	leaveformerrors "go-leaveform/internal/leaveform/errors"
)

// RangeSeparator joins the two dates of SubmissionPayload.Date.
const RangeSeparator = "ถึง"

// SubmissionPayload is the JSON body posted to the submission endpoint.
type SubmissionPayload struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func FormatDateRange(start, end time.Time) string {
	return start.Format(DateLayout) + " " + RangeSeparator + " " + end.Format(DateLayout)
}

// BuildPayload derives the payload from a valid state. Name and reason are
// sent as typed.
func BuildPayload(s FormState) (SubmissionPayload, error) {
	if s.DateRangeInvalid() {
		return SubmissionPayload{}, leaveformerrors.ErrEndBeforeStart
	}
	if !s.Valid() {
		return SubmissionPayload{}, leaveformerrors.ErrFormInvalid
	}
	return SubmissionPayload{
		Name:   s.Name,
		Date:   FormatDateRange(*s.StartDate, *s.EndDate),
		Reason: s.Reason,
	}, nil
}
