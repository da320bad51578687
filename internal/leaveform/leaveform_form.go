package leaveform

import (
	"context"
	"sync"
	"time"

	leaveformerrors "go-leaveform/internal/leaveform/errors"

	"go.uber.org/zap"
)

// Submitter delivers a payload to the submission endpoint. Any returned
// error counts as a failed submission.
//
//go:generate mockgen -source=leaveform_form.go -destination=mock/leaveform_submitter_mock.go -package=mock
type Submitter interface {
	Submit(ctx context.Context, payload SubmissionPayload) error
}

type FormOption func(*Form)

// WithClock overrides time.Now, which decides what "today" is.
func WithClock(now func() time.Time) FormOption {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}

func WithFormLogger(l *zap.Logger) FormOption {
	return func(f *Form) {
		if l != nil {
			f.logger = l.Named("leaveform.form")
		}
	}
}

// Form is one leave-request form. It is safe for concurrent use and allows
// at most one submission in flight.
type Form struct {
	mu        sync.Mutex
	state     FormState
	submitter Submitter
	now       func() time.Time
	logger    *zap.Logger
}

func NewForm(submitter Submitter, opts ...FormOption) *Form {
	return RestoreForm(FormState{}, submitter, opts...)
}

// RestoreForm rebuilds a form from a saved state.
func RestoreForm(state FormState, submitter Submitter, opts ...FormOption) *Form {
	f := &Form{
		state:     state,
		submitter: submitter,
		now:       time.Now,
		logger:    zap.L().Named("leaveform.form"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Phase() Phase {
	return f.State().Phase()
}

// Today is the earliest date either picker accepts.
func (f *Form) Today() time.Time {
	return civilDate(f.now())
}

// UpdateField sets one field from its text value. Dates may be cleared with
// an empty value. Moving the start date past the current end date clears
// the end date.
func (f *Form) UpdateField(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Submitted {
		return leaveformerrors.ErrAlreadySubmitted
	}
	if f.state.Submitting {
		return leaveformerrors.ErrSubmissionInFlight
	}

	switch field {
	case FieldName:
		f.state.Name = value
	case FieldReason:
		f.state.Reason = value
	case FieldStartDate, FieldEndDate:
		date, err := ParseDate(value)
		if err != nil {
			return err
		}
		if date != nil && date.Before(civilDate(f.now())) {
			return leaveformerrors.ErrDateBeforeToday
		}
		if field == FieldEndDate {
			f.state.EndDate = date
			return nil
		}
		f.state.StartDate = date
		if date != nil && f.state.EndDate != nil && f.state.EndDate.Before(*date) {
			f.logger.Debug("end date cleared by new start date",
				zap.Time("start_date", *date),
				zap.Time("end_date", *f.state.EndDate),
			)
			f.state.EndDate = nil
		}
	default:
		return leaveformerrors.ErrUnknownField
	}
	return nil
}

// Validate reports whether the form may be submitted. It has no side effects.
func (f *Form) Validate() bool {
	return f.State().Valid()
}

// DateRangeInvalid drives the inline date error.
func (f *Form) DateRangeInvalid() bool {
	return f.State().DateRangeInvalid()
}

// Submit sends the form. On success the inputs are cleared and the form is
// marked submitted; on failure the inputs are kept so the user can retry.
// The returned payload is what was (or would have been) sent.
func (f *Form) Submit(ctx context.Context) (SubmissionPayload, error) {
	f.mu.Lock()
	if f.state.Submitted {
		f.mu.Unlock()
		return SubmissionPayload{}, leaveformerrors.ErrAlreadySubmitted
	}
	if f.state.Submitting {
		f.mu.Unlock()
		return SubmissionPayload{}, leaveformerrors.ErrSubmissionInFlight
	}
	payload, err := BuildPayload(f.state)
	if err != nil {
		f.mu.Unlock()
		return SubmissionPayload{}, err
	}
	f.state.Submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.state.Submitting = false
		f.mu.Unlock()
	}()

	if err := f.submitter.Submit(ctx, payload); err != nil {
		f.logger.Warn("leave form submission failed",
			zap.String("name", payload.Name),
			zap.String("date", payload.Date),
			zap.Error(err),
		)
		return payload, leaveformerrors.ErrSubmissionFailure.WithCause(err)
	}

	f.mu.Lock()
	f.state = FormState{Submitted: true}
	f.mu.Unlock()

	f.logger.Info("leave form submitted", zap.String("date", payload.Date))
	return payload, nil
}
