package leaveform_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leaveform/internal/leaveform"
	leaveformerrors "go-leaveform/internal/leaveform/errors"
	leaveformMock "go-leaveform/internal/leaveform/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

// fixedNow is 5 Jan 2025 in Bangkok, before every date used below.
func fixedNow() time.Time {
	return time.Date(2025, time.January, 5, 9, 30, 0, 0, bangkok)
}

func newForm(t *testing.T) (*leaveform.Form, *leaveformMock.MockSubmitter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	submitter := leaveformMock.NewMockSubmitter(ctrl)
	return leaveform.NewForm(submitter, leaveform.WithClock(fixedNow)), submitter
}

func fill(t *testing.T, f *leaveform.Form, name, start, end, reason string) {
	t.Helper()
	assert.NoError(t, f.UpdateField(leaveform.FieldName, name))
	assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, start))
	assert.NoError(t, f.UpdateField(leaveform.FieldEndDate, end))
	assert.NoError(t, f.UpdateField(leaveform.FieldReason, reason))
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		fields [4]string
		want   bool
	}{
		{"valid range", [4]string{"Somchai", "2025-01-10", "2025-01-12", "ลาป่วย"}, true},
		{"same day", [4]string{"Somchai", "2025-01-10", "2025-01-10", "ลาป่วย"}, true},
		{"blank name", [4]string{"   ", "2025-01-10", "2025-01-12", "ลาป่วย"}, false},
		{"blank reason", [4]string{"Somchai", "2025-01-10", "2025-01-12", "\t"}, false},
		{"missing start", [4]string{"Somchai", "", "2025-01-12", "ลาป่วย"}, false},
		{"missing end", [4]string{"Somchai", "2025-01-10", "", "ลาป่วย"}, false},
		{"end before start", [4]string{"Somchai", "2025-01-12", "2025-01-10", "ลาป่วย"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newForm(t)
			fill(t, f, tt.fields[0], tt.fields[1], tt.fields[2], tt.fields[3])
			assert.Equal(t, tt.want, f.Validate())
		})
	}
}

func TestForm_DateRangeInvalid(t *testing.T) {
	f, _ := newForm(t)
	assert.False(t, f.DateRangeInvalid())

	assert.NoError(t, f.UpdateField(leaveform.FieldEndDate, "2025-01-10"))
	assert.False(t, f.DateRangeInvalid(), "one empty date is not an inverted range")

	assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, "2025-01-08"))
	assert.False(t, f.DateRangeInvalid())

	// Setting the end date alone can invert the range; only the start date
	// change clears the end date.
	assert.NoError(t, f.UpdateField(leaveform.FieldEndDate, "2025-01-07"))
	assert.True(t, f.DateRangeInvalid())
	assert.False(t, f.Validate())
}

func TestForm_UpdateField(t *testing.T) {
	t.Run("start after end clears end", func(t *testing.T) {
		f, _ := newForm(t)
		assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, "2025-01-10"))
		assert.NoError(t, f.UpdateField(leaveform.FieldEndDate, "2025-01-12"))

		assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, "2025-01-15"))

		st := f.State()
		assert.Equal(t, "2025-01-15", st.StartDate.Format("2006-01-02"))
		assert.Nil(t, st.EndDate)
	})

	t.Run("start on or before end keeps end", func(t *testing.T) {
		f, _ := newForm(t)
		assert.NoError(t, f.UpdateField(leaveform.FieldEndDate, "2025-01-12"))

		assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, "2025-01-12"))

		assert.NotNil(t, f.State().EndDate)
	})

	t.Run("accepts dd/mm/yyyy", func(t *testing.T) {
		f, _ := newForm(t)
		assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, "10/01/2025"))
		assert.Equal(t, "2025-01-10", f.State().StartDate.Format("2006-01-02"))
	})

	t.Run("empty value clears a date", func(t *testing.T) {
		f, _ := newForm(t)
		assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, "2025-01-10"))
		assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, ""))
		assert.Nil(t, f.State().StartDate)
	})

	t.Run("today is allowed", func(t *testing.T) {
		f, _ := newForm(t)
		assert.NoError(t, f.UpdateField(leaveform.FieldStartDate, "2025-01-05"))
		assert.Equal(t, "2025-01-05", f.Today().Format("2006-01-02"))
	})

	t.Run("date before today rejected", func(t *testing.T) {
		f, _ := newForm(t)
		err := f.UpdateField(leaveform.FieldEndDate, "2025-01-04")
		assert.ErrorIs(t, err, leaveformerrors.ErrDateBeforeToday)
		assert.Nil(t, f.State().EndDate)
	})

	t.Run("invalid date format", func(t *testing.T) {
		f, _ := newForm(t)
		err := f.UpdateField(leaveform.FieldStartDate, "next monday")
		assert.ErrorIs(t, err, leaveformerrors.ErrInvalidDateFormat)
	})

	t.Run("unknown field", func(t *testing.T) {
		f, _ := newForm(t)
		err := f.UpdateField(leaveform.Field("department"), "HR")
		assert.ErrorIs(t, err, leaveformerrors.ErrUnknownField)
	})

	t.Run("name kept as typed", func(t *testing.T) {
		f, _ := newForm(t)
		assert.NoError(t, f.UpdateField(leaveform.FieldName, " Somchai "))
		assert.Equal(t, " Somchai ", f.State().Name)
	})
}

func TestForm_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears inputs and marks submitted", func(t *testing.T) {
		f, submitter := newForm(t)
		fill(t, f, "Somchai", "2025-01-10", "2025-01-12", "ลาป่วย")

		want := leaveform.SubmissionPayload{
			Name:   "Somchai",
			Date:   "10/01/2025 ถึง 12/01/2025",
			Reason: "ลาป่วย",
		}
		submitter.EXPECT().Submit(gomock.Any(), want).Return(nil)

		got, err := f.Submit(ctx)

		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, leaveform.FormState{Submitted: true}, f.State())
		assert.Equal(t, leaveform.PhaseSubmitted, f.Phase())
	})

	t.Run("submitted is terminal", func(t *testing.T) {
		f, submitter := newForm(t)
		fill(t, f, "Somchai", "2025-01-10", "2025-01-12", "ลาป่วย")
		submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		_, err := f.Submit(ctx)
		assert.NoError(t, err)

		_, err = f.Submit(ctx)
		assert.ErrorIs(t, err, leaveformerrors.ErrAlreadySubmitted)
		assert.ErrorIs(t, f.UpdateField(leaveform.FieldName, "again"), leaveformerrors.ErrAlreadySubmitted)
	})

	t.Run("failure keeps inputs", func(t *testing.T) {
		f, submitter := newForm(t)
		fill(t, f, "Somchai", "2025-01-10", "2025-01-12", "ลาป่วย")
		before := f.State()

		submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(errors.New("dial tcp: connection refused"))

		_, err := f.Submit(ctx)

		assert.ErrorIs(t, err, leaveformerrors.ErrSubmissionFailure)
		assert.Contains(t, err.Error(), leaveformerrors.MsgSubmissionFailed)
		assert.Equal(t, before, f.State())
		assert.False(t, f.State().Submitted)
		assert.False(t, f.State().Submitting)
		assert.Equal(t, leaveform.PhaseEditing, f.Phase())
	})

	t.Run("retry after failure", func(t *testing.T) {
		f, submitter := newForm(t)
		fill(t, f, "Somchai", "2025-01-10", "2025-01-12", "ลาป่วย")

		gomock.InOrder(
			submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(errors.New("timeout")),
			submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil),
		)

		_, err := f.Submit(ctx)
		assert.Error(t, err)
		_, err = f.Submit(ctx)
		assert.NoError(t, err)
		assert.True(t, f.State().Submitted)
	})

	t.Run("inverted range never reaches submitter", func(t *testing.T) {
		f, _ := newForm(t)
		fill(t, f, "Somchai", "2025-01-12", "2025-01-12", "ลาป่วย")
		assert.NoError(t, f.UpdateField(leaveform.FieldEndDate, "2025-01-10"))

		_, err := f.Submit(ctx)

		assert.ErrorIs(t, err, leaveformerrors.ErrEndBeforeStart)
		assert.False(t, f.State().Submitting)
	})

	t.Run("incomplete form never reaches submitter", func(t *testing.T) {
		f, _ := newForm(t)
		assert.NoError(t, f.UpdateField(leaveform.FieldName, "Somchai"))

		_, err := f.Submit(ctx)

		assert.ErrorIs(t, err, leaveformerrors.ErrFormInvalid)
	})

	t.Run("second submit while in flight is rejected", func(t *testing.T) {
		f, submitter := newForm(t)
		fill(t, f, "Somchai", "2025-01-10", "2025-01-12", "ลาป่วย")

		started := make(chan struct{})
		release := make(chan struct{})
		submitter.EXPECT().
			Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, p leaveform.SubmissionPayload) error {
				close(started)
				<-release
				return nil
			}).
			Times(1)

		done := make(chan error, 1)
		go func() {
			_, err := f.Submit(ctx)
			done <- err
		}()
		<-started

		assert.Equal(t, leaveform.PhaseSubmitting, f.Phase())
		_, err := f.Submit(ctx)
		assert.ErrorIs(t, err, leaveformerrors.ErrSubmissionInFlight)
		assert.ErrorIs(t, f.UpdateField(leaveform.FieldReason, "edit"), leaveformerrors.ErrSubmissionInFlight)

		close(release)
		assert.NoError(t, <-done)
		assert.Equal(t, leaveform.PhaseSubmitted, f.Phase())
	})
}

func TestBuildPayload(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)

	p, err := leaveform.BuildPayload(leaveform.FormState{
		Name:      "Somchai",
		StartDate: &start,
		EndDate:   &end,
		Reason:    "ลาป่วย",
	})

	assert.NoError(t, err)
	assert.Equal(t, "10/01/2025 ถึง 12/01/2025", p.Date)
}

func TestParseField(t *testing.T) {
	f, err := leaveform.ParseField("start_date")
	assert.NoError(t, err)
	assert.Equal(t, leaveform.FieldStartDate, f)

	_, err = leaveform.ParseField("startDate")
	assert.ErrorIs(t, err, leaveformerrors.ErrUnknownField)
}
