package leaveform

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionSucceeded = "SUCCEEDED"
	SubmissionFailed    = "FAILED"
)

// SubmissionLog records one attempt to deliver a form. A session has at most
// one SUCCEEDED row.
type SubmissionLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_form_submissions_session;uniqueIndex:uq_leave_form_submission_success,where:status = 'SUCCEEDED'"`

	Name      string `gorm:"type:varchar(255);not null"`
	DateRange string `gorm:"type:varchar(64);not null"`
	Reason    string `gorm:"type:text;not null"`

	Status       string  `gorm:"type:varchar(20);not null"`
	ErrorMessage *string `gorm:"type:text"`
	HTTPStatus   *int    `gorm:"type:int"`

	CreatedAt time.Time `gorm:"index:idx_leave_form_submissions_created_at"`
}

func (SubmissionLog) TableName() string {
	return "leave_form_submissions"
}
