package leaveform

type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required,oneof=name start_date end_date reason"`
	Value string `json:"value"`
}

const (
	SubmitLabel      = "ส่งฟอร์ม"
	SubmittingLabel  = "กำลังส่ง..."
	SubmittedMessage = "✅ ส่งฟอร์มเรียบร้อยแล้ว!"
	viewDateLayout   = "2006-01-02"
)

// FormView is what a client needs to render the form.
type FormView struct {
	SessionID   string `json:"session_id"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
	Phase       Phase  `json:"phase"`
	Submitted   bool   `json:"submitted"`
	Submitting  bool   `json:"submitting"`
	CanSubmit   bool   `json:"can_submit"`
	DateError   string `json:"date_error,omitempty"`
	SubmitLabel string `json:"submit_label"`
	MinDate     string `json:"min_date"`
	Message     string `json:"message,omitempty"`
}

type SubmitResponse struct {
	Form    FormView          `json:"form"`
	Payload SubmissionPayload `json:"payload"`
}

type SubmissionLogResponse struct {
	ID           string  `json:"id"`
	SessionID    string  `json:"session_id"`
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	HTTPStatus   *int    `json:"http_status,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type SubmissionListResponse struct {
	Items []SubmissionLogResponse `json:"items"`
	Total int64                   `json:"total"`
}
