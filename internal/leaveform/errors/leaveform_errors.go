package leaveformerrors

import (
	"net/http"

	"go-leaveform/internal/shared/apperror"
)

// User-facing texts shown by the form.
const (
	MsgSubmissionFailed = "❌ ส่งไม่สำเร็จ กรุณาลองใหม่"
	MsgEndBeforeStart   = "❗ วันที่สิ้นสุดต้องไม่เร็วกว่าวันเริ่มต้น"
)

var (
	ErrSubmissionFailure = apperror.New(
		apperror.CodeSubmissionFailed,
		MsgSubmissionFailed,
		http.StatusBadGateway,
	)
	ErrFormInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"name, start date, end date and reason are required",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		MsgEndBeforeStart,
		http.StatusBadRequest,
	)
	ErrDateBeforeToday = apperror.New(
		apperror.CodeInvalidInput,
		"date must not be before today",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD or DD/MM/YYYY",
		http.StatusBadRequest,
	)
	ErrUnknownField = apperror.New(
		apperror.CodeInvalidInput,
		"unknown form field",
		http.StatusBadRequest,
	)
	ErrSubmissionInFlight = apperror.New(
		apperror.CodeConflict,
		"a submission for this form is already in progress",
		http.StatusConflict,
	)
	ErrAlreadySubmitted = apperror.New(
		apperror.CodeInvalidState,
		"form has already been submitted",
		http.StatusConflict,
	)
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave form session not found",
		http.StatusNotFound,
	)
	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave form session id",
		http.StatusBadRequest,
	)
	ErrDuplicateSubmission = apperror.New(
		apperror.CodeConflict,
		"this form already has a successful submission",
		http.StatusConflict,
	)
)
