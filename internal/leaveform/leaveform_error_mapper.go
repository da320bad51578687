package leaveform

import (
	"errors"
	"strings"

	leaveformerrors "go-leaveform/internal/leaveform/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation &&
		pgErr.ConstraintName == "uq_leave_form_submission_success" {
		return leaveformerrors.ErrDuplicateSubmission.WithCause(err)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_form_submission_success") {
		return leaveformerrors.ErrDuplicateSubmission.WithCause(err)
	}

	return err
}
