package leaveform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	leaveformerrors "go-leaveform/internal/leaveform/errors"
	"go-leaveform/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SubmissionListKey is a redis hash of cached pages, one field per page/size.
const SubmissionListKey = "leaveform:submissions"

const submissionListTTL = 5 * time.Minute

func SubmissionListField(page, pageSize int) string {
	return fmt.Sprintf("%d:%d", page, pageSize)
}

//go:generate mockgen -source=leaveform_service.go -destination=mock/leaveform_service_mock.go -package=mock
type Service interface {
	Open(ctx context.Context) (FormView, error)
	Get(ctx context.Context, sessionID string) (FormView, error)
	UpdateField(ctx context.Context, sessionID string, req UpdateFieldRequest) (FormView, error)
	Submit(ctx context.Context, sessionID string) (SubmitResponse, error)
	ListSubmissions(ctx context.Context, page, pageSize int) (SubmissionListResponse, error)
	SessionSubmissions(ctx context.Context, sessionID string) ([]SubmissionLogResponse, error)
}

type ServiceConfig struct {
	// LockTTL bounds how long a crashed submit can block its session. It
	// should exceed the submission client timeout.
	LockTTL time.Duration
	Now     func() time.Time
	// Location, when set, is where "today" is decided for date checks.
	Location *time.Location
}

type service struct {
	store     SessionStore
	repo      Repository
	submitter Submitter
	rdb       *redis.Client
	sf        *singleflight.Group
	lockTTL   time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	store SessionStore,
	repo Repository,
	submitter Submitter,
	rdb *redis.Client,
	cfg ServiceConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaveform.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveform.service")
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if loc := cfg.Location; loc != nil {
		base := cfg.Now
		cfg.Now = func() time.Time { return base().In(loc) }
	}
	return &service{
		store:     store,
		repo:      repo,
		submitter: submitter,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		lockTTL:   cfg.LockTTL,
		now:       cfg.Now,
		logger:    l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger).With(zap.String("session_id", contextutil.GetSessionID(ctx)))
}

func (s *service) restore(ctx context.Context, state FormState) *Form {
	return RestoreForm(state, s.submitter, WithClock(s.now), WithFormLogger(s.log(ctx)))
}

func (s *service) Open(ctx context.Context) (FormView, error) {
	sessionID := uuid.New().String()
	ctx = contextutil.WithSessionID(ctx, sessionID)

	if err := s.store.Save(ctx, sessionID, FormState{}); err != nil {
		s.log(ctx).Error("open leave form save failed", zap.Error(err))
		return FormView{}, err
	}
	s.log(ctx).Info("leave form opened")

	return s.view(sessionID, s.restore(ctx, FormState{})), nil
}

func (s *service) Get(ctx context.Context, sessionID string) (FormView, error) {
	if err := validateSessionID(sessionID); err != nil {
		return FormView{}, err
	}
	ctx = contextutil.WithSessionID(ctx, sessionID)

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return FormView{}, err
	}
	return s.view(sessionID, s.restore(ctx, state)), nil
}

func (s *service) UpdateField(ctx context.Context, sessionID string, req UpdateFieldRequest) (FormView, error) {
	if err := validateSessionID(sessionID); err != nil {
		return FormView{}, err
	}
	ctx = contextutil.WithSessionID(ctx, sessionID)

	field, err := ParseField(req.Field)
	if err != nil {
		return FormView{}, err
	}

	// Edits take the same lock as Submit so a save based on a stale load can
	// never overwrite a submitted state.
	release, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return FormView{}, err
	}
	defer release()

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return FormView{}, err
	}

	form := s.restore(ctx, state)
	if err := form.UpdateField(field, req.Value); err != nil {
		s.log(ctx).Debug("update leave form field rejected",
			zap.String("field", req.Field),
			zap.Error(err),
		)
		return FormView{}, err
	}

	if err := s.store.Save(ctx, sessionID, form.State()); err != nil {
		s.log(ctx).Error("update leave form save failed", zap.Error(err))
		return FormView{}, err
	}

	return s.view(sessionID, form), nil
}

// Submit holds the session lock for the whole attempt, so a second submit or
// an edit while one is in flight gets ErrSubmissionInFlight.
func (s *service) Submit(ctx context.Context, sessionID string) (SubmitResponse, error) {
	if err := validateSessionID(sessionID); err != nil {
		return SubmitResponse{}, err
	}
	ctx = contextutil.WithSessionID(ctx, sessionID)
	log := s.log(ctx)

	release, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return SubmitResponse{}, err
	}
	defer release()
	// The request context may already be cancelled when we record the outcome.
	bg := context.WithoutCancel(ctx)

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return SubmitResponse{}, err
	}
	if state.Submitted {
		return SubmitResponse{}, leaveformerrors.ErrAlreadySubmitted
	}
	// We hold the lock, so a stored submitting flag is left over from a
	// crashed attempt.
	state.Submitting = false

	if _, err := BuildPayload(state); err != nil {
		log.Debug("submit leave form validation failed", zap.Error(err))
		return SubmitResponse{}, err
	}

	inFlight := state
	inFlight.Submitting = true
	if err := s.store.Save(ctx, sessionID, inFlight); err != nil {
		log.Error("submit leave form save in-flight state failed", zap.Error(err))
		return SubmitResponse{}, err
	}

	form := s.restore(ctx, state)
	payload, submitErr := form.Submit(ctx)
	s.record(bg, sessionID, payload, submitErr)

	if err := s.store.Save(bg, sessionID, form.State()); err != nil {
		log.Error("submit leave form save outcome failed", zap.Error(err))
		if submitErr == nil {
			return SubmitResponse{}, err
		}
	}
	if submitErr != nil {
		return SubmitResponse{}, submitErr
	}

	log.Info("leave form submission delivered", zap.String("date", payload.Date))
	return SubmitResponse{
		Form:    s.view(sessionID, form),
		Payload: payload,
	}, nil
}

// lockSession takes the per-session lock shared by Submit and UpdateField.
// A held lock means a submission is in flight.
func (s *service) lockSession(ctx context.Context, sessionID string) (func(), error) {
	log := s.log(ctx)
	acquired, err := s.store.AcquireSubmitLock(ctx, sessionID, s.lockTTL)
	if err != nil {
		log.Error("acquire session lock failed", zap.Error(err))
		return nil, err
	}
	if !acquired {
		log.Warn("leave form busy, request rejected")
		return nil, leaveformerrors.ErrSubmissionInFlight
	}
	return func() {
		if err := s.store.ReleaseSubmitLock(context.WithoutCancel(ctx), sessionID); err != nil {
			log.Error("release session lock failed", zap.Error(err))
		}
	}, nil
}

// statusCoder is implemented by submitter errors that carry the endpoint's
// HTTP status.
type statusCoder interface {
	StatusCode() int
}

// record writes the attempt to the submission log. Failures are logged only;
// the user-facing outcome is already decided.
func (s *service) record(ctx context.Context, sessionID string, payload SubmissionPayload, submitErr error) {
	entry := &SubmissionLog{
		ID:        uuid.New(),
		SessionID: uuid.MustParse(sessionID),
		Name:      payload.Name,
		DateRange: payload.Date,
		Reason:    payload.Reason,
		Status:    SubmissionSucceeded,
		CreatedAt: s.now().UTC(),
	}
	if submitErr != nil {
		entry.Status = SubmissionFailed
		msg := submitErr.Error()
		entry.ErrorMessage = &msg
		var sc statusCoder
		if errors.As(submitErr, &sc) {
			code := sc.StatusCode()
			entry.HTTPStatus = &code
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log(ctx).Error("record leave form submission failed",
			zap.String("status", entry.Status),
			zap.Error(err),
		)
		return
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, SubmissionListKey).Err(); err != nil {
			s.log(ctx).Warn("invalidate submission list cache failed", zap.Error(err))
		}
	}
}

func (s *service) ListSubmissions(ctx context.Context, page, pageSize int) (SubmissionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	field := SubmissionListField(page, pageSize)

	if s.rdb != nil {
		cached, err := s.rdb.HGet(ctx, SubmissionListKey, field).Result()
		if err == nil {
			var resp SubmissionListResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(SubmissionListKey+":"+field, func() (interface{}, error) {
		logs, total, err := s.repo.FindAll(ctx, pageSize, (page-1)*pageSize)
		if err != nil {
			return nil, err
		}

		resp := SubmissionListResponse{
			Items: mapToLogListResponse(logs),
			Total: total,
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.HSet(ctx, SubmissionListKey, field, string(data))
				s.rdb.Expire(ctx, SubmissionListKey, submissionListTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("list leave form submissions failed", zap.Error(err))
		return SubmissionListResponse{}, err
	}

	return v.(SubmissionListResponse), nil
}

// SessionSubmissions returns every recorded attempt of one form, oldest
// first. The log outlives the session, so a missing session is not an error.
func (s *service) SessionSubmissions(ctx context.Context, sessionID string) ([]SubmissionLogResponse, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	ctx = contextutil.WithSessionID(ctx, sessionID)

	logs, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		s.log(ctx).Error("list session submissions failed", zap.Error(err))
		return nil, err
	}
	return mapToLogListResponse(logs), nil
}

func (s *service) view(sessionID string, form *Form) FormView {
	state := form.State()
	v := FormView{
		SessionID:   sessionID,
		Name:        state.Name,
		Reason:      state.Reason,
		Phase:       state.Phase(),
		Submitted:   state.Submitted,
		Submitting:  state.Submitting,
		CanSubmit:   state.Valid() && !state.Submitting && !state.Submitted,
		SubmitLabel: SubmitLabel,
		MinDate:     form.Today().Format(viewDateLayout),
	}
	if state.StartDate != nil {
		v.StartDate = state.StartDate.Format(viewDateLayout)
	}
	if state.EndDate != nil {
		v.EndDate = state.EndDate.Format(viewDateLayout)
	}
	if state.DateRangeInvalid() {
		v.DateError = leaveformerrors.MsgEndBeforeStart
	}
	if state.Submitting {
		v.SubmitLabel = SubmittingLabel
	}
	if state.Submitted {
		v.Message = SubmittedMessage
	}
	return v
}

func validateSessionID(sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return leaveformerrors.ErrInvalidSessionID
	}
	return nil
}

func mapToLogResponse(l SubmissionLog) SubmissionLogResponse {
	return SubmissionLogResponse{
		ID:           l.ID.String(),
		SessionID:    l.SessionID.String(),
		Name:         l.Name,
		Date:         l.DateRange,
		Reason:       l.Reason,
		Status:       l.Status,
		ErrorMessage: l.ErrorMessage,
		HTTPStatus:   l.HTTPStatus,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
}

func mapToLogListResponse(logs []SubmissionLog) []SubmissionLogResponse {
	resp := make([]SubmissionLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = mapToLogResponse(l)
	}
	return resp
}
