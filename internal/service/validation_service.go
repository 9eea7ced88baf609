package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/monitoring"
)

// CatalogStore is the read side of the activity catalog as the validation
// protocol needs it.
type CatalogStore interface {
	FindByCode(ctx context.Context, code string) (*model.Activity, error)
	FindByID(ctx context.Context, id uint) (*model.Activity, error)
	ListAll(ctx context.Context) ([]model.Activity, error)
}

// LedgerStore is the completion ledger. TryGrant must be atomic: the
// uniqueness check and the insert are one operation, and a concurrent
// duplicate resolves to util.ErrAlreadyCompleted.
type LedgerStore interface {
	TryGrant(ctx context.Context, userID, activityID uint, correct bool) (*model.Completion, error)
	Exists(ctx context.Context, userID, activityID uint) (bool, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Completion, error)
}

// GrantPublisher receives a notification after each successful ledger write.
// Publishing is best-effort and must never fail the grant.
type GrantPublisher interface {
	PublishGrant(ctx context.Context, userID uint, activity *model.Activity, grantedAt time.Time)
}

type ValidationStatus string

const (
	StatusChallenge ValidationStatus = "challenge"
	StatusGranted   ValidationStatus = "granted"
	StatusRejected  ValidationStatus = "rejected"
)

type RejectReason string

const (
	ReasonUnknownCode RejectReason = "unknown_code"
	ReasonAlreadyDone RejectReason = "already_done"
	ReasonWrongAnswer RejectReason = "wrong_answer"
)

// ValidationResult is the single outcome type of a scan. Exactly one of the
// three statuses is set; Question accompanies a challenge, GrantedAt a grant,
// Reason a rejection.
// swagger:model ValidationResult
type ValidationResult struct {
	Status        ValidationStatus `json:"status"`
	ActivityTitle string           `json:"activityTitle,omitempty"`
	Question      string           `json:"question,omitempty"`
	Reason        RejectReason     `json:"reason,omitempty"`
	GrantedAt     *time.Time       `json:"grantedAt,omitempty"`
}

// ValidationService turns a scanned code, plus optionally an answer, into a
// challenge, a rejection, or a durable one-time grant. The service holds no
// state between calls; all state lives in the ledger.
type ValidationService struct {
	Catalog   CatalogStore
	Ledger    LedgerStore
	Publisher GrantPublisher
}

func NewValidationService(catalog CatalogStore, ledger LedgerStore, publisher GrantPublisher) *ValidationService {
	return &ValidationService{
		Catalog:   catalog,
		Ledger:    ledger,
		Publisher: publisher,
	}
}

// Validate runs the scan protocol:
//
//	code lookup -> unknown_code | already_done | challenge | answer check -> commit
//
// The only side effect is the single completion insert on the success path.
// A wrong answer changes nothing and may be retried indefinitely.
func (s *ValidationService) Validate(ctx context.Context, userID uint, code, answer string) (*ValidationResult, error) {
	activity, err := s.Catalog.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			monitoring.ValidationCounter.WithLabelValues("unknown_code").Inc()
			return &ValidationResult{Status: StatusRejected, Reason: ReasonUnknownCode}, nil
		}
		monitoring.ValidationCounter.WithLabelValues("storage_error").Inc()
		return nil, util.ErrStorageUnavailable
	}

	// Fast pre-check so a completed activity is rejected before the user is
	// prompted with a question. Correctness does not depend on it; a lookup
	// failure here just falls through to the guarded insert.
	if done, err := s.Ledger.Exists(ctx, userID, activity.ID); err == nil && done {
		monitoring.ValidationCounter.WithLabelValues("already_done").Inc()
		return &ValidationResult{Status: StatusRejected, Reason: ReasonAlreadyDone, ActivityTitle: activity.Title}, nil
	}

	answer = strings.TrimSpace(answer)

	if activity.HasQuestion() && answer == "" {
		monitoring.ValidationCounter.WithLabelValues("challenge").Inc()
		return &ValidationResult{
			Status:        StatusChallenge,
			ActivityTitle: activity.Title,
			Question:      activity.Question,
		}, nil
	}

	if activity.HasQuestion() && !AnswerMatches(answer, activity.ExpectedAnswer) {
		monitoring.ValidationCounter.WithLabelValues("wrong_answer").Inc()
		return &ValidationResult{Status: StatusRejected, Reason: ReasonWrongAnswer, ActivityTitle: activity.Title}, nil
	}

	return s.commit(ctx, userID, activity)
}

// commit performs the guarded ledger insert and maps its outcomes. Losing
// the insert race is reported exactly like the pre-check rejection.
func (s *ValidationService) commit(ctx context.Context, userID uint, activity *model.Activity) (*ValidationResult, error) {
	completion, err := s.Ledger.TryGrant(ctx, userID, activity.ID, true)
	if err != nil {
		if errors.Is(err, util.ErrAlreadyCompleted) {
			monitoring.ValidationCounter.WithLabelValues("already_done").Inc()
			return &ValidationResult{Status: StatusRejected, Reason: ReasonAlreadyDone, ActivityTitle: activity.Title}, nil
		}

		// Ambiguous write (e.g. timeout after send). Consult the ledger
		// before reporting a failure: if the record is there, the grant
		// landed and the safe answer is "already done", never a false error.
		if done, checkErr := s.Ledger.Exists(ctx, userID, activity.ID); checkErr == nil && done {
			monitoring.ValidationCounter.WithLabelValues("already_done").Inc()
			return &ValidationResult{Status: StatusRejected, Reason: ReasonAlreadyDone, ActivityTitle: activity.Title}, nil
		}

		monitoring.ValidationCounter.WithLabelValues("storage_error").Inc()
		return nil, util.ErrStorageUnavailable
	}

	if s.Publisher != nil {
		// The grant already landed; a client disconnecting right after the
		// commit must not cancel its own feed event.
		s.Publisher.PublishGrant(context.WithoutCancel(ctx), userID, activity, completion.GrantedAt)
	}

	monitoring.ValidationCounter.WithLabelValues("granted").Inc()
	return &ValidationResult{
		Status:        StatusGranted,
		ActivityTitle: activity.Title,
		GrantedAt:     &completion.GrantedAt,
	}, nil
}

// ManualAssign grants an activity to a user on behalf of an administrator.
// It rides the same guarded insert as a scan, so assigning twice is a no-op
// reported as util.ErrAlreadyCompleted.
func (s *ValidationService) ManualAssign(ctx context.Context, userID, activityID uint) (*ValidationResult, error) {
	activity, err := s.Catalog.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, userID, activity)
}

// AnswerMatches compares a submitted answer with the expected one, ignoring
// surrounding whitespace and letter case. No partial credit.
func AnswerMatches(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}
