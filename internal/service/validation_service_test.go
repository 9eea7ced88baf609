package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

type fakeCatalog struct {
	activities []model.Activity
}

func (f *fakeCatalog) FindByCode(_ context.Context, code string) (*model.Activity, error) {
	for i := range f.activities {
		if f.activities[i].Code == code {
			a := f.activities[i]
			return &a, nil
		}
	}
	return nil, util.ErrActivityNotFound
}

func (f *fakeCatalog) FindByID(_ context.Context, id uint) (*model.Activity, error) {
	for i := range f.activities {
		if f.activities[i].ID == id {
			a := f.activities[i]
			return &a, nil
		}
	}
	return nil, util.ErrActivityNotFound
}

func (f *fakeCatalog) ListAll(_ context.Context) ([]model.Activity, error) {
	return append([]model.Activity(nil), f.activities...), nil
}

type grantKey struct {
	userID     uint
	activityID uint
}

type existsResult struct {
	done bool
	err  error
}

// fakeLedger mirrors the database guard: the check and the insert happen
// under one lock, so concurrent duplicates lose deterministically. Failure
// injection: grantErr fails the next TryGrant once; existsQueue overrides
// Exists answers in call order.
type fakeLedger struct {
	mu     sync.Mutex
	grants map[grantKey]model.Completion

	grantErr    error
	existsQueue []existsResult
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{grants: make(map[grantKey]model.Completion)}
}

func (f *fakeLedger) TryGrant(_ context.Context, userID, activityID uint, correct bool) (*model.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.grantErr != nil {
		err := f.grantErr
		f.grantErr = nil
		return nil, err
	}

	key := grantKey{userID, activityID}
	if _, ok := f.grants[key]; ok {
		return nil, util.ErrAlreadyCompleted
	}

	completion := model.Completion{
		UserID:     userID,
		ActivityID: activityID,
		GrantedAt:  time.Now(),
		Correct:    correct,
	}
	f.grants[key] = completion
	return &completion, nil
}

func (f *fakeLedger) Exists(_ context.Context, userID, activityID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.existsQueue) > 0 {
		next := f.existsQueue[0]
		f.existsQueue = f.existsQueue[1:]
		return next.done, next.err
	}

	_, ok := f.grants[grantKey{userID, activityID}]
	return ok, nil
}

func (f *fakeLedger) ListForUser(_ context.Context, userID uint) ([]model.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var completions []model.Completion
	for key, c := range f.grants {
		if key.userID == userID {
			completions = append(completions, c)
		}
	}
	return completions, nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.grants)
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{activities: []model.Activity{
		{
			BaseModel:      model.BaseModel{ID: 1},
			Code:           "FICAM-01",
			Title:          "Atelier Couleurs",
			Question:       "Quelle couleur?",
			ExpectedAnswer: "Bleu",
			IsMandatory:    true,
		},
		{
			BaseModel: model.BaseModel{ID: 2},
			Code:      "FICAM-02",
			Title:     "Projection libre",
		},
	}}
}

type fakePublisher struct {
	mu         sync.Mutex
	ctx        context.Context
	userID     uint
	activityID uint
}

func (f *fakePublisher) PublishGrant(ctx context.Context, userID uint, activity *model.Activity, grantedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctx = ctx
	f.userID = userID
	f.activityID = activity.ID
}

func TestValidateUnknownCode(t *testing.T) {
	s := NewValidationService(testCatalog(), newFakeLedger(), nil)

	result, err := s.Validate(context.Background(), 1, "NOT-A-REAL-CODE", "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, ReasonUnknownCode, result.Reason)
	assert.Empty(t, result.Question)
}

func TestValidateCodeIsCaseSensitive(t *testing.T) {
	s := NewValidationService(testCatalog(), newFakeLedger(), nil)

	// Codes compare byte-wise: a hand-typed lowercase variant of a real
	// code is not recognized.
	result, err := s.Validate(context.Background(), 1, "ficam-02", "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, ReasonUnknownCode, result.Reason)
}

func TestValidateChallengeThenGrant(t *testing.T) {
	ledger := newFakeLedger()
	s := NewValidationService(testCatalog(), ledger, nil)
	ctx := context.Background()

	// No answer yet: the engine must ask, not grant.
	result, err := s.Validate(ctx, 1, "FICAM-01", "")
	require.NoError(t, err)
	assert.Equal(t, StatusChallenge, result.Status)
	assert.Equal(t, "Quelle couleur?", result.Question)
	assert.Equal(t, "Atelier Couleurs", result.ActivityTitle)
	assert.Equal(t, 0, ledger.count())

	// Second round trip with the answer.
	result, err = s.Validate(ctx, 1, "FICAM-01", "bleu")
	require.NoError(t, err)
	assert.Equal(t, StatusGranted, result.Status)
	assert.NotNil(t, result.GrantedAt)
	assert.Equal(t, 1, ledger.count())

	// Resubmitting is idempotent.
	result, err = s.Validate(ctx, 1, "FICAM-01", "bleu")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, ReasonAlreadyDone, result.Reason)
	assert.Equal(t, 1, ledger.count())
}

func TestValidateNoQuestionGrantsImmediately(t *testing.T) {
	ledger := newFakeLedger()
	s := NewValidationService(testCatalog(), ledger, nil)

	result, err := s.Validate(context.Background(), 7, "FICAM-02", "")
	require.NoError(t, err)
	assert.Equal(t, StatusGranted, result.Status)
	assert.Equal(t, "Projection libre", result.ActivityTitle)
	assert.Equal(t, 1, ledger.count())
}

func TestValidateWrongAnswerLeavesStateUntouched(t *testing.T) {
	ledger := newFakeLedger()
	s := NewValidationService(testCatalog(), ledger, nil)
	ctx := context.Background()

	result, err := s.Validate(ctx, 1, "FICAM-01", "rougee")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, ReasonWrongAnswer, result.Reason)
	assert.Equal(t, 0, ledger.count())

	// Wrong answers are retriable without limit.
	result, err = s.Validate(ctx, 1, "FICAM-01", "BLEU")
	require.NoError(t, err)
	assert.Equal(t, StatusGranted, result.Status)
}

func TestAnswerMatches(t *testing.T) {
	cases := []struct {
		submitted string
		expected  string
		want      bool
	}{
		{"  Rouge ", "Rouge", true},
		{"rouge", "Rouge", true},
		{"ROUGE", "Rouge", true},
		{"rougee", "Rouge", false},
		{"", "Rouge", false},
		{"bleu", "Bleu ", true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, AnswerMatches(tc.submitted, tc.expected),
			"submitted=%q expected=%q", tc.submitted, tc.expected)
	}
}

func TestValidateConcurrentSameActivity(t *testing.T) {
	ledger := newFakeLedger()
	s := NewValidationService(testCatalog(), ledger, nil)

	const attempts = 32
	results := make([]*ValidationResult, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Validate(context.Background(), 1, "FICAM-01", "Bleu")
		}(i)
	}
	wg.Wait()

	granted := 0
	for i, r := range results {
		require.NoError(t, errs[i])
		switch r.Status {
		case StatusGranted:
			granted++
		case StatusRejected:
			assert.Equal(t, ReasonAlreadyDone, r.Reason)
		default:
			t.Fatalf("unexpected status %q", r.Status)
		}
	}
	assert.Equal(t, 1, granted)
	assert.Equal(t, 1, ledger.count())
}

func TestValidateAmbiguousWriteResolvedByRequery(t *testing.T) {
	ledger := newFakeLedger()
	s := NewValidationService(testCatalog(), ledger, nil)

	// Pre-check misses, the insert fails ambiguously (ack lost), and the
	// re-query finds the row: the user sees "already done", never a false
	// failure after a landed write.
	ledger.grantErr = errors.New("timeout after send")
	ledger.existsQueue = []existsResult{
		{done: false},
		{done: true},
	}

	result, err := s.Validate(context.Background(), 1, "FICAM-02", "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, ReasonAlreadyDone, result.Reason)
}

func TestValidateStorageErrorIsSurfaced(t *testing.T) {
	ledger := newFakeLedger()
	s := NewValidationService(testCatalog(), ledger, nil)

	// The insert fails and the re-query confirms nothing landed.
	ledger.grantErr = errors.New("disk on fire")

	result, err := s.Validate(context.Background(), 9, "FICAM-02", "")
	assert.ErrorIs(t, err, util.ErrStorageUnavailable)
	assert.Nil(t, result)
	assert.Equal(t, 0, ledger.count())
}

func TestGrantEventOutlivesRequestContext(t *testing.T) {
	pub := &fakePublisher{}
	s := NewValidationService(testCatalog(), newFakeLedger(), pub)

	ctx, cancel := context.WithCancel(context.Background())
	result, err := s.Validate(ctx, 1, "FICAM-02", "")
	require.NoError(t, err)
	assert.Equal(t, StatusGranted, result.Status)

	// The client hangs up right after the commit; the published event's
	// context must not be cancelled with it.
	cancel()

	require.NotNil(t, pub.ctx)
	assert.NoError(t, pub.ctx.Err())
	assert.Equal(t, uint(1), pub.userID)
	assert.Equal(t, uint(2), pub.activityID)
}

func TestManualAssign(t *testing.T) {
	ledger := newFakeLedger()
	s := NewValidationService(testCatalog(), ledger, nil)
	ctx := context.Background()

	result, err := s.ManualAssign(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusGranted, result.Status)
	assert.Equal(t, "Atelier Couleurs", result.ActivityTitle)

	// Assigning twice is the same rejection a duplicate scan gets.
	result, err = s.ManualAssign(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, ReasonAlreadyDone, result.Reason)

	_, err = s.ManualAssign(ctx, 5, 999)
	assert.ErrorIs(t, err, util.ErrActivityNotFound)
}
