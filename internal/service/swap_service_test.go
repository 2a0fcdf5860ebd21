package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/skillswap-service/internal/config"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/events"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

type swapFixture struct {
	svc        *SwapService
	users      *fakeUserRepo
	swaps      *fakeSwapRepo
	dispatcher *recordingDispatcher

	alice *domain.User
	bob   *domain.User
	carol *domain.User
}

func newSwapFixture(t *testing.T, policy config.SwapConfig) *swapFixture {
	t.Helper()
	f := &swapFixture{
		users:      newFakeUserRepo(),
		swaps:      newFakeSwapRepo(),
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewSwapService(policy, SwapDependencies{
		SwapRepo:   f.swaps,
		UserRepo:   f.users,
		Dispatcher: f.dispatcher,
	})
	f.alice = f.seedUser(t, "alice@example.com")
	f.bob = f.seedUser(t, "bob@example.com")
	f.carol = f.seedUser(t, "carol@example.com")
	return f
}

func (f *swapFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:          email,
		Email:         email,
		Availability:  domain.DefaultAvailability,
		SkillsOffered: []string{"Photoshop"},
		SkillsWanted:  []string{"Excel"},
		IsPublic:      true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func defaultSwapPolicy() config.SwapConfig {
	return config.SwapConfig{AllowResendAfterRejection: true}
}

func validSwapInput(receiverID string) SwapCreateInput {
	return SwapCreateInput{
		ReceiverID:   receiverID,
		SkillOffered: "Photoshop",
		SkillWanted:  "Excel",
	}
}

func TestSwapCreate(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	req, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, domain.SwapStatusPending, req.Status)
	assert.Equal(t, f.alice.ID, req.RequesterID)
	assert.Equal(t, f.bob.ID, req.ReceiverID)
	assert.Len(t, f.dispatcher.byType(events.EventSwapRequestCreated), 1)
}

func TestSwapCreateRejectsSelfRequest(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	_, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.alice.ID))
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestSwapCreateMissingSkills(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	input := validSwapInput(f.bob.ID)
	input.SkillWanted = "   "
	_, err := f.svc.Create(context.Background(), f.alice.ID, input)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestSwapCreateUnknownReceiver(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	_, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput("missing"))
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestSwapCreateBannedReceiverReadsAsNotFound(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	reason := "spam"
	require.NoError(t, f.users.SetBan(context.Background(), f.bob.ID, true, &reason))

	_, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestSwapCreateDuplicatePendingPair(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	_, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	// A different skill pair with the same receiver is still fine.
	other := validSwapInput(f.bob.ID)
	other.SkillOffered = "Cooking"
	_, err = f.svc.Create(context.Background(), f.alice.ID, other)
	assert.NoError(t, err)
}

func TestSwapResendAfterRejectionPolicy(t *testing.T) {
	t.Parallel()

	rejectPair := func(t *testing.T, f *swapFixture) {
		req, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
		require.NoError(t, err)
		_, err = f.svc.UpdateStatus(context.Background(), f.bob.ID, req.ID, domain.SwapStatusRejected, nil)
		require.NoError(t, err)
	}

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()
		f := newSwapFixture(t, config.SwapConfig{AllowResendAfterRejection: true})
		rejectPair(t, f)

		_, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
		assert.NoError(t, err)
	})

	t.Run("blocked", func(t *testing.T) {
		t.Parallel()
		f := newSwapFixture(t, config.SwapConfig{AllowResendAfterRejection: false})
		rejectPair(t, f)

		_, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
		assert.Equal(t, "CONFLICT", errorCode(t, err))
	})
}

func TestSwapGetParticipantsOnly(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	req, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)

	for _, actorID := range []string{f.alice.ID, f.bob.ID} {
		got, err := f.svc.Get(context.Background(), actorID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, req.ID, got.ID)
	}

	_, err = f.svc.Get(context.Background(), f.carol.ID, req.ID)
	assert.Equal(t, "FORBIDDEN", errorCode(t, err))
}

func TestSwapAcceptByReceiver(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	req, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)

	note := "See you Saturday"
	updated, err := f.svc.UpdateStatus(context.Background(), f.bob.ID, req.ID, domain.SwapStatusAccepted, &note)
	require.NoError(t, err)

	assert.Equal(t, domain.SwapStatusAccepted, updated.Status)
	require.NotNil(t, updated.AcceptanceMessage)
	assert.Equal(t, note, *updated.AcceptanceMessage)
	assert.Len(t, f.dispatcher.byType(events.EventSwapRequestStatusChanged), 1)
}

// racingSwapRepo loses the first status write: the row flips to CANCELLED
// underneath the caller, as if a concurrent writer committed between the
// read and the predicated update.
type racingSwapRepo struct {
	*fakeSwapRepo
	raced bool
}

func (r *racingSwapRepo) TransitionStatus(ctx context.Context, req *domain.SwapRequest, next domain.SwapStatus, acceptanceMessage *string) error {
	if !r.raced {
		r.raced = true
		if stored, ok := r.reqs[req.ID]; ok {
			stored.Status = domain.SwapStatusCancelled
		}
		return pgx.ErrNoRows
	}
	return r.fakeSwapRepo.TransitionStatus(ctx, req, next, acceptanceMessage)
}

func TestSwapAcceptLosingConcurrentWriteFailsWithInvalidTransition(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	swaps := &racingSwapRepo{fakeSwapRepo: newFakeSwapRepo()}
	svc := NewSwapService(defaultSwapPolicy(), SwapDependencies{SwapRepo: swaps, UserRepo: users})

	alice := &domain.User{Name: "alice", Email: "alice@example.com", IsPublic: true, SkillsOffered: []string{"A"}, SkillsWanted: []string{"B"}}
	require.NoError(t, users.Create(context.Background(), alice))
	bob := &domain.User{Name: "bob", Email: "bob@example.com", IsPublic: true, SkillsOffered: []string{"B"}, SkillsWanted: []string{"A"}}
	require.NoError(t, users.Create(context.Background(), bob))

	req, err := svc.Create(context.Background(), alice.ID, validSwapInput(bob.ID))
	require.NoError(t, err)

	// The receiver read PENDING, passes the access check, and then loses
	// the predicated write to a concurrent cancellation.
	_, err = svc.UpdateStatus(context.Background(), bob.ID, req.ID, domain.SwapStatusAccepted, nil)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	assert.Equal(t, string(domain.SwapStatusCancelled), domainErr.Details["current_status"])
	assert.Equal(t, string(domain.SwapStatusAccepted), domainErr.Details["requested_status"])
}

func TestSwapAcceptTwiceFailsWithInvalidTransition(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	req, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), f.bob.ID, req.ID, domain.SwapStatusAccepted, nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), f.bob.ID, req.ID, domain.SwapStatusAccepted, nil)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, err))
}

func TestSwapTransitionRoles(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	cases := []struct {
		name    string
		actorID func(*swapFixture) string
		next    domain.SwapStatus
		code    string
	}{
		{"requester cannot accept", func(f *swapFixture) string { return f.alice.ID }, domain.SwapStatusAccepted, "FORBIDDEN"},
		{"requester cannot reject", func(f *swapFixture) string { return f.alice.ID }, domain.SwapStatusRejected, "FORBIDDEN"},
		{"receiver cannot cancel", func(f *swapFixture) string { return f.bob.ID }, domain.SwapStatusCancelled, "FORBIDDEN"},
		{"stranger cannot accept", func(f *swapFixture) string { return f.carol.ID }, domain.SwapStatusAccepted, "FORBIDDEN"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			input := validSwapInput(f.bob.ID)
			input.SkillOffered = tc.name // distinct pair per subtest
			req, err := f.svc.Create(context.Background(), f.alice.ID, input)
			require.NoError(t, err)

			_, err = f.svc.UpdateStatus(context.Background(), tc.actorID(f), req.ID, tc.next, nil)
			assert.Equal(t, tc.code, errorCode(t, err))
		})
	}
}

func TestSwapCancelByRequester(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	req, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), f.alice.ID, req.ID, domain.SwapStatusCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusCancelled, updated.Status)
}

func TestSwapDelete(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	req, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), f.bob.ID, req.ID)
	assert.Equal(t, "FORBIDDEN", errorCode(t, err))

	require.NoError(t, f.svc.Delete(context.Background(), f.alice.ID, req.ID))

	_, err = f.svc.Get(context.Background(), f.alice.ID, req.ID)
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestSwapListSentAndReceived(t *testing.T) {
	t.Parallel()
	f := newSwapFixture(t, defaultSwapPolicy())

	toBob, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.bob.ID))
	require.NoError(t, err)
	toCarol, err := f.svc.Create(context.Background(), f.alice.ID, validSwapInput(f.carol.ID))
	require.NoError(t, err)

	sent, err := f.svc.ListSent(context.Background(), f.alice.ID, SwapListFilter{})
	require.NoError(t, err)
	require.Len(t, sent, 2)
	// Newest first.
	assert.Equal(t, toCarol.ID, sent[0].ID)
	assert.Equal(t, toBob.ID, sent[1].ID)

	received, err := f.svc.ListReceived(context.Background(), f.bob.ID, SwapListFilter{})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, toBob.ID, received[0].ID)

	pending := domain.SwapStatusPending
	_, err = f.svc.UpdateStatus(context.Background(), f.bob.ID, toBob.ID, domain.SwapStatusRejected, nil)
	require.NoError(t, err)
	sent, err = f.svc.ListSent(context.Background(), f.alice.ID, SwapListFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, toCarol.ID, sent[0].ID)
}
