package boost

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users       map[int64]*domain.User
	boostByID   map[int64]bool
	repoQueries int
}

func newFakeUserRepo(ids ...int64) *fakeUserRepo {
	r := &fakeUserRepo{
		users:     make(map[int64]*domain.User),
		boostByID: make(map[int64]bool),
	}
	for _, id := range ids {
		r.users[id] = &domain.User{TelegramID: id, TelegramChatID: id}
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.TelegramID] = user
	return nil
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, _ *domain.User) error { return nil }
func (r *fakeUserRepo) UpdateLastSeen(_ context.Context, _ int64) error       { return nil }
func (r *fakeUserRepo) SetBoost(_ context.Context, _ int64) error             { return nil }

func (r *fakeUserRepo) GetBoostStatus(_ context.Context, id int64) (bool, error) {
	r.repoQueries++
	return r.boostByID[id], nil
}

func (r *fakeUserRepo) IncrementDonate(_ context.Context, _ int64) error            { return nil }
func (r *fakeUserRepo) IncrementBonusStars(_ context.Context, _ int64, _ int) error { return nil }
func (r *fakeUserRepo) ApplyEnergyBoost(_ context.Context, _ int64) error           { return nil }

type referralKey struct {
	inviter int64
	invitee int64
}

type fakeReferralRepo struct {
	referrals map[referralKey]*domain.Referral
	creates   int
}

func newFakeReferralRepo() *fakeReferralRepo {
	return &fakeReferralRepo{referrals: make(map[referralKey]*domain.Referral)}
}

func (r *fakeReferralRepo) Create(_ context.Context, ref *domain.Referral) error {
	r.creates++
	key := referralKey{ref.InviterTelegramID, ref.InviteeTelegramID}
	if _, exists := r.referrals[key]; exists {
		return nil
	}
	cp := *ref
	r.referrals[key] = &cp
	return nil
}

func (r *fakeReferralRepo) MarkRewarded(_ context.Context, inviter, invitee int64) (bool, error) {
	ref, ok := r.referrals[referralKey{inviter, invitee}]
	if !ok || ref.Rewarded {
		return false, nil
	}
	ref.Rewarded = true
	return true, nil
}

func (r *fakeReferralRepo) GetByInvitee(_ context.Context, invitee int64) (*domain.Referral, error) {
	for _, ref := range r.referrals {
		if ref.InviteeTelegramID == invitee {
			cp := *ref
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeReferralRepo) ListByInviter(_ context.Context, inviter int64) ([]domain.Referral, error) {
	var out []domain.Referral
	for _, ref := range r.referrals {
		if ref.InviterTelegramID == inviter {
			out = append(out, *ref)
		}
	}
	return out, nil
}

type fakeSender struct {
	messages []string
}

func (s *fakeSender) SendMessage(_ context.Context, _ int64, text string) error {
	s.messages = append(s.messages, text)
	return nil
}

func (s *fakeSender) SendMessageWithMarkdown(_ context.Context, _ int64, text string) error {
	s.messages = append(s.messages, text)
	return nil
}

type fakePaymentService struct {
	invoiceErr error
	invoices   int
}

func (p *fakePaymentService) CreateInvoice(_ context.Context, kind domain.ProductKind, userID, chatID, referrerID int64) (*domain.Payment, error) {
	if p.invoiceErr != nil {
		return nil, p.invoiceErr
	}
	p.invoices++
	return &domain.Payment{UserTelegramID: userID, Kind: kind}, nil
}

func (p *fakePaymentService) CreateInvoiceLink(_ context.Context, _ domain.ProductKind, _ int64) (string, error) {
	if p.invoiceErr != nil {
		return "", p.invoiceErr
	}
	return "https://t.me/invoice/abc", nil
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.values[key]
	return ok, nil
}

func (c *fakeCache) Close() error { return nil }

func newTestService(users *fakeUserRepo, referrals *fakeReferralRepo, sender *fakeSender, payments *fakePaymentService, cache *fakeCache) *Service {
	if cache == nil {
		return New(users, referrals, sender, payments, nil, slog.Default())
	}
	return New(users, referrals, sender, payments, cache, slog.Default())
}

func TestParseReferralCode(t *testing.T) {
	cases := map[string]int64{
		"2002":    2002,
		"ref2002": 2002,
		" ref7 ":  7,
		"":        0,
		"ref":     0,
		"refabc":  0,
		"-5":      0,
		"ref-5":   0,
		"0":       0,
	}

	for input, want := range cases {
		require.Equal(t, want, parseReferralCode(input), "input %q", input)
	}
}

func TestStartWithReferralRecordsLink(t *testing.T) {
	users := newFakeUserRepo(1001, 2002)
	referrals := newFakeReferralRepo()
	sender := &fakeSender{}
	svc := newTestService(users, referrals, sender, &fakePaymentService{}, nil)

	err := svc.HandleStart(context.Background(), users.users[1001], "ref2002")
	require.NoError(t, err)

	ref := referrals.referrals[referralKey{2002, 1001}]
	require.NotNil(t, ref)
	require.False(t, ref.Rewarded)
	require.Len(t, sender.messages, 1)
}

func TestStartWithReferralIsIdempotent(t *testing.T) {
	users := newFakeUserRepo(1001, 2002)
	referrals := newFakeReferralRepo()
	sender := &fakeSender{}
	svc := newTestService(users, referrals, sender, &fakePaymentService{}, nil)

	ctx := context.Background()
	require.NoError(t, svc.HandleStart(ctx, users.users[1001], "ref2002"))

	// Награда уже выдана - повторный /start не должен её сбросить
	referrals.referrals[referralKey{2002, 1001}].Rewarded = true

	require.NoError(t, svc.HandleStart(ctx, users.users[1001], "ref2002"))
	require.True(t, referrals.referrals[referralKey{2002, 1001}].Rewarded)
	require.Len(t, referrals.referrals, 1)
}

func TestStartSelfReferralIgnored(t *testing.T) {
	users := newFakeUserRepo(1001)
	referrals := newFakeReferralRepo()
	sender := &fakeSender{}
	svc := newTestService(users, referrals, sender, &fakePaymentService{}, nil)

	err := svc.HandleStart(context.Background(), users.users[1001], "ref1001")
	require.NoError(t, err)
	require.Empty(t, referrals.referrals)
}

func TestStartUnknownInviterSkipped(t *testing.T) {
	users := newFakeUserRepo(1001)
	referrals := newFakeReferralRepo()
	sender := &fakeSender{}
	svc := newTestService(users, referrals, sender, &fakePaymentService{}, nil)

	err := svc.HandleStart(context.Background(), users.users[1001], "ref9999")
	require.NoError(t, err)
	require.Empty(t, referrals.referrals)
}

func TestSendStarsFailureRepliesWithError(t *testing.T) {
	users := newFakeUserRepo(1001)
	sender := &fakeSender{}
	payments := &fakePaymentService{invoiceErr: errors.New("telegram is down")}
	svc := newTestService(users, newFakeReferralRepo(), sender, payments, nil)

	err := svc.HandleSendStars(context.Background(), users.users[1001])
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
	require.Contains(t, sender.messages[0], "инвойс")
}

func TestGetBoostStatusUnknownUserIsFalse(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users, newFakeReferralRepo(), &fakeSender{}, &fakePaymentService{}, nil)

	boost, err := svc.GetBoostStatus(context.Background(), 424242)
	require.NoError(t, err)
	require.False(t, boost)
}

func TestGetBoostStatusUsesCache(t *testing.T) {
	users := newFakeUserRepo(1001)
	users.boostByID[1001] = true
	cache := newFakeCache()
	svc := newTestService(users, newFakeReferralRepo(), &fakeSender{}, &fakePaymentService{}, cache)

	ctx := context.Background()

	boost, err := svc.GetBoostStatus(ctx, 1001)
	require.NoError(t, err)
	require.True(t, boost)
	require.Equal(t, 1, users.repoQueries)

	// Второй запрос отдаётся из кеша
	boost, err = svc.GetBoostStatus(ctx, 1001)
	require.NoError(t, err)
	require.True(t, boost)
	require.Equal(t, 1, users.repoQueries)
}

func TestGetOrCreateUserCreatesWithFullEnergy(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users, newFakeReferralRepo(), &fakeSender{}, &fakePaymentService{}, nil)

	user, err := svc.GetOrCreateUser(context.Background(),
		&domain.TelegramUser{ID: 1001, FirstName: "Ivan"},
		&domain.Chat{ID: 555, Type: "private"},
	)
	require.NoError(t, err)
	require.Equal(t, int64(1001), user.TelegramID)
	require.Equal(t, int64(555), user.TelegramChatID)
	require.Equal(t, domain.MaxClickerEnergy, user.ClickerEnergy)
	require.NotNil(t, users.users[1001])
}

func TestStatusCountsInvitedFriends(t *testing.T) {
	users := newFakeUserRepo(2002)
	referrals := newFakeReferralRepo()
	require.NoError(t, referrals.Create(context.Background(), &domain.Referral{
		InviterTelegramID: 2002,
		InviteeTelegramID: 1001,
	}))
	sender := &fakeSender{}
	svc := newTestService(users, referrals, sender, &fakePaymentService{}, nil)

	err := svc.HandleStatus(context.Background(), users.users[2002])
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
	require.Contains(t, sender.messages[0], "1")
}
