package payment

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
	paymentPort "github.com/Andrey15243/Pin/internal/ports/payment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// --- in-memory фейки портов ---

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(ids ...int64) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, id := range ids {
		r.users[id] = &domain.User{TelegramID: id, ClickerEnergy: 500}
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

func (r *fakeUserRepo) SetBoost(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Boost = true
	return nil
}

func (r *fakeUserRepo) GetBoostStatus(_ context.Context, id int64) (bool, error) {
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	return u.Boost, nil
}

func (r *fakeUserRepo) IncrementDonate(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Donate++
	return nil
}

func (r *fakeUserRepo) IncrementBonusStars(_ context.Context, id int64, amount int) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.BonusStars += amount
	return nil
}

func (r *fakeUserRepo) ApplyEnergyBoost(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EnergyBoost++
	u.ClickerEnergy = domain.MaxClickerEnergy
	return nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*domain.Payment
	getErr   error // одноразовая ошибка чтения
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*domain.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	if r.getErr != nil {
		err := r.getErr
		r.getErr = nil
		return nil, err
	}
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) MarkSucceeded(_ context.Context, id uuid.UUID, chargeID string) (bool, error) {
	p, ok := r.payments[id]
	if !ok || p.Status != domain.PaymentStatusPending {
		return false, nil
	}
	now := time.Now()
	p.Status = domain.PaymentStatusSucceeded
	p.ProviderID = chargeID
	p.SucceededAt = &now
	return true, nil
}

func (r *fakePaymentRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	if p, ok := r.payments[id]; ok {
		p.Status = domain.PaymentStatusFailed
		p.ErrorMessage = &reason
	}
	return nil
}

func (r *fakePaymentRepo) GetPendingOlderThan(_ context.Context, cutoff time.Time) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.payments {
		if p.Status == domain.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) UpdateProviderID(_ context.Context, id uuid.UUID, providerID string) error {
	if p, ok := r.payments[id]; ok {
		p.ProviderID = providerID
	}
	return nil
}

type referralKey struct {
	inviter int64
	invitee int64
}

type fakeReferralRepo struct {
	referrals map[referralKey]*domain.Referral
}

func newFakeReferralRepo() *fakeReferralRepo {
	return &fakeReferralRepo{referrals: make(map[referralKey]*domain.Referral)}
}

func (r *fakeReferralRepo) Create(_ context.Context, ref *domain.Referral) error {
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

type preCheckoutAnswer struct {
	queryID string
	ok      bool
	reason  *string
}

type fakeProvider struct {
	sendErr    error
	answers    []preCheckoutAnswer
	sentChats  []int64
	linksAsked int
}

func (p *fakeProvider) SendInvoice(_ context.Context, req paymentPort.CreateInvoiceRequest) (*paymentPort.CreateInvoiceResult, error) {
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	p.sentChats = append(p.sentChats, req.ChatID)
	return &paymentPort.CreateInvoiceResult{ProviderID: "123"}, nil
}

func (p *fakeProvider) CreateInvoiceLink(_ context.Context, _ paymentPort.CreateInvoiceRequest) (string, error) {
	if p.sendErr != nil {
		return "", p.sendErr
	}
	p.linksAsked++
	return "https://t.me/invoice/abc", nil
}

func (p *fakeProvider) ConfirmPreCheckout(_ context.Context, queryID string, ok bool, reason *string) error {
	p.answers = append(p.answers, preCheckoutAnswer{queryID: queryID, ok: ok, reason: reason})
	return nil
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

type fakeAlerter struct {
	alerts []string
}

func (a *fakeAlerter) SendAlert(_ context.Context, message string) error {
	a.alerts = append(a.alerts, message)
	return nil
}

// --- сборка сервиса для тестов ---

type testEnv struct {
	svc       *Service
	users     *fakeUserRepo
	payments  *fakePaymentRepo
	referrals *fakeReferralRepo
	provider  *fakeProvider
	sender    *fakeSender
	alerter   *fakeAlerter
}

func newTestEnv(userIDs ...int64) *testEnv {
	env := &testEnv{
		users:     newFakeUserRepo(userIDs...),
		payments:  newFakePaymentRepo(),
		referrals: newFakeReferralRepo(),
		provider:  &fakeProvider{},
		sender:    &fakeSender{},
		alerter:   &fakeAlerter{},
	}
	env.svc = New(
		env.payments,
		env.users,
		env.referrals,
		env.provider,
		env.sender,
		env.alerter,
		nil,
		nil,
		Prices{Boost: 10000, Donate: 250, Energy: 100},
		slog.Default(),
	)
	return env
}

// settle эмулирует successful_payment от Telegram для созданного платежа
func settle(t *testing.T, env *testEnv, payment *domain.Payment) {
	t.Helper()
	err := env.svc.HandleSuccessfulPayment(context.Background(), payment.UserTelegramID, &domain.SuccessfulPayment{
		Currency:                payment.Currency,
		TotalAmount:             payment.Amount,
		InvoicePayload:          payment.Payload,
		TelegramPaymentChargeID: "charge-" + payment.ID.String(),
	})
	require.NoError(t, err)
}

// --- тесты ---

func TestBoostPurchaseGrantsEntitlement(t *testing.T) {
	env := newTestEnv(1001)

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 0)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPending, payment.Status)
	require.Equal(t, int64(10000), payment.Amount)

	settle(t, env, payment)

	require.True(t, env.users.users[1001].Boost)
	require.Len(t, env.sender.messages, 1)
	require.Contains(t, env.sender.messages[0], "Boost активирован")
}

func TestDuplicateDeliveryDoesNotDoubleApply(t *testing.T) {
	env := newTestEnv(3003)
	env.users.users[3003].Donate = 4

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductDonate, 3003, 3003, 0)
	require.NoError(t, err)

	settle(t, env, payment)
	require.Equal(t, 5, env.users.users[3003].Donate)

	// Telegram повторил доставку того же уведомления
	settle(t, env, payment)
	require.Equal(t, 5, env.users.users[3003].Donate)
}

func TestEnergyPurchaseResetsClickerEnergy(t *testing.T) {
	env := newTestEnv(1001)
	env.users.users[1001].ClickerEnergy = 7

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductEnergy, 1001, 1001, 0)
	require.NoError(t, err)

	settle(t, env, payment)

	require.Equal(t, 1, env.users.users[1001].EnergyBoost)
	require.Equal(t, domain.MaxClickerEnergy, env.users.users[1001].ClickerEnergy)
}

func TestReferralBonusCreditedOnce(t *testing.T) {
	env := newTestEnv(1001, 2002)
	require.NoError(t, env.referrals.Create(context.Background(), &domain.Referral{
		InviterTelegramID: 2002,
		InviteeTelegramID: 1001,
		InviteeName:       "invitee",
	}))

	// Реферер подтягивается из связи автоматически
	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 0)
	require.NoError(t, err)
	require.NotNil(t, payment.ReferrerTelegramID)
	require.Equal(t, int64(2002), *payment.ReferrerTelegramID)

	settle(t, env, payment)

	require.True(t, env.users.users[1001].Boost)
	require.Equal(t, 1, env.users.users[2002].BonusStars)
	require.True(t, env.referrals.referrals[referralKey{2002, 1001}].Rewarded)

	// Вторая покупка boost тем же пользователем не даёт второй награды
	second, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 2002)
	require.NoError(t, err)
	settle(t, env, second)
	require.Equal(t, 1, env.users.users[2002].BonusStars)
}

func TestSelfReferralNeverCredits(t *testing.T) {
	env := newTestEnv(1001)

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 1001)
	require.NoError(t, err)
	require.Nil(t, payment.ReferrerTelegramID)

	settle(t, env, payment)
	require.Zero(t, env.users.users[1001].BonusStars)
}

func TestPreCheckoutApprovesValidPayload(t *testing.T) {
	env := newTestEnv(1001)

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 0)
	require.NoError(t, err)

	err = env.svc.HandlePreCheckoutQuery(context.Background(), &domain.PreCheckoutQuery{
		ID:             "q1",
		From:           &domain.TelegramUser{ID: 1001},
		Currency:       domain.StarsCurrency,
		TotalAmount:    payment.Amount,
		InvoicePayload: payment.Payload,
	})
	require.NoError(t, err)

	require.Len(t, env.provider.answers, 1)
	require.True(t, env.provider.answers[0].ok)
}

func TestPreCheckoutRejectsMalformedPayload(t *testing.T) {
	env := newTestEnv(1001)

	err := env.svc.HandlePreCheckoutQuery(context.Background(), &domain.PreCheckoutQuery{
		ID:             "q1",
		From:           &domain.TelegramUser{ID: 1001},
		Currency:       domain.StarsCurrency,
		TotalAmount:    10000,
		InvoicePayload: "not-a-payload",
	})
	require.NoError(t, err)

	require.Len(t, env.provider.answers, 1)
	require.False(t, env.provider.answers[0].ok)
	require.NotNil(t, env.provider.answers[0].reason)
}

func TestPreCheckoutRejectsAmountMismatch(t *testing.T) {
	env := newTestEnv(1001)

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 0)
	require.NoError(t, err)

	err = env.svc.HandlePreCheckoutQuery(context.Background(), &domain.PreCheckoutQuery{
		ID:             "q1",
		From:           &domain.TelegramUser{ID: 1001},
		Currency:       domain.StarsCurrency,
		TotalAmount:    payment.Amount + 1,
		InvoicePayload: payment.Payload,
	})
	require.NoError(t, err)

	require.Len(t, env.provider.answers, 1)
	require.False(t, env.provider.answers[0].ok)
}

func TestPaymentReadFailureKeepsRedeliveryAlive(t *testing.T) {
	env := newTestEnv(1001)

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 0)
	require.NoError(t, err)

	// Чтение платежа падает до перехода pending→succeeded: ошибка уходит
	// наверх, токен идемпотентности не потрачен
	env.payments.getErr = errors.New("db connection reset")
	err = env.svc.HandleSuccessfulPayment(context.Background(), 1001, &domain.SuccessfulPayment{
		Currency:                payment.Currency,
		TotalAmount:             payment.Amount,
		InvoicePayload:          payment.Payload,
		TelegramPaymentChargeID: "charge-1",
	})
	require.Error(t, err)
	require.False(t, env.users.users[1001].Boost)

	stored, err := env.payments.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPending, stored.Status)

	// Повторная доставка от Telegram доводит начисление до конца
	settle(t, env, payment)
	require.True(t, env.users.users[1001].Boost)
	require.Len(t, env.sender.messages, 1)
}

func TestGrantFailureNotifiesSupport(t *testing.T) {
	env := newTestEnv(1001)

	payment, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 0)
	require.NoError(t, err)

	// Пользователь исчез из хранилища между оплатой и начислением
	delete(env.users.users, 1001)

	settle(t, env, payment)

	require.Len(t, env.alerter.alerts, 1)
	require.Len(t, env.sender.messages, 1)
	require.Contains(t, env.sender.messages[0], "поддержку")

	// Платёж остаётся succeeded - списание состоялось, сверка ручная
	stored, err := env.payments.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusSucceeded, stored.Status)
}

func TestInvoiceIssueFailureLeavesNoPendingPayment(t *testing.T) {
	env := newTestEnv(1001)
	env.provider.sendErr = context.DeadlineExceeded

	_, err := env.svc.CreateInvoice(context.Background(), domain.ProductBoost, 1001, 1001, 0)
	require.Error(t, err)

	for _, p := range env.payments.payments {
		require.Equal(t, domain.PaymentStatusFailed, p.Status)
	}
	require.False(t, env.users.users[1001].Boost)
}

func TestCreateInvoiceLinkForMiniApp(t *testing.T) {
	env := newTestEnv(1001)

	link, err := env.svc.CreateInvoiceLink(context.Background(), domain.ProductEnergy, 1001)
	require.NoError(t, err)
	require.Equal(t, "https://t.me/invoice/abc", link)
	require.Equal(t, 1, env.provider.linksAsked)
}

func TestCreateInvoiceRejectsUnknownKind(t *testing.T) {
	env := newTestEnv(1001)

	_, err := env.svc.CreateInvoice(context.Background(), domain.ProductKind("subscription"), 1001, 1001, 0)
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
}
