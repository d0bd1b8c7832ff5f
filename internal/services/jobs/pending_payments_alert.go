package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Andrey15243/Pin/internal/ports/repository"
	"github.com/Andrey15243/Pin/internal/ports/service"
)

const pendingPaymentsAlertName = "pending-payments-alert"

// Сколько платёж может висеть в pending, прежде чем попадёт в алерт.
// Инвойс, не оплаченный за сутки, оплачен уже не будет.
const pendingPaymentCutoff = 24 * time.Hour

// PendingPaymentsAlert джоба для алертов о зависших pending-платежах,
// каждый час. Такие платежи сверяются с Telegram вручную - автоматический
// ретрай после списания звёзд небезопасен.
type PendingPaymentsAlert struct {
	paymentRepo    repository.IPaymentRepo
	alerterService service.IAlerterService
	log            *slog.Logger
}

func NewPendingPaymentsAlert(
	paymentRepo repository.IPaymentRepo,
	alerterService service.IAlerterService,
	log *slog.Logger,
) *PendingPaymentsAlert {
	return &PendingPaymentsAlert{
		paymentRepo:    paymentRepo,
		alerterService: alerterService,
		log:            log,
	}
}

func (j *PendingPaymentsAlert) Name() string {
	return pendingPaymentsAlertName
}

// NextRun каждый час в начале часа
func (j *PendingPaymentsAlert) NextRun(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}

// Run ищет зависшие pending-платежи и отправляет по ним алерт
func (j *PendingPaymentsAlert) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-pendingPaymentCutoff)

	payments, err := j.paymentRepo.GetPendingOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to get stale pending payments: %w", err)
	}

	if len(payments) == 0 {
		j.log.Debug("no stale pending payments")
		return nil
	}

	j.log.Warn("stale pending payments found", "count", len(payments))

	var lines []string
	for _, p := range payments {
		lines = append(lines, fmt.Sprintf("%s | user=%d | kind=%s | %d XTR | created=%s",
			p.ID, p.UserTelegramID, p.Kind, p.Amount, p.CreatedAt.Format(time.RFC3339)))
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("⚠️ Зависшие pending-платежи: %d\n\n", len(payments)))
	message.WriteString(strings.Join(lines, "\n"))

	if err := j.alerterService.SendAlert(ctx, message.String()); err != nil {
		return fmt.Errorf("failed to send pending payments alert: %w", err)
	}

	return nil
}
