package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/notification"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/closeline/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// dedupeTTL keeps a sent marker long enough to cover the sweep day plus
// clock drift between workers
const dedupeTTL = 48 * time.Hour

// SlackPoster posts reminder messages into Slack channels
type SlackPoster interface {
	PostMessage(ctx context.Context, channelID, text string) error
}

// EmailGateway delivers reminder emails to agents
type EmailGateway interface {
	SendReminderEmail(ctx context.Context, to, subject, html string) error
}

// SweepResult summarizes one reminder pass for logging and metrics
type SweepResult struct {
	Brokerages int
	Considered int
	Sent       int
	Failed     int
}

// ReminderSweeper scans open transactions and delivers closing
// reminders. It is triggered hourly; the delivery-hour check and the
// dedupe store make the extra ticks no-ops.
type ReminderSweeper struct {
	brokerageRepo   identity.BrokerageRepository
	settingRepo     notification.SettingRepository
	txnRepo         transaction.Repository
	userRepo        identity.UserRepository
	reminderLogRepo notification.ReminderLogRepository
	deduper         notification.ReminderDeduper
	slackPoster     SlackPoster
	emailGateway    EmailGateway
	logger          *zap.Logger
	metrics         *telemetry.BusinessMetrics
}

// NewReminderSweeper creates a new reminder sweeper
func NewReminderSweeper(
	brokerageRepo identity.BrokerageRepository,
	settingRepo notification.SettingRepository,
	txnRepo transaction.Repository,
	userRepo identity.UserRepository,
	reminderLogRepo notification.ReminderLogRepository,
	deduper notification.ReminderDeduper,
	slackPoster SlackPoster,
	emailGateway EmailGateway,
	logger *zap.Logger,
) *ReminderSweeper {
	return &ReminderSweeper{
		brokerageRepo:   brokerageRepo,
		settingRepo:     settingRepo,
		txnRepo:         txnRepo,
		userRepo:        userRepo,
		reminderLogRepo: reminderLogRepo,
		deduper:         deduper,
		slackPoster:     slackPoster,
		emailGateway:    emailGateway,
		logger:          logger,
	}
}

// SetMetrics attaches business metrics recording. Optional; the
// sweeper works without it.
func (s *ReminderSweeper) SetMetrics(metrics *telemetry.BusinessMetrics) {
	s.metrics = metrics
}

// Sweep runs one reminder pass over all active brokerages. A failing
// tenant does not abort the others.
func (s *ReminderSweeper) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	brokerages, err := s.brokerageRepo.FindAllActive(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("load active brokerages: %w", err)
	}

	var result SweepResult
	for i := range brokerages {
		tenant := s.sweepTenant(ctx, &brokerages[i], now)
		result.Brokerages++
		result.Considered += tenant.Considered
		result.Sent += tenant.Sent
		result.Failed += tenant.Failed
	}

	if result.Considered > 0 {
		s.logger.Info("Reminder sweep finished",
			zap.Int("brokerages", result.Brokerages),
			zap.Int("considered", result.Considered),
			zap.Int("sent", result.Sent),
			zap.Int("failed", result.Failed))
	}

	return result, nil
}

func (s *ReminderSweeper) sweepTenant(ctx context.Context, brokerage *identity.Brokerage, now time.Time) SweepResult {
	var result SweepResult

	loc, err := time.LoadLocation(brokerage.Timezone)
	if err != nil {
		s.logger.Warn("Invalid brokerage timezone, using UTC",
			zap.String("brokerage_id", brokerage.ID.String()),
			zap.String("timezone", brokerage.Timezone))
		loc = time.UTC
	}

	setting, err := s.settingRepo.FindByTenant(ctx, brokerage.ID)
	if err != nil {
		setting, err = notification.NewNotificationSetting(brokerage.ID)
		if err != nil {
			s.logger.Error("Failed to build default settings", zap.Error(err))
			return result
		}
	}
	if !setting.Enabled {
		return result
	}

	local := now.In(loc)
	if local.Hour() != setting.DeliveryHour {
		return result
	}

	txns, err := s.txnRepo.FindOpenWithClosingDates(ctx, brokerage.ID)
	if err != nil {
		s.logger.Error("Failed to load transactions for reminder sweep",
			zap.String("brokerage_id", brokerage.ID.String()),
			zap.Error(err))
		return result
	}

	for i := range txns {
		txn := &txns[i]

		days, ok := txn.DaysUntilClosing(now, loc)
		if !ok || days < 0 {
			continue
		}
		if !setting.OffsetDue(days) {
			continue
		}
		// The closing-day ping only makes sense once the file is clear
		if days == 0 && txn.Status != transaction.StatusClearToClose {
			continue
		}

		result.Considered++
		key := notification.DedupeKey(txn.ID, days, local)
		if s.alreadySent(ctx, txn, key, days, local) {
			continue
		}

		sent, failed := s.deliver(ctx, setting, txn, days)
		result.Sent += sent
		result.Failed += failed

		// The key is claimed before delivery so racing sweepers agree
		// on one winner. When every channel failed, release the claim
		// so the next pass retries instead of staying silent all day.
		if sent == 0 && failed > 0 {
			if err := s.deduper.Clear(ctx, key); err != nil {
				s.logger.Warn("Failed to release reminder dedupe key",
					zap.String("key", key),
					zap.Error(err))
			}
		}
	}

	return result
}

// alreadySent consults the dedupe store, falling back to the durable
// reminder log when the store is unavailable
func (s *ReminderSweeper) alreadySent(ctx context.Context, txn *transaction.Transaction, key string, days int, localNow time.Time) bool {
	already, err := s.deduper.MarkSent(ctx, key, dedupeTTL)
	if err == nil {
		return already
	}

	s.logger.Warn("Dedupe store unavailable, checking reminder log",
		zap.String("transaction_id", txn.ID.String()),
		zap.Error(err))

	day := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, time.UTC)
	exists, logErr := s.reminderLogRepo.ExistsForOffset(ctx, txn.ID, days, day)
	if logErr != nil {
		s.logger.Error("Reminder log lookup failed", zap.Error(logErr))
		return true
	}
	return exists
}

// deliver sends the reminder over each enabled channel and records a
// log entry per attempt
func (s *ReminderSweeper) deliver(ctx context.Context, setting *notification.NotificationSetting, txn *transaction.Transaction, days int) (sent, failed int) {
	text := reminderText(txn, days)

	if setting.HasChannel(notification.ChannelSlack) && s.slackPoster != nil {
		target := txn.SlackChannelID
		if target == "" {
			target = setting.FallbackSlackChannel
		}
		if target != "" {
			err := s.slackPoster.PostMessage(ctx, target, text)
			s.record(ctx, txn, days, notification.ChannelSlack, target, err)
			if err != nil {
				failed++
			} else {
				sent++
			}
		}
	}

	if setting.HasChannel(notification.ChannelEmail) && s.emailGateway != nil {
		agent, err := s.userRepo.FindByID(ctx, txn.AgentUserID)
		if err != nil {
			s.logger.Warn("Agent not found for reminder email",
				zap.String("transaction_id", txn.ID.String()),
				zap.Error(err))
			return sent, failed
		}

		subject := fmt.Sprintf("Closing reminder: %s", txn.Address.Line1())
		sendErr := s.emailGateway.SendReminderEmail(ctx, agent.Email, subject,
			fmt.Sprintf("<p>%s</p>", text))
		s.record(ctx, txn, days, notification.ChannelEmail, agent.Email, sendErr)
		if sendErr != nil {
			failed++
		} else {
			sent++
		}
	}

	return sent, failed
}

func (s *ReminderSweeper) record(ctx context.Context, txn *transaction.Transaction, days int, channel notification.Channel, target string, deliveryErr error) {
	if deliveryErr != nil {
		s.logger.Warn("Reminder delivery failed",
			zap.String("transaction_id", txn.ID.String()),
			zap.String("channel", string(channel)),
			zap.String("target", target),
			zap.Error(deliveryErr))
	}

	log, err := notification.NewReminderLog(txn.TenantID, txn.ID, days, *txn.ClosingDate, channel, target, deliveryErr)
	if err != nil {
		s.logger.Error("Failed to build reminder log", zap.Error(err))
		return
	}
	if err := s.reminderLogRepo.Save(ctx, log); err != nil {
		s.logger.Error("Failed to save reminder log", zap.Error(err))
	}

	if s.metrics != nil {
		outcome := telemetry.DeliveryOutcomeSent
		if deliveryErr != nil {
			outcome = telemetry.DeliveryOutcomeFailed
		}
		s.metrics.RecordReminder(ctx, txn.TenantID, string(channel), outcome)
	}
}

func reminderText(txn *transaction.Transaction, days int) string {
	address := txn.Address.Line1()
	closing := txn.ClosingDate.Format("Jan 2, 2006")

	switch days {
	case 0:
		return fmt.Sprintf("%s closes today. Final walkthrough and funding confirmations due.", address)
	case 1:
		return fmt.Sprintf("%s closes tomorrow (%s).", address, closing)
	default:
		return fmt.Sprintf("%s closes in %d days (%s).", address, days, closing)
	}
}
