package background

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	publisher "github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/kafka"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	usecase "github.com/LavaJover/shvark-payout-forecast/internal/usecase/payout"
)

// PayoutConfirmedConsumer applies payout-confirmed messages from the
// marketplace connector and refreshes the account's forecasts afterwards.
type PayoutConfirmedConsumer struct {
	sub     domain.SubscriberPort
	uc      usecase.PayoutForecastUsecase
	groupID string
}

func NewPayoutConfirmedConsumer(sub domain.SubscriberPort, uc usecase.PayoutForecastUsecase, groupID string) *PayoutConfirmedConsumer {
	return &PayoutConfirmedConsumer{sub: sub, uc: uc, groupID: groupID}
}

// Run consumes until ctx is done or the subscription closes.
func (c *PayoutConfirmedConsumer) Run(ctx context.Context) error {
	msgs, err := c.sub.Subscribe(ctx, domain.TopicPayoutsConfirmed, c.groupID)
	if err != nil {
		return err
	}
	for msg := range msgs {
		c.handle(ctx, msg)
	}
	return nil
}

func (c *PayoutConfirmedConsumer) handle(ctx context.Context, msg domain.Message) {
	m, payoutDate, err := publisher.DecodePayoutConfirmed(msg)
	if err != nil {
		slog.Warn("skipping payout-confirmed message", "key", string(msg.Key), "error", err)
		return
	}

	out, err := c.uc.ConfirmPayout(ctx, &payoutdto.ConfirmPayoutInput{
		AccountID:    m.AccountID,
		PayoutDate:   payoutDate,
		TotalAmount:  m.TotalAmount,
		PayoutType:   domain.PayoutType(m.PayoutType),
		OrdersTotal:  m.OrdersTotal,
		FeesTotal:    m.FeesTotal,
		RefundsTotal: m.RefundsTotal,
	})
	if err != nil {
		slog.Error("failed to confirm payout", "account_id", m.AccountID, "payout_date", m.PayoutDate, "error", err)
		return
	}
	slog.Info("payout confirmation applied",
		"account_id", m.AccountID,
		"payout_date", m.PayoutDate,
		"accuracy_logged", out.Accuracy != nil,
	)

	_, err = c.uc.RegenerateForecasts(ctx, &payoutdto.RegenerateInput{
		AccountID: m.AccountID,
		Trigger:   payoutdto.TriggerConfirmed,
	})
	var (
		conflict     *domain.RegenerationConflictError
		insufficient *domain.InsufficientDataError
	)
	switch {
	case err == nil:
	case errors.As(err, &conflict), errors.As(err, &insufficient):
		slog.Info("forecast refresh after confirmation skipped", "account_id", m.AccountID, "reason", err)
	default:
		slog.Error("forecast refresh after confirmation failed", "account_id", m.AccountID, "error", err)
	}
}
