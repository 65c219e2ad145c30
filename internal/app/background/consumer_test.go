package background

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
)

type fakeSubscriber struct {
	msgs []domain.Message
}

func (f fakeSubscriber) Subscribe(_ context.Context, topic, _ string) (<-chan domain.Message, error) {
	ch := make(chan domain.Message, len(f.msgs))
	for _, m := range f.msgs {
		ch <- m
	}
	close(ch)
	return ch, nil
}

func TestConsumerConfirmsAndRefreshes(t *testing.T) {
	uc := &fakeUsecase{}
	sub := fakeSubscriber{msgs: []domain.Message{
		{Key: []byte("acc-1"), Value: []byte(`{"account_id":"acc-1","payout_date":"2025-06-16","total_amount":"1100.25","payout_type":"settlement"}`)},
		{Key: []byte("bad"), Value: []byte(`{not json`)},
		{Key: []byte("acc-2"), Value: []byte(`{"account_id":"acc-2","payout_date":"16.06.2025","total_amount":"5"}`)},
	}}

	if err := NewPayoutConfirmedConsumer(sub, uc, "group").Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(uc.confirms) != 1 {
		t.Fatalf("confirmed %d payouts, want 1", len(uc.confirms))
	}
	c := uc.confirms[0]
	if c.AccountID != "acc-1" || c.PayoutDate.Day() != 16 || c.TotalAmount.String() != "1100.25" || c.PayoutType != domain.PayoutTypeSettlement {
		t.Errorf("confirm input = %+v", c)
	}
	if len(uc.regens) != 1 || uc.regens[0].Trigger != payoutdto.TriggerConfirmed {
		t.Errorf("regenerations = %+v", uc.regens)
	}
}
