package forecast

import (
	"errors"
	"strings"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// Marketplace type strings seen in connector feeds, keyed by lower case.
var eventTypeAliases = map[string]domain.EventType{
	"order":                       domain.EventOrder,
	"shipment":                    domain.EventOrder,
	"principal":                   domain.EventOrder,
	"sale":                        domain.EventOrder,
	"refund":                      domain.EventRefund,
	"return":                      domain.EventRefund,
	"reimbursement":               domain.EventReimbursement,
	"fba inventory reimbursement": domain.EventReimbursement,
	"servicefee":                  domain.EventServiceFee,
	"service fee":                 domain.EventServiceFee,
	"service_fee":                 domain.EventServiceFee,
	"subscription fee":            domain.EventServiceFee,
	"storage fee":                 domain.EventServiceFee,
	"adjustment":                  domain.EventAdjustment,
	"balance adjustment":          domain.EventAdjustment,
	"guaranteeclaim":              domain.EventGuaranteeClaim,
	"guarantee claim":             domain.EventGuaranteeClaim,
	"a-to-z guarantee claim":      domain.EventGuaranteeClaim,
	"chargeback":                  domain.EventChargeback,
	"chargeback refund":           domain.EventChargeback,
}

// ClassifyEventType maps a marketplace type string to a canonical type.
// Unmapped strings become Other.
func ClassifyEventType(marketplaceType string) domain.EventType {
	key := strings.ToLower(strings.TrimSpace(marketplaceType))
	if t, ok := eventTypeAliases[key]; ok {
		return t
	}
	return domain.EventOther
}

type NormalizerConfig struct {
	ReturnRate     decimal.Decimal
	ChargebackRate decimal.Decimal
}

type Normalizer struct {
	cfg NormalizerConfig
}

func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// NormalizeResult is a partial result: Events holds everything that could be
// normalized, Skipped counts what was dropped.
type NormalizeResult struct {
	Events  []domain.FinancialEvent
	Skipped int
	Errors  []*domain.MalformedEventError
}

// Normalize computes
//
//	net = (gross - fees - shipping - ads) × (1 - returnRate) × (1 - chargebackRate)
//
// and fails with *domain.MalformedEventError when the timestamp or gross
// amount is missing or any present amount is not a number.
func (n *Normalizer) Normalize(raw domain.RawEvent) (domain.FinancialEvent, error) {
	if raw.Timestamp == nil || raw.Timestamp.IsZero() {
		return domain.FinancialEvent{}, &domain.MalformedEventError{EventID: raw.ID, Field: "timestamp", Reason: "is missing"}
	}
	if raw.GrossAmount == nil {
		return domain.FinancialEvent{}, &domain.MalformedEventError{EventID: raw.ID, Field: "gross_amount", Reason: "is missing"}
	}
	gross, err := parseAmount(raw.ID, "gross_amount", *raw.GrossAmount)
	if err != nil {
		return domain.FinancialEvent{}, err
	}

	costs := decimal.Zero
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"fees", raw.Fees},
		{"shipping_cost", raw.ShippingCost},
		{"ads_cost", raw.AdsCost},
	} {
		if f.value == nil {
			continue
		}
		v, err := parseAmount(raw.ID, f.name, *f.value)
		if err != nil {
			return domain.FinancialEvent{}, err
		}
		costs = costs.Add(v)
	}

	one := decimal.NewFromInt(1)
	net := gross.Sub(costs).
		Mul(one.Sub(n.cfg.ReturnRate)).
		Mul(one.Sub(n.cfg.ChargebackRate))

	return domain.FinancialEvent{
		ID:           raw.ID,
		AccountID:    raw.AccountID,
		Timestamp:    raw.Timestamp.UTC(),
		Type:         ClassifyEventType(raw.MarketplaceType),
		GrossAmount:  gross,
		NetAmount:    net,
		OrderID:      raw.OrderID,
		DeliveryDate: raw.DeliveryDate,
	}, nil
}

// NormalizeAll normalizes every event, dropping and counting malformed ones.
func (n *Normalizer) NormalizeAll(raws []domain.RawEvent) NormalizeResult {
	res := NormalizeResult{Events: make([]domain.FinancialEvent, 0, len(raws))}
	for _, raw := range raws {
		ev, err := n.Normalize(raw)
		if err != nil {
			var malformed *domain.MalformedEventError
			if errors.As(err, &malformed) {
				res.Errors = append(res.Errors, malformed)
			}
			res.Skipped++
			continue
		}
		res.Events = append(res.Events, ev)
	}
	return res
}

func parseAmount(eventID, field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &domain.MalformedEventError{EventID: eventID, Field: field, Reason: "is empty"}
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &domain.MalformedEventError{EventID: eventID, Field: field, Reason: "is not numeric"}
	}
	return v, nil
}

// CategoryTotals sums net amounts per categorized type. Other events are
// left out here but still appear in the grand total.
func CategoryTotals(events []domain.FinancialEvent) (byType map[domain.EventType]decimal.Decimal, total decimal.Decimal) {
	byType = make(map[domain.EventType]decimal.Decimal)
	total = decimal.Zero
	for _, ev := range events {
		total = total.Add(ev.NetAmount)
		if !ev.Type.IsCategorized() {
			continue
		}
		byType[ev.Type] = byType[ev.Type].Add(ev.NetAmount)
	}
	return byType, total
}
