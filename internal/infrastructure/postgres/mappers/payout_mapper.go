package mappers

import (
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/models"
)

func ToDomainPayout(model *models.PayoutRecordModel) domain.PayoutRecord {
	return domain.PayoutRecord{
		ID:           model.ID,
		AccountID:    model.AccountID,
		PayoutDate:   domain.Day(model.PayoutDate),
		TotalAmount:  model.TotalAmount,
		Status:       domain.PayoutStatus(model.Status),
		PayoutType:   domain.PayoutType(model.PayoutType),
		OrdersTotal:  model.OrdersTotal,
		FeesTotal:    model.FeesTotal,
		RefundsTotal: model.RefundsTotal,
		Horizon:      domain.Horizon(model.Horizon),
		LowerBound:   model.LowerBound,
		UpperBound:   model.UpperBound,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ToGORMPayout(record *domain.PayoutRecord) *models.PayoutRecordModel {
	return &models.PayoutRecordModel{
		ID:           record.ID,
		AccountID:    record.AccountID,
		PayoutDate:   domain.Day(record.PayoutDate),
		TotalAmount:  record.TotalAmount,
		Status:       string(record.Status),
		PayoutType:   string(record.PayoutType),
		OrdersTotal:  record.OrdersTotal,
		FeesTotal:    record.FeesTotal,
		RefundsTotal: record.RefundsTotal,
		Horizon:      string(record.Horizon),
		LowerBound:   record.LowerBound,
		UpperBound:   record.UpperBound,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func ToDomainEvent(model *models.FinancialEventModel) domain.RawEvent {
	return domain.RawEvent{
		ID:              model.ID,
		AccountID:       model.AccountID,
		MarketplaceType: model.MarketplaceType,
		Timestamp:       model.Timestamp,
		GrossAmount:     model.GrossAmount,
		Fees:            model.Fees,
		ShippingCost:    model.ShippingCost,
		AdsCost:         model.AdsCost,
		OrderID:         model.OrderID,
		DeliveryDate:    model.DeliveryDate,
	}
}

func ToDomainAccuracy(model *models.AccuracyLogModel) domain.AccuracyLogEntry {
	return domain.AccuracyLogEntry{
		ID:                   model.ID,
		AccountID:            model.AccountID,
		ForecastID:           model.ForecastID,
		PayoutDate:           domain.Day(model.PayoutDate),
		ActualAmount:         model.ActualAmount,
		ForecastAmount:       model.ForecastAmount,
		DifferencePercentage: model.DifferencePercentage,
		LoggedAt:             model.LoggedAt,
	}
}

func ToGORMAccuracy(entry *domain.AccuracyLogEntry) *models.AccuracyLogModel {
	return &models.AccuracyLogModel{
		ID:                   entry.ID,
		AccountID:            entry.AccountID,
		ForecastID:           entry.ForecastID,
		PayoutDate:           domain.Day(entry.PayoutDate),
		ActualAmount:         entry.ActualAmount,
		ForecastAmount:       entry.ForecastAmount,
		DifferencePercentage: entry.DifferencePercentage,
		LoggedAt:             entry.LoggedAt,
	}
}
