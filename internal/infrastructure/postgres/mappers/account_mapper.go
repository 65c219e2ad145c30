package mappers

import (
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/models"
)

// ToDomainSettings combines the settings row with the account's weights. A
// nil weights row means the account never changed the defaults.
func ToDomainSettings(model *models.AccountSettingsModel, weights *models.ForecastWeightModel) *domain.AccountSettings {
	s := &domain.AccountSettings{
		AccountID:         model.AccountID,
		PayoutFrequency:   domain.PayoutFrequency(model.PayoutFrequency),
		ReserveLagDays:    model.ReserveLagDays,
		ReserveMultiplier: model.ReserveMultiplier,
		SafetyMargin:      domain.SafetyMargin(model.SafetyMargin),
		ReturnRate:        model.ReturnRate,
		ChargebackRate:    model.ChargebackRate,
		SettlementAnchor:  domain.Day(model.SettlementAnchor),
		CadenceDays:       model.CadenceDays,
	}
	if weights == nil {
		s.Weights = domain.DefaultForecastWeights(model.AccountID)
	} else {
		s.Weights = ToDomainWeights(weights)
	}
	return s
}

func ToGORMSettings(s *domain.AccountSettings) *models.AccountSettingsModel {
	return &models.AccountSettingsModel{
		AccountID:         s.AccountID,
		PayoutFrequency:   string(s.PayoutFrequency),
		ReserveLagDays:    s.ReserveLagDays,
		ReserveMultiplier: s.ReserveMultiplier,
		SafetyMargin:      string(s.SafetyMargin),
		ReturnRate:        s.ReturnRate,
		ChargebackRate:    s.ChargebackRate,
		SettlementAnchor:  domain.Day(s.SettlementAnchor),
		CadenceDays:       s.CadenceDays,
	}
}

func ToDomainWeights(model *models.ForecastWeightModel) domain.ForecastWeightConfig {
	return domain.ForecastWeightConfig{
		AccountID: model.AccountID,
		Weights: map[domain.Horizon]int{
			domain.HorizonNear: model.NearWeight,
			domain.HorizonMid:  model.MidWeight,
			domain.HorizonFar:  model.FarWeight,
		},
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMWeights(cfg domain.ForecastWeightConfig) *models.ForecastWeightModel {
	return &models.ForecastWeightModel{
		AccountID:  cfg.AccountID,
		NearWeight: cfg.PayoutHistoryWeight(domain.HorizonNear),
		MidWeight:  cfg.PayoutHistoryWeight(domain.HorizonMid),
		FarWeight:  cfg.PayoutHistoryWeight(domain.HorizonFar),
		UpdatedAt:  cfg.UpdatedAt,
	}
}
