package handlers

import (
	"net/http"
	"strings"
	"time"

	forecastRequest "github.com/LavaJover/shvark-payout-forecast/internal/delivery/http/dto/forecast/request"
	forecastResponse "github.com/LavaJover/shvark-payout-forecast/internal/delivery/http/dto/forecast/response"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	usecase "github.com/LavaJover/shvark-payout-forecast/internal/usecase/payout"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	uc usecase.PayoutForecastUsecase
}

func NewForecastHandler(uc usecase.PayoutForecastUsecase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// parseDay accepts a date or an RFC 3339 timestamp. Empty input yields zero.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (h *ForecastHandler) Regenerate(c *gin.Context) {
	var req forecastRequest.RegenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "", "invalid request body")
			return
		}
	}
	asOf, err := parseDay(req.AsOf)
	if err != nil {
		badRequest(c, "as_of", "as_of must be a date or RFC 3339 time")
		return
	}

	out, err := h.uc.RegenerateForecasts(c.Request.Context(), &payoutdto.RegenerateInput{
		AccountID: c.Param("account_id"),
		AsOf:      asOf,
		Trigger:   payoutdto.TriggerAPI,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecastResponse.NewRegenerateResponse(out))
}

func (h *ForecastHandler) ListForecasts(c *gin.Context) {
	var query forecastRequest.ListForecastsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "", "invalid query")
		return
	}
	from, err := parseDay(query.From)
	if err != nil {
		badRequest(c, "from", "from must be a date")
		return
	}
	to, err := parseDay(query.To)
	if err != nil {
		badRequest(c, "to", "to must be a date")
		return
	}
	input := &payoutdto.ListForecastsInput{AccountID: c.Param("account_id"), From: from, To: to}
	for _, s := range query.Status {
		st := domain.PayoutStatus(strings.ToLower(s))
		if !st.Valid() {
			badRequest(c, "status", "unknown status "+s)
			return
		}
		input.Statuses = append(input.Statuses, st)
	}

	records, err := h.uc.ListForecasts(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": forecastResponse.NewPayoutResponses(records)})
}

func (h *ForecastHandler) GetWeights(c *gin.Context) {
	cfg, err := h.uc.GetWeights(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecastResponse.NewWeightsResponse(*cfg))
}

func (h *ForecastHandler) UpdateWeights(c *gin.Context) {
	var req forecastRequest.UpdateWeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "near, mid and far weights are required")
		return
	}
	asOf, err := parseDay(req.AsOf)
	if err != nil {
		badRequest(c, "as_of", "as_of must be a date or RFC 3339 time")
		return
	}

	out, err := h.uc.UpdateWeights(c.Request.Context(), &payoutdto.UpdateWeightsInput{
		AccountID: c.Param("account_id"),
		Near:      *req.Near,
		Mid:       *req.Mid,
		Far:       *req.Far,
		AsOf:      asOf,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp := forecastResponse.UpdateWeightsResponse{
		Weights:  forecastResponse.NewWeightsResponse(out.Weights),
		Warnings: out.Warnings,
	}
	if out.Regeneration != nil {
		regen := forecastResponse.NewRegenerateResponse(out.Regeneration)
		resp.Regeneration = &regen
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ForecastHandler) ConfirmPayout(c *gin.Context) {
	var req forecastRequest.ConfirmPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "payout_date and total_amount are required")
		return
	}
	payoutDate, err := parseDay(req.PayoutDate)
	if err != nil {
		badRequest(c, "payout_date", "payout_date must be a date")
		return
	}

	out, err := h.uc.ConfirmPayout(c.Request.Context(), &payoutdto.ConfirmPayoutInput{
		AccountID:    c.Param("account_id"),
		PayoutDate:   payoutDate,
		TotalAmount:  *req.TotalAmount,
		PayoutType:   domain.PayoutType(strings.ToLower(req.PayoutType)),
		OrdersTotal:  req.OrdersTotal,
		FeesTotal:    req.FeesTotal,
		RefundsTotal: req.RefundsTotal,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecastResponse.NewConfirmPayoutResponse(out))
}

func (h *ForecastHandler) MarkEstimated(c *gin.Context) {
	var req forecastRequest.MarkEstimatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "payout_date is required")
		return
	}
	payoutDate, err := parseDay(req.PayoutDate)
	if err != nil {
		badRequest(c, "payout_date", "payout_date must be a date")
		return
	}

	record, err := h.uc.MarkEstimated(c.Request.Context(), &payoutdto.MarkEstimatedInput{
		AccountID:   c.Param("account_id"),
		PayoutDate:  payoutDate,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecastResponse.NewPayoutResponse(*record))
}

func (h *ForecastHandler) GetAccuracy(c *gin.Context) {
	var query forecastRequest.AccuracyQuery
	if err := c.ShouldBindQuery(&query); err != nil || query.Window < 0 {
		badRequest(c, "window", "window must be a positive number")
		return
	}
	out, err := h.uc.GetAccuracy(c.Request.Context(), c.Param("account_id"), query.Window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecastResponse.NewAccuracyResponse(out))
}
