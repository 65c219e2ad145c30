package request

type RegenerateRequest struct {
	// AsOf is a date (2006-01-02) or RFC 3339 time; empty means now.
	AsOf string `json:"as_of"`
}

type UpdateWeightsRequest struct {
	Near *int   `json:"near" binding:"required"`
	Mid  *int   `json:"mid" binding:"required"`
	Far  *int   `json:"far" binding:"required"`
	AsOf string `json:"as_of"`
}

type ListForecastsQuery struct {
	From   string   `form:"from"`
	To     string   `form:"to"`
	Status []string `form:"status"`
}

type AccuracyQuery struct {
	Window int `form:"window"`
}
