package analytics

type TrackRequest struct {
	Tenant    int64    `json:"tenant"`
	Event     string   `json:"event" binding:"required"`
	Metadata  Metadata `json:"metadata"`
	SessionID string   `json:"sessionId"`
}

// PeriodCounts is the per-window slice of a summary.
type PeriodCounts struct {
	Total   int64            `json:"total"`
	ByEvent map[string]int64 `json:"byEvent"`
}

type Summary struct {
	AllTime   PeriodCounts `json:"allTime"`
	ThisMonth PeriodCounts `json:"thisMonth"`
	ThisWeek  PeriodCounts `json:"thisWeek"`
}

type PopularContent struct {
	ResourceID string `json:"resourceId"`
	Type       string `json:"type"`
	Views      int64  `json:"views"`
}

type StatsResponse struct {
	Summary        Summary          `json:"summary"`
	PopularContent []PopularContent `json:"popularContent"`
}

type RevenueSummary struct {
	TotalRevenue       int64            `json:"totalRevenue"`
	TotalTransactions  int64            `json:"totalTransactions"`
	AverageTransaction float64          `json:"averageTransaction"`
	ByMonth            map[string]int64 `json:"byMonth"`
}
