package model

import "time"

type DashboardStats struct {
	TotalDocuments    int             `json:"total_documents"`
	TotalSPD          int             `json:"total_spd"`
	TotalBelanjaan    int             `json:"total_belanjaan"`
	MonthlyStats      []MonthCount    `json:"monthly_stats"`
	CategoryBreakdown []CategoryCount `json:"category_breakdown"`
	TopUploaders      []UploaderCount `json:"top_uploaders"`
}

type MonthCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

type CategoryCount struct {
	Name     string `json:"name"`
	DocCount int    `json:"doc_count"`
}

type UploaderCount struct {
	FullName string `json:"full_name"`
	Count    int    `json:"count"`
}
