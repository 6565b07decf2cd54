package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// status_counts y type_counts incluyen siempre los cinco valores del enumerado, aunque sean cero.
type DashboardStatsDTO struct {
	TotalDocuments int64            `json:"total_documents"`
	StatusCounts   map[string]int64 `json:"status_counts"`
	TypeCounts     map[string]int64 `json:"type_counts"`
	TotalAmount    decimal.Decimal  `json:"total_amount" swaggertype:"number"` // suma de documentos Completed
}
