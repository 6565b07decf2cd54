// Package analytics contiene los casos de uso de reportes sobre los documentos
// de facturación (estadísticas del dashboard).
package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// DashboardUseCase genera las estadísticas agregadas de la colección de documentos.
//
// Fuente de datos: BillingDocumentRepository (consultas read-only).
// Las cuatro consultas no comparten snapshot: con escrituras concurrentes los
// contadores pueden no sumar exactamente total_documents.
type DashboardUseCase struct {
	repo repository.BillingDocumentRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.BillingDocumentRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// GetStats construye el DashboardStatsDTO.
//
// Cuatro llamadas en paralelo:
//  1. Count(sin filtro)                  → TotalDocuments
//  2. CountBy(status)                    → StatusCounts
//  3. CountBy(billing_type)              → TypeCounts
//  4. SumTotalAmount(status=Completed)   → TotalAmount
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	// ── Goroutines para paralelizar las 4 consultas ───────────────────────────
	type countResult struct {
		n   int64
		err error
	}
	type groupResult struct {
		counts map[string]int64
		err    error
	}
	type sumResult struct {
		sum decimal.Decimal
		err error
	}

	totalCh := make(chan countResult, 1)
	statusCh := make(chan groupResult, 1)
	typeCh := make(chan groupResult, 1)
	sumCh := make(chan sumResult, 1)

	go func() {
		n, err := uc.repo.Count(ctx, repository.BillingDocumentFilter{})
		totalCh <- countResult{n, err}
	}()
	go func() {
		counts, err := uc.repo.CountBy(ctx, repository.FieldStatus)
		statusCh <- groupResult{counts, err}
	}()
	go func() {
		counts, err := uc.repo.CountBy(ctx, repository.FieldBillingType)
		typeCh <- groupResult{counts, err}
	}()
	go func() {
		sum, err := uc.repo.SumTotalAmount(ctx, repository.BillingDocumentFilter{Status: entity.StatusCompleted})
		sumCh <- sumResult{sum, err}
	}()

	total := <-totalCh
	byStatus := <-statusCh
	byType := <-typeCh
	completed := <-sumCh

	if total.err != nil {
		return nil, domain.Internal("dashboard: total de documentos", total.err)
	}
	if byStatus.err != nil {
		return nil, domain.Internal("dashboard: conteo por estado", byStatus.err)
	}
	if byType.err != nil {
		return nil, domain.Internal("dashboard: conteo por tipo", byType.err)
	}
	if completed.err != nil {
		return nil, domain.Internal("dashboard: total completado", completed.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	statusKeys := make([]string, len(entity.DocumentStatuses))
	for i, st := range entity.DocumentStatuses {
		statusKeys[i] = string(st)
	}
	typeKeys := make([]string, len(entity.BillingTypes))
	for i, bt := range entity.BillingTypes {
		typeKeys[i] = string(bt)
	}

	return &dto.DashboardStatsDTO{
		TotalDocuments: total.n,
		StatusCounts:   zeroFilled(statusKeys, byStatus.counts),
		TypeCounts:     zeroFilled(typeKeys, byType.counts),
		TotalAmount:    completed.sum,
	}, nil
}

// zeroFilled devuelve un mapa con todas las claves del enumerado. Los valores agrupados
// fuera del enumerado se descartan.
func zeroFilled(keys []string, counts map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = counts[k]
	}
	return out
}
