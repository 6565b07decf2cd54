package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ── Parseo y validación de entrada ───────────────────────────────────────────

func parseBillingType(field, s string) (entity.BillingType, error) {
	t := entity.BillingType(strings.TrimSpace(s))
	if t == "" {
		return "", domain.NewValidationError(field, "es requerido")
	}
	if !t.Valid() {
		return "", domain.NewValidationError(field, "valor no permitido: "+s)
	}
	return t, nil
}

func parseStatus(field, s string) (entity.DocumentStatus, error) {
	st := entity.DocumentStatus(strings.TrimSpace(s))
	if st == "" {
		return "", domain.NewValidationError(field, "es requerido")
	}
	if !st.Valid() {
		return "", domain.NewValidationError(field, "valor no permitido: "+s)
	}
	return st, nil
}

func parseCategory(field, s string) (entity.ItemCategory, error) {
	c := entity.ItemCategory(strings.TrimSpace(s))
	if c == "" {
		return entity.CategoryProduct, nil
	}
	if !c.Valid() {
		return "", domain.NewValidationError(field, "valor no permitido: "+s)
	}
	return c, nil
}

// parseDate acepta YYYY-MM-DD o RFC 3339 y devuelve la fecha a medianoche UTC.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.NewValidationError(field, "es requerido")
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "fecha inválida, formato esperado YYYY-MM-DD")
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.NewValidationError(field, "no puede ser negativo")
	}
	return nil
}

func requiredName(field, s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", domain.NewValidationError(field, "es requerido")
	}
	return s, nil
}

// ── Entidad → DTO ────────────────────────────────────────────────────────────

func toDocumentResponse(doc *entity.BillingDocument) *dto.BillingDocumentResponse {
	if doc == nil {
		return nil
	}
	items := make([]dto.BillingItemResponse, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, dto.BillingItemResponse{
			ID:          it.ID,
			ItemName:    it.Name,
			Description: it.Description,
			Category:    string(it.Category),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			TaxRate:     it.TaxRate,
			TaxAmount:   it.TaxAmount,
		})
	}
	return &dto.BillingDocumentResponse{
		ID:                  doc.ID,
		DocumentNumber:      doc.DocumentNumber,
		BillingType:         string(doc.BillingType),
		BillingDate:         doc.BillingDate.Format(dateLayout),
		PricingDate:         formatDate(doc.PricingDate),
		ServiceRenderedDate: formatDate(doc.ServiceRenderedDate),
		DueDate:             formatDate(doc.DueDate),
		CustomerName:        doc.CustomerName,
		CustomerEmail:       doc.CustomerEmail,
		CustomerAddress:     doc.CustomerAddress,
		Items:               items,
		Subtotal:            doc.Subtotal,
		TotalTax:            doc.TotalTax,
		TotalAmount:         doc.TotalAmount,
		Status:              string(doc.Status),
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
		Notes:               doc.Notes,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
