package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// Nombres de campo aceptados por UpdateFields y CountBy. Son los mismos en todos los stores
// (columnas en PostgreSQL, claves en MongoDB).
const (
	FieldBillingType         = "billing_type"
	FieldBillingDate         = "billing_date"
	FieldPricingDate         = "pricing_date"
	FieldServiceRenderedDate = "service_rendered_date"
	FieldDueDate             = "due_date"
	FieldCustomerName        = "customer_name"
	FieldCustomerEmail       = "customer_email"
	FieldCustomerAddress     = "customer_address"
	FieldItems               = "items"
	FieldSubtotal            = "subtotal"
	FieldTotalTax            = "total_tax"
	FieldTotalAmount         = "total_amount"
	FieldStatus              = "status"
	FieldNotes               = "notes"
	FieldUpdatedAt           = "updated_at"
)

// Fields conjunto parcial de campos a escribir. Tipos esperados por campo:
//   - billing_type: entity.BillingType; status: entity.DocumentStatus
//   - billing_date, updated_at: time.Time
//   - pricing_date, service_rendered_date, due_date: *time.Time (nil = limpiar)
//   - customer_*, notes: *string (nil = limpiar)
//   - items: []entity.BillingItem
//   - subtotal, total_tax, total_amount: decimal.Decimal
type Fields map[string]any

// BillingDocumentFilter filtro opcional por estado, tipo y número (vacío = sin filtro).
type BillingDocumentFilter struct {
	Status         entity.DocumentStatus
	BillingType    entity.BillingType
	DocumentNumber string
}

// BillingDocumentRepository define el puerto de persistencia de documentos de facturación.
// Cada escritura por ID es atómica; la secuencia leer-modificar-escribir no lo es.
type BillingDocumentRepository interface {
	// Insert persiste un documento nuevo. Devuelve domain.ErrDuplicate si el ID ya existe;
	// el número de documento no es único.
	Insert(ctx context.Context, doc *entity.BillingDocument) error
	// FindByID devuelve (nil, nil) si no existe.
	FindByID(ctx context.Context, id string) (*entity.BillingDocument, error)
	FindMany(ctx context.Context, filter BillingDocumentFilter, limit int) ([]*entity.BillingDocument, error)
	UpdateFields(ctx context.Context, id string, fields Fields) error
	// Delete devuelve la cantidad de documentos eliminados (0 o 1).
	Delete(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context, filter BillingDocumentFilter) (int64, error)
	// CountBy agrupa por FieldStatus o FieldBillingType y cuenta documentos por valor.
	CountBy(ctx context.Context, field string) (map[string]int64, error)
	// SumTotalAmount suma total_amount de los documentos que cumplen el filtro (cero si ninguno).
	SumTotalAmount(ctx context.Context, filter BillingDocumentFilter) (decimal.Decimal, error)
}
