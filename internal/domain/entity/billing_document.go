package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingItem línea de un documento. TotalPrice y TaxAmount son derivados: solo los escribe
// el calculador de ítems (internal/domain/billing).
type BillingItem struct {
	ID          string
	Name        string
	Description *string
	Category    ItemCategory
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje: 19 = 19%
	TotalPrice  decimal.Decimal
	TaxAmount   decimal.Decimal
}

// BillingDocument cabecera de factura, recibo, nota crédito o proforma.
// Es dueño exclusivo de sus ítems: borrarlo destruye las líneas.
type BillingDocument struct {
	ID                  string
	DocumentNumber      string // generado una sola vez al crear
	BillingType         BillingType
	BillingDate         time.Time
	PricingDate         *time.Time
	ServiceRenderedDate *time.Time
	DueDate             *time.Time

	CustomerName    *string
	CustomerEmail   *string
	CustomerAddress *string

	Items []BillingItem // el orden de inserción es significativo

	Subtotal    decimal.Decimal
	TotalTax    decimal.Decimal
	TotalAmount decimal.Decimal

	Status    DocumentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Notes     *string
}

// ItemIndex devuelve la posición del primer ítem con ese ID, o -1.
func (d *BillingDocument) ItemIndex(itemID string) int {
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone copia profunda; los stores en memoria la usan para no compartir slices ni punteros.
func (d *BillingDocument) Clone() *BillingDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.PricingDate = cloneTime(d.PricingDate)
	c.ServiceRenderedDate = cloneTime(d.ServiceRenderedDate)
	c.DueDate = cloneTime(d.DueDate)
	c.CustomerName = cloneString(d.CustomerName)
	c.CustomerEmail = cloneString(d.CustomerEmail)
	c.CustomerAddress = cloneString(d.CustomerAddress)
	c.Notes = cloneString(d.Notes)
	c.Items = CloneItems(d.Items)
	return &c
}

// CloneItems copia la secuencia de ítems.
func CloneItems(items []BillingItem) []BillingItem {
	if items == nil {
		return nil
	}
	out := make([]BillingItem, len(items))
	for i, it := range items {
		it.Description = cloneString(it.Description)
		out[i] = it
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
