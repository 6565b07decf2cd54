// Package billing contiene el núcleo de cálculo de documentos de facturación:
// totales por ítem, totales del documento y numeración.
// Todas las funciones son puras: mismas entradas, mismas salidas.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// Totals totales derivados de un documento.
type Totals struct {
	Subtotal    decimal.Decimal
	TotalTax    decimal.Decimal
	TotalAmount decimal.Decimal
}

// CalculateItem devuelve total_price = cantidad * precio y tax_amount = total_price * tasa / 100.
// Dividir por 100 es un corrimiento de exponente: el resultado es exacto, sin redondeo.
func CalculateItem(quantity, unitPrice, taxRate decimal.Decimal) (totalPrice, taxAmount decimal.Decimal) {
	totalPrice = quantity.Mul(unitPrice)
	taxAmount = totalPrice.Mul(taxRate).Shift(-2)
	return totalPrice, taxAmount
}

// ApplyItem recalcula los campos derivados de la línea en sitio.
func ApplyItem(item *entity.BillingItem) {
	item.TotalPrice, item.TaxAmount = CalculateItem(item.Quantity, item.UnitPrice, item.TaxRate)
}

// CalculateTotals suma la secuencia completa de ítems. Nunca se parchea de forma incremental.
func CalculateTotals(items []entity.BillingItem) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
		tax = tax.Add(it.TaxAmount)
	}
	return Totals{
		Subtotal:    subtotal,
		TotalTax:    tax,
		TotalAmount: subtotal.Add(tax),
	}
}

// ApplyTotals recalcula subtotal, impuestos y total del documento a partir de sus ítems.
func ApplyTotals(doc *entity.BillingDocument) {
	t := CalculateTotals(doc.Items)
	doc.Subtotal = t.Subtotal
	doc.TotalTax = t.TotalTax
	doc.TotalAmount = t.TotalAmount
}
