package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// ApplyFields aplica un conjunto parcial sobre el documento en memoria.
// Rechaza campos desconocidos o con un tipo distinto al documentado en Fields.
func ApplyFields(doc *entity.BillingDocument, fields Fields) error {
	for name, value := range fields {
		var ok bool
		switch name {
		case FieldBillingType:
			doc.BillingType, ok = value.(entity.BillingType)
		case FieldStatus:
			doc.Status, ok = value.(entity.DocumentStatus)
		case FieldBillingDate:
			doc.BillingDate, ok = value.(time.Time)
		case FieldUpdatedAt:
			doc.UpdatedAt, ok = value.(time.Time)
		case FieldPricingDate:
			doc.PricingDate, ok = value.(*time.Time)
		case FieldServiceRenderedDate:
			doc.ServiceRenderedDate, ok = value.(*time.Time)
		case FieldDueDate:
			doc.DueDate, ok = value.(*time.Time)
		case FieldCustomerName:
			doc.CustomerName, ok = value.(*string)
		case FieldCustomerEmail:
			doc.CustomerEmail, ok = value.(*string)
		case FieldCustomerAddress:
			doc.CustomerAddress, ok = value.(*string)
		case FieldNotes:
			doc.Notes, ok = value.(*string)
		case FieldItems:
			var items []entity.BillingItem
			items, ok = value.([]entity.BillingItem)
			doc.Items = entity.CloneItems(items)
		case FieldSubtotal:
			doc.Subtotal, ok = value.(decimal.Decimal)
		case FieldTotalTax:
			doc.TotalTax, ok = value.(decimal.Decimal)
		case FieldTotalAmount:
			doc.TotalAmount, ok = value.(decimal.Decimal)
		default:
			return fmt.Errorf("campo no actualizable: %q", name)
		}
		if !ok {
			return fmt.Errorf("tipo inválido para %q: %T", name, value)
		}
	}
	return nil
}

// GroupableField indica si CountBy admite el campo.
func GroupableField(field string) bool {
	return field == FieldStatus || field == FieldBillingType
}
