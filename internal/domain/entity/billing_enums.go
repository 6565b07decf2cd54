package entity

// BillingType tipo de documento de facturación. Los valores son los que viajan en la API.
type BillingType string

const (
	BillingTypeAdvanceInvoice  BillingType = "Advance invoice BR"
	BillingTypeStandardInvoice BillingType = "Standard invoice"
	BillingTypeReceipt         BillingType = "Receipt"
	BillingTypeCreditNote      BillingType = "Credit note"
	BillingTypeProformaInvoice BillingType = "Proforma invoice"
)

// BillingTypes lista ordenada de los tipos soportados (usada por estadísticas y validación).
var BillingTypes = []BillingType{
	BillingTypeAdvanceInvoice,
	BillingTypeStandardInvoice,
	BillingTypeReceipt,
	BillingTypeCreditNote,
	BillingTypeProformaInvoice,
}

// Valid indica si el tipo pertenece al enumerado.
func (t BillingType) Valid() bool {
	for _, v := range BillingTypes {
		if v == t {
			return true
		}
	}
	return false
}

// DocumentStatus estado del documento. No hay grafo de transiciones obligatorio.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "Draft"
	StatusPending   DocumentStatus = "Pending"
	StatusProcessed DocumentStatus = "Processed"
	StatusCompleted DocumentStatus = "Completed"
	StatusCancelled DocumentStatus = "Cancelled"
)

// DocumentStatuses lista ordenada de estados.
var DocumentStatuses = []DocumentStatus{
	StatusDraft,
	StatusPending,
	StatusProcessed,
	StatusCompleted,
	StatusCancelled,
}

// Valid indica si el estado pertenece al enumerado.
func (s DocumentStatus) Valid() bool {
	for _, v := range DocumentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ItemCategory categoría de una línea.
type ItemCategory string

const (
	CategoryProduct  ItemCategory = "Product"
	CategoryService  ItemCategory = "Service"
	CategoryDiscount ItemCategory = "Discount"
	CategoryTax      ItemCategory = "Tax"
)

// ItemCategories lista ordenada de categorías.
var ItemCategories = []ItemCategory{CategoryProduct, CategoryService, CategoryDiscount, CategoryTax}

// Valid indica si la categoría pertenece al enumerado.
func (c ItemCategory) Valid() bool {
	for _, v := range ItemCategories {
		if v == c {
			return true
		}
	}
	return false
}
