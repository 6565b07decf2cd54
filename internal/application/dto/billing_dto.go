package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBillingDocumentRequest body para POST /api/billing-documents.
// Fechas en formato YYYY-MM-DD (se acepta RFC 3339 y se trunca a la fecha).
type CreateBillingDocumentRequest struct {
	BillingType         string  `json:"billing_type"`
	BillingDate         string  `json:"billing_date"`
	PricingDate         *string `json:"pricing_date,omitempty"`
	ServiceRenderedDate *string `json:"service_rendered_date,omitempty"`
	DueDate             *string `json:"due_date,omitempty"`
	CustomerName        *string `json:"customer_name,omitempty"`
	CustomerEmail       *string `json:"customer_email,omitempty"`
	CustomerAddress     *string `json:"customer_address,omitempty"`
	Notes               *string `json:"notes,omitempty"`
}

// UpdateBillingDocumentRequest body para PUT /api/billing-documents/:id.
// Parche parcial: solo se escriben los campos presentes; null limpia los opcionales.
type UpdateBillingDocumentRequest struct {
	BillingType         Optional[string] `json:"billing_type" swaggertype:"string"`
	BillingDate         Optional[string] `json:"billing_date" swaggertype:"string"`
	PricingDate         Optional[string] `json:"pricing_date" swaggertype:"string"`
	ServiceRenderedDate Optional[string] `json:"service_rendered_date" swaggertype:"string"`
	DueDate             Optional[string] `json:"due_date" swaggertype:"string"`
	CustomerName        Optional[string] `json:"customer_name" swaggertype:"string"`
	CustomerEmail       Optional[string] `json:"customer_email" swaggertype:"string"`
	CustomerAddress     Optional[string] `json:"customer_address" swaggertype:"string"`
	Status              Optional[string] `json:"status" swaggertype:"string"`
	Notes               Optional[string] `json:"notes" swaggertype:"string"`
}

// AddBillingItemRequest body para POST /api/billing-documents/:id/items.
// Por defecto: category Product, quantity 1, unit_price 0, tax_rate 0.
type AddBillingItemRequest struct {
	ItemName    string           `json:"item_name"`
	Description *string          `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty" swaggertype:"number"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"number"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty" swaggertype:"number"` // porcentaje
}

// UpdateBillingItemRequest body para PUT /api/billing-documents/:id/items/:item_id.
// Los campos derivados (total_price, tax_amount) no se aceptan: siempre se recalculan.
type UpdateBillingItemRequest struct {
	ItemName    Optional[string]          `json:"item_name" swaggertype:"string"`
	Description Optional[string]          `json:"description" swaggertype:"string"`
	Category    Optional[string]          `json:"category" swaggertype:"string"`
	Quantity    Optional[decimal.Decimal] `json:"quantity" swaggertype:"number"`
	UnitPrice   Optional[decimal.Decimal] `json:"unit_price" swaggertype:"number"`
	TaxRate     Optional[decimal.Decimal] `json:"tax_rate" swaggertype:"number"`
}

// ListBillingDocumentsQuery filtros de GET /api/billing-documents.
type ListBillingDocumentsQuery struct {
	Status      string `query:"status"`
	BillingType string `query:"billing_type"`
	Limit       int    `query:"limit"`
}

// BillingItemResponse línea en las respuestas.
type BillingItemResponse struct {
	ID          string          `json:"id"`
	ItemName    string          `json:"item_name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"number"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"number"`
	TotalPrice  decimal.Decimal `json:"total_price" swaggertype:"number"`
	TaxRate     decimal.Decimal `json:"tax_rate" swaggertype:"number"`
	TaxAmount   decimal.Decimal `json:"tax_amount" swaggertype:"number"`
}

// BillingDocumentResponse documento completo (cabecera, ítems y totales).
type BillingDocumentResponse struct {
	ID                  string                `json:"id"`
	DocumentNumber      string                `json:"document_number"`
	BillingType         string                `json:"billing_type"`
	BillingDate         string                `json:"billing_date"`
	PricingDate         *string               `json:"pricing_date"`
	ServiceRenderedDate *string               `json:"service_rendered_date"`
	DueDate             *string               `json:"due_date"`
	CustomerName        *string               `json:"customer_name"`
	CustomerEmail       *string               `json:"customer_email"`
	CustomerAddress     *string               `json:"customer_address"`
	Items               []BillingItemResponse `json:"items"`
	Subtotal            decimal.Decimal       `json:"subtotal" swaggertype:"number"`
	TotalTax            decimal.Decimal       `json:"total_tax" swaggertype:"number"`
	TotalAmount         decimal.Decimal       `json:"total_amount" swaggertype:"number"`
	Status              string                `json:"status"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	Notes               *string               `json:"notes"`
}

// MessageResponse confirmación simple (ej. DELETE).
type MessageResponse struct {
	Message string `json:"message"`
}
