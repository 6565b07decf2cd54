// Package spreadsheet exporta documentos de facturación a XLSX y los lee de vuelta
// para la carga masiva (cmd/import).
//
// Libro:
//   - Hoja "Documents": una fila por documento (cabecera y totales).
//   - Hoja "Items": una fila por ítem, ligada al documento por document_id.
package spreadsheet

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// Nombres de hoja.
const (
	SheetDocuments = "Documents"
	SheetItems     = "Items"
)

const dateLayout = "2006-01-02"

var documentHeaders = []interface{}{
	"id", "document_number", "billing_type", "billing_date", "pricing_date",
	"service_rendered_date", "due_date", "customer_name", "customer_email",
	"customer_address", "status", "subtotal", "total_tax", "total_amount",
	"notes", "created_at", "updated_at",
}

var itemHeaders = []interface{}{
	"document_id", "document_number", "item_id", "item_name", "description", "category",
	"quantity", "unit_price", "tax_rate", "total_price", "tax_amount",
}

var _ appbilling.DocumentSpreadsheetWriter = (*ExcelWriter)(nil)

// ExcelWriter implementa billing.DocumentSpreadsheetWriter con excelize.
type ExcelWriter struct{}

// NewExcelWriter construye el writer.
func NewExcelWriter() *ExcelWriter { return &ExcelWriter{} }

// WriteDocuments genera el libro y devuelve sus bytes.
func (w *ExcelWriter) WriteDocuments(docs []*entity.BillingDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetDocuments); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetItems); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja de ítems: %w", err)
	}

	if err := f.SetSheetRow(SheetDocuments, "A1", &documentHeaders); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera de documentos: %w", err)
	}
	if err := f.SetSheetRow(SheetItems, "A1", &itemHeaders); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera de ítems: %w", err)
	}

	itemRow := 2
	for i, doc := range docs {
		row := []interface{}{
			doc.ID,
			doc.DocumentNumber,
			string(doc.BillingType),
			doc.BillingDate.Format(dateLayout),
			optionalDate(doc.PricingDate),
			optionalDate(doc.ServiceRenderedDate),
			optionalDate(doc.DueDate),
			optionalString(doc.CustomerName),
			optionalString(doc.CustomerEmail),
			optionalString(doc.CustomerAddress),
			string(doc.Status),
			number(doc.Subtotal),
			number(doc.TotalTax),
			number(doc.TotalAmount),
			optionalString(doc.Notes),
			doc.CreatedAt.UTC().Format(time.RFC3339),
			doc.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetDocuments, cell(i+2), &row); err != nil {
			return nil, fmt.Errorf("xlsx: fila de documento %s: %w", doc.ID, err)
		}

		for _, it := range doc.Items {
			row := []interface{}{
				doc.ID,
				doc.DocumentNumber,
				it.ID,
				it.Name,
				optionalString(it.Description),
				string(it.Category),
				number(it.Quantity),
				number(it.UnitPrice),
				number(it.TaxRate),
				number(it.TotalPrice),
				number(it.TaxAmount),
			}
			if err := f.SetSheetRow(SheetItems, cell(itemRow), &row); err != nil {
				return nil, fmt.Errorf("xlsx: fila de ítem %s: %w", it.ID, err)
			}
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cell(row int) string { return fmt.Sprintf("A%d", row) }

func number(d decimal.Decimal) float64 { return d.InexactFloat64() }

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
