package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/billing-api/internal/application/dto"
)

// ImportedDocument documento leído del libro, listo para crearse vía DocumentUseCase.
// Ref es el valor de la columna id (o document_number si no hay id); solo sirve para
// ligar los ítems y para reportar errores.
type ImportedDocument struct {
	Ref      string
	Row      int
	Document dto.CreateBillingDocumentRequest
	Status   string
	Items    []dto.AddBillingItemRequest
}

// ReadDocuments lee un libro con el formato de WriteDocuments. Las columnas se ubican
// por nombre de cabecera; las derivadas (totales, ids de ítem) se ignoran porque se
// recalculan al importar.
func ReadDocuments(r io.Reader) ([]ImportedDocument, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: abrir libro: %w", err)
	}
	defer func() { _ = f.Close() }()

	docRows, err := f.GetRows(SheetDocuments)
	if err != nil {
		return nil, fmt.Errorf("xlsx: leer hoja %s: %w", SheetDocuments, err)
	}
	if len(docRows) == 0 {
		return nil, fmt.Errorf("xlsx: hoja %s vacía", SheetDocuments)
	}
	cols := headerIndex(docRows[0])
	for _, required := range []string{"billing_type", "billing_date"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("xlsx: falta la columna %s en %s", required, SheetDocuments)
		}
	}

	out := make([]ImportedDocument, 0, len(docRows)-1)
	byRef := make(map[string]int)
	for i := 1; i < len(docRows); i++ {
		row := docRows[i]
		if blank(row) {
			continue
		}
		get := func(name string) string { return cellVal(row, cols, name) }
		ref := get("id")
		if ref == "" {
			ref = get("document_number")
		}
		if ref == "" {
			ref = fmt.Sprintf("row-%d", i+1)
		}
		if _, dup := byRef[ref]; dup {
			return nil, fmt.Errorf("xlsx: %s fila %d: referencia %q repetida", SheetDocuments, i+1, ref)
		}
		byRef[ref] = len(out)
		out = append(out, ImportedDocument{
			Ref: ref,
			Row: i + 1,
			Document: dto.CreateBillingDocumentRequest{
				BillingType:         get("billing_type"),
				BillingDate:         get("billing_date"),
				PricingDate:         optional(get("pricing_date")),
				ServiceRenderedDate: optional(get("service_rendered_date")),
				DueDate:             optional(get("due_date")),
				CustomerName:        optional(get("customer_name")),
				CustomerEmail:       optional(get("customer_email")),
				CustomerAddress:     optional(get("customer_address")),
				Notes:               optional(get("notes")),
			},
			Status: get("status"),
		})
	}

	itemRows, err := f.GetRows(SheetItems)
	if err != nil || len(itemRows) == 0 {
		// La hoja de ítems es opcional.
		return out, nil
	}
	icols := headerIndex(itemRows[0])
	for i := 1; i < len(itemRows); i++ {
		row := itemRows[i]
		if blank(row) {
			continue
		}
		get := func(name string) string { return cellVal(row, icols, name) }
		ref := get("document_id")
		if ref == "" {
			ref = get("document_number")
		}
		idx, ok := byRef[ref]
		if !ok {
			return nil, fmt.Errorf("xlsx: %s fila %d: documento %q no existe en %s", SheetItems, i+1, ref, SheetDocuments)
		}
		item := dto.AddBillingItemRequest{
			ItemName:    get("item_name"),
			Description: optional(get("description")),
			Category:    get("category"),
		}
		if item.Quantity, err = optionalDecimal(get("quantity")); err != nil {
			return nil, fmt.Errorf("xlsx: %s fila %d: quantity: %w", SheetItems, i+1, err)
		}
		if item.UnitPrice, err = optionalDecimal(get("unit_price")); err != nil {
			return nil, fmt.Errorf("xlsx: %s fila %d: unit_price: %w", SheetItems, i+1, err)
		}
		if item.TaxRate, err = optionalDecimal(get("tax_rate")); err != nil {
			return nil, fmt.Errorf("xlsx: %s fila %d: tax_rate: %w", SheetItems, i+1, err)
		}
		out[idx].Items = append(out[idx].Items, item)
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// cellVal devuelve la celda de la columna indicada; GetRows omite las celdas vacías finales.
func cellVal(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
