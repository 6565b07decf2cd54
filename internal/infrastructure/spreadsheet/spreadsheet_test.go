package spreadsheet_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/infrastructure/spreadsheet"
)

func documents() []*entity.BillingDocument {
	at := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	email := "pagos@acme.test"
	return []*entity.BillingDocument{
		{
			ID: "doc-1", DocumentNumber: "INV-20240510093000",
			BillingType: entity.BillingTypeStandardInvoice, BillingDate: at, DueDate: &due,
			CustomerEmail: &email,
			Items: []entity.BillingItem{
				{ID: "it-1", Name: "Consultoría", Category: entity.CategoryService,
					Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(10),
					TotalPrice: decimal.NewFromInt(200), TaxAmount: decimal.NewFromInt(20)},
				{ID: "it-2", Name: "Descuento", Category: entity.CategoryDiscount,
					Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("12.5"), TaxRate: decimal.Zero,
					TotalPrice: decimal.RequireFromString("12.5"), TaxAmount: decimal.Zero},
			},
			Status: entity.StatusCompleted, CreatedAt: at, UpdatedAt: at,
		},
		{
			ID: "doc-2", DocumentNumber: "RCT-20240510093001",
			BillingType: entity.BillingTypeReceipt, BillingDate: at,
			Items:  []entity.BillingItem{},
			Status: entity.StatusDraft, CreatedAt: at, UpdatedAt: at,
		},
	}
}

func TestWriteDocuments_HojasYFilas(t *testing.T) {
	data, err := spreadsheet.NewExcelWriter().WriteDocuments(documents())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	docRows, err := f.GetRows(spreadsheet.SheetDocuments)
	require.NoError(t, err)
	assert.Len(t, docRows, 3, "cabecera + 2 documentos")
	assert.Equal(t, "document_number", docRows[0][1])
	assert.Equal(t, "INV-20240510093000", docRows[1][1])

	itemRows, err := f.GetRows(spreadsheet.SheetItems)
	require.NoError(t, err)
	assert.Len(t, itemRows, 3, "cabecera + 2 ítems")
	assert.Equal(t, "doc-1", itemRows[2][0])
	assert.Equal(t, "Descuento", itemRows[2][3])
}

func TestReadDocuments_IdaYVuelta(t *testing.T) {
	data, err := spreadsheet.NewExcelWriter().WriteDocuments(documents())
	require.NoError(t, err)

	imported, err := spreadsheet.ReadDocuments(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, imported, 2)

	first := imported[0]
	assert.Equal(t, "doc-1", first.Ref)
	assert.Equal(t, string(entity.BillingTypeStandardInvoice), first.Document.BillingType)
	assert.Equal(t, "2024-05-10", first.Document.BillingDate)
	require.NotNil(t, first.Document.DueDate)
	assert.Equal(t, "2024-06-10", *first.Document.DueDate)
	require.NotNil(t, first.Document.CustomerEmail)
	assert.Nil(t, first.Document.CustomerName)
	assert.Equal(t, string(entity.StatusCompleted), first.Status)

	require.Len(t, first.Items, 2)
	assert.Equal(t, "Consultoría", first.Items[0].ItemName)
	require.NotNil(t, first.Items[1].UnitPrice)
	assert.True(t, first.Items[1].UnitPrice.Equal(decimal.RequireFromString("12.5")))

	assert.Empty(t, imported[1].Items)
}

func TestReadDocuments_ItemSinDocumento(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), spreadsheet.SheetDocuments))
	_, err := f.NewSheet(spreadsheet.SheetItems)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(spreadsheet.SheetDocuments, "A1", &[]interface{}{"id", "billing_type", "billing_date"}))
	require.NoError(t, f.SetSheetRow(spreadsheet.SheetDocuments, "A2", &[]interface{}{"a", "Receipt", "2024-01-01"}))
	require.NoError(t, f.SetSheetRow(spreadsheet.SheetItems, "A1", &[]interface{}{"document_id", "item_name"}))
	require.NoError(t, f.SetSheetRow(spreadsheet.SheetItems, "A2", &[]interface{}{"b", "x"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = spreadsheet.ReadDocuments(buf)

	assert.Error(t, err)
}
