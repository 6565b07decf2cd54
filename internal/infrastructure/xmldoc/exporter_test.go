package xmldoc_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/infrastructure/xmldoc"
)

func sampleDocument() *entity.BillingDocument {
	at := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	name := "Acme & Co"
	return &entity.BillingDocument{
		ID:             "doc-1",
		DocumentNumber: "RCT-20240510093000",
		BillingType:    entity.BillingTypeReceipt,
		BillingDate:    at,
		CustomerName:   &name,
		Items: []entity.BillingItem{{
			ID: "it-1", Name: "Soporte", Category: entity.CategoryService,
			Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(75), TaxRate: decimal.NewFromInt(10),
			TotalPrice: decimal.NewFromInt(225), TaxAmount: decimal.RequireFromString("22.5"),
		}},
		Subtotal:    decimal.NewFromInt(225),
		TotalTax:    decimal.RequireFromString("22.5"),
		TotalAmount: decimal.RequireFromString("247.5"),
		Status:      entity.StatusPending,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestExportDocumentXML_Estructura(t *testing.T) {
	out, digest, err := xmldoc.NewExporter().ExportDocumentXML(sampleDocument())
	require.NoError(t, err)
	assert.Len(t, digest, 64)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(out))
	root := parsed.Root()
	require.NotNil(t, root)
	assert.Equal(t, "BillingDocument", root.Tag)
	assert.Equal(t, "doc-1", root.SelectAttrValue("Id", ""))
	assert.Equal(t, "RCT-20240510093000", root.SelectElement("DocumentNumber").Text())
	assert.Equal(t, "Acme & Co", root.FindElement("Customer/Name").Text())
	assert.Equal(t, "247.5", root.FindElement("Totals/TotalAmount").Text())

	items := root.FindElements("Items/Item")
	require.Len(t, items, 1)
	assert.Equal(t, "22.5", items[0].SelectElement("TaxAmount").Text())
	assert.Nil(t, root.FindElement("Dates/DueDate"), "las fechas ausentes no se exportan")
	assert.Nil(t, root.SelectElement("Notes"))
}

func TestExportDocumentXML_DigestEstable(t *testing.T) {
	exp := xmldoc.NewExporter()

	_, first, err := exp.ExportDocumentXML(sampleDocument())
	require.NoError(t, err)
	_, second, err := exp.ExportDocumentXML(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	changed := sampleDocument()
	changed.TotalAmount = decimal.NewFromInt(1)
	_, third, err := exp.ExportDocumentXML(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestDigest_IgnoraFormaDeAtributos(t *testing.T) {
	a, err := xmldoc.Digest([]byte(`<a x="1" y='2'><b/></a>`))
	require.NoError(t, err)
	b, err := xmldoc.Digest([]byte(`<a y="2"  x="1"><b></b></a>`))
	require.NoError(t, err)

	assert.Equal(t, a, b, "C14N normaliza orden de atributos y elementos vacíos")
}
