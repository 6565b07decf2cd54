package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Conversión entidad ↔ BSON (sin servidor)
// ──────────────────────────────────────────────────────────────────────────────

func sampleDocument() *entity.BillingDocument {
	desc := "detalle"
	name := "Acme"
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	return &entity.BillingDocument{
		ID: "doc-1", DocumentNumber: "INV-20240510093000", BillingType: entity.BillingTypeStandardInvoice,
		BillingDate: now, DueDate: &due, CustomerName: &name,
		Items: []entity.BillingItem{{
			ID: "it-1", Name: "Soporte", Description: &desc, Category: entity.CategoryService,
			Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.RequireFromString("20.10"),
			TaxRate: decimal.NewFromInt(19), TotalPrice: decimal.RequireFromString("30.15"),
			TaxAmount: decimal.RequireFromString("5.7285"),
		}},
		Subtotal: decimal.RequireFromString("30.15"), TotalTax: decimal.RequireFromString("5.7285"),
		TotalAmount: decimal.RequireFromString("35.8785"),
		Status:      entity.StatusDraft, CreatedAt: now, UpdatedAt: now,
	}
}

func TestDocumentModel_IdaYVuelta(t *testing.T) {
	doc := sampleDocument()

	m, err := toDocumentModel(doc)
	require.NoError(t, err)
	assert.Equal(t, "35.8785", m.TotalAmount.String())

	back, err := fromDocumentModel(m)
	require.NoError(t, err)

	assert.Equal(t, doc.DocumentNumber, back.DocumentNumber)
	assert.True(t, back.TotalAmount.Equal(doc.TotalAmount))
	require.Len(t, back.Items, 1)
	assert.True(t, back.Items[0].TaxAmount.Equal(doc.Items[0].TaxAmount))
	assert.Equal(t, entity.CategoryService, back.Items[0].Category)
	require.NotNil(t, back.DueDate)
	assert.True(t, back.DueDate.Equal(*doc.DueDate))
	assert.Nil(t, back.Notes)
}

func TestFromDecimal128_VacioEsCero(t *testing.T) {
	d, err := fromDecimal128(bson.Decimal128{})
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestFieldValue_TiposEsperados(t *testing.T) {
	v, err := fieldValue(repository.FieldStatus, entity.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, "Completed", v)

	var cleared *string
	v, err = fieldValue(repository.FieldNotes, cleared)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = fieldValue(repository.FieldTotalAmount, decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	assert.IsType(t, bson.Decimal128{}, v)

	_, err = fieldValue(repository.FieldStatus, "Completed")
	assert.Error(t, err, "string sin tipar no es un DocumentStatus")

	_, err = fieldValue("_id", "x")
	assert.Error(t, err, "campo fuera de la lista blanca")
}

func TestMatchFilter(t *testing.T) {
	assert.Empty(t, matchFilter(repository.BillingDocumentFilter{}))
	assert.Equal(t, bson.M{"status": "Pending", "billing_type": "Receipt"}, matchFilter(repository.BillingDocumentFilter{
		Status: entity.StatusPending, BillingType: entity.BillingTypeReceipt,
	}))
	assert.Equal(t, bson.M{"document_number": "INV-20240510093000"}, matchFilter(repository.BillingDocumentFilter{
		DocumentNumber: "INV-20240510093000",
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Integración (requiere TEST_MONGO_URI)
// ──────────────────────────────────────────────────────────────────────────────

func TestBillingDocumentRepo_Integracion(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI no definido")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, uri, "billing_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	}()

	repo := NewBillingDocumentRepository(db)
	require.NoError(t, repo.Migrate(ctx))

	doc := sampleDocument()
	require.NoError(t, repo.Insert(ctx, doc))

	sameNumber := doc.Clone()
	sameNumber.ID = "doc-2"
	require.NoError(t, repo.Insert(ctx, sameNumber), "el número de documento no es único")
	n, err := repo.Count(ctx, repository.BillingDocumentFilter{DocumentNumber: doc.DocumentNumber})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.ErrorIs(t, repo.Insert(ctx, doc), domain.ErrDuplicate)
	_, err = repo.Delete(ctx, sameNumber.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateFields(ctx, doc.ID, repository.Fields{
		repository.FieldStatus:       entity.StatusCompleted,
		repository.FieldCustomerName: (*string)(nil),
	}))
	got, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.Nil(t, got.CustomerName)

	sum, err := repo.SumTotalAmount(ctx, repository.BillingDocumentFilter{Status: entity.StatusCompleted})
	require.NoError(t, err)
	assert.True(t, sum.Equal(doc.TotalAmount), "sum=%s", sum)

	counts, err := repo.CountBy(ctx, repository.FieldBillingType)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[string(entity.BillingTypeStandardInvoice)])

	missing, err := repo.FindByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err = repo.Delete(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
