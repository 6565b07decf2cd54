package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
	"github.com/jhoicas/billing-api/mocks"
)

// ──────────────────────────────────────────────────────────────────────────────
// Generadores falsos
// ──────────────────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	err  error
	seen *entity.BillingDocument
}

func (f *fakeRenderer) RenderDocumentPDF(_ context.Context, doc *entity.BillingDocument) ([]byte, error) {
	f.seen = doc
	return []byte("%PDF-fake"), f.err
}

func (f *fakeRenderer) ExportDocumentXML(doc *entity.BillingDocument) ([]byte, string, error) {
	f.seen = doc
	return []byte("<BillingDocument/>"), "abc123", f.err
}

type fakeSheet struct {
	docs []*entity.BillingDocument
}

func (f *fakeSheet) WriteDocuments(docs []*entity.BillingDocument) ([]byte, error) {
	f.docs = docs
	return []byte("PK"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadPDF_NombrePorNumeroDeDocumento(t *testing.T) {
	uc, repo := newUseCase(newClock(), billing.DocumentConfig{})
	created := createInvoice(t, uc)
	renderer := &fakeRenderer{}
	export := billing.NewExportUseCase(repo, renderer, renderer, &fakeSheet{})

	data, filename, err := export.DownloadPDF(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(data))
	assert.Equal(t, created.DocumentNumber+".pdf", filename)
	require.NotNil(t, renderer.seen)
	assert.Equal(t, created.ID, renderer.seen.ID)
}

func TestDownloadXML_DevuelveDigest(t *testing.T) {
	uc, repo := newUseCase(newClock(), billing.DocumentConfig{})
	created := createInvoice(t, uc)
	renderer := &fakeRenderer{}
	export := billing.NewExportUseCase(repo, renderer, renderer, &fakeSheet{})

	_, filename, digest, err := export.DownloadXML(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.DocumentNumber+".xml", filename)
	assert.Equal(t, "abc123", digest)
}

func TestDescargas_DocumentoInexistente(t *testing.T) {
	_, repo := newUseCase(newClock(), billing.DocumentConfig{})
	renderer := &fakeRenderer{}
	export := billing.NewExportUseCase(repo, renderer, renderer, &fakeSheet{})

	_, _, err := export.DownloadPDF(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, _, err = export.DownloadXML(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, renderer.seen, "no se genera nada sin documento")
}

func TestDownloadPDF_FallaDelGeneradorEsInterna(t *testing.T) {
	uc, repo := newUseCase(newClock(), billing.DocumentConfig{})
	created := createInvoice(t, uc)
	renderer := &fakeRenderer{err: errors.New("fuente no encontrada")}
	export := billing.NewExportUseCase(repo, renderer, renderer, &fakeSheet{})

	_, _, err := export.DownloadPDF(context.Background(), created.ID)

	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.NotContains(t, err.Error(), "fuente", "la causa no se expone en el mensaje")
}

func TestDownloadSpreadsheet_FiltraYUsaLimiteDeExportacion(t *testing.T) {
	repo := new(mocks.MockBillingDocumentRepo)
	sheet := &fakeSheet{}
	export := billing.NewExportUseCase(repo, &fakeRenderer{}, &fakeRenderer{}, sheet)
	docs := []*entity.BillingDocument{{ID: "d1"}}
	repo.On("FindMany", mock.Anything,
		repository.BillingDocumentFilter{Status: entity.StatusCompleted}, 10000).Return(docs, nil)

	data, filename, err := export.DownloadSpreadsheet(context.Background(), dto.ListBillingDocumentsQuery{Status: "Completed"})

	require.NoError(t, err)
	assert.Equal(t, "PK", string(data))
	assert.Regexp(t, `^billing-documents-\d{8}\.xlsx$`, filename)
	assert.Equal(t, docs, sheet.docs)
	repo.AssertExpectations(t)
}

func TestDownloadSpreadsheet_FiltroInvalido(t *testing.T) {
	repo := new(mocks.MockBillingDocumentRepo)
	export := billing.NewExportUseCase(repo, &fakeRenderer{}, &fakeRenderer{}, &fakeSheet{})

	_, _, err := export.DownloadSpreadsheet(context.Background(), dto.ListBillingDocumentsQuery{BillingType: "Factura"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "FindMany", mock.Anything, mock.Anything, mock.Anything)
}
