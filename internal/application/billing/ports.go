package billing

import (
	"context"

	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// DocumentPDFRenderer genera la representación gráfica (PDF) de un documento.
type DocumentPDFRenderer interface {
	RenderDocumentPDF(ctx context.Context, doc *entity.BillingDocument) ([]byte, error)
}

// DocumentXMLExporter serializa un documento a XML y devuelve el digest SHA-256 (hex)
// de su forma canónica.
type DocumentXMLExporter interface {
	ExportDocumentXML(doc *entity.BillingDocument) (xml []byte, digest string, err error)
}

// DocumentSpreadsheetWriter escribe un libro XLSX con una fila por ítem (o por documento sin ítems).
type DocumentSpreadsheetWriter interface {
	WriteDocuments(docs []*entity.BillingDocument) ([]byte, error)
}

// DocumentTxRunner ejecuta fn con un repositorio atado a una transacción: si fn devuelve
// error no queda ningún cambio. Lo usa la importación masiva para crear cada documento
// con sus ítems de forma atómica.
type DocumentTxRunner interface {
	RunDocuments(ctx context.Context, fn func(repo repository.BillingDocumentRepository) error) error
}

// DirectRunner DocumentTxRunner para stores sin transacciones (memoria, MongoDB standalone):
// ejecuta fn sobre el repositorio tal cual.
type DirectRunner struct {
	Repo repository.BillingDocumentRepository
}

func (r DirectRunner) RunDocuments(_ context.Context, fn func(repo repository.BillingDocumentRepository) error) error {
	return fn(r.Repo)
}
