package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// maxExportRows límite de documentos en una exportación XLSX sin limit explícito.
const maxExportRows = 10000

// ExportUseCase genera las representaciones descargables de los documentos (PDF, XML, XLSX).
// Solo lee del store; nunca modifica documentos.
type ExportUseCase struct {
	repo        repository.BillingDocumentRepository
	pdf         DocumentPDFRenderer
	xml         DocumentXMLExporter
	spreadsheet DocumentSpreadsheetWriter
	now         func() time.Time
}

// NewExportUseCase construye el caso de uso inyectando los generadores.
func NewExportUseCase(
	repo repository.BillingDocumentRepository,
	pdf DocumentPDFRenderer,
	xml DocumentXMLExporter,
	spreadsheet DocumentSpreadsheetWriter,
) *ExportUseCase {
	return &ExportUseCase{
		repo:        repo,
		pdf:         pdf,
		xml:         xml,
		spreadsheet: spreadsheet,
		now:         time.Now,
	}
}

// DownloadPDF recupera el documento y genera su PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrDocumentNotFound si el documento no existe.
func (uc *ExportUseCase) DownloadPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.pdf.RenderDocumentPDF(ctx, doc)
	if err != nil {
		return nil, "", domain.Internal("pdf: generación fallida", err)
	}
	return pdfBytes, doc.DocumentNumber + ".pdf", nil
}

// DownloadXML recupera el documento y lo serializa a XML junto con su digest.
func (uc *ExportUseCase) DownloadXML(ctx context.Context, id string) (xmlBytes []byte, filename, digest string, err error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	xmlBytes, digest, err = uc.xml.ExportDocumentXML(doc)
	if err != nil {
		return nil, "", "", domain.Internal("xml: exportación fallida", err)
	}
	return xmlBytes, doc.DocumentNumber + ".xml", digest, nil
}

// DownloadSpreadsheet exporta a XLSX los documentos que cumplen los filtros de listado.
func (uc *ExportUseCase) DownloadSpreadsheet(ctx context.Context, q dto.ListBillingDocumentsQuery) ([]byte, string, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return nil, "", err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = maxExportRows
	}
	docs, err := uc.repo.FindMany(ctx, filter, limit)
	if err != nil {
		return nil, "", domain.Internal("xlsx: listar documentos", err)
	}
	data, err := uc.spreadsheet.WriteDocuments(docs)
	if err != nil {
		return nil, "", domain.Internal("xlsx: generación fallida", err)
	}
	return data, fmt.Sprintf("billing-documents-%s.xlsx", uc.now().Format("20060102")), nil
}

func (uc *ExportUseCase) load(ctx context.Context, id string) (*entity.BillingDocument, error) {
	doc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("obtener documento", err)
	}
	if doc == nil {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}
