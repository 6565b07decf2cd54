package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billing-api/internal/application/billing"
)

const (
	mimePDF  = "application/pdf"
	mimeXML  = "application/xml"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// HeaderContentDigest lleva el SHA-256 del XML canónico exportado.
	HeaderContentDigest = "X-Content-Digest"
)

// ExportHandler descargas de documentos en PDF, XML y XLSX.
type ExportHandler struct {
	uc *billing.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *billing.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// DownloadPDF godoc
// @Summary      Descargar PDF del documento
// @Tags         exports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id}/pdf [get]
func (h *ExportHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.DownloadPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, filename, mimePDF, "inline")
}

// DownloadXML godoc
// @Summary      Descargar XML del documento
// @Description  El header X-Content-Digest lleva el SHA-256 (hex) de la forma canónica del XML.
// @Tags         exports
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id}/xml [get]
func (h *ExportHandler) DownloadXML(c *fiber.Ctx) error {
	data, filename, digest, err := h.uc.DownloadXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(HeaderContentDigest, "sha-256="+digest)
	return sendFile(c, data, filename, mimeXML, "attachment")
}

// DownloadSpreadsheet godoc
// @Summary      Exportar documentos a XLSX
// @Description  Hoja Documents (una fila por documento) y hoja Items (una fila por ítem).
// @Tags         exports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status        query  string  false  "Filtro por estado"
// @Param        billing_type  query  string  false  "Filtro por tipo"
// @Param        limit         query  int     false  "Máximo de documentos"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/billing-documents/export.xlsx [get]
func (h *ExportHandler) DownloadSpreadsheet(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	data, filename, err := h.uc.DownloadSpreadsheet(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, filename, mimeXLSX, "attachment")
}

func sendFile(c *fiber.Ctx, data []byte, filename, contentType, disposition string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	return c.Send(data)
}
