package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
)

// BillingDocumentHandler maneja el CRUD de documentos y sus ítems.
type BillingDocumentHandler struct {
	uc *billing.DocumentUseCase
}

// NewBillingDocumentHandler construye el handler.
func NewBillingDocumentHandler(uc *billing.DocumentUseCase) *BillingDocumentHandler {
	return &BillingDocumentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear documento de facturación
// @Description  Genera el número de documento, estado Draft, sin ítems y totales en cero.
// @Tags         billing-documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillingDocumentRequest  true  "Cabecera del documento"
// @Success      201   {object}  dto.BillingDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/billing-documents [post]
func (h *BillingDocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillingDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar documentos
// @Tags         billing-documents
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "Filtro por estado"
// @Param        billing_type  query  string  false  "Filtro por tipo"
// @Param        limit         query  int     false  "Máximo de documentos (por defecto 100)"
// @Success      200  {array}   dto.BillingDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/billing-documents [get]
func (h *BillingDocumentHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener documento
// @Tags         billing-documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.BillingDocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id} [get]
func (h *BillingDocumentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cabecera
// @Description  Parche parcial: los campos ausentes no cambian; null limpia los opcionales.
// @Tags         billing-documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID del documento"
// @Param        body  body  dto.UpdateBillingDocumentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.BillingDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id} [put]
func (h *BillingDocumentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBillingDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar documento
// @Tags         billing-documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id} [delete]
func (h *BillingDocumentHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem
// @Description  Agrega la línea al final y recalcula los totales del documento.
// @Tags         billing-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del documento"
// @Param        body  body  dto.AddBillingItemRequest  true  "Ítem"
// @Success      200   {object}  dto.BillingDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id}/items [post]
func (h *BillingDocumentHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddBillingItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddItem(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar ítem
// @Tags         billing-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "ID del documento"
// @Param        item_id  path  string                        true  "ID del ítem"
// @Param        body     body  dto.UpdateBillingItemRequest  true  "Campos a modificar"
// @Success      200      {object}  dto.BillingDocumentResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id}/items/{item_id} [put]
func (h *BillingDocumentHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateBillingItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateItem(c.UserContext(), c.Params("id"), c.Params("item_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Eliminar ítem
// @Tags         billing-items
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID del documento"
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      200      {object}  dto.BillingDocumentResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/billing-documents/{id}/items/{item_id} [delete]
func (h *BillingDocumentHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.UserContext(), c.Params("id"), c.Params("item_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// listQuery lee status, billing_type y limit; un limit no numérico es un error de validación.
func listQuery(c *fiber.Ctx) (dto.ListBillingDocumentsQuery, error) {
	var q dto.ListBillingDocumentsQuery
	if err := c.QueryParser(&q); err != nil {
		return q, domain.NewValidationError("limit", "limit debe ser un entero")
	}
	return q, nil
}
