package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/application/movement"
)

// MovementHandler maneja las peticiones HTTP de los BMM (protegido).
type MovementHandler struct {
	uc *movement.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movement.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create godoc
// @Summary      Crear BMM en borrador
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Cabecera y líneas iniciales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar BMM
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        statut          query  string  false  "BROUILLON | VALIDE | ANNULE"
// @Param        type_mouvement  query  string  false  "ENTREE | SORTIE_DEFINITIVE | SORTIE_PRET"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener BMM con sus líneas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del BMM"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar campos del BMM
// @Description  Sobre un BMM validado solo remarque y date_retour_effective son editables.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del BMM"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar BMM en borrador
// @Tags         movements
// @Security     Bearer
// @Param        id   path  string  true  "ID del BMM"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLine godoc
// @Summary      Agregar línea a un BMM en borrador
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del BMM"
// @Param        body  body  dto.LineRequest  true  "Artículo y cantidad"
// @Success      201   {object}  dto.LineResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/lines [post]
func (h *MovementHandler) AddLine(c *fiber.Ctx) error {
	var in dto.LineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddLine(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLine godoc
// @Summary      Modificar línea de un BMM en borrador
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del BMM"
// @Param        lineId  path  string  true  "ID de la línea"
// @Param        body    body  dto.LineRequest  true  "Artículo y cantidad"
// @Success      200     {object}  dto.LineResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/lines/{lineId} [put]
func (h *MovementHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.LineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLine(c.UserContext(), GetActor(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CorrectLine godoc
// @Summary      Corregir la cantidad de una línea validada
// @Description  Revierte el delta anterior y aplica la nueva cantidad bajo bloqueo del artículo.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del BMM"
// @Param        lineId  path  string  true  "ID de la línea"
// @Param        body    body  dto.CorrectLineRequest  true  "Nueva cantidad"
// @Success      200     {object}  dto.LineResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/lines/{lineId}/correction [patch]
func (h *MovementHandler) CorrectLine(c *fiber.Ctx) error {
	var in dto.CorrectLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CorrectLine(c.UserContext(), GetActor(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLine godoc
// @Summary      Eliminar línea de un BMM en borrador
// @Tags         movements
// @Security     Bearer
// @Param        id      path  string  true  "ID del BMM"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/lines/{lineId} [delete]
func (h *MovementHandler) DeleteLine(c *fiber.Ctx) error {
	if err := h.uc.DeleteLine(c.UserContext(), GetActor(c), c.Params("id"), c.Params("lineId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Validate godoc
// @Summary      Validar BMM
// @Description  BROUILLON -> VALIDE. Aplica todos los deltas de stock o ninguno.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del BMM"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/validate [post]
func (h *MovementHandler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.Validate(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular BMM en borrador
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del BMM"
// @Success      200  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkValidate godoc
// @Summary      Validar BMM en lote
// @Description  Cada documento es una unidad de trabajo independiente.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkRequest  true  "IDs de BMM"
// @Success      200   {object}  dto.BulkResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/bulk/validate [post]
func (h *MovementHandler) BulkValidate(c *fiber.Ctx) error {
	var in dto.BulkRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BulkValidate(c.UserContext(), GetActor(c), in.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkCancel godoc
// @Summary      Anular BMM en lote
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkRequest  true  "IDs de BMM"
// @Success      200   {object}  dto.BulkResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/bulk/cancel [post]
func (h *MovementHandler) BulkCancel(c *fiber.Ctx) error {
	var in dto.BulkRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BulkCancel(c.UserContext(), GetActor(c), in.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial del BMM
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del BMM"
// @Success      200  {array}   dto.HistoryEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/history [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
