package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-prep/internal/application/catalog"
	"github.com/jhoicas/gestion-prep/internal/application/dto"
)

// ArticleHandler maneja las peticiones HTTP de artículos (protegido).
type ArticleHandler struct {
	uc       *catalog.ArticleUseCase
	lowStock *catalog.LowStockUseCase
}

// NewArticleHandler construye el handler.
func NewArticleHandler(uc *catalog.ArticleUseCase, lowStock *catalog.LowStockUseCase) *ArticleHandler {
	return &ArticleHandler{uc: uc, lowStock: lowStock}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ArticleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        stock      query  string  false  "Filtrar por stock"
// @Param        categorie  query  string  false  "Filtrar por categoría"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ArticleListResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	var in dto.ListArticlesRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo
// @Description  quantite_stock no es editable; solo la modifica la validación de un BMM.
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateArticleRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar artículo
// @Description  Rechazado con 409 mientras alguna línea de BMM lo referencie.
// @Tags         articles
// @Security     Bearer
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Artículos con quantite_stock <= seuil_alerte, ordenados por déficit.
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockAlertDTO
// @Router       /api/articles/low-stock [get]
func (h *ArticleHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.lowStock.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": list,
	})
}
