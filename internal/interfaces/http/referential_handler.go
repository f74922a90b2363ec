package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-prep/internal/application/catalog"
	"github.com/jhoicas/gestion-prep/internal/application/dto"
)

// ReferentialHandler expone sitios, unidades, trenes, equipos, stocks, categorías y platinages.
type ReferentialHandler struct {
	uc *catalog.ReferentialUseCase
}

// NewReferentialHandler construye el handler.
func NewReferentialHandler(uc *catalog.ReferentialUseCase) *ReferentialHandler {
	return &ReferentialHandler{uc: uc}
}

// create parsea el body en T, invoca fn y responde 201.
func create[T any, R any](c *fiber.Ctx, fn func(*fiber.Ctx, T) (R, error)) error {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := fn(c, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func list[R any](c *fiber.Ctx, out R, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSite godoc
// @Summary      Crear sitio
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSiteRequest  true  "Sitio"
// @Success      201   {object}  dto.SiteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sites [post]
func (h *ReferentialHandler) CreateSite(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreateSiteRequest) (*dto.SiteResponse, error) {
		return h.uc.CreateSite(c.UserContext(), in)
	})
}

// ListSites godoc
// @Summary      Listar sitios
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SiteResponse
// @Router       /api/sites [get]
func (h *ReferentialHandler) ListSites(c *fiber.Ctx) error {
	out, err := h.uc.ListSites(c.UserContext())
	return list(c, out, err)
}

// CreateUnit godoc
// @Summary      Crear unidad
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "Unidad"
// @Success      201   {object}  dto.UnitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *ReferentialHandler) CreateUnit(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
		return h.uc.CreateUnit(c.UserContext(), in)
	})
}

// ListUnits godoc
// @Summary      Listar unidades
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        site  query  string  false  "Filtrar por sitio"
// @Success      200  {array}  dto.UnitResponse
// @Router       /api/units [get]
func (h *ReferentialHandler) ListUnits(c *fiber.Ctx) error {
	out, err := h.uc.ListUnits(c.UserContext(), c.Query("site"))
	return list(c, out, err)
}

// CreateTrain godoc
// @Summary      Crear tren
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTrainRequest  true  "Tren"
// @Success      201   {object}  dto.TrainResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/trains [post]
func (h *ReferentialHandler) CreateTrain(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreateTrainRequest) (*dto.TrainResponse, error) {
		return h.uc.CreateTrain(c.UserContext(), in)
	})
}

// ListTrains godoc
// @Summary      Listar trenes
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        unite  query  string  false  "Filtrar por unidad"
// @Success      200  {array}  dto.TrainResponse
// @Router       /api/trains [get]
func (h *ReferentialHandler) ListTrains(c *fiber.Ctx) error {
	out, err := h.uc.ListTrains(c.UserContext(), c.Query("unite"))
	return list(c, out, err)
}

// CreateEquipment godoc
// @Summary      Crear equipo
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentRequest  true  "Equipo"
// @Success      201   {object}  dto.EquipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipements [post]
func (h *ReferentialHandler) CreateEquipment(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
		return h.uc.CreateEquipment(c.UserContext(), in)
	})
}

// GetEquipment godoc
// @Summary      Obtener equipo
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del equipo"
// @Success      200  {object}  dto.EquipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipements/{id} [get]
func (h *ReferentialHandler) GetEquipment(c *fiber.Ctx) error {
	out, err := h.uc.GetEquipment(c.UserContext(), c.Params("id"))
	return list(c, out, err)
}

// ListEquipment godoc
// @Summary      Listar equipos
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        train  query  string  false  "Filtrar por tren"
// @Success      200  {array}  dto.EquipmentResponse
// @Router       /api/equipements [get]
func (h *ReferentialHandler) ListEquipment(c *fiber.Ctx) error {
	out, err := h.uc.ListEquipment(c.UserContext(), c.Query("train"))
	return list(c, out, err)
}

// CreateStock godoc
// @Summary      Crear ubicación de stock
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "Stock"
// @Success      201   {object}  dto.StockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stocks [post]
func (h *ReferentialHandler) CreateStock(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreateStockRequest) (*dto.StockResponse, error) {
		return h.uc.CreateStock(c.UserContext(), in)
	})
}

// ListStocks godoc
// @Summary      Listar ubicaciones de stock
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        site  query  string  false  "Filtrar por sitio"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/stocks [get]
func (h *ReferentialHandler) ListStocks(c *fiber.Ctx) error {
	out, err := h.uc.ListStocks(c.UserContext(), c.Query("site"))
	return list(c, out, err)
}

// CreateCategory godoc
// @Summary      Crear categoría de artículos
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *ReferentialHandler) CreateCategory(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
		return h.uc.CreateCategory(c.UserContext(), in)
	})
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *ReferentialHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext())
	return list(c, out, err)
}

// CreatePlatinageType godoc
// @Summary      Crear tipo de platinage
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlatinageTypeRequest  true  "Tipo"
// @Success      201   {object}  dto.PlatinageTypeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/types-platinage [post]
func (h *ReferentialHandler) CreatePlatinageType(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreatePlatinageTypeRequest) (*dto.PlatinageTypeResponse, error) {
		return h.uc.CreatePlatinageType(c.UserContext(), in)
	})
}

// ListPlatinageTypes godoc
// @Summary      Listar tipos de platinage
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PlatinageTypeResponse
// @Router       /api/types-platinage [get]
func (h *ReferentialHandler) ListPlatinageTypes(c *fiber.Ctx) error {
	out, err := h.uc.ListPlatinageTypes(c.UserContext())
	return list(c, out, err)
}

// CreatePlatinage godoc
// @Summary      Registrar platinage
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlatinageRequest  true  "Platinage"
// @Success      201   {object}  dto.PlatinageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/platinages [post]
func (h *ReferentialHandler) CreatePlatinage(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreatePlatinageRequest) (*dto.PlatinageResponse, error) {
		return h.uc.CreatePlatinage(c.UserContext(), in)
	})
}

// GetPlatinage godoc
// @Summary      Obtener platinage
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del platinage"
// @Success      200  {object}  dto.PlatinageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/platinages/{id} [get]
func (h *ReferentialHandler) GetPlatinage(c *fiber.Ctx) error {
	out, err := h.uc.GetPlatinage(c.UserContext(), c.Params("id"))
	return list(c, out, err)
}

// ListPlatinages godoc
// @Summary      Listar platinages
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        equipement  query  string  false  "Filtrar por equipo"
// @Success      200  {array}  dto.PlatinageResponse
// @Router       /api/platinages [get]
func (h *ReferentialHandler) ListPlatinages(c *fiber.Ctx) error {
	out, err := h.uc.ListPlatinages(c.UserContext(), c.Query("equipement"))
	return list(c, out, err)
}

// CreatePhase godoc
// @Summary      Crear fase
// @Tags         referential
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePhaseRequest  true  "Fase"
// @Success      201   {object}  dto.PhaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/phases [post]
func (h *ReferentialHandler) CreatePhase(c *fiber.Ctx) error {
	return create(c, func(c *fiber.Ctx, in dto.CreatePhaseRequest) (*dto.PhaseResponse, error) {
		return h.uc.CreatePhase(c.UserContext(), in)
	})
}

// GetPhase godoc
// @Summary      Obtener fase
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la fase"
// @Success      200  {object}  dto.PhaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/phases/{id} [get]
func (h *ReferentialHandler) GetPhase(c *fiber.Ctx) error {
	out, err := h.uc.GetPhase(c.UserContext(), c.Params("id"))
	return list(c, out, err)
}

// ListPhases godoc
// @Summary      Listar fases
// @Tags         referential
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PhaseResponse
// @Router       /api/phases [get]
func (h *ReferentialHandler) ListPhases(c *fiber.Ctx) error {
	out, err := h.uc.ListPhases(c.UserContext())
	return list(c, out, err)
}
