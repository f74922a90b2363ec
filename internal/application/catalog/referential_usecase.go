package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

// ReferentialUseCase alta y consulta del referencial: sitios, unidades, trenes, equipos,
// ubicaciones de stock, categorías y platinages. El padre debe existir; los duplicados
// devuelven ErrDuplicate.
type ReferentialUseCase struct {
	repo repository.CatalogRepository
}

// NewReferentialUseCase construye el caso de uso.
func NewReferentialUseCase(repo repository.CatalogRepository) *ReferentialUseCase {
	return &ReferentialUseCase{repo: repo}
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		verr := &domain.ValidationError{}
		verr.Add("nom", domain.ErrMissingRequiredField, "el nombre es obligatorio")
		return verr
	}
	return nil
}

// CreateSite crea un sitio.
func (uc *ReferentialUseCase) CreateSite(ctx context.Context, in dto.CreateSiteRequest) (*dto.SiteResponse, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	s := &entity.Site{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Description: in.Description, CreatedAt: time.Now()}
	if err := uc.repo.CreateSite(ctx, s); err != nil {
		return nil, err
	}
	return toSiteResponse(s), nil
}

// ListSites lista los sitios.
func (uc *ReferentialUseCase) ListSites(ctx context.Context) ([]dto.SiteResponse, error) {
	list, err := uc.repo.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SiteResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSiteResponse(s))
	}
	return out, nil
}

// CreateUnit crea una unidad dentro de un sitio existente.
func (uc *ReferentialUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	site, err := uc.repo.GetSite(ctx, in.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	u := &entity.Unit{ID: uuid.New().String(), SiteID: in.SiteID, Name: strings.TrimSpace(in.Name), Description: in.Description, CreatedAt: time.Now()}
	if err := uc.repo.CreateUnit(ctx, u); err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID, SiteID: u.SiteID, Name: u.Name, Description: u.Description, CreatedAt: u.CreatedAt}, nil
}

// ListUnits lista unidades; siteID vacío lista todas.
func (uc *ReferentialUseCase) ListUnits(ctx context.Context, siteID string) ([]dto.UnitResponse, error) {
	list, err := uc.repo.ListUnits(ctx, siteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UnitResponse{ID: u.ID, SiteID: u.SiteID, Name: u.Name, Description: u.Description, CreatedAt: u.CreatedAt})
	}
	return out, nil
}

// CreateTrain crea un tren dentro de una unidad existente.
func (uc *ReferentialUseCase) CreateTrain(ctx context.Context, in dto.CreateTrainRequest) (*dto.TrainResponse, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	unit, err := uc.repo.GetUnit(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	t := &entity.Train{ID: uuid.New().String(), UnitID: in.UnitID, Name: strings.TrimSpace(in.Name), Description: in.Description, CreatedAt: time.Now()}
	if err := uc.repo.CreateTrain(ctx, t); err != nil {
		return nil, err
	}
	return &dto.TrainResponse{ID: t.ID, UnitID: t.UnitID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt}, nil
}

// ListTrains lista trenes; unitID vacío lista todos.
func (uc *ReferentialUseCase) ListTrains(ctx context.Context, unitID string) ([]dto.TrainResponse, error) {
	list, err := uc.repo.ListTrains(ctx, unitID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TrainResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TrainResponse{ID: t.ID, UnitID: t.UnitID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt})
	}
	return out, nil
}

// CreateEquipment crea un equipo; el tag es único y el tren, si se indica, debe existir.
func (uc *ReferentialUseCase) CreateEquipment(ctx context.Context, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if strings.TrimSpace(in.Tag) == "" {
		verr := &domain.ValidationError{}
		verr.Add("tag", domain.ErrMissingRequiredField, "el tag es obligatorio")
		return nil, verr
	}
	if in.TrainID != "" {
		train, err := uc.repo.GetTrain(ctx, in.TrainID)
		if err != nil {
			return nil, err
		}
		if train == nil {
			return nil, domain.ErrNotFound
		}
	}
	e := &entity.Equipment{ID: uuid.New().String(), Tag: strings.TrimSpace(in.Tag), Description: in.Description, TrainID: in.TrainID, CreatedAt: time.Now()}
	if err := uc.repo.CreateEquipment(ctx, e); err != nil {
		return nil, err
	}
	return toEquipmentResponse(e), nil
}

// GetEquipment obtiene un equipo. ErrNotFound si no existe.
func (uc *ReferentialUseCase) GetEquipment(ctx context.Context, id string) (*dto.EquipmentResponse, error) {
	e, err := uc.repo.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return toEquipmentResponse(e), nil
}

// ListEquipment lista equipos; trainID vacío lista todos.
func (uc *ReferentialUseCase) ListEquipment(ctx context.Context, trainID string) ([]dto.EquipmentResponse, error) {
	list, err := uc.repo.ListEquipment(ctx, trainID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EquipmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toEquipmentResponse(e))
	}
	return out, nil
}

// CreateStock crea una ubicación de stock. type_stock vacío vale MAGASIN; emplacement es obligatorio.
func (uc *ReferentialUseCase) CreateStock(ctx context.Context, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("nom", domain.ErrMissingRequiredField, "el nombre es obligatorio")
	}
	if strings.TrimSpace(in.Location) == "" {
		verr.Add("emplacement", domain.ErrMissingRequiredField, "el emplazamiento es obligatorio")
	}
	if in.Type == "" {
		in.Type = entity.StockTypeMagasin
	}
	if !entity.ValidStockType(in.Type) {
		verr.Add("type_stock", domain.ErrInvalidInput, "tipo de stock desconocido: "+in.Type)
	}
	if !verr.Empty() {
		return nil, verr
	}
	site, err := uc.repo.GetSite(ctx, in.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	s := &entity.Stock{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		SiteID:      in.SiteID,
		Type:        in.Type,
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.CreateStock(ctx, s); err != nil {
		return nil, err
	}
	return toStockResponse(s), nil
}

// ListStocks lista ubicaciones; siteID vacío lista todas.
func (uc *ReferentialUseCase) ListStocks(ctx context.Context, siteID string) ([]dto.StockResponse, error) {
	list, err := uc.repo.ListStocks(ctx, siteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStockResponse(s))
	}
	return out, nil
}

// CreateCategory crea una categoría de artículos.
func (uc *ReferentialUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	c := &entity.ArticleCategory{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Description: in.Description, CreatedAt: time.Now()}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}, nil
}

// ListCategories lista las categorías.
func (uc *ReferentialUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

func toSiteResponse(s *entity.Site) *dto.SiteResponse {
	return &dto.SiteResponse{ID: s.ID, Name: s.Name, Description: s.Description, CreatedAt: s.CreatedAt}
}

func toEquipmentResponse(e *entity.Equipment) *dto.EquipmentResponse {
	return &dto.EquipmentResponse{ID: e.ID, Tag: e.Tag, Description: e.Description, TrainID: e.TrainID, CreatedAt: e.CreatedAt}
}

func toStockResponse(s *entity.Stock) *dto.StockResponse {
	return &dto.StockResponse{
		ID:          s.ID,
		Name:        s.Name,
		SiteID:      s.SiteID,
		Type:        s.Type,
		Description: s.Description,
		Location:    s.Location,
		CreatedAt:   s.CreatedAt,
	}
}
