package catalog

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// Campos expuestos de un platinage.
const (
	fieldPlatinageMark    = "repere"
	fieldPlatinageEndDate = "date_fin"
)

// CreatePlatinageType crea un tipo de platinage; el nombre es único.
func (uc *ReferentialUseCase) CreatePlatinageType(ctx context.Context, in dto.CreatePlatinageTypeRequest) (*dto.PlatinageTypeResponse, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	t := &entity.PlatinageType{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Description: in.Description, CreatedAt: time.Now()}
	if err := uc.repo.CreatePlatinageType(ctx, t); err != nil {
		return nil, err
	}
	return &dto.PlatinageTypeResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt}, nil
}

// ListPlatinageTypes lista los tipos de platinage.
func (uc *ReferentialUseCase) ListPlatinageTypes(ctx context.Context) ([]dto.PlatinageTypeResponse, error) {
	list, err := uc.repo.ListPlatinageTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlatinageTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.PlatinageTypeResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt})
	}
	return out, nil
}

// CreatePlatinage registra un platinage. El repère es obligatorio y date_fin, si se indica
// junto a date_debut, debe ser posterior. Equipo, artículo y tipo deben existir.
func (uc *ReferentialUseCase) CreatePlatinage(ctx context.Context, in dto.CreatePlatinageRequest) (*dto.PlatinageResponse, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Mark) == "" {
		verr.Add(fieldPlatinageMark, domain.ErrMissingRequiredField, "el repère es obligatorio")
	}
	if in.StartDate != nil && in.EndDate != nil && !in.EndDate.After(*in.StartDate) {
		verr.Add(fieldPlatinageEndDate, domain.ErrInvalidInput, "la fecha de fin debe ser posterior a la fecha de inicio")
	}
	if !verr.Empty() {
		return nil, verr
	}
	p := &entity.Platinage{
		ID:          uuid.New().String(),
		EquipmentID: in.EquipmentID,
		ArticleID:   in.ArticleID,
		TypeID:      in.TypeID,
		Mark:        strings.TrimSpace(in.Mark),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Remark:      in.Remark,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.CreatePlatinage(ctx, p); err != nil {
		return nil, err
	}
	return toPlatinageResponse(p), nil
}

// GetPlatinage obtiene un platinage. ErrNotFound si no existe.
func (uc *ReferentialUseCase) GetPlatinage(ctx context.Context, id string) (*dto.PlatinageResponse, error) {
	p, err := uc.repo.GetPlatinage(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPlatinageResponse(p), nil
}

// ListPlatinages lista platinages por repère; equipmentID vacío lista todos.
func (uc *ReferentialUseCase) ListPlatinages(ctx context.Context, equipmentID string) ([]dto.PlatinageResponse, error) {
	list, err := uc.repo.ListPlatinages(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlatinageResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPlatinageResponse(p))
	}
	return out, nil
}

// CreatePhase crea una fase. Los platinages repetidos cuentan una vez.
func (uc *ReferentialUseCase) CreatePhase(ctx context.Context, in dto.CreatePhaseRequest) (*dto.PhaseResponse, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	ids := slices.Clone(in.PlatinageIDs)
	slices.Sort(ids)
	p := &entity.Phase{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		PlatinageIDs: slices.Compact(ids),
		CreatedAt:    time.Now(),
	}
	if p.PlatinageIDs == nil {
		p.PlatinageIDs = []string{}
	}
	if err := uc.repo.CreatePhase(ctx, p); err != nil {
		return nil, err
	}
	return toPhaseResponse(p), nil
}

// GetPhase obtiene una fase. ErrNotFound si no existe.
func (uc *ReferentialUseCase) GetPhase(ctx context.Context, id string) (*dto.PhaseResponse, error) {
	p, err := uc.repo.GetPhase(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPhaseResponse(p), nil
}

// ListPhases lista las fases por nombre.
func (uc *ReferentialUseCase) ListPhases(ctx context.Context) ([]dto.PhaseResponse, error) {
	list, err := uc.repo.ListPhases(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PhaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPhaseResponse(p))
	}
	return out, nil
}

func toPlatinageResponse(p *entity.Platinage) *dto.PlatinageResponse {
	return &dto.PlatinageResponse{
		ID:          p.ID,
		EquipmentID: p.EquipmentID,
		ArticleID:   p.ArticleID,
		TypeID:      p.TypeID,
		Mark:        p.Mark,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Remark:      p.Remark,
		CreatedAt:   p.CreatedAt,
	}
}

func toPhaseResponse(p *entity.Phase) *dto.PhaseResponse {
	return &dto.PhaseResponse{ID: p.ID, Name: p.Name, Description: p.Description, PlatinageIDs: p.PlatinageIDs, CreatedAt: p.CreatedAt}
}
