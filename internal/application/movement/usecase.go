package movement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	dommov "github.com/jhoicas/gestion-prep/internal/domain/movement"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

// MovementUseCase orquesta el ciclo de vida del BMM: creación numerada, edición,
// líneas, validación con bloqueo de stock, anulación, acciones en lote e historial.
type MovementUseCase struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository
	lineRepo    repository.MovementLineRepository
	articleRepo repository.ArticleRepository
	historyRepo repository.HistoryRepository
	catalogRepo repository.CatalogRepository
	numbering   dommov.Numbering
	log         zerolog.Logger
}

// NewMovementUseCase construye el caso de uso. Los repositorios sueltos se usan para lecturas
// fuera de transacción; toda escritura pasa por txRunner.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	lineRepo repository.MovementLineRepository,
	articleRepo repository.ArticleRepository,
	historyRepo repository.HistoryRepository,
	catalogRepo repository.CatalogRepository,
	numbering dommov.Numbering,
	log zerolog.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		lineRepo:    lineRepo,
		articleRepo: articleRepo,
		historyRepo: historyRepo,
		catalogRepo: catalogRepo,
		numbering:   numbering,
		log:         log.With().Str("component", "movement").Logger(),
	}
}

// Create registra un BMM en BROUILLON. El número se asigna dentro de la misma transacción,
// bajo el bloqueo de numeración, junto con las líneas iniciales y la entrada CREATION.
func (uc *MovementUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Description) == "" {
		verr.Add(dommov.FieldDescription, domain.ErrMissingRequiredField, "la descripción del BMM es obligatoria")
	}
	if in.Kind != "" && !entity.ValidKind(in.Kind) {
		verr.Add(dommov.FieldKind, domain.ErrInvalidInput, "tipo de movimiento desconocido: "+in.Kind)
	}
	if err := uc.checkEquipment(ctx, in.EquipmentID, verr); err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &entity.Movement{
		ID:                 uuid.New().String(),
		Kind:               in.Kind,
		Status:             entity.MovementStatusDraft,
		Description:        in.Description,
		Counterparty:       in.Counterparty,
		Department:         in.Department,
		ExpectedReturnDate: in.ExpectedReturnDate,
		EquipmentID:        in.EquipmentID,
		Remark:             in.Remark,
		CreatedBy:          actor.UserID,
		CreatedAt:          now,
	}
	lines := make([]*entity.MovementLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: doc.ID,
			ArticleID:  l.ArticleID,
			Quantity:   l.Quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	for i, l := range lines {
		article, err := uc.lookupArticle(ctx, l.ArticleID)
		if err != nil {
			return nil, err
		}
		for _, fe := range uc.draftLineErrors(doc.Kind, l, article).Errors {
			verr.Add(dommov.LineField(i+1, fe.Field), fe.Code, fe.Message)
		}
	}
	verr.Merge(dommov.CheckDuplicates(lines))
	if !verr.Empty() {
		return nil, verr
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lineRepo repository.MovementLineRepository,
		_ repository.ArticleRepository,
		historyRepo repository.HistoryRepository,
	) error {
		if err := movRepo.LockNumbering(ctx); err != nil {
			return err
		}
		last, err := movRepo.LastNumber(ctx, uc.numbering.Prefix)
		if err != nil {
			return err
		}
		doc.Number = uc.numbering.Next(last)
		doc.LineCount = len(lines)
		if err := movRepo.Create(ctx, doc); err != nil {
			return err
		}
		for _, l := range lines {
			if err := lineRepo.Create(ctx, l); err != nil {
				return err
			}
		}
		return historyRepo.Create(ctx, &entity.HistoryEntry{
			ID:         uuid.New().String(),
			MovementID: doc.ID,
			Action:     entity.HistoryActionCreation,
			UserID:     actor.UserID,
			At:         now,
			Details:    fmt.Sprintf("Création du mouvement %s", doc.Number),
		})
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("crear movimiento")
		return nil, err
	}
	uc.log.Info().Str("numero_bmm", doc.Number).Str("user_id", actor.UserID).Int("lignes", len(lines)).Msg("movimiento creado")
	return uc.Get(ctx, doc.ID)
}

// Get devuelve el BMM con sus líneas. ErrNotFound si no existe.
func (uc *MovementUseCase) Get(ctx context.Context, id string) (*dto.MovementResponse, error) {
	doc, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.lineRepo.ListByMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(doc)
	out.LineCount = len(lines)
	out.Lines = make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		article, err := uc.articleRepo.GetByID(ctx, l.ArticleID)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, toLineResponse(l, article))
	}
	return out, nil
}

// GetByNumber resuelve un numero_bmm y devuelve el documento completo.
func (uc *MovementUseCase) GetByNumber(ctx context.Context, number string) (*dto.MovementResponse, error) {
	doc, err := uc.movRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return uc.Get(ctx, doc.ID)
}

// List lista BMM filtrando por estado y tipo.
func (uc *MovementUseCase) List(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	if in.Status != "" && !entity.ValidStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, in.Status)
	}
	if in.Kind != "" && !entity.ValidKind(in.Kind) {
		return nil, fmt.Errorf("%w: tipo desconocido %q", domain.ErrInvalidInput, in.Kind)
	}
	in.DefaultPage()
	list, err := uc.movRepo.List(ctx, repository.MovementFilter{
		Status: in.Status,
		Kind:   in.Kind,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Update edita los campos del documento. En VALIDE solo remarque y date_retour_effective
// son editables; en ANNULE nada lo es.
func (uc *MovementUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	verr := &domain.ValidationError{}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		verr.Add(dommov.FieldDescription, domain.ErrMissingRequiredField, "la descripción del BMM es obligatoria")
	}
	if in.EquipmentID != nil {
		if err := uc.checkEquipment(ctx, *in.EquipmentID, verr); err != nil {
			return nil, err
		}
	}
	if !verr.Empty() {
		return nil, verr
	}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.MovementLineRepository,
		_ repository.ArticleRepository,
		_ repository.HistoryRepository,
	) error {
		before, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if before == nil {
			return domain.ErrNotFound
		}
		after := *before
		applyUpdate(&after, in)
		if err := dommov.CheckEdit(before, &after); err != nil {
			return err
		}
		return movRepo.Update(ctx, &after)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("movement_id", id).Str("user_id", actor.UserID).Msg("movimiento editado")
	return uc.Get(ctx, id)
}

// Delete elimina un BMM en BROUILLON con sus líneas e historial.
func (uc *MovementUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.MovementLineRepository,
		_ repository.ArticleRepository,
		_ repository.HistoryRepository,
	) error {
		doc, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.MovementStatusDraft {
			return domain.ErrImmutableMovement
		}
		return movRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("movement_id", id).Str("user_id", actor.UserID).Msg("movimiento eliminado")
	return nil
}

// History devuelve el historial del BMM en orden cronológico.
func (uc *MovementUseCase) History(ctx context.Context, id string) ([]dto.HistoryEntryResponse, error) {
	doc, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.historyRepo.ListByMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryEntryResponse{
			ID:      e.ID,
			Action:  e.Action,
			UserID:  e.UserID,
			At:      e.At,
			Details: e.Details,
		})
	}
	return out, nil
}

func (uc *MovementUseCase) checkEquipment(ctx context.Context, equipmentID string, verr *domain.ValidationError) error {
	if equipmentID == "" {
		return nil
	}
	eq, err := uc.catalogRepo.GetEquipment(ctx, equipmentID)
	if err != nil {
		return err
	}
	if eq == nil {
		verr.Add(dommov.FieldEquipment, domain.ErrNotFound, "el equipo especificado no existe")
	}
	return nil
}

// draftLineErrors valida una línea en borrador. El stock insuficiente es solo un aviso:
// la comprobación que cuenta se repite bajo bloqueo al validar.
func (uc *MovementUseCase) draftLineErrors(kind string, line *entity.MovementLine, article *entity.Article) *domain.ValidationError {
	verr := dommov.ValidateLine(kind, line, article)
	if verr.Is(domain.ErrInsufficientStock) {
		uc.log.Warn().Str("article_id", line.ArticleID).Str("quantite", line.Quantity.String()).Msg("stock insuficiente en borrador")
	}
	return verr.Without(domain.ErrInsufficientStock)
}

func (uc *MovementUseCase) lookupArticle(ctx context.Context, id string) (*entity.Article, error) {
	if id == "" {
		return nil, nil
	}
	return uc.articleRepo.GetByID(ctx, id)
}

func applyUpdate(m *entity.Movement, in dto.UpdateMovementRequest) {
	if in.Kind != nil {
		m.Kind = *in.Kind
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Counterparty != nil {
		m.Counterparty = *in.Counterparty
	}
	if in.Department != nil {
		m.Department = *in.Department
	}
	switch {
	case in.ClearExpectedReturnDate:
		m.ExpectedReturnDate = nil
	case in.ExpectedReturnDate != nil:
		m.ExpectedReturnDate = in.ExpectedReturnDate
	}
	switch {
	case in.ClearActualReturnDate:
		m.ActualReturnDate = nil
	case in.ActualReturnDate != nil:
		m.ActualReturnDate = in.ActualReturnDate
	}
	if in.EquipmentID != nil {
		m.EquipmentID = *in.EquipmentID
	}
	if in.Remark != nil {
		m.Remark = *in.Remark
	}
}
