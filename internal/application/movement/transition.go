package movement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	dommov "github.com/jhoicas/gestion-prep/internal/domain/movement"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

const (
	detailValidation     = "Validation du mouvement %s"
	detailBulkValidation = "Validation en lot du mouvement %s"
	detailCancellation   = "Annulation du mouvement %s"
	detailBulkCancel     = "Annulation en lot du mouvement %s"
)

// Validate ejecuta BROUILLON -> VALIDE. Bloquea documento, líneas y artículos (en orden de id),
// planifica todos los deltas sin escribir y luego los aplica junto con el cambio de estado
// y la entrada VALIDATION. Cualquier fallo deja el documento en BROUILLON sin efectos en stock.
func (uc *MovementUseCase) Validate(ctx context.Context, actor entity.Actor, id string) (*dto.MovementResponse, error) {
	if !actor.CanValidate() {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.validate(ctx, actor, id, detailValidation); err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

func (uc *MovementUseCase) validate(ctx context.Context, actor entity.Actor, id, detail string) (string, error) {
	var (
		number    string
		lineCount int
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lineRepo repository.MovementLineRepository,
		articleRepo repository.ArticleRepository,
		historyRepo repository.HistoryRepository,
	) error {
		doc, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		number = doc.Number
		lines, err := lineRepo.ListByMovementForUpdate(ctx, id)
		if err != nil {
			return err
		}
		lineCount = len(lines)
		locked, err := lockArticles(ctx, articleRepo, lines)
		if err != nil {
			return err
		}

		plan, err := dommov.PlanValidation(doc, lines, locked)
		if err != nil {
			return err
		}
		err = plan.Commit(func(app dommov.LineApplication) error {
			if err := articleRepo.UpdateQuantity(ctx, app.ArticleID, app.StockAfter); err != nil {
				return err
			}
			return lineRepo.UpdateSnapshot(ctx, app.LineID, app.StockBefore, app.StockAfter)
		})
		if err != nil {
			return err
		}

		now := time.Now()
		doc.Status = entity.MovementStatusValidated
		doc.ValidatedBy = actor.UserID
		doc.ValidatedAt = &now
		if err := movRepo.Update(ctx, doc); err != nil {
			return err
		}
		return historyRepo.Create(ctx, &entity.HistoryEntry{
			ID:         uuid.New().String(),
			MovementID: doc.ID,
			Action:     entity.HistoryActionValidation,
			UserID:     actor.UserID,
			At:         now,
			Details:    fmt.Sprintf(detail, doc.Number),
		})
	})

	var (
		ev   *zerolog.Event
		verr *domain.ValidationError
	)
	switch {
	case err == nil:
		ev = uc.log.Info()
	case errors.As(err, &verr), errors.Is(err, domain.ErrImmutableMovement), errors.Is(err, domain.ErrNotFound):
		ev = uc.log.Warn().Err(err)
	default:
		ev = uc.log.Error().Err(err)
	}
	ev.Str("movement_id", id).
		Str("numero_bmm", number).
		Int("lignes", lineCount).
		Str("user_id", actor.UserID).
		Bool("valide", err == nil).
		Msg("validación de movimiento")
	return number, err
}

// lockArticles bloquea los artículos referenciados en orden ascendente de id para que dos
// validaciones concurrentes no se bloqueen mutuamente. Los artículos inexistentes no aparecen.
func lockArticles(ctx context.Context, articleRepo repository.ArticleRepository, lines []*entity.MovementLine) (map[string]*entity.Article, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.ArticleID == "" {
			continue
		}
		if _, ok := seen[l.ArticleID]; ok {
			continue
		}
		seen[l.ArticleID] = struct{}{}
		ids = append(ids, l.ArticleID)
	}
	sort.Strings(ids)

	locked := make(map[string]*entity.Article, len(ids))
	for _, aid := range ids {
		a, err := articleRepo.GetForUpdate(ctx, aid)
		if err != nil {
			return nil, err
		}
		if a != nil {
			locked[aid] = a
		}
	}
	return locked, nil
}

// Cancel ejecuta BROUILLON -> ANNULE. No tiene efecto sobre el stock.
func (uc *MovementUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.MovementResponse, error) {
	if _, err := uc.cancel(ctx, actor, id, detailCancellation); err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

func (uc *MovementUseCase) cancel(ctx context.Context, actor entity.Actor, id, detail string) (string, error) {
	var number string
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.MovementLineRepository,
		_ repository.ArticleRepository,
		historyRepo repository.HistoryRepository,
	) error {
		doc, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		number = doc.Number
		if err := dommov.EvaluateTransition(dommov.TransitionRequest{From: doc.Status, To: entity.MovementStatusCancelled}); err != nil {
			return err
		}
		doc.Status = entity.MovementStatusCancelled
		if err := movRepo.Update(ctx, doc); err != nil {
			return err
		}
		return historyRepo.Create(ctx, &entity.HistoryEntry{
			ID:         uuid.New().String(),
			MovementID: doc.ID,
			Action:     entity.HistoryActionCancellation,
			UserID:     actor.UserID,
			At:         time.Now(),
			Details:    fmt.Sprintf(detail, doc.Number),
		})
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("movement_id", id).Str("numero_bmm", number).Msg("anulación rechazada")
		return number, err
	}
	uc.log.Info().Str("numero_bmm", number).Str("user_id", actor.UserID).Msg("movimiento anulado")
	return number, nil
}

// BulkValidate valida cada documento en su propia transacción y contabiliza éxitos y fallos.
func (uc *MovementUseCase) BulkValidate(ctx context.Context, actor entity.Actor, ids []string) (*dto.BulkResult, error) {
	if !actor.CanValidate() {
		return nil, domain.ErrForbidden
	}
	return uc.bulk(ctx, ids, func(id string) (string, error) {
		return uc.validate(ctx, actor, id, detailBulkValidation)
	})
}

// BulkCancel anula cada documento en su propia transacción y contabiliza éxitos y fallos.
func (uc *MovementUseCase) BulkCancel(ctx context.Context, actor entity.Actor, ids []string) (*dto.BulkResult, error) {
	return uc.bulk(ctx, ids, func(id string) (string, error) {
		return uc.cancel(ctx, actor, id, detailBulkCancel)
	})
}

func (uc *MovementUseCase) bulk(ctx context.Context, ids []string, action func(id string) (string, error)) (*dto.BulkResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no se seleccionó ningún movimiento", domain.ErrInvalidInput)
	}
	res := &dto.BulkResult{Items: make([]dto.BulkItemResult, 0, len(ids))}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		number, err := action(id)
		item := dto.BulkItemResult{ID: id, Number: number, Success: err == nil}
		if err != nil {
			item.Message = err.Error()
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				item.Fields = verr.Fields()
			}
			res.Failed++
		} else {
			res.Succeeded++
		}
		res.Items = append(res.Items, item)
	}
	uc.log.Info().Int("succeeded", res.Succeeded).Int("failed", res.Failed).Msg("acción en lote")
	return res, nil
}
