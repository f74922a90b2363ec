package movement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	dommov "github.com/jhoicas/gestion-prep/internal/domain/movement"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

// AddLine agrega una línea a un BMM en BROUILLON. La comprobación de stock es orientativa
// y no bloquea; la autoritativa se repite bajo bloqueo al validar.
func (uc *MovementUseCase) AddLine(ctx context.Context, actor entity.Actor, movementID string, in dto.LineRequest) (*dto.LineResponse, error) {
	now := time.Now()
	line := &entity.MovementLine{
		ID:         uuid.New().String(),
		MovementID: movementID,
		ArticleID:  in.ArticleID,
		Quantity:   in.Quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var article *entity.Article
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lineRepo repository.MovementLineRepository,
		articleRepo repository.ArticleRepository,
		_ repository.HistoryRepository,
	) error {
		doc, err := lockDraft(ctx, movRepo, movementID)
		if err != nil {
			return err
		}
		if article, err = lookupIn(ctx, articleRepo, line.ArticleID); err != nil {
			return err
		}
		if err := uc.draftLineErrors(doc.Kind, line, article).OrNil(); err != nil {
			return err
		}
		existing, err := lineRepo.ListByMovement(ctx, movementID)
		if err != nil {
			return err
		}
		if err := checkArticleFree(existing, line); err != nil {
			return err
		}
		return lineRepo.Create(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("movement_id", movementID).Str("article_id", line.ArticleID).Str("user_id", actor.UserID).Msg("línea agregada")
	out := toLineResponse(line, article)
	return &out, nil
}

// UpdateLine cambia artículo y cantidad de una línea de un BMM en BROUILLON.
func (uc *MovementUseCase) UpdateLine(ctx context.Context, actor entity.Actor, movementID, lineID string, in dto.LineRequest) (*dto.LineResponse, error) {
	var (
		line    *entity.MovementLine
		article *entity.Article
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lineRepo repository.MovementLineRepository,
		articleRepo repository.ArticleRepository,
		_ repository.HistoryRepository,
	) error {
		doc, err := lockDraft(ctx, movRepo, movementID)
		if err != nil {
			return err
		}
		if line, err = lineOf(ctx, lineRepo, movementID, lineID); err != nil {
			return err
		}
		line.ArticleID = in.ArticleID
		line.Quantity = in.Quantity
		line.UpdatedAt = time.Now()
		if article, err = lookupIn(ctx, articleRepo, line.ArticleID); err != nil {
			return err
		}
		if err := uc.draftLineErrors(doc.Kind, line, article).OrNil(); err != nil {
			return err
		}
		existing, err := lineRepo.ListByMovement(ctx, movementID)
		if err != nil {
			return err
		}
		if err := checkArticleFree(existing, line); err != nil {
			return err
		}
		return lineRepo.Update(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("movement_id", movementID).Str("line_id", lineID).Str("user_id", actor.UserID).Msg("línea editada")
	out := toLineResponse(line, article)
	return &out, nil
}

// DeleteLine elimina una línea; prohibido fuera de BROUILLON.
func (uc *MovementUseCase) DeleteLine(ctx context.Context, actor entity.Actor, movementID, lineID string) error {
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lineRepo repository.MovementLineRepository,
		_ repository.ArticleRepository,
		_ repository.HistoryRepository,
	) error {
		if _, err := lockDraft(ctx, movRepo, movementID); err != nil {
			return err
		}
		if _, err := lineOf(ctx, lineRepo, movementID, lineID); err != nil {
			return err
		}
		return lineRepo.Delete(ctx, lineID)
	})
	if err != nil {
		return err
	}
	uc.log.Debug().Str("movement_id", movementID).Str("line_id", lineID).Str("user_id", actor.UserID).Msg("línea eliminada")
	return nil
}

// CorrectLine corrige la cantidad de una línea de un BMM ya validado: revierte el delta
// anterior y aplica el nuevo sobre el artículo bloqueado, en una sola transacción.
// Requiere rol validador.
func (uc *MovementUseCase) CorrectLine(ctx context.Context, actor entity.Actor, movementID, lineID string, in dto.CorrectLineRequest) (*dto.LineResponse, error) {
	if !actor.CanValidate() {
		return nil, domain.ErrForbidden
	}
	var (
		line     *entity.MovementLine
		article  *entity.Article
		previous = in.Quantity
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lineRepo repository.MovementLineRepository,
		articleRepo repository.ArticleRepository,
		_ repository.HistoryRepository,
	) error {
		doc, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		switch doc.Status {
		case entity.MovementStatusValidated:
		case entity.MovementStatusDraft:
			return fmt.Errorf("%w: el movimiento está en borrador; edite la línea directamente", domain.ErrInvalidInput)
		default:
			return domain.ErrImmutableMovement
		}
		lines, err := lineRepo.ListByMovementForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if l.ID == lineID {
				line = l
				break
			}
		}
		if line == nil {
			return domain.ErrNotFound
		}
		if article, err = articleRepo.GetForUpdate(ctx, line.ArticleID); err != nil {
			return err
		}
		if article == nil {
			return domain.ErrMissingArticle
		}
		previous = line.Quantity
		line.Quantity = in.Quantity
		line.UpdatedAt = time.Now()
		app, err := dommov.CorrectLine(doc.Kind, line, previous, article)
		if err != nil {
			verr := &domain.ValidationError{}
			verr.Add(dommov.FieldQuantity, err, correctionMessage(err, article))
			return verr
		}
		if err := articleRepo.UpdateQuantity(ctx, app.ArticleID, app.StockAfter); err != nil {
			return err
		}
		if err := lineRepo.Update(ctx, line); err != nil {
			return err
		}
		if err := lineRepo.UpdateSnapshot(ctx, app.LineID, app.StockBefore, app.StockAfter); err != nil {
			return err
		}
		line.StockBefore = &app.StockBefore
		line.StockAfter = &app.StockAfter
		article.Quantity = app.StockAfter
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", movementID).
		Str("line_id", lineID).
		Str("quantite_avant", previous.String()).
		Str("quantite", in.Quantity.String()).
		Str("user_id", actor.UserID).
		Msg("línea validada corregida")
	out := toLineResponse(line, article)
	return &out, nil
}

func correctionMessage(err error, article *entity.Article) string {
	if errors.Is(err, domain.ErrInsufficientStock) {
		return fmt.Sprintf("stock insuficiente para %s. Stock disponible: %s", article.Code, article.Quantity.String())
	}
	return ""
}

// lockDraft bloquea el documento y exige BROUILLON para tocar sus líneas.
func lockDraft(ctx context.Context, movRepo repository.MovementRepository, id string) (*entity.Movement, error) {
	doc, err := movRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if err := dommov.CheckLineEditable(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func lineOf(ctx context.Context, lineRepo repository.MovementLineRepository, movementID, lineID string) (*entity.MovementLine, error) {
	line, err := lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil || line.MovementID != movementID {
		return nil, domain.ErrNotFound
	}
	return line, nil
}

func lookupIn(ctx context.Context, articleRepo repository.ArticleRepository, id string) (*entity.Article, error) {
	if id == "" {
		return nil, nil
	}
	return articleRepo.GetByID(ctx, id)
}

// checkArticleFree rechaza line si otra línea del documento ya usa su artículo.
func checkArticleFree(existing []*entity.MovementLine, line *entity.MovementLine) error {
	for _, l := range existing {
		if l.ID != line.ID && l.ArticleID == line.ArticleID {
			verr := &domain.ValidationError{}
			verr.Add(dommov.FieldArticle, domain.ErrDuplicateArticleInDocument, "")
			return verr
		}
	}
	return nil
}
