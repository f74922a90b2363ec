package report

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

// PDFUseCase genera el bon impreso de un BMM en cualquier estado.
type PDFUseCase struct {
	movRepo      repository.MovementRepository
	lineRepo     repository.MovementLineRepository
	articleRepo  repository.ArticleRepository
	catalogRepo  repository.CatalogRepository
	generator    BMMPDFGenerator
	organization string
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	movRepo repository.MovementRepository,
	lineRepo repository.MovementLineRepository,
	articleRepo repository.ArticleRepository,
	catalogRepo repository.CatalogRepository,
	generator BMMPDFGenerator,
	organization string,
) *PDFUseCase {
	return &PDFUseCase{
		movRepo:      movRepo,
		lineRepo:     lineRepo,
		articleRepo:  articleRepo,
		catalogRepo:  catalogRepo,
		generator:    generator,
		organization: organization,
	}
}

// DownloadMovementPDF carga el documento, sus líneas y artículos y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el movimiento no existe.
func (uc *PDFUseCase) DownloadMovementPDF(ctx context.Context, movementID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener movimiento: %w", err)
	}
	if doc == nil {
		return nil, "", domain.ErrNotFound
	}

	lines, err := uc.lineRepo.ListByMovement(ctx, movementID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	enriched := make([]BMMLine, 0, len(lines))
	for _, l := range lines {
		article, err := uc.articleRepo.GetByID(ctx, l.ArticleID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener artículo: %w", err)
		}
		enriched = append(enriched, BMMLine{Line: l, Article: article})
	}

	in := BMMDocument{Organization: uc.organization, Movement: doc, Lines: enriched}
	if doc.EquipmentID != "" {
		eq, err := uc.catalogRepo.GetEquipment(ctx, doc.EquipmentID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener equipo: %w", err)
		}
		in.Equipment = eq
	}

	pdfBytes, err = uc.generator.GenerateMovementPDF(ctx, in)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", doc.Number), nil
}
