package report

import (
	"context"

	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// BMMLine línea del bon impreso enriquecida con su artículo (nil si ya no existe).
type BMMLine struct {
	Line    *entity.MovementLine
	Article *entity.Article
}

// BMMDocument todo lo necesario para imprimir un BMM.
type BMMDocument struct {
	Organization string
	Movement     *entity.Movement
	Equipment    *entity.Equipment
	Lines        []BMMLine
}

// BMMPDFGenerator puerto de salida para la representación impresa del BMM.
type BMMPDFGenerator interface {
	GenerateMovementPDF(ctx context.Context, doc BMMDocument) ([]byte, error)
}
