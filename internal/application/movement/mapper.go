package movement

import (
	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:                 m.ID,
		Number:             m.Number,
		Kind:               m.Kind,
		Status:             m.Status,
		Description:        m.Description,
		Counterparty:       m.Counterparty,
		Department:         m.Department,
		ExpectedReturnDate: m.ExpectedReturnDate,
		ActualReturnDate:   m.ActualReturnDate,
		EquipmentID:        m.EquipmentID,
		Remark:             m.Remark,
		CreatedBy:          m.CreatedBy,
		CreatedAt:          m.CreatedAt,
		ValidatedBy:        m.ValidatedBy,
		ValidatedAt:        m.ValidatedAt,
		LineCount:          m.LineCount,
	}
}

func toLineResponse(l *entity.MovementLine, article *entity.Article) dto.LineResponse {
	out := dto.LineResponse{
		ID:          l.ID,
		ArticleID:   l.ArticleID,
		Quantity:    l.Quantity,
		StockBefore: l.StockBefore,
		StockAfter:  l.StockAfter,
	}
	if article != nil {
		out.ArticleCode = article.Code
		out.Description = article.Description
	}
	return out
}
