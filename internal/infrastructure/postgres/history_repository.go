package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial append-only sobre historique_mouvements.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Create agrega una entrada.
func (r *HistoryRepo) Create(ctx context.Context, e *entity.HistoryEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO historique_mouvements (id, mouvement_id, action, utilisateur, date_action, details)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.MovementID, e.Action, e.UserID, e.At, e.Details,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// ListByMovement devuelve el historial en orden cronológico.
func (r *HistoryRepo) ListByMovement(ctx context.Context, movementID string) ([]*entity.HistoryEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, mouvement_id, action, utilisateur, date_action, details
		FROM historique_mouvements WHERE mouvement_id = $1
		ORDER BY date_action, seq`, movementID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var out []*entity.HistoryEntry
	for rows.Next() {
		var e entity.HistoryEntry
		if err := rows.Scan(&e.ID, &e.MovementID, &e.Action, &e.UserID, &e.At, &e.Details); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
