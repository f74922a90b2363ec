package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var _ repository.MovementLineRepository = (*MovementLineRepo)(nil)

// uniqueLineArticle es el constraint (mouvement_id, article_id) de lignes_mouvement.
const uniqueLineArticle = "lignes_mouvement_mouvement_article_key"

const lineColumns = `id, mouvement_id, article_id, quantite, stock_avant, stock_apres, created_at, updated_at`

// MovementLineRepo implementación del puerto MovementLineRepository sobre PostgreSQL.
type MovementLineRepo struct {
	q Querier
}

// NewMovementLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLineRepository(q Querier) *MovementLineRepo {
	return &MovementLineRepo{q: q}
}

func scanLine(row pgx.Row) (*entity.MovementLine, error) {
	var l entity.MovementLine
	if err := row.Scan(&l.ID, &l.MovementID, &l.ArticleID, &l.Quantity, &l.StockBefore, &l.StockAfter, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func lineWriteError(op string, err error) error {
	if isUniqueViolation(err) && (constraintName(err) == uniqueLineArticle || constraintName(err) == "") {
		return domain.ErrDuplicateArticleInDocument
	}
	if isForeignKeyViolation(err) {
		return domain.ErrMissingArticle
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Create persiste una línea.
func (r *MovementLineRepo) Create(ctx context.Context, l *entity.MovementLine) error {
	query := `
		INSERT INTO lignes_mouvement (id, mouvement_id, article_id, quantite, stock_avant, stock_apres, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.MovementID, l.ArticleID, l.Quantity, l.StockBefore, l.StockAfter, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return lineWriteError("insert movement line", err)
	}
	return nil
}

// GetByID obtiene una línea por ID.
func (r *MovementLineRepo) GetByID(ctx context.Context, id string) (*entity.MovementLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx, `SELECT `+lineColumns+` FROM lignes_mouvement WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement line: %w", err)
	}
	return l, nil
}

// ListByMovement devuelve las líneas del documento en orden de alta.
func (r *MovementLineRepo) ListByMovement(ctx context.Context, movementID string) ([]*entity.MovementLine, error) {
	return r.list(ctx, `SELECT `+lineColumns+` FROM lignes_mouvement WHERE mouvement_id = $1 ORDER BY created_at, id`, movementID)
}

// ListByMovementForUpdate bloquea las líneas del documento.
func (r *MovementLineRepo) ListByMovementForUpdate(ctx context.Context, movementID string) ([]*entity.MovementLine, error) {
	return r.list(ctx, `SELECT `+lineColumns+` FROM lignes_mouvement WHERE mouvement_id = $1 ORDER BY created_at, id FOR UPDATE`, movementID)
}

func (r *MovementLineRepo) list(ctx context.Context, query, movementID string) ([]*entity.MovementLine, error) {
	rows, err := r.q.Query(ctx, query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.MovementLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		if isLockTimeout(err) {
			return nil, fmt.Errorf("lock movement lines: lock_timeout: %w", err)
		}
		return nil, err
	}
	return out, nil
}

// Update persiste artículo y cantidad.
func (r *MovementLineRepo) Update(ctx context.Context, l *entity.MovementLine) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE lignes_mouvement SET article_id = $2, quantite = $3, updated_at = $4 WHERE id = $1`,
		l.ID, l.ArticleID, l.Quantity, l.UpdatedAt,
	)
	if err != nil {
		return lineWriteError("update movement line", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSnapshot fija stock_avant/stock_apres.
func (r *MovementLineRepo) UpdateSnapshot(ctx context.Context, lineID string, before, after decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE lignes_mouvement SET stock_avant = $2, stock_apres = $3, updated_at = now() WHERE id = $1`,
		lineID, before, after,
	)
	if err != nil {
		return fmt.Errorf("update line snapshot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una línea.
func (r *MovementLineRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM lignes_mouvement WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
