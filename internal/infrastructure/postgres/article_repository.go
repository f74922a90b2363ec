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

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, code_article, description, specification, prix, COALESCE(devise, ''), stock_id,
	COALESCE(categorie_id, ''), unite_mesure, quantite_initiale, quantite_stock, seuil_alerte, created_at, updated_at`

// ArticleRepo implementación del puerto ArticleRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(
		&a.ID, &a.Code, &a.Description, &a.Specification, &a.Price, &a.Currency, &a.StockID,
		&a.CategoryID, &a.UnitMeasure, &a.InitialQuantity, &a.Quantity, &a.AlertThreshold, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un nuevo artículo.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	query := `
		INSERT INTO articles (id, code_article, description, specification, prix, devise, stock_id, categorie_id,
			unite_mesure, quantite_initiale, quantite_stock, seuil_alerte, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Code, a.Description, a.Specification, a.Price, a.Currency, a.StockID, a.CategoryID,
		a.UnitMeasure, a.InitialQuantity, a.Quantity, a.AlertThreshold, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// GetForUpdate obtiene el artículo bloqueando su fila hasta el fin de la transacción.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("lock article %s: lock_timeout: %w", id, err)
		}
		return nil, fmt.Errorf("get article for update: %w", err)
	}
	return a, nil
}

// Update actualiza los campos descriptivos. No toca quantite_stock ni quantite_initiale.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	query := `
		UPDATE articles SET description = $2, specification = $3, prix = $4, devise = NULLIF($5, ''),
			categorie_id = NULLIF($6, ''), unite_mesure = $7, seuil_alerte = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Description, a.Specification, a.Price, a.Currency, a.CategoryID, a.UnitMeasure, a.AlertThreshold, a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update article: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija quantite_stock (usado por el ledger de movimientos).
func (r *ArticleRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE articles SET quantite_stock = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update article quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista artículos por código con filtros opcionales.
func (r *ArticleRepo) List(ctx context.Context, f repository.ArticleFilter) ([]*entity.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ($1::text = '' OR stock_id = $1) AND ($2::text = '' OR categorie_id = $2)
		ORDER BY code_article, id
		LIMIT $3 OFFSET $4`
	return r.list(ctx, query, f.StockID, f.CategoryID, limitOrAll(f.Limit), f.Offset)
}

// ListBelowThreshold devuelve los artículos en alerta, mayor déficit primero.
func (r *ArticleRepo) ListBelowThreshold(ctx context.Context) ([]*entity.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE quantite_stock <= seuil_alerte
		ORDER BY (seuil_alerte - quantite_stock) DESC, code_article`
	return r.list(ctx, query)
}

func (r *ArticleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Article, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()
	var out []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// IsReferenced indica si alguna línea de movimiento usa el artículo.
func (r *ArticleRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lignes_mouvement WHERE article_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("article referenced: %w", err)
	}
	return exists, nil
}

// Delete elimina un artículo. La FK ON DELETE RESTRICT de las líneas produce ErrConflict.
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete article: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// limitOrAll traduce limit <= 0 a "sin límite" (LIMIT NULL).
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
