package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo implementación en memoria de ArticleRepository.
type ArticleRepo struct {
	v view
}

// Create persiste un artículo; (code_article, stock) es único.
func (r *ArticleRepo) Create(_ context.Context, article *entity.Article) error {
	return r.v.write(func(st *state) error {
		for _, a := range st.articles {
			if a.Code == article.Code && a.StockID == article.StockID {
				return domain.ErrDuplicate
			}
		}
		cp := *article
		st.articles[article.ID] = &cp
		return nil
	})
}

// GetByID obtiene un artículo; (nil, nil) si no existe.
func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	var out *entity.Article
	err := r.v.read(func(st *state) error {
		if a, ok := st.articles[id]; ok {
			cp := *a
			out = &cp
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el store en exclusiva.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.GetByID(ctx, id)
}

// Update persiste los campos descriptivos; la cantidad en stock no cambia.
func (r *ArticleRepo) Update(_ context.Context, article *entity.Article) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.articles[article.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *cur
		cp.Description = article.Description
		cp.Specification = article.Specification
		cp.Price = article.Price
		cp.Currency = article.Currency
		cp.CategoryID = article.CategoryID
		cp.UnitMeasure = article.UnitMeasure
		cp.AlertThreshold = article.AlertThreshold
		cp.UpdatedAt = article.UpdatedAt
		st.articles[article.ID] = &cp
		return nil
	})
}

// UpdateQuantity fija quantite_stock.
func (r *ArticleRepo) UpdateQuantity(_ context.Context, id string, quantity decimal.Decimal) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.articles[id]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *cur
		cp.Quantity = quantity
		cp.UpdatedAt = time.Now()
		st.articles[id] = &cp
		return nil
	})
}

// List lista artículos por código, con filtros opcionales de stock y categoría.
func (r *ArticleRepo) List(_ context.Context, filter repository.ArticleFilter) ([]*entity.Article, error) {
	var out []*entity.Article
	err := r.v.read(func(st *state) error {
		for _, a := range st.articles {
			if filter.StockID != "" && a.StockID != filter.StockID {
				continue
			}
			if filter.CategoryID != "" && a.CategoryID != filter.CategoryID {
				continue
			}
			cp := *a
			out = append(out, &cp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].ID < out[j].ID
	})
	return page(out, filter.Limit, filter.Offset), nil
}

// ListBelowThreshold devuelve los artículos con quantite_stock <= seuil_alerte, mayor déficit primero.
func (r *ArticleRepo) ListBelowThreshold(_ context.Context) ([]*entity.Article, error) {
	var out []*entity.Article
	err := r.v.read(func(st *state) error {
		for _, a := range st.articles {
			if a.BelowThreshold() {
				cp := *a
				out = append(out, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		di := out[i].AlertThreshold.Sub(out[i].Quantity)
		dj := out[j].AlertThreshold.Sub(out[j].Quantity)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// IsReferenced indica si alguna línea usa el artículo.
func (r *ArticleRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	var found bool
	err := r.v.read(func(st *state) error {
		found = articleReferenced(st, id)
		return nil
	})
	return found, err
}

// Delete elimina un artículo; ErrConflict si alguna línea lo referencia.
func (r *ArticleRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.articles[id]; !ok {
			return domain.ErrNotFound
		}
		if articleReferenced(st, id) {
			return domain.ErrConflict
		}
		delete(st.articles, id)
		dropPlatinages(st, func(p *entity.Platinage) bool { return p.ArticleID == id })
		return nil
	})
}

func articleReferenced(st *state, id string) bool {
	for _, row := range st.lines {
		if row.line.ArticleID == id {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
