package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	dommov "github.com/jhoicas/gestion-prep/internal/domain/movement"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var (
	_ repository.MovementRepository     = (*MovementRepo)(nil)
	_ repository.MovementLineRepository = (*LineRepo)(nil)
	_ repository.HistoryRepository      = (*HistoryRepo)(nil)
)

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	v view
}

// Create persiste un BMM; numero_bmm es único.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movements[m.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, cur := range st.movements {
			if cur.Number == m.Number {
				return domain.ErrDuplicate
			}
		}
		cp := *m
		cp.LineCount = 0
		st.movements[m.ID] = &cp
		return nil
	})
}

// GetByID obtiene un BMM con nombre_articles; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.v.read(func(st *state) error {
		if m, ok := st.movements[id]; ok {
			out = readMovement(st, m)
		}
		return nil
	})
	return out, err
}

// GetByNumber obtiene un BMM por numero_bmm.
func (r *MovementRepo) GetByNumber(_ context.Context, number string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if m.Number == number {
				out = readMovement(st, m)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID dentro de la transacción exclusiva.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

// Update persiste los campos mutables; número y autor de creación se conservan.
func (r *MovementRepo) Update(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.movements[m.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *m
		cp.Number = cur.Number
		cp.CreatedBy = cur.CreatedBy
		cp.CreatedAt = cur.CreatedAt
		cp.LineCount = 0
		st.movements[m.ID] = &cp
		return nil
	})
}

// Delete elimina el BMM con sus líneas e historial.
func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.ErrNotFound
		}
		for lid, row := range st.lines {
			if row.line.MovementID == id {
				delete(st.lines, lid)
			}
		}
		delete(st.history, id)
		delete(st.movements, id)
		return nil
	})
}

// List lista BMM del más reciente al más antiguo.
func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if filter.Status != "" && m.Status != filter.Status {
				continue
			}
			if filter.Kind != "" && m.Kind != filter.Kind {
				continue
			}
			out = append(out, readMovement(st, m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[j].Number < out[i].Number
	})
	return page(out, filter.Limit, filter.Offset), nil
}

// LockNumbering no hace nada: Run ya serializa las transacciones.
func (r *MovementRepo) LockNumbering(_ context.Context) error {
	return nil
}

// LastNumber devuelve el numero_bmm más alto con el prefijo dado, por valor numérico.
func (r *MovementRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	n := dommov.Numbering{Prefix: prefix}
	var last string
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if !strings.HasPrefix(m.Number, prefix) {
				continue
			}
			if last == "" || n.Less(last, m.Number) {
				last = m.Number
			}
		}
		return nil
	})
	return last, err
}

func readMovement(st *state, m *entity.Movement) *entity.Movement {
	cp := *m
	for _, row := range st.lines {
		if row.line.MovementID == m.ID {
			cp.LineCount++
		}
	}
	return &cp
}

// LineRepo implementación en memoria de MovementLineRepository.
type LineRepo struct {
	v view
}

// Create persiste una línea; (documento, artículo) es único.
func (r *LineRepo) Create(_ context.Context, line *entity.MovementLine) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movements[line.MovementID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.articles[line.ArticleID]; !ok {
			return domain.ErrMissingArticle
		}
		for _, row := range st.lines {
			if row.line.MovementID == line.MovementID && row.line.ArticleID == line.ArticleID {
				return domain.ErrDuplicateArticleInDocument
			}
		}
		st.lines[line.ID] = &lineRow{line: *line, seq: st.next()}
		return nil
	})
}

// GetByID obtiene una línea; (nil, nil) si no existe.
func (r *LineRepo) GetByID(_ context.Context, id string) (*entity.MovementLine, error) {
	var out *entity.MovementLine
	err := r.v.read(func(st *state) error {
		if row, ok := st.lines[id]; ok {
			cp := row.line
			out = &cp
		}
		return nil
	})
	return out, err
}

// ListByMovement devuelve las líneas en orden de alta.
func (r *LineRepo) ListByMovement(_ context.Context, movementID string) ([]*entity.MovementLine, error) {
	var rows []*lineRow
	err := r.v.read(func(st *state) error {
		for _, row := range st.lines {
			if row.line.MovementID == movementID {
				rows = append(rows, row)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*entity.MovementLine, 0, len(rows))
	for _, row := range rows {
		cp := row.line
		out = append(out, &cp)
	}
	return out, nil
}

// ListByMovementForUpdate equivale a ListByMovement dentro de la transacción exclusiva.
func (r *LineRepo) ListByMovementForUpdate(ctx context.Context, movementID string) ([]*entity.MovementLine, error) {
	return r.ListByMovement(ctx, movementID)
}

// Update persiste artículo y cantidad.
func (r *LineRepo) Update(_ context.Context, line *entity.MovementLine) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.lines[line.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, row := range st.lines {
			if id != line.ID && row.line.MovementID == cur.line.MovementID && row.line.ArticleID == line.ArticleID {
				return domain.ErrDuplicateArticleInDocument
			}
		}
		next := cur.line
		next.ArticleID = line.ArticleID
		next.Quantity = line.Quantity
		next.UpdatedAt = line.UpdatedAt
		st.lines[line.ID] = &lineRow{line: next, seq: cur.seq}
		return nil
	})
}

// UpdateSnapshot fija stock_avant/stock_apres.
func (r *LineRepo) UpdateSnapshot(_ context.Context, lineID string, before, after decimal.Decimal) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.lines[lineID]
		if !ok {
			return domain.ErrNotFound
		}
		next := cur.line
		next.StockBefore = &before
		next.StockAfter = &after
		next.UpdatedAt = time.Now()
		st.lines[lineID] = &lineRow{line: next, seq: cur.seq}
		return nil
	})
}

// Delete elimina una línea.
func (r *LineRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.lines[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.lines, id)
		return nil
	})
}

// HistoryRepo implementación en memoria de HistoryRepository.
type HistoryRepo struct {
	v view
}

// Create agrega una entrada al historial del documento.
func (r *HistoryRepo) Create(_ context.Context, e *entity.HistoryEntry) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movements[e.MovementID]; !ok {
			return domain.ErrNotFound
		}
		cp := *e
		// Clip evita compartir el arreglo subyacente con el estado confirmado.
		st.history[e.MovementID] = append(slices.Clip(st.history[e.MovementID]), &cp)
		return nil
	})
}

// ListByMovement devuelve el historial en orden cronológico.
func (r *HistoryRepo) ListByMovement(_ context.Context, movementID string) ([]*entity.HistoryEntry, error) {
	var out []*entity.HistoryEntry
	err := r.v.read(func(st *state) error {
		for _, e := range st.history[movementID] {
			cp := *e
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}
