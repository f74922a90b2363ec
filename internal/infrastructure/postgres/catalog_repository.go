package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo referencial (sitios, unidades, trenes, equipos, stocks, categorías, platinages) sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) insert(ctx context.Context, op, query string, args ...any) error {
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// getOne ejecuta query y escanea con scan; (nil, nil) si no hay fila.
func getOne[T any](ctx context.Context, q Querier, op, query string, scan func(pgx.Row) (*T, error), args ...any) (*T, error) {
	item, err := scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func getMany[T any](ctx context.Context, q Querier, op, query string, scan func(pgx.Row) (*T, error), args ...any) ([]*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ── Sites ─────────────────────────────────────────────────────────────────────

func scanSite(row pgx.Row) (*entity.Site, error) {
	var s entity.Site
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepo) CreateSite(ctx context.Context, s *entity.Site) error {
	return r.insert(ctx, "insert site",
		`INSERT INTO sites (id, nom, description, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.Name, s.Description, s.CreatedAt)
}

func (r *CatalogRepo) GetSite(ctx context.Context, id string) (*entity.Site, error) {
	return getOne(ctx, r.q, "get site", `SELECT id, nom, description, created_at FROM sites WHERE id = $1`, scanSite, id)
}

func (r *CatalogRepo) ListSites(ctx context.Context) ([]*entity.Site, error) {
	return getMany(ctx, r.q, "list sites", `SELECT id, nom, description, created_at FROM sites ORDER BY nom`, scanSite)
}

// ── Unités ────────────────────────────────────────────────────────────────────

func scanUnit(row pgx.Row) (*entity.Unit, error) {
	var u entity.Unit
	if err := row.Scan(&u.ID, &u.SiteID, &u.Name, &u.Description, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *CatalogRepo) CreateUnit(ctx context.Context, u *entity.Unit) error {
	return r.insert(ctx, "insert unit",
		`INSERT INTO unites (id, site_id, nom, description, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.SiteID, u.Name, u.Description, u.CreatedAt)
}

func (r *CatalogRepo) GetUnit(ctx context.Context, id string) (*entity.Unit, error) {
	return getOne(ctx, r.q, "get unit", `SELECT id, site_id, nom, description, created_at FROM unites WHERE id = $1`, scanUnit, id)
}

func (r *CatalogRepo) ListUnits(ctx context.Context, siteID string) ([]*entity.Unit, error) {
	return getMany(ctx, r.q, "list units", `
		SELECT id, site_id, nom, description, created_at FROM unites
		WHERE ($1::text = '' OR site_id = $1) ORDER BY nom`, scanUnit, siteID)
}

// ── Trains ────────────────────────────────────────────────────────────────────

func scanTrain(row pgx.Row) (*entity.Train, error) {
	var t entity.Train
	if err := row.Scan(&t.ID, &t.UnitID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepo) CreateTrain(ctx context.Context, t *entity.Train) error {
	return r.insert(ctx, "insert train",
		`INSERT INTO trains (id, unite_id, nom, description, created_at) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.UnitID, t.Name, t.Description, t.CreatedAt)
}

func (r *CatalogRepo) GetTrain(ctx context.Context, id string) (*entity.Train, error) {
	return getOne(ctx, r.q, "get train", `SELECT id, unite_id, nom, description, created_at FROM trains WHERE id = $1`, scanTrain, id)
}

func (r *CatalogRepo) ListTrains(ctx context.Context, unitID string) ([]*entity.Train, error) {
	return getMany(ctx, r.q, "list trains", `
		SELECT id, unite_id, nom, description, created_at FROM trains
		WHERE ($1::text = '' OR unite_id = $1) ORDER BY nom`, scanTrain, unitID)
}

// ── Équipements ───────────────────────────────────────────────────────────────

func scanEquipment(row pgx.Row) (*entity.Equipment, error) {
	var e entity.Equipment
	if err := row.Scan(&e.ID, &e.Tag, &e.Description, &e.TrainID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

const equipmentColumns = `id, tag, description, COALESCE(train_id, ''), created_at`

func (r *CatalogRepo) CreateEquipment(ctx context.Context, e *entity.Equipment) error {
	return r.insert(ctx, "insert equipment",
		`INSERT INTO equipements (id, tag, description, train_id, created_at) VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
		e.ID, e.Tag, e.Description, e.TrainID, e.CreatedAt)
}

func (r *CatalogRepo) GetEquipment(ctx context.Context, id string) (*entity.Equipment, error) {
	return getOne(ctx, r.q, "get equipment", `SELECT `+equipmentColumns+` FROM equipements WHERE id = $1`, scanEquipment, id)
}

func (r *CatalogRepo) ListEquipment(ctx context.Context, trainID string) ([]*entity.Equipment, error) {
	return getMany(ctx, r.q, "list equipment", `
		SELECT `+equipmentColumns+` FROM equipements
		WHERE ($1::text = '' OR train_id = $1) ORDER BY tag`, scanEquipment, trainID)
}

// ── Stocks ────────────────────────────────────────────────────────────────────

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	if err := row.Scan(&s.ID, &s.Name, &s.SiteID, &s.Type, &s.Description, &s.Location, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

const stockColumns = `id, nom, site_id, type_stock, description, emplacement, created_at`

func (r *CatalogRepo) CreateStock(ctx context.Context, s *entity.Stock) error {
	return r.insert(ctx, "insert stock",
		`INSERT INTO stocks (`+stockColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.SiteID, s.Type, s.Description, s.Location, s.CreatedAt)
}

func (r *CatalogRepo) GetStock(ctx context.Context, id string) (*entity.Stock, error) {
	return getOne(ctx, r.q, "get stock", `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, scanStock, id)
}

func (r *CatalogRepo) ListStocks(ctx context.Context, siteID string) ([]*entity.Stock, error) {
	return getMany(ctx, r.q, "list stocks", `
		SELECT `+stockColumns+` FROM stocks
		WHERE ($1::text = '' OR site_id = $1) ORDER BY nom`, scanStock, siteID)
}

// ── Catégories ────────────────────────────────────────────────────────────────

func scanCategory(row pgx.Row) (*entity.ArticleCategory, error) {
	var c entity.ArticleCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *entity.ArticleCategory) error {
	return r.insert(ctx, "insert category",
		`INSERT INTO categories_articles (id, nom, description, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, c.CreatedAt)
}

func (r *CatalogRepo) GetCategory(ctx context.Context, id string) (*entity.ArticleCategory, error) {
	return getOne(ctx, r.q, "get category", `SELECT id, nom, description, created_at FROM categories_articles WHERE id = $1`, scanCategory, id)
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]*entity.ArticleCategory, error) {
	return getMany(ctx, r.q, "list categories", `SELECT id, nom, description, created_at FROM categories_articles ORDER BY nom`, scanCategory)
}

// ── Platinages ────────────────────────────────────────────────────────────────

func scanPlatinageType(row pgx.Row) (*entity.PlatinageType, error) {
	var t entity.PlatinageType
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepo) CreatePlatinageType(ctx context.Context, t *entity.PlatinageType) error {
	return r.insert(ctx, "insert platinage type",
		`INSERT INTO types_platinage (id, nom, description, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.Description, t.CreatedAt)
}

func (r *CatalogRepo) GetPlatinageType(ctx context.Context, id string) (*entity.PlatinageType, error) {
	return getOne(ctx, r.q, "get platinage type", `SELECT id, nom, description, created_at FROM types_platinage WHERE id = $1`, scanPlatinageType, id)
}

func (r *CatalogRepo) ListPlatinageTypes(ctx context.Context) ([]*entity.PlatinageType, error) {
	return getMany(ctx, r.q, "list platinage types", `SELECT id, nom, description, created_at FROM types_platinage ORDER BY nom`, scanPlatinageType)
}

func scanPlatinage(row pgx.Row) (*entity.Platinage, error) {
	var p entity.Platinage
	if err := row.Scan(&p.ID, &p.EquipmentID, &p.ArticleID, &p.TypeID, &p.Mark,
		&p.StartDate, &p.EndDate, &p.Remark, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

const platinageColumns = `id, equipement_id, article_id, type_platinage_id, repere, date_debut, date_fin, remarque, created_at`

func (r *CatalogRepo) CreatePlatinage(ctx context.Context, p *entity.Platinage) error {
	return r.insert(ctx, "insert platinage",
		`INSERT INTO platinages (`+platinageColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.EquipmentID, p.ArticleID, p.TypeID, p.Mark, p.StartDate, p.EndDate, p.Remark, p.CreatedAt)
}

func (r *CatalogRepo) GetPlatinage(ctx context.Context, id string) (*entity.Platinage, error) {
	return getOne(ctx, r.q, "get platinage", `SELECT `+platinageColumns+` FROM platinages WHERE id = $1`, scanPlatinage, id)
}

func (r *CatalogRepo) ListPlatinages(ctx context.Context, equipmentID string) ([]*entity.Platinage, error) {
	return getMany(ctx, r.q, "list platinages", `
		SELECT `+platinageColumns+` FROM platinages
		WHERE ($1::text = '' OR equipement_id = $1) ORDER BY repere, created_at`, scanPlatinage, equipmentID)
}

// ── Phases ────────────────────────────────────────────────────────────────────

func scanPhase(row pgx.Row) (*entity.Phase, error) {
	var p entity.Phase
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.PlatinageIDs); err != nil {
		return nil, err
	}
	return &p, nil
}

const phaseSelect = `
	SELECT ph.id, ph.nom, ph.description, ph.created_at,
		COALESCE(array_agg(pp.platinage_id ORDER BY pp.platinage_id) FILTER (WHERE pp.platinage_id IS NOT NULL), '{}')
	FROM phases ph
	LEFT JOIN phases_platinages pp ON pp.phase_id = ph.id`

// CreatePhase inserta la fase y sus enlaces en una sola sentencia.
func (r *CatalogRepo) CreatePhase(ctx context.Context, p *entity.Phase) error {
	return r.insert(ctx, "insert phase", `
		WITH ph AS (
			INSERT INTO phases (id, nom, description, created_at) VALUES ($1, $2, $3, $4) RETURNING id
		)
		INSERT INTO phases_platinages (phase_id, platinage_id)
		SELECT ph.id, x FROM ph, unnest($5::text[]) AS x`,
		p.ID, p.Name, p.Description, p.CreatedAt, p.PlatinageIDs)
}

func (r *CatalogRepo) GetPhase(ctx context.Context, id string) (*entity.Phase, error) {
	return getOne(ctx, r.q, "get phase", phaseSelect+` WHERE ph.id = $1 GROUP BY ph.id`, scanPhase, id)
}

func (r *CatalogRepo) ListPhases(ctx context.Context) ([]*entity.Phase, error) {
	return getMany(ctx, r.q, "list phases", phaseSelect+` GROUP BY ph.id ORDER BY ph.nom`, scanPhase)
}
