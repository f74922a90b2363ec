package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación en memoria del referencial.
type CatalogRepo struct {
	v view
}

func (r *CatalogRepo) CreateSite(_ context.Context, site *entity.Site) error {
	return r.v.write(func(st *state) error {
		for _, s := range st.sites {
			if s.Name == site.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *site
		st.sites[site.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetSite(_ context.Context, id string) (*entity.Site, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.Site { return st.sites }, id)
}

func (r *CatalogRepo) ListSites(_ context.Context) ([]*entity.Site, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.Site { return st.sites },
		func(*entity.Site) bool { return true },
		func(a, b *entity.Site) bool { return a.Name < b.Name })
}

func (r *CatalogRepo) CreateUnit(_ context.Context, unit *entity.Unit) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.sites[unit.SiteID]; !ok {
			return domain.ErrNotFound
		}
		for _, u := range st.units {
			if u.SiteID == unit.SiteID && u.Name == unit.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *unit
		st.units[unit.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetUnit(_ context.Context, id string) (*entity.Unit, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.Unit { return st.units }, id)
}

func (r *CatalogRepo) ListUnits(_ context.Context, siteID string) ([]*entity.Unit, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.Unit { return st.units },
		func(u *entity.Unit) bool { return siteID == "" || u.SiteID == siteID },
		func(a, b *entity.Unit) bool { return a.Name < b.Name })
}

func (r *CatalogRepo) CreateTrain(_ context.Context, train *entity.Train) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.units[train.UnitID]; !ok {
			return domain.ErrNotFound
		}
		for _, t := range st.trains {
			if t.UnitID == train.UnitID && t.Name == train.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *train
		st.trains[train.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetTrain(_ context.Context, id string) (*entity.Train, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.Train { return st.trains }, id)
}

func (r *CatalogRepo) ListTrains(_ context.Context, unitID string) ([]*entity.Train, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.Train { return st.trains },
		func(t *entity.Train) bool { return unitID == "" || t.UnitID == unitID },
		func(a, b *entity.Train) bool { return a.Name < b.Name })
}

func (r *CatalogRepo) CreateEquipment(_ context.Context, eq *entity.Equipment) error {
	return r.v.write(func(st *state) error {
		if eq.TrainID != "" {
			if _, ok := st.trains[eq.TrainID]; !ok {
				return domain.ErrNotFound
			}
		}
		for _, e := range st.equipment {
			if e.Tag == eq.Tag {
				return domain.ErrDuplicate
			}
		}
		cp := *eq
		st.equipment[eq.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetEquipment(_ context.Context, id string) (*entity.Equipment, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.Equipment { return st.equipment }, id)
}

func (r *CatalogRepo) ListEquipment(_ context.Context, trainID string) ([]*entity.Equipment, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.Equipment { return st.equipment },
		func(e *entity.Equipment) bool { return trainID == "" || e.TrainID == trainID },
		func(a, b *entity.Equipment) bool { return a.Tag < b.Tag })
}

func (r *CatalogRepo) CreateStock(_ context.Context, stock *entity.Stock) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.sites[stock.SiteID]; !ok {
			return domain.ErrNotFound
		}
		for _, s := range st.stocks {
			if s.Name == stock.Name && s.Type == stock.Type && s.Location == stock.Location {
				return domain.ErrDuplicate
			}
		}
		cp := *stock
		st.stocks[stock.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetStock(_ context.Context, id string) (*entity.Stock, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.Stock { return st.stocks }, id)
}

func (r *CatalogRepo) ListStocks(_ context.Context, siteID string) ([]*entity.Stock, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.Stock { return st.stocks },
		func(s *entity.Stock) bool { return siteID == "" || s.SiteID == siteID },
		func(a, b *entity.Stock) bool { return a.Name < b.Name })
}

func (r *CatalogRepo) CreateCategory(_ context.Context, c *entity.ArticleCategory) error {
	return r.v.write(func(st *state) error {
		for _, cur := range st.categories {
			if cur.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *c
		st.categories[c.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetCategory(_ context.Context, id string) (*entity.ArticleCategory, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.ArticleCategory { return st.categories }, id)
}

func (r *CatalogRepo) ListCategories(_ context.Context) ([]*entity.ArticleCategory, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.ArticleCategory { return st.categories },
		func(*entity.ArticleCategory) bool { return true },
		func(a, b *entity.ArticleCategory) bool { return a.Name < b.Name })
}

func (r *CatalogRepo) CreatePlatinageType(_ context.Context, t *entity.PlatinageType) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.platinageTypes {
			if existing.Name == t.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *t
		st.platinageTypes[t.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetPlatinageType(_ context.Context, id string) (*entity.PlatinageType, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.PlatinageType { return st.platinageTypes }, id)
}

func (r *CatalogRepo) ListPlatinageTypes(_ context.Context) ([]*entity.PlatinageType, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.PlatinageType { return st.platinageTypes },
		func(*entity.PlatinageType) bool { return true },
		func(a, b *entity.PlatinageType) bool { return a.Name < b.Name })
}

func (r *CatalogRepo) CreatePlatinage(_ context.Context, p *entity.Platinage) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.equipment[p.EquipmentID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.articles[p.ArticleID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.platinageTypes[p.TypeID]; !ok {
			return domain.ErrNotFound
		}
		cp := *p
		st.platinages[p.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetPlatinage(_ context.Context, id string) (*entity.Platinage, error) {
	return getCopy(r.v, func(st *state) map[string]*entity.Platinage { return st.platinages }, id)
}

func (r *CatalogRepo) ListPlatinages(_ context.Context, equipmentID string) ([]*entity.Platinage, error) {
	return listCopies(r.v, func(st *state) map[string]*entity.Platinage { return st.platinages },
		func(p *entity.Platinage) bool { return equipmentID == "" || p.EquipmentID == equipmentID },
		func(a, b *entity.Platinage) bool {
			if a.Mark != b.Mark {
				return a.Mark < b.Mark
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
}

func (r *CatalogRepo) CreatePhase(_ context.Context, phase *entity.Phase) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.phases {
			if existing.Name == phase.Name {
				return domain.ErrDuplicate
			}
		}
		for _, id := range phase.PlatinageIDs {
			if _, ok := st.platinages[id]; !ok {
				return domain.ErrNotFound
			}
		}
		st.phases[phase.ID] = copyPhase(phase)
		return nil
	})
}

func (r *CatalogRepo) GetPhase(_ context.Context, id string) (*entity.Phase, error) {
	var out *entity.Phase
	err := r.v.read(func(st *state) error {
		if p, ok := st.phases[id]; ok {
			out = copyPhase(p)
		}
		return nil
	})
	return out, err
}

func (r *CatalogRepo) ListPhases(_ context.Context) ([]*entity.Phase, error) {
	out := []*entity.Phase{}
	err := r.v.read(func(st *state) error {
		for _, p := range st.phases {
			out = append(out, copyPhase(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func copyPhase(p *entity.Phase) *entity.Phase {
	cp := *p
	cp.PlatinageIDs = slices.Clone(p.PlatinageIDs)
	return &cp
}

// dropPlatinages borra en cascada los platinages que cumplen match y los quita de las fases.
func dropPlatinages(st *state, match func(*entity.Platinage) bool) {
	for id, p := range st.platinages {
		if !match(p) {
			continue
		}
		delete(st.platinages, id)
		for phaseID, phase := range st.phases {
			if slices.Contains(phase.PlatinageIDs, id) {
				cp := copyPhase(phase)
				cp.PlatinageIDs = slices.DeleteFunc(cp.PlatinageIDs, func(x string) bool { return x == id })
				st.phases[phaseID] = cp
			}
		}
	}
}

func getCopy[T any](v view, table func(*state) map[string]*T, id string) (*T, error) {
	var out *T
	err := v.read(func(st *state) error {
		if item, ok := table(st)[id]; ok {
			cp := *item
			out = &cp
		}
		return nil
	})
	return out, err
}

func listCopies[T any](v view, table func(*state) map[string]*T, keep func(*T) bool, less func(a, b *T) bool) ([]*T, error) {
	out := []*T{}
	err := v.read(func(st *state) error {
		for _, item := range table(st) {
			if keep(item) {
				cp := *item
				out = append(out, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}
