package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

// Campos de artículo en los errores de validación.
const (
	fieldCode            = "code_article"
	fieldDescription     = "description"
	fieldStock           = "stock"
	fieldCategory        = "categorie"
	fieldPrice           = "prix"
	fieldCurrency        = "devise"
	fieldInitialQuantity = "quantite_initiale"
	fieldAlertThreshold  = "seuil_alerte"
)

// ArticleUseCase CRUD de artículos. quantite_stock se maneja solo vía movimientos.
type ArticleUseCase struct {
	repo        repository.ArticleRepository
	catalogRepo repository.CatalogRepository
}

// NewArticleUseCase construye el caso de uso.
func NewArticleUseCase(repo repository.ArticleRepository, catalogRepo repository.CatalogRepository) *ArticleUseCase {
	return &ArticleUseCase{repo: repo, catalogRepo: catalogRepo}
}

// Create crea un artículo; quantite_stock arranca en quantite_initiale.
func (uc *ArticleUseCase) Create(ctx context.Context, in dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Code) == "" {
		verr.Add(fieldCode, domain.ErrMissingRequiredField, "el código del artículo es obligatorio")
	}
	if strings.TrimSpace(in.Description) == "" {
		verr.Add(fieldDescription, domain.ErrMissingRequiredField, "la descripción es obligatoria")
	}
	if in.StockID == "" {
		verr.Add(fieldStock, domain.ErrMissingRequiredField, "el stock es obligatorio")
	} else {
		stock, err := uc.catalogRepo.GetStock(ctx, in.StockID)
		if err != nil {
			return nil, err
		}
		if stock == nil {
			verr.Add(fieldStock, domain.ErrNotFound, "el stock especificado no existe")
		}
	}
	if err := uc.checkCategory(ctx, in.CategoryID, verr); err != nil {
		return nil, err
	}
	checkPrice(in.Price, in.Currency, verr)
	checkNonNegative(fieldInitialQuantity, in.InitialQuantity, verr)
	checkNonNegative(fieldAlertThreshold, in.AlertThreshold, verr)
	if !verr.Empty() {
		return nil, verr
	}

	now := time.Now()
	article := &entity.Article{
		ID:              uuid.New().String(),
		Code:            strings.TrimSpace(in.Code),
		Description:     in.Description,
		Specification:   in.Specification,
		Price:           in.Price,
		Currency:        in.Currency,
		StockID:         in.StockID,
		CategoryID:      in.CategoryID,
		UnitMeasure:     in.UnitMeasure,
		InitialQuantity: in.InitialQuantity,
		Quantity:        in.InitialQuantity,
		AlertThreshold:  in.AlertThreshold,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	return toArticleResponse(article), nil
}

// GetByID obtiene un artículo. ErrNotFound si no existe.
func (uc *ArticleUseCase) GetByID(ctx context.Context, id string) (*dto.ArticleResponse, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	return toArticleResponse(article), nil
}

// Update edita los campos descriptivos. La cantidad en stock no es editable.
func (uc *ArticleUseCase) Update(ctx context.Context, id string, in dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	if in.Description != nil {
		article.Description = *in.Description
	}
	if in.Specification != nil {
		article.Specification = *in.Specification
	}
	if in.Price != nil {
		article.Price = in.Price
	}
	if in.Currency != nil {
		article.Currency = *in.Currency
	}
	if in.CategoryID != nil {
		article.CategoryID = *in.CategoryID
	}
	if in.UnitMeasure != nil {
		article.UnitMeasure = *in.UnitMeasure
	}
	if in.AlertThreshold != nil {
		article.AlertThreshold = *in.AlertThreshold
	}

	verr := &domain.ValidationError{}
	if strings.TrimSpace(article.Description) == "" {
		verr.Add(fieldDescription, domain.ErrMissingRequiredField, "la descripción es obligatoria")
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, article.CategoryID, verr); err != nil {
			return nil, err
		}
	}
	checkPrice(article.Price, article.Currency, verr)
	checkNonNegative(fieldAlertThreshold, article.AlertThreshold, verr)
	if !verr.Empty() {
		return nil, verr
	}

	article.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List lista artículos con filtros y paginación.
func (uc *ArticleUseCase) List(ctx context.Context, in dto.ListArticlesRequest) (*dto.ArticleListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ArticleFilter{
		StockID:    in.StockID,
		CategoryID: in.CategoryID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArticleResponse(a))
	}
	return &dto.ArticleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un artículo; ErrConflict mientras alguna línea de movimiento lo referencie.
func (uc *ArticleUseCase) Delete(ctx context.Context, id string) error {
	referenced, err := uc.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ArticleUseCase) checkCategory(ctx context.Context, id string, verr *domain.ValidationError) error {
	if id == "" {
		return nil
	}
	cat, err := uc.catalogRepo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		verr.Add(fieldCategory, domain.ErrNotFound, "la categoría especificada no existe")
	}
	return nil
}

func checkPrice(price *decimal.Decimal, currency string, verr *domain.ValidationError) {
	if price != nil {
		if price.IsNegative() {
			verr.Add(fieldPrice, domain.ErrInvalidInput, "el precio no puede ser negativo")
		}
		if currency == "" {
			verr.Add(fieldCurrency, domain.ErrMissingRequiredField, "la divisa es obligatoria si se indica un precio")
		}
	}
	if currency != "" && !validCurrency(currency) {
		verr.Add(fieldCurrency, domain.ErrInvalidInput, "divisa desconocida: "+currency)
	}
}

func validCurrency(c string) bool {
	switch c {
	case entity.CurrencyEUR, entity.CurrencyUSD, entity.CurrencyGBP, entity.CurrencyDZD:
		return true
	}
	return false
}

func checkNonNegative(field string, v decimal.Decimal, verr *domain.ValidationError) {
	if v.IsNegative() {
		verr.Add(field, domain.ErrInvalidInput, "el valor no puede ser negativo")
	}
}

func toArticleResponse(a *entity.Article) *dto.ArticleResponse {
	return &dto.ArticleResponse{
		ID:              a.ID,
		Code:            a.Code,
		Description:     a.Description,
		Specification:   a.Specification,
		Price:           a.Price,
		Currency:        a.Currency,
		StockID:         a.StockID,
		CategoryID:      a.CategoryID,
		UnitMeasure:     a.UnitMeasure,
		InitialQuantity: a.InitialQuantity,
		Quantity:        a.Quantity,
		AlertThreshold:  a.AlertThreshold,
		LowStock:        a.BelowThreshold(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
