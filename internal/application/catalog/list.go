// Package catalog combina identidad de catálogo con stock derivado en un
// solo snapshot paginado: la capa de join entre productos/variantes y el
// agregador de stock.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// ListUseCase listado filtrable/ordenable/paginado del catálogo con stock.
type ListUseCase struct {
	catalog    repository.CatalogRepository
	aggregator *stock.Aggregator
}

// NewListUseCase construye el caso de uso.
func NewListUseCase(catalog repository.CatalogRepository, aggregator *stock.Aggregator) *ListUseCase {
	return &ListUseCase{catalog: catalog, aggregator: aggregator}
}

// List ejecuta el listado. Ordenar por stock exige materializar el stock del
// conjunto candidato completo antes de paginar (el stock es derivado, no
// columna); el resto de los campos ordena y pagina en SQL. Pedir una página
// más allá de la última devuelve filas vacías con el total correcto.
func (uc *ListUseCase) List(ctx context.Context, businessID string, in dto.ListCatalogRequest) (*dto.PageResponse, error) {
	if businessID == "" {
		return nil, domain.ErrValidation
	}
	in.DefaultPage()

	level := in.Level
	if level == "" {
		level = dto.ListLevelProduct
	}
	if level != dto.ListLevelProduct && level != dto.ListLevelVariant {
		return nil, domain.ErrValidation
	}

	sortSpec, err := resolveSort(in.SortBy, in.SortDir)
	if err != nil {
		return nil, err
	}

	var asOf *time.Time
	if in.AsOf != "" {
		t, err := time.Parse(time.RFC3339, in.AsOf)
		if err != nil {
			return nil, domain.ErrValidation
		}
		asOf = &t
	}

	filter := repository.ProductFilter{
		BusinessID: businessID,
		Name:       in.Name,
		Code:       in.Code,
		BrandID:    in.BrandID,
	}

	if level == dto.ListLevelVariant {
		return uc.listVariants(ctx, businessID, filter, sortSpec, asOf, in.PageRequest)
	}
	return uc.listProducts(ctx, businessID, filter, sortSpec, asOf, in.PageRequest)
}

func resolveSort(field, dir string) (repository.ListSort, error) {
	if field == "" {
		field = repository.SortFieldName
	}
	switch field {
	case repository.SortFieldName, repository.SortFieldCode, repository.SortFieldCreatedAt, repository.SortFieldStock:
	default:
		return repository.ListSort{}, domain.ErrValidation
	}
	if dir == "" {
		dir = repository.SortAsc
	}
	if dir != repository.SortAsc && dir != repository.SortDesc {
		return repository.ListSort{}, domain.ErrValidation
	}
	return repository.ListSort{Field: field, Direction: dir}, nil
}

func (uc *ListUseCase) listProducts(ctx context.Context, businessID string, filter repository.ProductFilter, sortSpec repository.ListSort, asOf *time.Time, page dto.PageRequest) (*dto.PageResponse, error) {
	total, err := uc.catalog.CountProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	var rows []repository.ProductRow
	if sortSpec.Field == repository.SortFieldStock {
		// Orden por campo derivado: traer el conjunto candidato completo,
		// plegar el stock una sola vez y paginar en memoria.
		rows, err = uc.catalog.ListProducts(ctx, filter, repository.ListSort{}, 0, 0)
	} else {
		rows, err = uc.catalog.ListProducts(ctx, filter, sortSpec, page.PageSize, page.Offset())
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	stocks := map[entity.StockKey]int64{}
	if len(ids) > 0 {
		stocks, err = uc.aggregator.BulkStock(ctx, businessID, ids, asOf, true)
		if err != nil {
			return nil, err
		}
	}

	out := make([]dto.CatalogRowDTO, 0, len(rows))
	for _, r := range rows {
		row := dto.CatalogRowDTO{
			ProductID: r.ID,
			Code:      r.Code,
			Name:      r.Name,
			Price:     r.Price,
			Stock:     stocks[entity.StockKey{ProductID: r.ID}],
			CreatedAt: r.CreatedAt,
		}
		if r.BrandID != nil {
			row.BrandID = *r.BrandID
		}
		if r.BrandName != nil {
			row.BrandName = *r.BrandName
		}
		out = append(out, row)
	}

	if sortSpec.Field == repository.SortFieldStock {
		sortByStock(out, sortSpec.Direction)
		out = slicePage(out, page)
	}

	resp := dto.NewPageResponse(out, page, total)
	return &resp, nil
}

func (uc *ListUseCase) listVariants(ctx context.Context, businessID string, filter repository.ProductFilter, sortSpec repository.ListSort, asOf *time.Time, page dto.PageRequest) (*dto.PageResponse, error) {
	total, err := uc.catalog.CountVariants(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count variants: %w", err)
	}

	var rows []repository.VariantRow
	if sortSpec.Field == repository.SortFieldStock {
		rows, err = uc.catalog.ListVariants(ctx, filter, repository.ListSort{}, 0, 0)
	} else {
		rows, err = uc.catalog.ListVariants(ctx, filter, sortSpec, page.PageSize, page.Offset())
	}
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ProductID)
	}
	stocks := map[entity.StockKey]int64{}
	if len(ids) > 0 {
		stocks, err = uc.aggregator.BulkStock(ctx, businessID, ids, asOf, false)
		if err != nil {
			return nil, err
		}
	}

	out := make([]dto.CatalogRowDTO, 0, len(rows))
	for _, r := range rows {
		row := dto.CatalogRowDTO{
			ProductID:   r.ProductID,
			VariantID:   r.VariantID,
			Code:        r.ProductCode,
			Name:        r.ProductName,
			VariantName: r.VariantName,
			Stock:       stocks[entity.StockKey{ProductID: r.ProductID, VariantID: r.VariantID}],
			CreatedAt:   r.CreatedAt,
		}
		if r.BrandID != nil {
			row.BrandID = *r.BrandID
		}
		out = append(out, row)
	}

	if sortSpec.Field == repository.SortFieldStock {
		sortByStock(out, sortSpec.Direction)
		out = slicePage(out, page)
	}

	resp := dto.NewPageResponse(out, page, total)
	return &resp, nil
}

// sortByStock ordena por stock con desempate ascendente por id, para que la
// paginación sea estable entre llamadas repetidas.
func sortByStock(rows []dto.CatalogRowDTO, direction string) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Stock != rows[j].Stock {
			if direction == repository.SortDesc {
				return rows[i].Stock > rows[j].Stock
			}
			return rows[i].Stock < rows[j].Stock
		}
		ki, kj := rowKey(rows[i]), rowKey(rows[j])
		return ki < kj
	})
}

func rowKey(r dto.CatalogRowDTO) string {
	if r.VariantID != "" {
		return r.ProductID + "/" + r.VariantID
	}
	return r.ProductID
}

// slicePage recorta la página 1-indexada de un conjunto ya ordenado.
func slicePage(rows []dto.CatalogRowDTO, page dto.PageRequest) []dto.CatalogRowDTO {
	start := page.Offset()
	if start >= len(rows) {
		return []dto.CatalogRowDTO{}
	}
	end := start + page.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
