package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// containsFold match parcial sin distinguir mayúsculas, como el ILIKE del
// adaptador PostgreSQL.
func containsFold(name, substr string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(substr))
}

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lecturas de catálogo en memoria para la capa de join.
type CatalogRepo struct {
	store *Store
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(store *Store) *CatalogRepo {
	return &CatalogRepo{store: store}
}

func (r *CatalogRepo) productRows(filter repository.ProductFilter) []repository.ProductRow {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []repository.ProductRow
	for _, p := range s.products {
		if p.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Name != "" && !containsFold(p.Name, filter.Name) {
			continue
		}
		if filter.Code != "" && p.Code != filter.Code {
			continue
		}
		if filter.BrandID != "" && (p.BrandID == nil || *p.BrandID != filter.BrandID) {
			continue
		}
		row := repository.ProductRow{
			ID:          p.ID,
			Code:        p.Code,
			Name:        p.Name,
			BrandID:     p.BrandID,
			Price:       p.Price,
			HasVariants: p.HasVariants,
			CreatedAt:   p.CreatedAt,
		}
		if p.BrandID != nil {
			if b, ok := s.brands[*p.BrandID]; ok {
				name := b.Name
				row.BrandName = &name
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// CountProducts total que cumple el filtro.
func (r *CatalogRepo) CountProducts(ctx context.Context, filter repository.ProductFilter) (int, error) {
	return len(r.productRows(filter)), nil
}

// ListProducts con orden por whitelist y paginación; limit <= 0 devuelve el
// conjunto completo ordenado por id.
func (r *CatalogRepo) ListProducts(ctx context.Context, filter repository.ProductFilter, sortSpec repository.ListSort, limit, offset int) ([]repository.ProductRow, error) {
	rows := r.productRows(filter)
	if limit <= 0 {
		return rows, nil
	}
	sortProductRows(rows, sortSpec)
	if offset >= len(rows) {
		return []repository.ProductRow{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func sortProductRows(rows []repository.ProductRow, sortSpec repository.ListSort) {
	desc := sortSpec.Direction == repository.SortDesc
	sort.SliceStable(rows, func(i, j int) bool {
		var less, equal bool
		switch sortSpec.Field {
		case repository.SortFieldCode:
			less, equal = rows[i].Code < rows[j].Code, rows[i].Code == rows[j].Code
		case repository.SortFieldCreatedAt:
			less = rows[i].CreatedAt.Before(rows[j].CreatedAt)
			equal = rows[i].CreatedAt.Equal(rows[j].CreatedAt)
		default:
			less, equal = rows[i].Name < rows[j].Name, rows[i].Name == rows[j].Name
		}
		if equal {
			return rows[i].ID < rows[j].ID
		}
		if desc {
			return !less
		}
		return less
	})
}

func (r *CatalogRepo) variantRows(filter repository.ProductFilter) []repository.VariantRow {
	products := map[string]repository.ProductRow{}
	for _, p := range r.productRows(filter) {
		products[p.ID] = p
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []repository.VariantRow
	for _, v := range s.variants {
		p, ok := products[v.ProductID]
		if !ok {
			continue
		}
		rows = append(rows, repository.VariantRow{
			ProductID:   v.ProductID,
			VariantID:   v.ID,
			ProductCode: p.Code,
			ProductName: p.Name,
			VariantName: v.Name,
			SKU:         v.SKU,
			BrandID:     p.BrandID,
			CreatedAt:   v.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].VariantID < rows[j].VariantID })
	return rows
}

// CountVariants total de variantes de productos que cumplen el filtro.
func (r *CatalogRepo) CountVariants(ctx context.Context, filter repository.ProductFilter) (int, error) {
	return len(r.variantRows(filter)), nil
}

// ListVariants con orden y paginación; limit <= 0 devuelve todo.
func (r *CatalogRepo) ListVariants(ctx context.Context, filter repository.ProductFilter, sortSpec repository.ListSort, limit, offset int) ([]repository.VariantRow, error) {
	rows := r.variantRows(filter)
	if limit <= 0 {
		return rows, nil
	}
	desc := sortSpec.Direction == repository.SortDesc
	sort.SliceStable(rows, func(i, j int) bool {
		var less, equal bool
		switch sortSpec.Field {
		case repository.SortFieldCode:
			less, equal = rows[i].ProductCode < rows[j].ProductCode, rows[i].ProductCode == rows[j].ProductCode
		case repository.SortFieldCreatedAt:
			less = rows[i].CreatedAt.Before(rows[j].CreatedAt)
			equal = rows[i].CreatedAt.Equal(rows[j].CreatedAt)
		default:
			less, equal = rows[i].ProductName < rows[j].ProductName, rows[i].ProductName == rows[j].ProductName
		}
		if equal {
			return rows[i].VariantID < rows[j].VariantID
		}
		if desc {
			return !less
		}
		return less
	})
	if offset >= len(rows) {
		return []repository.VariantRow{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}
