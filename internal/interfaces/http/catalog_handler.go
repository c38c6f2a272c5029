package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comerzia/backoffice-api/internal/application/catalog"
	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/application/usecase"
)

// CatalogHandler maneja el listado de catálogo con stock y el CRUD de
// productos, variantes y marcas (protegido).
type CatalogHandler struct {
	listUC    *catalog.ListUseCase
	productUC *usecase.ProductUseCase
	brandUC   *usecase.BrandUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(listUC *catalog.ListUseCase, productUC *usecase.ProductUseCase, brandUC *usecase.BrandUseCase) *CatalogHandler {
	return &CatalogHandler{listUC: listUC, productUC: productUC, brandUC: brandUC}
}

// List godoc
// @Summary      Listar catálogo con stock derivado
// @Description  Snapshot filtrable, ordenable y paginado del catálogo. level=product agrega el stock de las variantes; level=variant lista variante por variante. sort_by=stock materializa el conjunto candidato completo antes de paginar.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        name       query  string  false  "Filtro por nombre (subcadena, sin distinguir mayúsculas)"
// @Param        code       query  string  false  "Filtro por código exacto"
// @Param        brand_id   query  string  false  "Filtro por marca"
// @Param        level      query  string  false  "product | variant"  default(product)
// @Param        sort_by    query  string  false  "name | code | created_at | stock"  default(name)
// @Param        sort_dir   query  string  false  "asc | desc"  default(asc)
// @Param        as_of      query  string  false  "RFC3339: stock histórico"
// @Param        page       query  int     false  "Página (1-indexada)"  default(1)
// @Param        page_size  query  int     false  "Tamaño de página"     default(20)
// @Success      200  {object}  dto.PageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ListCatalogRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.listUC.List(c.Context(), businessID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  entity.Product
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.productUC.Create(c.Context(), businessID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetProduct godoc
// @Summary      Obtener producto por ID con sus variantes
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	product, variants, err := h.productUC.GetByID(c.Context(), businessID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"product": product, "variants": variants})
}

// UpdateProduct godoc
// @Summary      Actualizar producto
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.CreateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  entity.Product
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.productUC.Update(c.Context(), businessID, id, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// AddVariant godoc
// @Summary      Agregar variante a un producto
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.CreateVariantRequest  true  "Datos de la variante"
// @Success      201   {object}  entity.Variant
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variants [post]
func (h *CatalogHandler) AddVariant(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.productUC.AddVariant(c.Context(), businessID, productID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateBrand godoc
// @Summary      Crear marca
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]string  true  "name"
// @Success      201   {object}  entity.Brand
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/brands [post]
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.brandUC.Create(c.Context(), businessID, in.Name)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBrands godoc
// @Summary      Listar marcas
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Brand
// @Router       /api/brands [get]
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.brandUC.List(c.Context(), businessID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
