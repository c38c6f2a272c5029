package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/application/ledger"
	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// InventoryHandler maneja ajustes, reversals, historial y lecturas de stock
// (protegido).
type InventoryHandler struct {
	ledgerUC   *ledger.UseCase
	aggregator *stock.Aggregator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledgerUC *ledger.UseCase, aggregator *stock.Aggregator) *InventoryHandler {
	return &InventoryHandler{ledgerUC: ledgerUC, aggregator: aggregator}
}

func toMovementDTO(e entity.MovementEntry) dto.MovementDTO {
	out := dto.MovementDTO{
		ID:         e.ID,
		ProductID:  e.ProductID,
		Delta:      e.Delta,
		Kind:       e.Kind,
		OccurredAt: e.OccurredAt,
		CreatedAt:  e.CreatedAt,
	}
	if e.VariantID != nil {
		out.VariantID = *e.VariantID
	}
	if e.RefKind != nil {
		out.RefKind = *e.RefKind
	}
	if e.RefID != nil {
		out.RefID = *e.RefID
	}
	return out
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste manual de stock
// @Description  Agrega una entrada de ajuste (delta con signo) al libro de movimientos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "product_id, variant_id (opcional), delta"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.ledgerUC.RegisterAdjustment(c.Context(), businessID, userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementDTO(*entry))
}

// ReverseMovement godoc
// @Summary      Revertir un movimiento
// @Description  Agrega una reversal con el delta negado. Un movimiento se reversa a lo sumo una vez.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento original"
// @Success      201  {object}  dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/reverse [post]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	reversal, err := h.ledgerUC.ReverseEntry(c.Context(), businessID, userID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementDTO(*reversal))
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        variant_id  query  string  false  "Filtrar por variante"
// @Param        from        query  string  false  "RFC3339"
// @Param        to          query  string  false  "RFC3339"
// @Param        page        query  int     false  "Página (1-indexada)"  default(1)
// @Param        page_size   query  int     false  "Tamaño de página"     default(20)
// @Success      200  {object}  dto.PageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	entries, total, err := h.ledgerUC.History(c.Context(), businessID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	rows := make([]dto.MovementDTO, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toMovementDTO(e))
	}
	return c.JSON(dto.NewPageResponse(rows, in.PageRequest, total))
}

// GetStock godoc
// @Summary      Stock derivado de un producto o variante
// @Description  Pliega el libro de movimientos. Con variant_id devuelve la variante exacta; sin él, el agregado del producto. as_of permite lecturas históricas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        variant_id  query  string  false  "ID de la variante"
// @Param        as_of       query  string  false  "RFC3339"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	variantID := c.Query("variant_id")

	var asOf *time.Time
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of debe ser RFC3339"})
		}
		asOf = &t
	}

	snap, err := h.aggregator.StockAsOf(c.Context(), businessID, productID, variantID, asOf)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := dto.StockResponse{
		ProductID:      snap.ProductID,
		Quantity:       snap.Quantity,
		LastMovementAt: snap.LastMovementAt,
	}
	if snap.VariantID != nil {
		out.VariantID = *snap.VariantID
	}
	return c.JSON(out)
}

// RebuildStockCache godoc
// @Summary      Reconstruir el caché materializado de stock
// @Description  Borra y recalcula el caché del negocio desde el libro de movimientos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/inventory/stock/rebuild [post]
func (h *InventoryHandler) RebuildStockCache(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.ledgerUC.RebuildStockCache(c.Context(), businessID); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "caché de stock reconstruido"})
}
