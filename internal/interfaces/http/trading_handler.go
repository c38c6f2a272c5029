package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/application/trading"
)

// TradingHandler maneja compras y ventas: alta atómica por lote, lecturas y
// cancelación (protegido).
type TradingHandler struct {
	orchestrator *trading.Orchestrator
}

// NewTradingHandler construye el handler.
func NewTradingHandler(orchestrator *trading.Orchestrator) *TradingHandler {
	return &TradingHandler{orchestrator: orchestrator}
}

// CreatePurchase godoc
// @Summary      Crear compra con líneas
// @Description  Alta atómica: el documento, sus líneas y los movimientos de entrada se confirman juntos o no se confirma nada.
// @Tags         trading
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "supplier_id, items"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *TradingHandler) CreatePurchase(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.orchestrator.CreatePurchaseWithItems(c.Context(), businessID, userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseResponse{Purchase: out})
}

// GetPurchase godoc
// @Summary      Obtener compra por ID con sus líneas
// @Tags         trading
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *TradingHandler) GetPurchase(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.orchestrator.GetPurchase(c.Context(), businessID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.PurchaseResponse{Purchase: out})
}

// ListPurchases godoc
// @Summary      Listar compras
// @Tags         trading
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Página (1-indexada)"  default(1)
// @Param        page_size  query  int  false  "Tamaño de página"     default(20)
// @Success      200  {object}  dto.PageResponse
// @Router       /api/purchases [get]
func (h *TradingHandler) ListPurchases(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, total, err := h.orchestrator.ListPurchases(c.Context(), businessID, page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewPageResponse(list, page, total))
}

// CancelPurchase godoc
// @Summary      Cancelar compra
// @Description  Nunca borra filas: agrega reversals por cada movimiento original y marca la compra como cancelled.
// @Tags         trading
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *TradingHandler) CancelPurchase(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.orchestrator.CancelPurchase(c.Context(), businessID, userID, id); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra cancelada"})
}

// CreateSale godoc
// @Summary      Crear venta con líneas
// @Description  Alta atómica simétrica a compras, con deltas negativos. En modo estricto las ventas que dejarían stock negativo se rechazan.
// @Tags         trading
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "customer_id, items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *TradingHandler) CreateSale(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.orchestrator.CreateSaleWithItems(c.Context(), businessID, userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleResponse{Sale: out})
}

// GetSale godoc
// @Summary      Obtener venta por ID con sus líneas
// @Tags         trading
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *TradingHandler) GetSale(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.orchestrator.GetSale(c.Context(), businessID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.SaleResponse{Sale: out})
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         trading
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Página (1-indexada)"  default(1)
// @Param        page_size  query  int  false  "Tamaño de página"     default(20)
// @Success      200  {object}  dto.PageResponse
// @Router       /api/sales [get]
func (h *TradingHandler) ListSales(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, total, err := h.orchestrator.ListSales(c.Context(), businessID, page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewPageResponse(list, page, total))
}

// CancelSale godoc
// @Summary      Cancelar venta
// @Description  Agrega reversals por cada movimiento original y marca la venta como cancelled.
// @Tags         trading
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *TradingHandler) CancelSale(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.orchestrator.CancelSale(c.Context(), businessID, userID, id); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta cancelada"})
}
