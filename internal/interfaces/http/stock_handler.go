package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
	"github.com/jhoicas/Despensa-api/pkg/validate"
)

// StockHandler maneja las peticiones HTTP de los libros de stock (protegido).
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// AddLot godoc
// @Summary      Agregar un lote de stock a un producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string             true  "ID del producto"
// @Param        body       body  dto.AddLotRequest  true  "expiry_date (YYYY-MM-DD) y qty"
// @Success      201  {object}  dto.LotListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/stock [post]
func (h *StockHandler) AddLot(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	var in dto.AddLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.AddLot(c.Context(), userID, productID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLots godoc
// @Summary      Listar los lotes de stock de un producto
// @Description  Sin libro de stock para el producto responde la lista vacía,
//               no un error. Los lotes agotados permanecen visibles.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.LotListResponse
// @Router       /api/products/{productId}/stock [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	out, err := h.uc.ListLots(c.Context(), userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Consume godoc
// @Summary      Consumir cantidad de un lote
// @Description  Descuenta used_qty del lote y agrega el evento al historial en
//               una única actualización atómica. Si used_qty excede lo restante
//               responde 400 sin mutar nada.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string              true  "ID del producto"
// @Param        lotId      path  string              true  "ID del lote"
// @Param        body       body  dto.ConsumeRequest  true  "used_qty"
// @Success      200  {object}  dto.LotListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/stock/{lotId}/consume [post]
func (h *StockHandler) Consume(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("productId")
	lotID := c.Params("lotId")
	if productID == "" || lotID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId y lotId son requeridos"})
	}
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ConsumeFromLot(c.Context(), userID, productID, lotID, in.UsedQty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListAllStock godoc
// @Summary      Listar el stock de todos los productos del usuario
// @Description  Une cada libro de stock con nombre/descripción/medida del
//               catálogo. Sin libros responde la lista vacía.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockOverviewResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListAllStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.ListAllStock(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
