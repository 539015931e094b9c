package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
	"github.com/jhoicas/Despensa-api/pkg/validate"
)

// ChatHandler maneja el endpoint de chat con IA (protegido).
type ChatHandler struct {
	uc *usecase.ChatUseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(uc *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Chat godoc
// @Summary      Enviar un mensaje al asistente de inventario
// @Description  Interpreta el mensaje libre del usuario y, según la intención,
//               registra stock, crea productos o responde conversacionalmente.
//               Las fallas del modelo degradan a una respuesta amigable: este
//               endpoint no responde 500 por JSON inválido del generador.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "message y product_id opcional"
// @Success      200   {object}  dto.ChatResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/chat/ai [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ChatRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	reply, err := h.uc.HandleMessage(c.Context(), userID, in.ProductID, in.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ChatResponse{Reply: reply})
}
