package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/intent"
	"github.com/jhoicas/Despensa-api/internal/domain"
)

// ChatUseCase despacha la intención parseada del mensaje hacia los casos de
// uso de catálogo/stock, o devuelve la respuesta conversacional tal cual.
// Ninguna rama muta más de un documento agregado; un lote con una entrada
// inválida se rechaza completo y el usuario ve un único mensaje.
type ChatUseCase struct {
	parser  *intent.Parser
	stock   *StockUseCase
	catalog *CatalogUseCase
}

// NewChatUseCase construye el caso de uso.
func NewChatUseCase(parser *intent.Parser, stock *StockUseCase, catalog *CatalogUseCase) *ChatUseCase {
	return &ChatUseCase{parser: parser, stock: stock, catalog: catalog}
}

// HandleMessage parsea el mensaje y ejecuta la intención. Retorna siempre una
// respuesta de texto; solo las fallas de persistencia suben como error (500).
// Las fallas del modelo o de validación degradan a un mensaje amigable.
func (uc *ChatUseCase) HandleMessage(ctx context.Context, userID, productID, message string) (string, error) {
	parsed := uc.parser.Parse(ctx, message, productID != "")

	switch parsed.Kind {
	case intent.KindAddStock:
		return uc.dispatchAddStock(ctx, userID, productID, parsed.Stock)
	case intent.KindAddProduct:
		return uc.dispatchAddProduct(ctx, userID, parsed.Products)
	case intent.KindChat, intent.KindUnrecognized:
		return parsed.Reply, nil
	default:
		return parsed.Reply, nil
	}
}

// dispatchAddStock agrega todos los lotes al libro del producto en contexto.
// Sin producto en contexto no se ejecuta nada: se redirige al flujo correcto.
func (uc *ChatUseCase) dispatchAddStock(ctx context.Context, userID, productID string, entries []intent.StockEntry) (string, error) {
	if productID == "" {
		return "Para registrar stock abre primero el producto en tu catálogo y vuelve a pedírmelo desde ahí.", nil
	}
	inputs := make([]LotInput, 0, len(entries))
	for _, e := range entries {
		inputs = append(inputs, LotInput{ExpiryDate: e.ExpiryDate, Qty: e.Qty})
	}
	if _, err := uc.stock.AddLots(ctx, userID, productID, inputs); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Sprintf("No pude registrar el stock: %s.", err.Error()), nil
		}
		return "", err
	}
	return fmt.Sprintf("Listo, registré %d lote(s) de stock.", len(inputs)), nil
}

// dispatchAddProduct agrega el lote completo de productos al catálogo.
func (uc *ChatUseCase) dispatchAddProduct(ctx context.Context, userID string, specs []intent.ProductSpec) (string, error) {
	products := make([]dto.ProductInput, 0, len(specs))
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		products = append(products, dto.ProductInput{Name: s.Name, Description: s.Description, Measure: s.Measure})
		names = append(names, s.Name)
	}
	if _, err := uc.catalog.AddProducts(ctx, userID, dto.AddProductsRequest{Products: products}); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Sprintf("No pude crear los productos: %s.", err.Error()), nil
		}
		return "", err
	}
	return fmt.Sprintf("Agregué %d producto(s) a tu catálogo: %s.", len(names), strings.Join(names, ", ")), nil
}
