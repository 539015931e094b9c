package intent

import (
	"github.com/shopspring/decimal"
)

// Kind clase de intención inferida del mensaje del usuario.
type Kind string

const (
	KindAddStock     Kind = "add_stock"
	KindAddProduct   Kind = "add_product"
	KindChat         Kind = "chat"
	KindUnrecognized Kind = "unrecognized"
)

// StockEntry un lote a agregar, ya validado (qty > 0, fecha YYYY-MM-DD).
type StockEntry struct {
	ExpiryDate string          `json:"expiryDate"`
	Qty        decimal.Decimal `json:"qty"`
}

// ProductSpec un producto a crear, ya validado contra el enum de medidas.
type ProductSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Measure     string `json:"measure"`
}

// ParsedIntent resultado del parser. Transitorio: se consume una vez por el
// dispatcher y se descarta; nunca se persiste.
// Para Chat y Unrecognized, Reply trae el texto a devolver al usuario.
type ParsedIntent struct {
	Kind     Kind
	Stock    []StockEntry
	Products []ProductSpec
	Reply    string
}
