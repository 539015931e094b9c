package entity

import "time"

// Measure unidad de medida de un producto. Conjunto cerrado: cualquier
// sinónimo fuera de la lista (p. ej. "liter") se rechaza como inválido.
type Measure string

// Unidades de medida aceptadas.
const (
	MeasureKg     Measure = "kg"
	MeasureG      Measure = "g"
	MeasureL      Measure = "l"
	MeasureMl     Measure = "ml"
	MeasurePcs    Measure = "pcs"
	MeasureBox    Measure = "box"
	MeasureBag    Measure = "bag"
	MeasureBottle Measure = "bottle"
	MeasureCan    Measure = "can"
	MeasurePack   Measure = "pack"
	MeasurePiece  Measure = "piece"
	MeasureOther  Measure = "other"
)

var validMeasures = map[Measure]struct{}{
	MeasureKg: {}, MeasureG: {}, MeasureL: {}, MeasureMl: {},
	MeasurePcs: {}, MeasureBox: {}, MeasureBag: {}, MeasureBottle: {},
	MeasureCan: {}, MeasurePack: {}, MeasurePiece: {}, MeasureOther: {},
}

// IsValid indica si la unidad pertenece al conjunto cerrado.
func (m Measure) IsValid() bool {
	_, ok := validMeasures[m]
	return ok
}

// ProductEntry un producto dentro del catálogo del usuario.
type ProductEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Measure     Measure `json:"measure"`
}

// ProductCatalog agregado: el catálogo completo de productos de un usuario.
// Existe a lo sumo un catálogo por usuario (PK user_id en la tabla).
// Los productos se agregan al final; nunca se reemplazan ni se eliminan.
type ProductCatalog struct {
	UserID    string
	Products  []ProductEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindProduct busca un producto por ID dentro del catálogo.
func (c *ProductCatalog) FindProduct(productID string) *ProductEntry {
	for i := range c.Products {
		if c.Products[i].ID == productID {
			return &c.Products[i]
		}
	}
	return nil
}
