package dto

// ProductInput entrada para un producto del lote de creación.
type ProductInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required,min=1,max=500"`
	Measure     string `json:"measure" validate:"required"`
}

// AddProductsRequest lote de productos a agregar al catálogo.
// La validación es todo-o-nada: una entrada inválida rechaza el lote completo.
type AddProductsRequest struct {
	Products []ProductInput `json:"products" validate:"required,min=1,dive"`
}

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Measure     string `json:"measure"`
}

// ProductListResponse catálogo del usuario.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
