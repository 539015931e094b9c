package dto

// ChatRequest mensaje libre del usuario para el endpoint de IA.
// ProductID opcional: si viene, el mensaje se interpreta en el contexto de ese
// producto y se habilita la intención add_stock.
type ChatRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=2000"`
	ProductID string `json:"product_id"`
}

// ChatResponse respuesta del asistente. El endpoint siempre responde 200 con
// un texto, incluso cuando el modelo devolvió basura.
type ChatResponse struct {
	Reply string `json:"reply"`
}
