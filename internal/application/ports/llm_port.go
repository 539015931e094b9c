package ports

import "context"

// GenerationOptions parámetros de muestreo para la llamada al modelo.
// MaxTokens acota la salida; Temperature baja favorece JSON literal.
type GenerationOptions struct {
	MaxTokens   int
	Temperature float32
}

// LLMService define el puerto de salida hacia el generador de texto externo.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// El servicio se trata como siempre-falible: red, cuota, timeout o salida que
// no es JSON; el caller decide cómo degradar.
type LLMService interface {
	// GenerateText envía el prompt y devuelve el texto crudo generado.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}
