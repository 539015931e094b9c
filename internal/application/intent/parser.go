package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/application/ports"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// Mensajes de degradación: el chat nunca falla duro por culpa del modelo.
const (
	fallbackReply    = "No entendí tu mensaje. ¿Puedes reformularlo? Por ejemplo: \"agrega 2 kg que vencen el 2026-09-15\"."
	unavailableReply = "El asistente no está disponible en este momento. Intenta de nuevo en unos minutos."
)

const (
	maxOutputTokens = 512
	temperature     = 0.1 // baja temperatura para favorecer JSON literal
)

// promptWithProduct se usa cuando el mensaje llega en el contexto de un
// producto concreto: se habilita la intención add_stock.
const promptWithProduct = `Eres el asistente de una aplicación de inventario de despensa.
El usuario está viendo un producto concreto de su catálogo y te escribe un mensaje.
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código) con UNA de estas tres formas exactas:
{"intent":"add_stock","data":[{"expiryDate":"YYYY-MM-DD","qty":<número positivo>}, ...]}
{"intent":"add_product","data":[{"name":"<texto>","description":"<texto>","measure":"<unidad>"}, ...]}
{"intent":"chat","reply":"<respuesta breve en el idioma del usuario>"}

Reglas:
- add_stock: cuando el usuario quiere registrar stock nuevo del producto actual (cantidades y fechas de vencimiento).
- add_product: cuando el usuario quiere crear productos nuevos en su catálogo.
- chat: para cualquier otra cosa (preguntas, saludos, dudas).
- measure debe ser una de: kg, g, l, ml, pcs, box, bag, bottle, can, pack, piece, other.
- No incluyas texto fuera del JSON. Solo el objeto JSON.

Mensaje del usuario: %s`

// promptWithoutProduct variante sin producto en contexto: add_stock no está
// permitido porque no habría a qué producto asignar los lotes.
const promptWithoutProduct = `Eres el asistente de una aplicación de inventario de despensa.
El usuario te escribe un mensaje desde la vista general (sin un producto seleccionado).
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código) con UNA de estas dos formas exactas:
{"intent":"add_product","data":[{"name":"<texto>","description":"<texto>","measure":"<unidad>"}, ...]}
{"intent":"chat","reply":"<respuesta breve en el idioma del usuario>"}

Reglas:
- add_product: cuando el usuario quiere crear productos nuevos en su catálogo.
- chat: para cualquier otra cosa. Si pide registrar stock, responde con chat indicándole que primero abra el producto.
- measure debe ser una de: kg, g, l, ml, pcs, box, bag, bottle, can, pack, piece, other.
- No incluyas texto fuera del JSON. Solo el objeto JSON.

Mensaje del usuario: %s`

// Parser convierte un mensaje libre en una ParsedIntent tolerando salida
// malformada del generador de texto. Todo campo decodificado se revalida como
// si fuera input directo del usuario antes de llegar a una mutación.
type Parser struct {
	llm     ports.LLMService
	timeout time.Duration
}

// NewParser construye el parser. timeout acota la llamada al LLM; cero usa 10 s.
func NewParser(llm ports.LLMService, timeout time.Duration) *Parser {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Parser{llm: llm, timeout: timeout}
}

// Parse invoca al modelo y decodifica la intención. Nunca retorna error: toda
// falla del modelo o del decode degrada a KindUnrecognized con un mensaje
// amigable (el endpoint de chat no debe responder 500 por JSON inválido).
func (p *Parser) Parse(ctx context.Context, message string, hasProductContext bool) ParsedIntent {
	prompt := promptWithoutProduct
	if hasProductContext {
		prompt = promptWithProduct
	}
	prompt = fmt.Sprintf(prompt, message)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.llm.GenerateText(ctx, prompt, ports.GenerationOptions{
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	})
	if err != nil {
		return ParsedIntent{Kind: KindUnrecognized, Reply: unavailableReply}
	}
	return p.decode(raw, hasProductContext)
}

// rawIntent forma mínima que esperamos del modelo; Data se decodifica después
// según el valor de Intent.
type rawIntent struct {
	Intent string          `json:"intent"`
	Data   json.RawMessage `json:"data"`
	Reply  string          `json:"reply"`
}

// decode aplica la cadena de estrategias de parseo y valida la forma del payload.
func (p *Parser) decode(raw string, hasProductContext bool) ParsedIntent {
	text := stripFences(raw)

	var parsed *rawIntent
	for _, tier := range parseTiers {
		candidate := tier.apply(text)
		if candidate == "" {
			continue
		}
		var ri rawIntent
		if err := json.Unmarshal([]byte(candidate), &ri); err == nil {
			parsed = &ri
			break
		}
	}
	if parsed == nil {
		return ParsedIntent{Kind: KindUnrecognized, Reply: fallbackReply}
	}

	switch parsed.Intent {
	case "add_stock":
		if !hasProductContext {
			// Sin producto en contexto la intención no está permitida; el
			// dispatcher redirige al flujo con producto.
			return ParsedIntent{Kind: KindUnrecognized, Reply: fallbackReply}
		}
		return decodeStockPayload(parsed.Data)
	case "add_product":
		return decodeProductPayload(parsed.Data)
	case "chat":
		if strings.TrimSpace(parsed.Reply) == "" {
			return ParsedIntent{Kind: KindUnrecognized, Reply: fallbackReply}
		}
		return ParsedIntent{Kind: KindChat, Reply: parsed.Reply}
	default:
		return ParsedIntent{Kind: KindUnrecognized, Reply: fallbackReply}
	}
}

// decodeStockPayload valida la forma de data para add_stock: arreglo no vacío,
// fecha YYYY-MM-DD y qty > 0 en cada entrada.
func decodeStockPayload(data json.RawMessage) ParsedIntent {
	var entries []StockEntry
	if err := json.Unmarshal(data, &entries); err != nil || len(entries) == 0 {
		return ParsedIntent{Kind: KindUnrecognized, Reply: fallbackReply}
	}
	for i, e := range entries {
		if _, err := time.Parse("2006-01-02", e.ExpiryDate); err != nil {
			return unrecognizedEntry(i, "expiryDate debe ser una fecha YYYY-MM-DD")
		}
		if !e.Qty.GreaterThan(decimal.Zero) {
			return unrecognizedEntry(i, "qty debe ser un número mayor que 0")
		}
	}
	return ParsedIntent{Kind: KindAddStock, Stock: entries}
}

// decodeProductPayload valida la forma de data para add_product: arreglo no
// vacío, name/description no vacíos y measure dentro del enum cerrado.
func decodeProductPayload(data json.RawMessage) ParsedIntent {
	var specs []ProductSpec
	if err := json.Unmarshal(data, &specs); err != nil || len(specs) == 0 {
		return ParsedIntent{Kind: KindUnrecognized, Reply: fallbackReply}
	}
	for i, s := range specs {
		if strings.TrimSpace(s.Name) == "" {
			return unrecognizedEntry(i, "name es obligatorio")
		}
		if strings.TrimSpace(s.Description) == "" {
			return unrecognizedEntry(i, "description es obligatorio")
		}
		if !entity.Measure(s.Measure).IsValid() {
			return unrecognizedEntry(i, fmt.Sprintf("measure %q no es una unidad válida", s.Measure))
		}
	}
	return ParsedIntent{Kind: KindAddProduct, Products: specs}
}

func unrecognizedEntry(index int, reason string) ParsedIntent {
	return ParsedIntent{
		Kind:  KindUnrecognized,
		Reply: fmt.Sprintf("No pude procesar la entrada %d: %s.", index+1, reason),
	}
}

// ── Cadena de estrategias de parseo ──────────────────────────────────────────
// La cadena es data, no condicionales anidados: agregar un nivel de reparación
// nuevo es agregar un elemento a parseTiers.

type parseTier struct {
	name  string
	apply func(string) string
}

var parseTiers = []parseTier{
	{name: "directo", apply: func(s string) string { return s }},
	{name: "extraer-llaves", apply: extractBraceBlock},
	{name: "reparar", apply: repairJSON},
}

// braceBlockRe captura desde la primera '{' hasta la última '}' del texto.
var braceBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractBraceBlock extrae el primer bloque {...} de nivel superior.
func extractBraceBlock(text string) string {
	return strings.TrimSpace(braceBlockRe.FindString(text))
}

// trailingCommaRe coma colgante antes de cerrar objeto o arreglo.
var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// curlyQuoteReplacer normaliza comillas tipográficas que algunos modelos emiten.
var curlyQuoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, // “ ”
	"‘", `'`, "’", `'`, // ‘ ’
)

// repairJSON reparación ligera: extrae el bloque {...}, elimina comas
// colgantes y normaliza comillas tipográficas.
func repairJSON(text string) string {
	text = extractBraceBlock(text)
	if text == "" {
		return ""
	}
	text = curlyQuoteReplacer.Replace(text)
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// stripFences elimina la decoración de bloque de código markdown
// (```json ... ``` o ``` ... ```) que los modelos suelen añadir.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	idx := strings.Index(text, "```")
	if idx == -1 {
		return text
	}
	after := text[idx+3:]
	// Quitar la etiqueta de lenguaje de la línea de apertura (```json)
	if nl := strings.Index(after, "\n"); nl != -1 {
		after = after[nl+1:]
	}
	if close := strings.LastIndex(after, "```"); close != -1 {
		after = after[:close]
	}
	return strings.TrimSpace(after)
}
