package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Instancia única: el validador cachea la metadata de structs y es seguro para
// uso concurrente.
var v = validator.New(validator.WithRequiredStructEnabled())

// Struct valida las etiquetas `validate` de un struct y devuelve un error
// legible con los campos ofensivos, o nil si todo es válido.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s no cumple la regla %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validación: %s", strings.Join(parts, "; "))
}
