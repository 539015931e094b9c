package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/pkg/logger"
)

func TestNew_JSONIncluyeElServicio(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "despensa-api",
		Writer:  &buf,
	})

	log.Info().Str("env", "production").Msg("iniciando aplicación")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "despensa-api", line["service"],
		"cada línea debe llevar el campo service fijo")
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "iniciando aplicación", line["message"])
	assert.NotEmpty(t, line["time"])
}

func TestNew_ElNivelFiltraEventosMenores(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Writer: &buf})

	log.Info().Msg("descartado")
	assert.Empty(t, buf.Bytes(), "info no debe emitirse con nivel warn")

	log.Warn().Msg("emitido")
	assert.NotEmpty(t, buf.Bytes())
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verboso", Writer: &buf})

	log.Debug().Msg("descartado")
	assert.Empty(t, buf.Bytes())

	log.Info().Msg("emitido")
	assert.NotEmpty(t, buf.Bytes())
}
