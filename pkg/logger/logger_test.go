package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/pkg/logger"
)

func TestNewWithWriter_EscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info")
	log.Info().Str("op", "credit").Msg("ledger commit")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "credit", line["op"])
	assert.Equal(t, "ledger commit", line["message"])
}

func TestNewWithWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")
	log.Debug().Msg("oculto")
	assert.Empty(t, buf.String())
}

func TestNewWithWriter_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "ruidoso")
	log.Debug().Msg("oculto")
	assert.Empty(t, buf.String())
	log.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info").Component("ledger")
	log.Info().Msg("commit")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ledger", line["component"])
}

func TestComponent_ReceptorNil(t *testing.T) {
	var l *logger.Logger
	assert.NotPanics(t, func() { l.Component("x").Info().Msg("nada") })
}
