package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

func TestComponent_EtiquetaElCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "info").Component("reclaim")

	log.Info().Int("expired", 3).Msg("barrido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reclaim", entry["component"])
	assert.Equal(t, "barrido", entry["message"])
	assert.EqualValues(t, 3, entry["expired"])
}

func TestNewWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "warn")

	log.Info().Msg("oculto")
	log.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewWriter_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "verboso")

	log.Debug().Msg("oculto")
	log.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "visible")
}

func TestComponent_LoggerNilDevuelveNop(t *testing.T) {
	var log *logger.Logger
	assert.NotPanics(t, func() {
		log.Component("cart").Info().Msg("descartado")
	})
}
