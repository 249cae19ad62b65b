package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-api/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"ruido", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.ParseLevel(tt.in), tt.in)
	}
}

func TestNewWithWriter_FiltraPorNivelYEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "warn")

	l.Info().Msg("no debe salir")
	l.Warn().Str("categoria", "ELEC").Msg("rechazada")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "ELEC", entry["categoria"])
	assert.Equal(t, "rechazada", entry["message"])
}

func TestNew_ConArchivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	l := logger.New(logger.Config{Env: "production", Level: "info", File: path, MaxSizeMB: 1})
	l.Info().Msg("arranque")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"arranque"`)
}
