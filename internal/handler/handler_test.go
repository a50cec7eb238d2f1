package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWriteJSON_EncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]interface{}{"ch": make(chan int)}, logger)

	assert.Contains(t, buf.String(), "failed to encode response")
}

func TestWriteSuccess_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeSuccess(w, http.StatusOK, "order", map[string]string{"id": "o1"}, zerolog.Nop())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "order": {"id": "o1"}}`, w.Body.String())
}
