package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	httpadapter "marketplace/internal/adapters/in/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOpenAPI_DocumentsEveryRoute(t *testing.T) {
	// Given
	doc, err := httpadapter.LoadOpenAPI(t.Context())
	require.NoError(t, err)
	e := newEcho(t, new(MockOrderService))

	// When / Then
	documented := 0
	for _, route := range e.Routes() {
		if route.Method != http.MethodGet && route.Method != http.MethodPost && route.Method != http.MethodPatch {
			continue
		}
		if route.Path == "/openapi.json" || strings.HasPrefix(route.Path, "/swagger") {
			continue
		}

		path := strings.ReplaceAll(route.Path, ":id", "{id}")
		item := doc.Paths.Find(path)
		require.NotNil(t, item, "undocumented path %s", path)
		assert.NotNil(t, item.GetOperation(route.Method), "undocumented operation %s %s", route.Method, path)
		documented++
	}
	assert.Equal(t, 6, documented)
}

func TestOpenAPIEndpoint(t *testing.T) {
	rec := serve(newEcho(t, new(MockOrderService)), http.MethodGet, "/openapi.json", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/api/v1/orders/{id}/process")
}

func TestSwaggerUI(t *testing.T) {
	rec := serve(newEcho(t, new(MockOrderService)), http.MethodGet, "/swagger/index.html", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.json")
}
