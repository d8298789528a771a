package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const openAPIPath = "/openapi.json"

//go:embed openapi.yaml
var openAPIDocument []byte

// LoadOpenAPI parses and validates the embedded API description.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

func registerAPIDoc(e *echo.Echo, doc *openapi3.T) {
	e.GET(openAPIPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL(openAPIPath)))
}
