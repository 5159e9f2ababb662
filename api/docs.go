package api

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.json
var openAPISpec []byte

// OpenAPI serves the API description rendered by the swagger UI.
func OpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", openAPISpec)
}
