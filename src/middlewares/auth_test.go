package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/secure", AuthMiddleware, func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddlewareRejectsMalformedHeaders(t *testing.T) {
	router := newAuthRouter()

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"bare scheme":    "Bearer",
		"empty token":    "Bearer ",
		"extra parts":    "Bearer a b",
		"garbage token":  "Bearer not-a-jwt",
	}
	for name, header := range cases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/secure", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}
