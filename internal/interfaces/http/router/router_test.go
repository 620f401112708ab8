package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterRegister(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("sessions", "/sessions")
	r.Register(group)

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("sessions", "/sessions")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/sessions/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	r.Use(func(c *gin.Context) {
		order = append(order, "api middleware")
		c.Next()
	})

	group := NewDomainGroup("sessions", "/sessions")
	group.GET("/ping", func(c *gin.Context) {
		order = append(order, "handler")
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	t.Run("runs before group handlers", func(t *testing.T) {
		order = nil
		req := httptest.NewRequest("GET", "/api/v1/sessions/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"api middleware", "handler"}, order)
	})

	t.Run("does not touch routes outside the API group", func(t *testing.T) {
		engine.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "healthy")
		})

		order = nil
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, order)
	})
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/catalog")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/catalog", g.Prefix())
	})

	t.Run("registers each HTTP method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("orders", "/orders")

		echo := func(body string) gin.HandlerFunc {
			return func(c *gin.Context) { c.String(http.StatusOK, body) }
		}
		g.GET("/items", echo("get"))
		g.POST("/items", echo("post"))
		g.PUT("/items/:id", echo("put"))
		g.PATCH("/items/:id", echo("patch"))
		g.DELETE("/items/:id", echo("delete"))

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		tests := []struct {
			method string
			path   string
			body   string
		}{
			{"GET", "/api/v1/orders/items", "get"},
			{"POST", "/api/v1/orders/items", "post"},
			{"PUT", "/api/v1/orders/items/1", "put"},
			{"PATCH", "/api/v1/orders/items/1", "patch"},
			{"DELETE", "/api/v1/orders/items/1", "delete"},
		}
		for _, tt := range tests {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, tt.method)
			assert.Equal(t, tt.body, w.Body.String())
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("payroll", "/payroll")
		g.Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		g.GET("/statements", func(c *gin.Context) {
			c.String(http.StatusOK, "statements")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/payroll/statements", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("nests subgroups under parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("sessions", "/sessions")
		sub := g.Group("certificates", "/:id/certificates")
		sub.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "certs for "+c.Param("id"))
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/sessions/abc/certificates", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "certs for abc", w.Body.String())
	})

	t.Run("parent middleware guards subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("sessions", "/sessions")
		g.Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		})
		sub := g.Group("certificates", "/:id/certificates")
		sub.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "certs")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/sessions/abc/certificates", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
