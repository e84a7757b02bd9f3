package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesikahq/clinic-desk/internal/audit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(svc Service) *gin.Engine {
	r := gin.New()
	r.GET("/private", NewMiddleware(svc).RequireOperator(), func(c *gin.Context) {
		c.String(http.StatusOK, audit.OperatorFrom(c.Request.Context()))
	})
	return r
}

func TestRequireOperator(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Login(context.Background(), "frontdesk", "s3cret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		want     int
		wantBody string
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + resp.Token, want: http.StatusOK, wantBody: "frontdesk"},
	}

	r := newProtectedRouter(svc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireOperatorDisabled(t *testing.T) {
	r := newProtectedRouter(NewService(Config{Enabled: false}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
