package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

// stubAuth accepts the single token "good" as user 7.
type stubAuth struct {
	services.AuthService
	seen []string
}

func (s *stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	s.seen = append(s.seen, token)
	if token != "good" {
		return ctx, domainagg.NewError(domainagg.CodeUnauthenticated, "Auth.Token", "invalid token", nil)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: 7, TokenID: 1}), nil
}

func (s *stubAuth) GetAccessTTL() time.Duration { return time.Hour }

func newAuthRouter(auth *stubAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), auth)
	r := gin.New()
	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"viewer": ctxutil.ViewerID(c.Request.Context())})
	}
	r.GET("/required", am.RequireAuth(), echo)
	r.GET("/optional", am.OptionalAuth(), echo)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantViewer int64
	}{
		{"required without header", "/required", "", http.StatusUnauthorized, 0},
		{"required with token scheme", "/required", "Token good", http.StatusOK, 7},
		{"required with bearer scheme", "/required", "Bearer good", http.StatusOK, 7},
		{"required with bad token", "/required", "Token nope", http.StatusUnauthorized, 0},
		{"required with unknown scheme", "/required", "Basic Z29vZA==", http.StatusUnauthorized, 0},
		{"optional anonymous", "/optional", "", http.StatusOK, 0},
		{"optional with token", "/optional", "token good", http.StatusOK, 7},
		{"optional with bad token", "/optional", "Token nope", http.StatusUnauthorized, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(&stubAuth{})
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if tc.wantStatus != http.StatusOK {
				if _, ok := body["errors"]; !ok {
					t.Fatalf("error body missing errors key: %v", body)
				}
				return
			}
			if got := int64(body["viewer"].(float64)); got != tc.wantViewer {
				t.Fatalf("viewer: got=%d want=%d", got, tc.wantViewer)
			}
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "abc-123" || rec.Header().Get(headerRequestID) != "abc-123" {
		t.Fatalf("inbound request id not propagated: %q", rec.Body.String())
	}
	if rec.Header().Get(headerTraceID) == "" {
		t.Fatalf("trace id header missing")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "bad id\twith spaces")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(headerRequestID); got == "" || got == "bad id\twith spaces" {
		t.Fatalf("unsafe inbound id should be replaced, got %q", got)
	}
}
