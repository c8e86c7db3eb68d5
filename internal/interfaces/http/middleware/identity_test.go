package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ServiLut/tote-bag/internal/domain/profile"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/ServiLut/tote-bag/internal/infrastructure/auth"
	"github.com/ServiLut/tote-bag/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(token string) (*auth.Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, userID string) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func newVerifier() *mockVerifier {
	v := new(mockVerifier)
	v.On("Verify", "good").Return(&auth.Identity{UserID: "user-1", Email: "ana@example.com"}, nil)
	v.On("Verify", "bad").Return(nil, auth.ErrInvalidToken)
	return v
}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdentity(t *testing.T) {
	var ident *auth.Identity
	var ctxUser string
	router := gin.New()
	router.Use(Identity(newVerifier()))
	router.GET("/test", func(c *gin.Context) {
		ident = GetIdentity(c)
		ctxUser = logger.GetUserID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		w := serve(router, "good")

		assert.Equal(t, http.StatusOK, w.Code)
		if assert.NotNil(t, ident) {
			assert.Equal(t, "user-1", ident.UserID)
		}
		assert.Equal(t, "user-1", ctxUser)
	})

	t.Run("invalid token stays anonymous", func(t *testing.T) {
		w := serve(router, "bad")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, ident)
	})

	t.Run("no header stays anonymous", func(t *testing.T) {
		w := serve(router, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, ident)
	})
}

func TestRequireAuth(t *testing.T) {
	router := gin.New()
	router.Use(Identity(newVerifier()), RequireAuth())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, "good").Code)

	w := serve(router, "bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}

func TestRequireProfile(t *testing.T) {
	customer := &profile.Profile{BaseEntity: shared.NewBaseEntity(), UserID: "user-1", Role: profile.RoleCustomer}

	t.Run("stores the resolved profile", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Resolve", mock.Anything, "user-1").Return(customer, nil)

		var got *profile.Profile
		router := gin.New()
		router.Use(Identity(newVerifier()), RequireProfile(resolver))
		router.GET("/test", func(c *gin.Context) {
			got = GetProfile(c)
			c.Status(http.StatusOK)
		})

		assert.Equal(t, http.StatusOK, serve(router, "good").Code)
		assert.Equal(t, customer, got)
	})

	t.Run("missing profile is unauthorized", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Resolve", mock.Anything, "user-1").
			Return(nil, shared.NewDomainError(shared.CodeUnauthorized, "Profile not found"))

		router := gin.New()
		router.Use(Identity(newVerifier()), RequireProfile(resolver))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := serve(router, "good")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Profile not found")
	})

	t.Run("resolver failure is a 500", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Resolve", mock.Anything, "user-1").Return(nil, errors.New("db down"))

		router := gin.New()
		router.Use(Identity(newVerifier()), RequireProfile(resolver))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := serve(router, "good")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func TestOptionalProfile(t *testing.T) {
	customer := &profile.Profile{BaseEntity: shared.NewBaseEntity(), UserID: "user-1"}
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, "user-1").Return(customer, nil)

	var got *profile.Profile
	router := gin.New()
	router.Use(Identity(newVerifier()), OptionalProfile(resolver))
	router.GET("/test", func(c *gin.Context) {
		got = GetProfile(c)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, "").Code)
	assert.Nil(t, got)

	assert.Equal(t, http.StatusOK, serve(router, "good").Code)
	assert.Equal(t, customer, got)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		role   profile.Role
		token  string
		status int
	}{
		{"admin passes", profile.RoleAdmin, "good", http.StatusOK},
		{"customer is forbidden", profile.RoleCustomer, "good", http.StatusForbidden},
		{"anonymous is unauthorized", profile.RoleAdmin, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(mockResolver)
			resolver.On("Resolve", mock.Anything, "user-1").
				Return(&profile.Profile{BaseEntity: shared.NewBaseEntity(), UserID: "user-1", Role: tt.role}, nil)

			reached := false
			router := gin.New()
			router.Use(Identity(newVerifier()), RequireAdmin(resolver))
			router.GET("/test", func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			w := serve(router, tt.token)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.status == http.StatusOK, reached)
		})
	}
}
