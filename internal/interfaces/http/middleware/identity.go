package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ServiLut/tote-bag/internal/domain/profile"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/ServiLut/tote-bag/internal/infrastructure/auth"
	"github.com/ServiLut/tote-bag/internal/infrastructure/logger"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys for the authenticated caller
const (
	IdentityKey = "identity"
	ProfileKey  = "profile"
)

// TokenVerifier turns a bearer token into an identity
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// ProfileResolver loads the store profile of an identity user
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string) (*profile.Profile, error)
}

// Identity verifies the bearer token when one is sent. Missing or invalid
// tokens leave the request anonymous; protected routes reject it later.
func Identity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		ident, err := verifier.Verify(token)
		if err != nil {
			logger.L(c.Request.Context()).Debug("ignoring invalid bearer token", zap.Error(err))
			c.Next()
			return
		}
		setIdentity(c, ident)
		c.Next()
	}
}

func setIdentity(c *gin.Context, ident *auth.Identity) {
	c.Set(IdentityKey, ident)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), ident.UserID))
}

// GetIdentity returns the verified caller, or nil for anonymous requests
func GetIdentity(c *gin.Context) *auth.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if ident, ok := v.(*auth.Identity); ok {
			return ident
		}
	}
	return nil
}

// GetProfile returns the profile resolved by RequireProfile or
// OptionalProfile, or nil
func GetProfile(c *gin.Context) *profile.Profile {
	if v, ok := c.Get(ProfileKey); ok {
		if p, ok := v.(*profile.Profile); ok {
			return p
		}
	}
	return nil
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// RequireProfile rejects anonymous requests and callers without a
// profile, then stores the profile in the context
func RequireProfile(resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := resolveProfile(c, resolver); !ok {
			return
		}
		c.Next()
	}
}

// OptionalProfile resolves the profile of authenticated callers and lets
// anonymous ones through
func OptionalProfile(resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			c.Next()
			return
		}
		if _, ok := resolveProfile(c, resolver); !ok {
			return
		}
		c.Next()
	}
}

// RequireAdmin resolves the profile and rejects non-admins with 403
func RequireAdmin(resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := resolveProfile(c, resolver)
		if !ok {
			return
		}
		if !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeForbidden,
				"Admin role required",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}

func resolveProfile(c *gin.Context, resolver ProfileResolver) (*profile.Profile, bool) {
	ident := GetIdentity(c)
	if ident == nil {
		abortUnauthorized(c)
		return nil, false
	}
	p, err := resolver.Resolve(c.Request.Context(), ident.UserID)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	c.Set(ProfileKey, p)
	return p, true
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.ErrCodeUnauthorized,
		"Authentication required",
		GetRequestID(c),
	))
}

// abortWithError writes the envelope for a domain error, or a generic 500
func abortWithError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, domainErr.Message, GetRequestID(c)))
		return
	}
	logger.L(c.Request.Context()).Error("request failed", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal,
		"An internal error occurred",
		GetRequestID(c),
	))
}
