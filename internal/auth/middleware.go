package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LACRA/agritrace360/utils"
)

const authContextKey = "authContext"

// Middleware verifies the bearer token, if any, and injects the AuthContext.
// Requests without a valid token proceed without one; handlers that need an
// account sit behind RequireAuth.
//
// A verified token whose account has no stored profile gets an empty profile.
func Middleware(authService *AuthService, tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		accountID, expiresAt, err := tokens.FromHeader(header)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "failed to verify bearer token",
				"error", err,
				"auth_header_length", len(header),
			)
			c.Next()
			return
		}

		account, err := authService.GetAccount(c.Request.Context(), accountID)
		if err != nil {
			if !errors.Is(err, ErrAccountNotFound) {
				slog.WarnContext(c.Request.Context(), "failed to load portal account",
					"account_id", accountID,
					"error", err,
				)
				c.Next()
				return
			}
			account = &PortalAccount{AccountID: accountID, Profile: json.RawMessage(`{}`)}
		}

		c.Set(authContextKey, &AuthContext{PortalAccount: account, ExpiresAt: expiresAt})
		c.Next()
	}
}

// GetAuthContext returns the AuthContext of the request, or nil when the
// request carried no valid token.
func GetAuthContext(c *gin.Context) *AuthContext {
	value, ok := c.Get(authContextKey)
	if !ok {
		return nil
	}
	authCtx, ok := value.(*AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

// RequireAuth rejects requests that reach it without an AuthContext.
// Mount it after Middleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAuthContext(c) == nil {
			slog.WarnContext(c.Request.Context(), "authentication required but not provided",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			utils.WriteErrorCode(c, http.StatusUnauthorized, utils.CodeUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}
