package middleware

import (
	"context"

	"consultly/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JWTSuccessHandler runs after echo-jwt has validated the token and copies
// the identity claims into the request context.
func JWTSuccessHandler(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}

	ctx := c.Request().Context()
	if sub, ok := claims["sub"].(string); ok {
		if userID, err := uuid.Parse(sub); err == nil {
			ctx = context.WithValue(ctx, common.UserIDKey, userID)
		}
	}
	if tid, ok := claims["tenant_id"].(string); ok {
		if tenantID, err := uuid.Parse(tid); err == nil {
			ctx = context.WithValue(ctx, common.TenantIDKey, tenantID)
		}
	}
	c.SetRequest(c.Request().WithContext(ctx))
}
