package middleware

import (
	"log/slog"

	deliverycontext "taskapp/internal/delivery/context"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/domain/service"
	"taskapp/internal/infra/auth"
	"taskapp/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const headerAuthorization = "Authorization"

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	Metrics      *metrics.Metrics `optional:"true"`
	Logger       *slog.Logger
}

// AuthMiddleware gates protected routes behind a valid bearer token.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: params.TokenService,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}
}

// Authenticate validates the bearer token and attaches the caller's identity to the
// request. A missing or malformed header yields ErrNoToken; any verification failure
// yields ErrInvalidToken. The handler is never reached in either case.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := auth.ExtractBearerToken(c.Request().Header.Get(headerAuthorization))
		if err != nil {
			m.reject(c, metrics.ReasonNoToken, err)

			return domainerrors.ErrNoToken
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			m.reject(c, metrics.ReasonInvalidToken, err)

			return domainerrors.ErrInvalidToken
		}

		deliverycontext.SetIdentity(c, deliverycontext.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
		})

		return next(c)
	}
}

func (m *AuthMiddleware) reject(c echo.Context, reason string, err error) {
	if m.metrics != nil {
		m.metrics.ObserveAuthFailure(reason)
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Debug("Request rejected by auth gate",
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
}
