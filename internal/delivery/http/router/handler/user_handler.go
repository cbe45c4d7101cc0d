// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	deliverycontext "taskapp/internal/delivery/context"
	"taskapp/internal/delivery/http/response"
	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/errors"
	"taskapp/internal/infra/metrics"
	"taskapp/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	flowRegister = "register"
	flowLogin    = "login"
)

type registerRequest struct {
	Name     string `json:"name" validate:"max=255"`
	Email    string `json:"email" validate:"max=255"`
	Password string `json:"password" validate:"max=1024"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"max=255"`
	Password string `json:"password" validate:"max=1024"`
}

// userResponse is the public view of an account. The password never leaves the server.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

type meResponse struct {
	User *userResponse `json:"user"`
}

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUsecase usecase.UserUsecase
	Metrics     *metrics.Metrics `optional:"true"`
	Logger      *slog.Logger
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc      usecase.UserUsecase
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		uc:      params.UserUsecase,
		metrics: params.Metrics,
		logger:  params.Logger,
	}
}

// Register handles the account registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.tokenIssued(c, flowRegister, output.User)

	return c.JSON(http.StatusCreated, toAuthResponse(output))
}

// Login handles the email and password login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.tokenIssued(c, flowLogin, output.User)

	return c.JSON(http.StatusOK, toAuthResponse(output))
}

// Me returns the account of the authenticated caller.
func (h *UserHandler) Me(c echo.Context) error {
	identity, ok := deliverycontext.IdentityFrom(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	user, err := h.uc.GetProfile(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, meResponse{User: toUserResponse(user)})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Status{Status: "ok"})
}

func (h *UserHandler) tokenIssued(c echo.Context, flow string, user *entity.User) {
	if h.metrics != nil {
		h.metrics.ObserveTokenIssued(flow)
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("Session token issued",
		slog.String("flow", flow),
		slog.Int64("user_id", user.ID),
	)
}

func toUserResponse(user *entity.User) *userResponse {
	if user == nil {
		return nil
	}

	return &userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func toAuthResponse(output *usecase.AuthOutput) authResponse {
	return authResponse{
		Token: output.Token,
		User:  toUserResponse(output.User),
	}
}

// bindAndValidate decodes the JSON body and checks field limits. Malformed bodies
// are reported as validation failures rather than echo's generic 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(bindDetails(err))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	return nil
}

func bindDetails(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if inner := httpErr.Internal; inner != nil {
			return inner.Error()
		}
	}

	return err.Error()
}
