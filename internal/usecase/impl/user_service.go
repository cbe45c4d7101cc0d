// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"taskapp/config"
	deliverycontext "taskapp/internal/delivery/context"
	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/domain/repository"
	"taskapp/internal/domain/service"
	"taskapp/internal/errors"
	"taskapp/internal/usecase"

	"go.uber.org/fx"
)

const defaultPasswordMinLength = 6

// userService implements the UserUsecase interface.
type userService struct {
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	passwordMinLength int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	minLength := defaultPasswordMinLength
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.PasswordMinLength > 0 {
		minLength = params.Config.Auth.PasswordMinLength
	}

	return &userService{
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		passwordMinLength: minLength,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account and signs the new user in.
// Hashing happens before the insert and outside any transaction.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting registration", slog.String("email", input.Email))

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingFields
	}
	if utf8.RuneCountInString(input.Password) < srv.passwordMinLength {
		return nil, domainerrors.ErrPasswordTooShort.WithMessage(
			fmt.Sprintf("Password must be at least %d characters", srv.passwordMinLength),
		)
	}

	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Registration rejected, email in use", slog.String("email", input.Email))

		return nil, domainerrors.ErrUserAlreadyExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to check existing user")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed.WithDetails(err.Error()), "failed to hash password")
	}

	newUser := &entity.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
	}
	// A concurrent registration with the same email surfaces here as ErrUserAlreadyExists.
	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	token, err := srv.issueToken(newUser)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("User registered", slog.Int64("userID", newUser.ID))

	return &usecase.AuthOutput{Token: token, User: newUser}, nil
}

// Login verifies email and password. Unknown email and wrong password are reported identically.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingFields.WithMessage("Email and password required")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "unknown email"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// Check password outside any transaction (scrypt is CPU and memory bound).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "password mismatch"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.issueToken(user)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Int64("userID", user.ID))

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// GetProfile loads the user behind a verified token.
func (srv *userService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user profile")
	}

	return user, nil
}

func (srv *userService) issueToken(user *entity.User) (string, error) {
	token, err := srv.tokenService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrTokenIssueFailed.WithDetails(err.Error()), "failed to generate token")
	}

	return token, nil
}
