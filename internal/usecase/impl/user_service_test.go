package impl

import (
	"context"
	"testing"

	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/domain/repository"
	"taskapp/internal/errors"
	mockRepo "taskapp/internal/mocks/repository"
	mockSvc "taskapp/internal/mocks/service"
	"taskapp/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service      usecase.UserUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T, passwordMinLength int) userServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewUserService(UserServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Config:       newTestConfig(passwordMinLength),
		Logger:       newDiscardLogger(),
	})

	return userServiceFixtures{
		service:      service,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Ann", Email: "a@example.com", Password: "secret1"}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("salt.key", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			assert.Equal(t, "salt.key", user.PasswordHash)
			user.ID = 1
		}).
		Return(nil)
	fx.tokenService.EXPECT().GenerateToken(int64(1), input.Email).Return("T1", nil)

	output, err := fx.service.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "T1", output.Token)
	assert.Equal(t, int64(1), output.User.ID)
	assert.Equal(t, "Ann", output.User.Name)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	inputs := []*usecase.RegisterInput{
		{Email: "a@example.com", Password: "secret1"},
		{Name: "Ann", Password: "secret1"},
		{Name: "Ann", Email: "a@example.com"},
	}

	for _, input := range inputs {
		fx := createTestUserService(t, 6)
		output, err := fx.service.Register(context.Background(), input)
		assert.Nil(t, output)
		assert.ErrorIs(t, err, domainerrors.ErrMissingFields)
	}
}

func TestUserService_Register_PasswordLength(t *testing.T) {
	fx := createTestUserService(t, 6)

	output, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name: "Ann", Email: "a@example.com", Password: "12345",
	})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordTooShort)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Password must be at least 6 characters", appErr.Message())
}

func TestUserService_Register_PasswordLengthCountsCharacters(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	// six runes, twelve bytes
	input := &usecase.RegisterInput{Name: "Ann", Email: "a@example.com", Password: "密码密码密码"}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("salt.key", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(nil)
	fx.tokenService.EXPECT().GenerateToken(mock.Anything, input.Email).Return("T", nil)

	_, err := fx.service.Register(ctx, input)
	require.NoError(t, err)

	short := createTestUserService(t, 7)
	_, err = short.service.Register(ctx, input)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Password must be at least 7 characters", appErr.Message())
}

func TestUserService_Register_EmailInUse(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Ann", Email: "a@example.com", Password: "secret1"}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(&entity.User{ID: 3, Email: input.Email}, nil)

	output, err := fx.service.Register(ctx, input)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Register_ConcurrentDuplicate(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Ann", Email: "a@example.com", Password: "secret1"}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("salt.key", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).
		Return(domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists"))

	_, err := fx.service.Register(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Register_HashFailure(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Ann", Email: "a@example.com", Password: "secret1"}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.New("entropy exhausted"))

	_, err := fx.service.Register(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	user := &entity.User{ID: 5, Email: "a@example.com", Name: "Ann", PasswordHash: "salt.key"}

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("secret1", "salt.key").Return(true)
	fx.tokenService.EXPECT().GenerateToken(int64(5), user.Email).Return("T2", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "T2", output.Token)
	assert.Same(t, user, output.User)
}

func TestUserService_Login_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	user := &entity.User{ID: 5, Email: "a@example.com", PasswordHash: "salt.key"}

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("wrong", "salt.key").Return(false)
	fx.userRepo.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	_, wrongPassword := fx.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "wrong"})
	_, unknownEmail := fx.service.Login(ctx, &usecase.LoginInput{Email: "nobody@example.com", Password: "wrong"})

	assert.ErrorIs(t, wrongPassword, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domainerrors.ErrInvalidCredentials)

	var a, b domainerrors.AppError
	require.ErrorAs(t, wrongPassword, &a)
	require.ErrorAs(t, unknownEmail, &b)
	assert.Equal(t, a.Message(), b.Message())
}

func TestUserService_Login_MissingFields(t *testing.T) {
	fx := createTestUserService(t, 6)

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Email: "a@example.com"})
	assert.ErrorIs(t, err, domainerrors.ErrMissingFields)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Email and password required", appErr.Message())
}

func TestUserService_Login_TokenFailure(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()
	user := &entity.User{ID: 5, Email: "a@example.com", PasswordHash: "salt.key"}

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("secret1", "salt.key").Return(true)
	fx.tokenService.EXPECT().GenerateToken(int64(5), user.Email).Return("", errors.New("sign failed"))

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "secret1"})
	assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
}

func TestUserService_GetProfile(t *testing.T) {
	fx := createTestUserService(t, 6)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, int64(5)).Return(&entity.User{ID: 5, Name: "Ann"}, nil)
	fx.userRepo.EXPECT().FindByID(ctx, int64(6)).Return(nil, repository.ErrUserNotFound)

	user, err := fx.service.GetProfile(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = fx.service.GetProfile(ctx, 6)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestNewUserService_DefaultPasswordMinLength(t *testing.T) {
	service := NewUserService(UserServiceParams{Logger: newDiscardLogger()}).(*userService)
	assert.Equal(t, defaultPasswordMinLength, service.passwordMinLength)
}
