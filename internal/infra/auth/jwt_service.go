package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskapp/config"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/domain/service"
	"taskapp/internal/errors"
)

const bearerScheme = "Bearer"

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // Secret key for signing session tokens.
	ttl    time.Duration // Time-to-live for session tokens.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It refuses to build a service without a signing secret.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := cfg.JWT.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &jwtService{
		secret: []byte(cfg.JWT.Secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// GenerateToken signs a HS256 token carrying the user's id and email.
func (s *jwtService) GenerateToken(userID int64, email string) (string, error) {
	issuedAt := s.now()
	claims := service.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// ValidateToken checks signature, algorithm and expiry. Every failure matches
// domainerrors.ErrInvalidToken and carries no details of its own.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrInvalidToken.WrapMessage(causeOf(err))
	}
	if claims.UserID <= 0 {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("token carries no user id")
	}

	return claims, nil
}

// TokenTTL returns the configured duration for session tokens.
func (s *jwtService) TokenTTL() time.Duration {
	return s.ttl
}

// ExtractBearerToken returns the credential of an Authorization header of the
// form "Bearer <token>". Anything else counts as no token at all.
func ExtractBearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != bearerScheme || token == "" || strings.ContainsAny(token, " \t") {
		return "", domainerrors.ErrNoToken
	}

	return token, nil
}

// causeOf names why a token was refused. It only reaches the logs; callers see
// the same INVALID_TOKEN body whatever the cause.
func causeOf(err error) string {
	if err == nil {
		return "token is not valid"
	}

	return err.Error()
}
