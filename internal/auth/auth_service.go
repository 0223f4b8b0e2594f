package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/guard"
	"go-leave/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// Account is the slice of an identity record login needs. Each role's
// repository is adapted to an AccountLookup at wiring time so auth does
// not depend on the identity packages.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
}

type AccountLookup func(ctx context.Context, email string) (Account, error)

type Service interface {
	Login(ctx context.Context, role guard.Role, req LoginRequest) (LoginResponse, error)
}

type service struct {
	lookups map[guard.Role]AccountLookup
	logger  *zap.Logger
}

func NewService(lookups map[guard.Role]AccountLookup, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{lookups: lookups, logger: l}
}

func (s *service) Login(ctx context.Context, role guard.Role, req LoginRequest) (LoginResponse, error) {
	lookup, ok := s.lookups[role]
	if !ok {
		return LoginResponse{}, apperror.ErrInternal
	}

	acct, err := lookup(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("login rejected", zap.String("role", string(role)))
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.String("role", string(role)), zap.Error(err))
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", zap.String("role", string(role)))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := signToken(acct, role)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return LoginResponse{}, apperror.ErrInternal
	}

	s.logger.Info("login success",
		zap.String("role", string(role)),
		zap.Int64("user_id", acct.ID),
	)
	return LoginResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func signToken(acct Account, role guard.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   acct.ID,
		"user_type": string(role),
		"email":     acct.Email,
		"iat":       now.Unix(),
		"exp":       now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
