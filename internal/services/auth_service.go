package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/middleware"
	"teamdesk/internal/models"
	"teamdesk/internal/repositories"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error)
	HashPassword(plain string) (string, error)
}

type authService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(users repositories.UserRepository, jwtSecret []byte, accessTTL time.Duration) AuthService {
	return &authService{
		users:     users,
		jwtSecret: jwtSecret,
		accessTTL: accessTTL,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	if existing != nil {
		return nil, "", apperrors.Conflict("email already registered")
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: &hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", apperrors.Internal(err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

func (s *authService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
