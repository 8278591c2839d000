package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"craft-store/internal/config"
	"craft-store/internal/guard"
	"craft-store/internal/model"
	"craft-store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid session token")
)

type Claims struct {
	jwt.RegisteredClaims
	Role                 model.Role `json:"role"`
	RequirePasswordReset bool       `json:"require_password_reset"`
}

type AuthService interface {
	SignUp(ctx context.Context, email, name, password string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	// ResetPassword atomically swaps the password hash and clears the
	// forced-reset flag, then issues a fresh token without the flag.
	ResetPassword(ctx context.Context, userID, newPassword string) (string, error)
	ResolveSession(token string) (*guard.Session, error)
}

type authServiceImpl struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, authCfg *config.Auth) AuthService {
	return &authServiceImpl{
		db:       db,
		userRepo: userRepo,
		secret:   []byte(authCfg.JWTSecret),
		tokenTTL: authCfg.TokenTTL,
	}
}

func (s *authServiceImpl) SignUp(ctx context.Context, email, name, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.buildToken(user)
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, userID, newPassword string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.userRepo.UpdatePasswordAndClearReset(ctx, tx, userID, string(hash))
	})
	if err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reload user: %w", err)
	}

	return s.buildToken(user)
}

func (s *authServiceImpl) ResolveSession(tokenString string) (*guard.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &guard.Session{
		UserID:               claims.Subject,
		Role:                 claims.Role,
		RequirePasswordReset: claims.RequirePasswordReset,
	}, nil
}

func (s *authServiceImpl) buildToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:                 user.Role,
		RequirePasswordReset: user.RequirePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
