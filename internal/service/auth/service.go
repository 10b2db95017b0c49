package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/salon-booking/internal/service/auth/models"
)

const (
	// AdminSubject subject токена единственного администратора салона
	AdminSubject = "admin"

	pinHashCost = 12
)

// Claims данные токена администратора
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service вход администратора по PIN и проверка выданных токенов
type Service struct {
	pinHash []byte
	secret  []byte
	ttl     time.Duration
	logger  Logger
	now     func() time.Time
}

// NewService создает сервис авторизации. pinHash - bcrypt-хеш PIN из конфигурации.
func NewService(pinHash, secret string, ttl time.Duration, logger Logger) *Service {
	return &Service{
		pinHash: []byte(pinHash),
		secret:  []byte(secret),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// HashPin строит bcrypt-хеш PIN для auth.admin_pin_hash
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), pinHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login проверяет PIN и выдает подписанный HS256 токен
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if len(s.pinHash) == 0 {
		s.logger.Warn("Login: admin PIN is not configured")
		return nil, ErrInvalidPin
	}

	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(req.Pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn("Login: wrong PIN")
			return nil, ErrInvalidPin
		}
		s.logger.Error("Login: failed to compare PIN hash: %v", err)
		return nil, fmt.Errorf("%w: Login - compare hash: %v", ErrInternal, err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Role: AdminSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("Login: failed to sign token: %v", err)
		return nil, fmt.Errorf("%w: Login - sign token: %v", ErrInternal, err)
	}

	s.logger.Info("Login: admin token issued, jti=%s", claims.ID)
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt.UTC().Truncate(time.Second)}, nil
}

// Verify проверяет подпись, срок действия и subject токена
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != AdminSubject {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
