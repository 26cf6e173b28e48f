package supabase

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	apperrors "github.com/report-microservice/internal/pkg/errors"
)

type sessionClient struct {
	secret []byte
	logger *zap.Logger
}

// NewSessionClient создает верификатор Supabase-сессий.
// Токены выписывает Supabase Auth (HS256); сервис их только проверяет
// и достаёт id/роль, сам сессии не выдаёт.
func NewSessionClient(cfg *config.SessionConfig, logger *zap.Logger) repository.SessionRepository {
	return &sessionClient{
		secret: []byte(cfg.JWTSecret),
		logger: logger,
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role        string `json:"role"`
	AppMetadata struct {
		Role string `json:"user_role"`
		Zone string `json:"zone"`
	} `json:"app_metadata"`
}

// GetCurrentUser валидирует токен и возвращает пользователя
func (s *sessionClient) GetCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		s.logger.Debug("JWT validation failed", zap.Error(err))
		return nil, apperrors.ErrUnauthorized.Wrap(err)
	}

	if claims.Subject == "" {
		return nil, apperrors.ErrUnauthorized
	}

	// user_role из app_metadata точнее, чем supabase-роль "authenticated"
	role := domain.UserRole(claims.AppMetadata.Role)
	if role == "" {
		role = domain.RoleCitizen
	}

	return &domain.User{
		ID:   claims.Subject,
		Role: role,
		Zone: claims.AppMetadata.Zone,
	}, nil
}
