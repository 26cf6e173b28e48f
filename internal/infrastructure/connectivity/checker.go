package connectivity

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/domain/repository"
)

// probeTimeout - единственный коллаборатор с явным таймаутом:
// проба обрывается через 5 секунд
const probeTimeout = 5 * time.Second

type checker struct {
	httpClient *http.Client
	healthURL  string
	logger     *zap.Logger
}

// NewChecker создает пробу доступности облачного бэкенда
func NewChecker(cfg *config.ConnectivityConfig, logger *zap.Logger) repository.ConnectivityRepository {
	return &checker{
		httpClient: &http.Client{Timeout: probeTimeout},
		healthURL:  cfg.HealthURL,
		logger:     logger,
	}
}

// IsReachable выполняет HEAD-запрос к health-эндпоинту.
// HTTP 401 считается "доступен": сервер жив, просто требует авторизацию.
func (c *checker) IsReachable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, c.healthURL, nil)
	if err != nil {
		c.logger.Warn("Failed to create connectivity probe", zap.Error(err))
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Connectivity probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	reachable := resp.StatusCode < 400 || resp.StatusCode == http.StatusUnauthorized
	if !reachable {
		c.logger.Warn("Connectivity probe got unexpected status",
			zap.Int("status_code", resp.StatusCode))
	}

	return reachable
}
