package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	apperrors "github.com/report-microservice/internal/pkg/errors"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает новый клиент для backend-детектора повреждений
func NewClient(cfg *config.ClassifierConfig, logger *zap.Logger) repository.ClassifierRepository {
	return &client{
		httpClient: &http.Client{
			// 0 = без клиентского таймаута, работает дефолт транспорта
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// detectResponse - ответ эндпоинта /detect
type detectResponse struct {
	Success   bool `json:"success"`
	Detection *struct {
		DamageType  string              `json:"damageType"`
		Confidence  float64             `json:"confidence"`
		Severity    string              `json:"severity"`
		BoundingBox *domain.BoundingBox `json:"boundingBox"`
	} `json:"detection"`
}

// Classify отправляет фото детектору и возвращает результат классификации
func (c *client) Classify(ctx context.Context, photo *domain.Photo) (*domain.AIDetection, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", photo.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, fmt.Errorf("failed to write photo data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/detect", c.baseURL)

	c.logger.Debug("Calling damage classifier",
		zap.String("url", url),
		zap.Int("photo_bytes", len(photo.Data)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Classifier request failed", zap.Error(err))
		return nil, apperrors.ErrClassifierFailed.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("Classifier returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, apperrors.ErrClassifierFailed.Wrap(
			fmt.Errorf("classifier error: status %d", resp.StatusCode))
	}

	var detectResp detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&detectResp); err != nil {
		c.logger.Error("Failed to decode classifier response", zap.Error(err))
		return nil, apperrors.ErrClassifierFailed.Wrap(err)
	}

	if !detectResp.Success || detectResp.Detection == nil {
		return nil, apperrors.ErrClassifierFailed.Wrap(
			fmt.Errorf("classifier returned no detection"))
	}

	d := detectResp.Detection
	detection := &domain.AIDetection{
		DamageType:  domain.DamageType(d.DamageType),
		Confidence:  d.Confidence,
		Severity:    domain.SeverityLevel(d.Severity),
		BoundingBox: d.BoundingBox,
	}

	// Детектор может не прислать severity - восстанавливаем по confidence
	if detection.Severity == "" {
		detection.Severity = domain.SeverityFromConfidence(detection.Confidence)
	}

	c.logger.Debug("Classification completed",
		zap.String("damage_type", string(detection.DamageType)),
		zap.Float64("confidence", detection.Confidence),
		zap.String("severity", string(detection.Severity)))

	return detection, nil
}
