package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	apperrors "github.com/report-microservice/internal/pkg/errors"
)

type storageClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	bucket     string
	folder     string
	logger     *zap.Logger
}

// NewStorageClient создает клиент Supabase Storage для фотографий отчётов
func NewStorageClient(cfg *config.StorageConfig, logger *zap.Logger) repository.StorageRepository {
	return &storageClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		bucket:  cfg.Bucket,
		folder:  cfg.Folder,
		logger:  logger,
	}
}

// Upload загружает фото под ключом отчёта и возвращает публичный URL.
// Имя объекта включает timestamp, как в мобильном клиенте:
// <folder>/<reportID>_<unix_ms>.<ext>
func (s *storageClient) Upload(ctx context.Context, photo *domain.Photo, reportID string) (string, error) {
	ext := extensionFor(photo)
	objectPath := fmt.Sprintf("%s/%s_%d%s", s.folder, reportID, time.Now().UnixMilli(), ext)

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)

	s.logger.Debug("Uploading photo to storage",
		zap.String("object_path", objectPath),
		zap.Int("photo_bytes", len(photo.Data)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(photo.Data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", photo.ContentType)
	req.Header.Set("Cache-Control", "3600")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Storage upload failed", zap.Error(err))
		return "", apperrors.ErrUploadFailed.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		s.logger.Error("Storage returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return "", apperrors.ErrUploadFailed.Wrap(
			fmt.Errorf("storage error: status %d", resp.StatusCode))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)

	s.logger.Info("Photo uploaded",
		zap.String("report_id", reportID),
		zap.String("url", publicURL))

	return publicURL, nil
}

func extensionFor(photo *domain.Photo) string {
	if photo.FileName != "" {
		if ext := path.Ext(photo.FileName); ext != "" {
			return ext
		}
	}
	if exts, err := mime.ExtensionsByType(photo.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".jpg"
}
