package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
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
	userAgent  string
	logger     *zap.Logger
}

// NewClient создает новый клиент обратного геокодирования OSM Nominatim
func NewClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.GeocoderRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// reverseResponse - ответ Nominatim /reverse
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		Pedestrian    string `json:"pedestrian"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		CityDistrict  string `json:"city_district"`
		City          string `json:"city"`
		State         string `json:"state"`
	} `json:"address"`
}

// ReverseGeocode возвращает адрес для координат.
// Приоритеты полей повторяют мобильный клиент: road|pedestrian для улицы,
// suburb|neighbourhood|city_district для района; полный адрес собирается
// из непустых частей, display_name - запасной вариант.
func (c *client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.Location, error) {
	reqURL := fmt.Sprintf(
		"%s/reverse?format=json&lat=%s&lon=%s&zoom=18&addressdetails=1",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lon)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Nominatim request failed", zap.Error(err))
		return nil, apperrors.ErrGeocoderFailed.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Nominatim returned error",
			zap.Int("status_code", resp.StatusCode))
		return nil, apperrors.ErrGeocoderFailed.Wrap(
			fmt.Errorf("nominatim error: status %d", resp.StatusCode))
	}

	var rev reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&rev); err != nil {
		return nil, apperrors.ErrGeocoderFailed.Wrap(err)
	}

	loc := &domain.Location{
		Latitude:  lat,
		Longitude: lon,
	}

	loc.RoadName = firstNonEmpty(rev.Address.Road, rev.Address.Pedestrian)
	loc.Area = firstNonEmpty(rev.Address.Suburb, rev.Address.Neighbourhood, rev.Address.CityDistrict)

	parts := make([]string, 0, 4)
	for _, p := range []string{loc.RoadName, loc.Area, rev.Address.City, rev.Address.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	loc.Address = strings.Join(parts, ", ")
	if loc.Address == "" {
		loc.Address = rev.DisplayName
	}

	return loc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
