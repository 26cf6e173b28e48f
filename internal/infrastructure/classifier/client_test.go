package classifier_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/infrastructure/classifier"
	"github.com/report-microservice/internal/pkg/errors"
)

func newTestClient(baseURL string) *config.ClassifierConfig {
	return &config.ClassifierConfig{BaseURL: baseURL}
}

func testPhoto() *domain.Photo {
	return &domain.Photo{
		Data:        []byte("jpeg-bytes"),
		ContentType: "image/jpeg",
		FileName:    "damage.jpg",
	}
}

func TestClassify(t *testing.T) {
	t.Run("successful detection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/detect", r.URL.Path)

			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, header, err := r.FormFile("image")
			require.NoError(t, err)
			assert.Equal(t, "damage.jpg", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"detection": {
					"damageType": "pothole",
					"confidence": 0.91,
					"severity": "high",
					"boundingBox": {"x": 0.1, "y": 0.2, "width": 0.3, "height": 0.4}
				}
			}`))
		}))
		defer server.Close()

		c := classifier.NewClient(newTestClient(server.URL), zap.NewNop())
		detection, err := c.Classify(context.Background(), testPhoto())
		require.NoError(t, err)

		assert.Equal(t, domain.DamagePothole, detection.DamageType)
		assert.Equal(t, 0.91, detection.Confidence)
		assert.Equal(t, domain.SeverityHigh, detection.Severity)
		require.NotNil(t, detection.BoundingBox)
		assert.Equal(t, 0.3, detection.BoundingBox.Width)
	})

	t.Run("missing severity restored from confidence", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": true, "detection": {"damageType": "crack", "confidence": 0.65}}`))
		}))
		defer server.Close()

		c := classifier.NewClient(newTestClient(server.URL), zap.NewNop())
		detection, err := c.Classify(context.Background(), testPhoto())
		require.NoError(t, err)
		assert.Equal(t, domain.SeverityMedium, detection.Severity)
	})

	t.Run("non-200 wraps classifier error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := classifier.NewClient(newTestClient(server.URL), zap.NewNop())
		_, err := c.Classify(context.Background(), testPhoto())
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrClassifierFailed.Code, appErr.Code)
		assert.Equal(t, errors.KindCollaborator, appErr.Kind)
	})

	t.Run("success false is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false}`))
		}))
		defer server.Close()

		c := classifier.NewClient(newTestClient(server.URL), zap.NewNop())
		_, err := c.Classify(context.Background(), testPhoto())
		assert.Error(t, err)
	})

	t.Run("unreachable backend wraps transport error", func(t *testing.T) {
		c := classifier.NewClient(newTestClient("http://127.0.0.1:1"), zap.NewNop())
		_, err := c.Classify(context.Background(), testPhoto())
		require.Error(t, err)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrClassifierFailed.Code, appErr.Code)
	})
}
