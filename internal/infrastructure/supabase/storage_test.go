package supabase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/infrastructure/supabase"
)

func TestStorageUpload(t *testing.T) {
	photo := &domain.Photo{
		Data:        []byte("jpeg-bytes"),
		ContentType: "image/jpeg",
		FileName:    "damage.jpg",
	}

	t.Run("uploads and returns public url", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
			assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := supabase.NewStorageClient(&config.StorageConfig{
			BaseURL: server.URL,
			APIKey:  "secret-key",
			Bucket:  "report-images",
			Folder:  "damage-photos",
		}, zap.NewNop())

		url, err := client.Upload(context.Background(), photo, "report-42")
		require.NoError(t, err)

		// Путь объекта: <folder>/<reportID>_<unix_ms>.<ext>
		pathRe := regexp.MustCompile(`^/storage/v1/object/report-images/damage-photos/report-42_\d+\.jpg$`)
		assert.Regexp(t, pathRe, gotPath)

		urlRe := regexp.MustCompile(`/storage/v1/object/public/report-images/damage-photos/report-42_\d+\.jpg$`)
		assert.Regexp(t, urlRe, url)
	})

	t.Run("storage error is wrapped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := supabase.NewStorageClient(&config.StorageConfig{
			BaseURL: server.URL,
			Bucket:  "report-images",
			Folder:  "damage-photos",
		}, zap.NewNop())

		_, err := client.Upload(context.Background(), photo, "report-42")
		assert.Error(t, err)
	})
}
