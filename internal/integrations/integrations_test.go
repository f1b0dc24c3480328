package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pickmypit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryUpload(t *testing.T) {
	t.Run("returns hosted url on success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/upload"))
			require.NoError(t, r.ParseForm())
			assert.NotEmpty(t, r.PostForm.Get("signature"))
			assert.Equal(t, "key", r.PostForm.Get("api_key"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"secure_url":"https://res.example.com/listings/cat.jpg","public_id":"listings/cat"}`))
		}))
		defer srv.Close()

		client := NewCloudinaryClient("demo", "key", "secret")
		client.SetBaseURL(srv.URL)

		img, err := client.Upload(context.Background(), "data:image/jpeg;base64,abcd")
		require.NoError(t, err)
		assert.Equal(t, "https://res.example.com/listings/cat.jpg", img.SecureURL)
		assert.Equal(t, "listings/cat", img.PublicID)
	})

	t.Run("maps upstream failure to external service error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewCloudinaryClient("demo", "key", "secret")
		client.SetBaseURL(srv.URL)

		_, err := client.Upload(context.Background(), "data:image/jpeg;base64,abcd")
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "EXTERNAL_SERVICE_ERROR", appErr.Code)
	})
}

func TestCloudinaryDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/destroy"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "listings/cat", r.PostForm.Get("public_id"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewCloudinaryClient("demo", "key", "secret")
	client.SetBaseURL(srv.URL)

	assert.NoError(t, client.Delete(context.Background(), "listings/cat"))
}

func TestGoogleFetchUserInfo(t *testing.T) {
	t.Run("returns profile for valid token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sub":"123","email":"pat@example.com","email_verified":true,"given_name":"Pat","family_name":"Lee","picture":"https://img.example.com/p.jpg"}`))
		}))
		defer srv.Close()

		client := NewGoogleClient(srv.URL)
		user, err := client.FetchUserInfo(context.Background(), "good-token")
		require.NoError(t, err)
		assert.Equal(t, "pat@example.com", user.Email)
		assert.Equal(t, "Pat", user.GivenName)
		assert.True(t, user.EmailVerified)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewGoogleClient(srv.URL)
		_, err := client.FetchUserInfo(context.Background(), "bad-token")
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})

	t.Run("rejects profile without email", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sub":"123"}`))
		}))
		defer srv.Close()

		client := NewGoogleClient(srv.URL)
		_, err := client.FetchUserInfo(context.Background(), "token")
		assert.Error(t, err)
	})
}
