// Package integrations contains clients for external collaborators: the
// Cloudinary image host and the Google userinfo endpoint.
package integrations

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"pickmypit/internal/models"
	"pickmypit/internal/observability"
)

const externalCallTimeout = 10 * time.Second

// UploadedImage is the result of a successful image host upload.
type UploadedImage struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// ImageHost uploads and deletes listing images on an external service.
type ImageHost interface {
	Upload(ctx context.Context, dataURI string) (*UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryClient talks to the Cloudinary upload API using signed requests.
type CloudinaryClient struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	http      *http.Client
}

// NewCloudinaryClient creates a client for the given Cloudinary account.
func NewCloudinaryClient(cloudName, apiKey, apiSecret string) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   "https://api.cloudinary.com/v1_1",
		http:      &http.Client{Timeout: externalCallTimeout},
	}
}

// SetBaseURL overrides the API base URL. Used by tests with httptest servers.
func (c *CloudinaryClient) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

// signature computes the SHA1 request signature over the sorted parameter
// string plus the API secret, per the Cloudinary authentication scheme.
func (c *CloudinaryClient) signature(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "file" || k == "api_key" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params.Get(k)))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// Upload sends a base64 data URI to the image host and returns the hosted URL.
func (c *CloudinaryClient) Upload(ctx context.Context, dataURI string) (*UploadedImage, error) {
	span, ctx := observability.TraceExternalCall(ctx, "cloudinary", "upload")
	defer span.End()

	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	params.Set("folder", "listings")
	params.Set("signature", c.signature(params))
	params.Set("api_key", c.apiKey)
	params.Set("file", dataURI)

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, models.NewExternalServiceError("cloudinary", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetError(err)
		observability.ImageUploadFailures.Inc()
		return nil, models.NewExternalServiceError("cloudinary", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upload returned status %d", resp.StatusCode)
		span.SetError(err)
		observability.ImageUploadFailures.Inc()
		return nil, models.NewExternalServiceError("cloudinary", err)
	}

	var out UploadedImage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		span.SetError(err)
		observability.ImageUploadFailures.Inc()
		return nil, models.NewExternalServiceError("cloudinary", err)
	}
	return &out, nil
}

// Delete removes a previously uploaded image by its public ID.
func (c *CloudinaryClient) Delete(ctx context.Context, publicID string) error {
	span, ctx := observability.TraceExternalCall(ctx, "cloudinary", "destroy")
	defer span.End()

	params := url.Values{}
	params.Set("public_id", publicID)
	params.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	params.Set("signature", c.signature(params))
	params.Set("api_key", c.apiKey)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return models.NewExternalServiceError("cloudinary", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetError(err)
		return models.NewExternalServiceError("cloudinary", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("destroy returned status %d", resp.StatusCode)
		span.SetError(err)
		return models.NewExternalServiceError("cloudinary", err)
	}
	return nil
}
