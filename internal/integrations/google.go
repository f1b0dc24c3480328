package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pickmypit/internal/models"
	"pickmypit/internal/observability"
)

// GoogleUser is the profile returned by the Google userinfo endpoint.
type GoogleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleVerifier resolves an OAuth access token to a verified profile.
type GoogleVerifier interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*GoogleUser, error)
}

// GoogleClient fetches user profiles from the Google userinfo endpoint.
type GoogleClient struct {
	userInfoURL string
	http        *http.Client
}

// NewGoogleClient creates a client for the given userinfo endpoint URL.
func NewGoogleClient(userInfoURL string) *GoogleClient {
	return &GoogleClient{
		userInfoURL: userInfoURL,
		http:        &http.Client{Timeout: externalCallTimeout},
	}
}

// FetchUserInfo exchanges an access token for the Google account profile.
func (c *GoogleClient) FetchUserInfo(ctx context.Context, accessToken string) (*GoogleUser, error) {
	span, ctx := observability.TraceExternalCall(ctx, "google", "userinfo")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, models.NewExternalServiceError("google", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetError(err)
		return nil, models.NewExternalServiceError("google", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, models.NewUnauthorizedError("Invalid Google access token")
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("userinfo returned status %d", resp.StatusCode)
		span.SetError(err)
		return nil, models.NewExternalServiceError("google", err)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		span.SetError(err)
		return nil, models.NewExternalServiceError("google", err)
	}
	if user.Email == "" {
		return nil, models.NewUnauthorizedError("Google profile has no email")
	}
	return &user, nil
}
