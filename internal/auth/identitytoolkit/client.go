package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Client signs users in through the Firebase Auth REST API. The Admin SDK
// verifies tokens but cannot check a password, so login goes through here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new identity toolkit client
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword exchanges an email and password for tokens.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	return c.post(ctx, "accounts:signInWithPassword", body, domain.ErrInvalidCredentials)
}

// SignInWithIdp exchanges a federated provider credential (e.g. a Google ID
// token) for Firebase tokens.
func (c *Client) SignInWithIdp(ctx context.Context, providerID, idToken, accessToken string) (*domain.SignInResult, error) {
	post := url.Values{}
	post.Set("providerId", providerID)
	if idToken != "" {
		post.Set("id_token", idToken)
	}
	if accessToken != "" {
		post.Set("access_token", accessToken)
	}

	body := map[string]any{
		"postBody":            post.Encode(),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}
	return c.post(ctx, "accounts:signInWithIdp", body, domain.ErrFederatedLogin)
}

func (c *Client) post(ctx context.Context, method string, body any, rejected error) (*domain.SignInResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", c.baseURL, method, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.Unmarshal(raw, &apiErr)
		// 400s carry INVALID_PASSWORD, EMAIL_NOT_FOUND, INVALID_IDP_RESPONSE, ...
		if resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", rejected, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("identity toolkit returned status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var out signInResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.SignInResult{
		UID:          out.LocalID,
		Email:        out.Email,
		DisplayName:  out.DisplayName,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}, nil
}
