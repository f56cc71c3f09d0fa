// AniList implementation of the remote list-tracking gateway.
//
// All operations go through a single GraphQL endpoint accepting a query
// document and variables. Responses carry either a data payload or a
// non-empty list of structured errors.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/anisync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	graphQLURL = "https://graphql.anilist.co"
	authURL    = "https://anilist.co/api/v2/oauth/authorize"
	tokenURL   = "https://anilist.co/api/v2/oauth/token"

	// AniList rate-limits clients to 90 requests per minute.
	requestsPerMinute = 90
)

const (
	entryQuery = `query ($mediaId: Int) {
  Media(id: $mediaId) {
    mediaListEntry { id mediaId progress status repeat }
  }
}`

	episodesQuery = `query ($mediaId: Int) {
  Media(id: $mediaId) { episodes }
}`

	saveEntryMutation = `mutation ($id: Int, $mediaId: Int, $progress: Int, $status: MediaListStatus, $repeat: Int) {
  SaveMediaListEntry(id: $id, mediaId: $mediaId, progress: $progress, status: $status, repeat: $repeat) {
    id mediaId progress status repeat
  }
}`

	viewerQuery = `query { Viewer { id name } }`
)

// Client is a typed AniList API client. Safe for concurrent use.
type Client struct {
	baseURL    string
	oauth      *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates an AniList client with the given OAuth2 credentials.
// The credentials are only required for the authorization-code flow; query
// and mutation calls authenticate with a bearer token per request.
func NewClient(clientID, clientSecret, redirectURI string, logger *log.Logger) *Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Client{
		baseURL: graphQLURL,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), 1),
		logger:     logger,
	}
}

// SetBaseURL overrides the GraphQL endpoint. Used in tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// SetHTTPClient overrides the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

// OAuthConfig returns the client's OAuth2 configuration for callback handling.
func (c *Client) OAuthConfig() *oauth2.Config { return c.oauth }

// AuthCodeURL returns the AniList authorization URL for user login.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthFailed, err)
	}
	return &TokenResponse{
		TokenType:    token.TokenType,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// do posts a GraphQL document and decodes the response envelope.
//
// Network and protocol failures wrap [shared.ErrTransport]; structured API
// errors surface as *RequestError; an undecodable body wraps
// [shared.ErrMalformedResponse].
func (c *Client) do(ctx context.Context, token, query string, variables map[string]any, out *payload) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	body, err := json.Marshal(graphQLBody{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	if len(env.Errors) > 0 {
		return &RequestError{Errors: env.Errors}
	}

	if env.Data == nil {
		return fmt.Errorf("%w: response has neither data nor errors", shared.ErrMalformedResponse)
	}

	if out != nil {
		*out = *env.Data
	}
	return nil
}

// ListEntry fetches the authenticated user's list entry for a media id.
// A nil result means the title is not on the user's list; that is not an error.
func (c *Client) ListEntry(ctx context.Context, token string, mediaID int) (*ListEntry, error) {
	var data payload
	if err := c.do(ctx, token, entryQuery, map[string]any{"mediaId": mediaID}, &data); err != nil {
		return nil, err
	}
	if data.Media == nil {
		return nil, fmt.Errorf("%w: missing media in response", shared.ErrMalformedResponse)
	}
	return data.Media.ListEntry, nil
}

// EpisodeCount fetches the total episode count for a media id.
// A nil result means the count is unknown or the title is still airing.
func (c *Client) EpisodeCount(ctx context.Context, mediaID int) (*int, error) {
	var data payload
	if err := c.do(ctx, "", episodesQuery, map[string]any{"mediaId": mediaID}, &data); err != nil {
		return nil, err
	}
	if data.Media == nil {
		return nil, fmt.Errorf("%w: missing media in response", shared.ErrMalformedResponse)
	}
	return data.Media.Episodes, nil
}

// SaveListEntry creates or updates a list entry. Fields left nil in the
// input are omitted from the mutation so the server keeps their current
// values.
func (c *Client) SaveListEntry(ctx context.Context, token string, input SaveEntryInput) (*ListEntry, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var data payload
	if err := c.do(ctx, token, saveEntryMutation, input.variables(), &data); err != nil {
		return nil, err
	}
	if data.SaveEntry == nil {
		return nil, fmt.Errorf("%w: missing saved entry in response", shared.ErrMalformedResponse)
	}
	return data.SaveEntry, nil
}

// Viewer fetches the authenticated AniList user.
func (c *Client) Viewer(ctx context.Context, token string) (*Viewer, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var data payload
	if err := c.do(ctx, token, viewerQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Viewer == nil {
		return nil, fmt.Errorf("%w: missing viewer in response", shared.ErrMalformedResponse)
	}
	return data.Viewer, nil
}
