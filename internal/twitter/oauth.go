package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pulsepost/internal/models"

	"github.com/dghubble/oauth1"
)

const defaultAPIBaseURL = "https://api.twitter.com"

// oauthClient is the production Client backed by dghubble/oauth1.
type oauthClient struct {
	config     *oauth1.Config
	apiBaseURL string
	timeout    time.Duration
}

// Option customizes the client, mainly for tests.
type Option func(*oauthClient)

// WithBaseURL points the client at a different API host. Tests use this with
// httptest servers.
func WithBaseURL(base string) Option {
	return func(c *oauthClient) {
		c.apiBaseURL = strings.TrimRight(base, "/")
		c.config.Endpoint = oauth1.Endpoint{
			RequestTokenURL: c.apiBaseURL + "/oauth/request_token",
			AuthorizeURL:    c.apiBaseURL + "/oauth/authorize",
			AccessTokenURL:  c.apiBaseURL + "/oauth/access_token",
		}
	}
}

// WithTimeout overrides the per-call HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *oauthClient) {
		c.timeout = d
	}
}

// NewClient builds a Client signing with the given consumer credentials.
// Empty credentials are allowed here; calls fail with a misconfigured
// credentials error so the process can still boot without them.
func NewClient(consumerKey, consumerSecret, callbackURL string, opts ...Option) Client {
	c := &oauthClient{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: defaultAPIBaseURL + "/oauth/request_token",
				AuthorizeURL:    defaultAPIBaseURL + "/oauth/authorize",
				AccessTokenURL:  defaultAPIBaseURL + "/oauth/access_token",
			},
		},
		apiBaseURL: defaultAPIBaseURL,
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *oauthClient) checkConfigured() error {
	if c.config.ConsumerKey == "" || c.config.ConsumerSecret == "" {
		return models.NewMisconfiguredCredentialsError("Twitter")
	}
	return nil
}

func (c *oauthClient) RequestToken(ctx context.Context) (string, string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", "", err
	}

	token, secret, err := c.config.RequestToken()
	if err != nil {
		return "", "", models.NewUpstreamUnavailableError(err)
	}
	return token, secret, nil
}

func (c *oauthClient) AuthorizationURL(requestToken string) (string, error) {
	u, err := c.config.AuthorizationURL(requestToken)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return u.String(), nil
}

func (c *oauthClient) AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (string, string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", "", err
	}

	token, secret, err := c.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return "", "", models.NewUpstreamUnavailableError(err)
	}
	return token, secret, nil
}

// httpClient returns a signing HTTP client for the given permanent token pair.
func (c *oauthClient) httpClient(ctx context.Context, token, secret string) *http.Client {
	httpClient := c.config.Client(ctx, oauth1.NewToken(token, secret))
	httpClient.Timeout = c.timeout
	return httpClient
}

func (c *oauthClient) VerifyCredentials(ctx context.Context, token, secret string) (*Profile, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	url := c.apiBaseURL + "/1.1/account/verify_credentials.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	resp, err := c.httpClient(ctx, token, secret).Do(req)
	if err != nil {
		return nil, models.NewUpstreamUnavailableError(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, models.NewUpstreamUnavailableError(fmt.Errorf("verify_credentials returned %d: %s", resp.StatusCode, body))
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, models.NewUpstreamUnavailableError(err)
	}
	return &profile, nil
}

func (c *oauthClient) PostTweet(ctx context.Context, token, secret, text string) (string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", models.NewInternalError(err)
	}

	url := c.apiBaseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient(ctx, token, secret).Do(req)
	if err != nil {
		return "", models.NewUpstreamUnavailableError(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The upstream body is kept verbatim so the failure reason lands in
		// the post ledger.
		return "", models.NewPublishRejectedError(fmt.Sprintf("%d %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", models.NewUpstreamUnavailableError(err)
	}
	if created.Data.ID == "" {
		return "", models.NewUpstreamUnavailableError(fmt.Errorf("tweet created but response carried no ID"))
	}
	return created.Data.ID, nil
}
