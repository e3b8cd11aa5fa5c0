package server

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountApp(t *testing.T, s *Server) *fiber.App {
	t.Helper()
	app := fiber.New()
	tw := app.Group("/twitter", withUser(1))
	tw.Get("/auth-url", s.GetTwitterAuthURL)
	tw.Post("/callback", s.TwitterCallback)
	tw.Get("/account", s.GetTwitterAccount)
	tw.Delete("/disconnect", s.DisconnectTwitter)
	return app
}

func callbackBody(t *testing.T, token, verifier string) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"oauth_token":    token,
		"oauth_verifier": verifier,
	})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestTwitterLinkingFlow(t *testing.T) {
	s := testServer(t, &fakeTwitterClient{}, &fakeGenerator{})
	app := accountApp(t, s)

	// No account yet.
	resp, err := app.Test(httptest.NewRequest("GET", "/twitter/account", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Initiate: returns the authorization URL for the issued request token.
	resp, err = app.Test(httptest.NewRequest("GET", "/twitter/auth-url", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var authURL struct {
		AuthURL string `json:"auth_url"`
	}
	decodeBody(t, resp, &authURL)
	assert.Contains(t, authURL.AuthURL, "oauth_token=req-token")

	// Complete: exchanges and links.
	req := httptest.NewRequest("POST", "/twitter/callback", callbackBody(t, "req-token", "verifier"))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var callback struct {
		Account struct {
			TwitterID  string `json:"twitter_id"`
			ScreenName string `json:"screen_name"`
		} `json:"account"`
	}
	decodeBody(t, resp, &callback)
	assert.Equal(t, "tw-42", callback.Account.TwitterID)
	assert.Equal(t, "tester", callback.Account.ScreenName)

	// The account endpoint now reflects the link.
	resp, err = app.Test(httptest.NewRequest("GET", "/twitter/account", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The request token is single-use: replaying the callback fails.
	req = httptest.NewRequest("POST", "/twitter/callback", callbackBody(t, "req-token", "verifier"))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Disconnect removes the link.
	resp, err = app.Test(httptest.NewRequest("DELETE", "/twitter/disconnect", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/twitter/account", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTwitterCallbackUnknownToken(t *testing.T) {
	s := testServer(t, &fakeTwitterClient{}, &fakeGenerator{})
	app := accountApp(t, s)

	req := httptest.NewRequest("POST", "/twitter/callback", callbackBody(t, "never-issued", "verifier"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTwitterDisconnectWhenNotLinked(t *testing.T) {
	s := testServer(t, &fakeTwitterClient{}, &fakeGenerator{})
	app := accountApp(t, s)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/twitter/disconnect", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
