// Package twitter wraps the Twitter OAuth 1.0a handshake and the signed API
// calls the rest of the application needs. Nothing outside this package
// touches OAuth signing.
package twitter

import "context"

// Profile is the slice of the external account profile we keep after
// verification.
type Profile struct {
	ID              string `json:"id_str"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url_https"`
}

// Client is the boundary to the Twitter API. Services depend on this
// interface; tests substitute stubs.
type Client interface {
	// RequestToken performs the first leg of the three-legged handshake and
	// returns the temporary token pair.
	RequestToken(ctx context.Context) (token, secret string, err error)

	// AuthorizationURL builds the URL the user visits to authorize the app.
	AuthorizationURL(requestToken string) (string, error)

	// AccessToken exchanges an authorized request token for the permanent
	// token pair.
	AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (token, secret string, err error)

	// VerifyCredentials fetches the profile behind a permanent token pair.
	VerifyCredentials(ctx context.Context, token, secret string) (*Profile, error)

	// PostTweet publishes text on behalf of the token owner and returns the
	// created tweet ID. A non-success upstream response surfaces as a
	// publish-rejected error carrying the response body.
	PostTweet(ctx context.Context, token, secret, text string) (string, error)
}
