package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"krakenmate/internal/wire"
	"krakenmate/internal/xerrors"
)

const (
	defaultRestBaseURL = "https://api.kraken.com"
	tokenPath          = "/0/private/GetWebSocketsToken"
)

// TokenClient exchanges an API key/secret pair for a private-feed WebSocket
// token. Wraps a resty client with retry-on-5xx, matching the teacher's
// internal/exchange/client.go REST idiom.
type TokenClient struct {
	http    *resty.Client
	apiKey  string
	secret  string
	logger  *slog.Logger
}

// NewTokenClient creates a token client. baseURL overrides the default for
// tests; pass "" in production to use Kraken's live REST endpoint.
func NewTokenClient(apiKey, secret, baseURL string, logger *slog.Logger) *TokenClient {
	if baseURL == "" {
		baseURL = defaultRestBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		})

	return &TokenClient{
		http:   httpClient,
		apiKey: apiKey,
		secret: secret,
		logger: logger.With("component", "auth"),
	}
}

type tokenEnvelope struct {
	Error  []string `json:"error"`
	Result *struct {
		Token   wire.RedactedToken `json:"token"`
		Expires int64              `json:"expires"`
	} `json:"result"`
}

// FetchToken performs the nonce=<N> POST and signs it per Sign(), returning
// the private-feed token. Mirrors original_source/src/auth.rs's
// get_websocket_token().
func (c *TokenClient) FetchToken(ctx context.Context) (wire.RedactedToken, error) {
	nonce := NextNonce()
	postData := url.Values{"nonce": {strconv.FormatUint(nonce, 10)}}.Encode()

	sig, err := Sign(c.secret, tokenPath, strconv.FormatUint(nonce, 10), postData)
	if err != nil {
		return "", xerrors.Wrap(xerrors.Auth, err, "fetch token: sign request")
	}

	var envelope tokenEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetHeader("API-Key", c.apiKey).
		SetHeader("API-Sign", sig).
		SetBody(postData).
		SetResult(&envelope).
		Post(tokenPath)
	if err != nil {
		return "", xerrors.Wrap(xerrors.HTTP, err, "fetch token: request failed")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", xerrors.Newf(xerrors.HTTP, "fetch token: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(envelope.Error) > 0 {
		return "", xerrors.Newf(xerrors.Auth, "fetch token: kraken returned errors: %v", envelope.Error)
	}
	if envelope.Result == nil {
		return "", xerrors.New(xerrors.Auth, "fetch token: response missing result")
	}

	c.logger.Info("websocket token acquired", "expires_in_s", envelope.Result.Expires)
	return envelope.Result.Token, nil
}

// String avoids accidentally printing the embedded secret via %v/%+v.
func (c *TokenClient) String() string {
	return fmt.Sprintf("TokenClient{apiKey redacted}")
}
