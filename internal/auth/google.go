package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/server"
	"github.com/desertthunder/echoplay/internal/shared"
)

const (
	// GoogleUserInfoURL is the OpenID Connect userinfo endpoint.
	GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	// DefaultAuthTimeout bounds how long sign-in waits for the browser callback.
	DefaultAuthTimeout = 2 * time.Minute
)

var googleScopes = []string{"openid", "profile", "email"}

// GoogleProvider runs the OAuth2 authorization code flow against Google with a
// callback server on the redirect URI's host.
type GoogleProvider struct {
	config      oauth2.Config
	listenAddr  string
	path        string
	userInfoURL string
	timeout     time.Duration
	open        func(string) error
	out         io.Writer
	logger      *log.Logger
}

type GoogleOption func(*GoogleProvider)

// WithEndpoint replaces the Google authorization and token endpoints.
func WithEndpoint(e oauth2.Endpoint) GoogleOption {
	return func(p *GoogleProvider) { p.config.Endpoint = e }
}

func WithUserInfoURL(u string) GoogleOption {
	return func(p *GoogleProvider) { p.userInfoURL = u }
}

// WithBrowser sets how the authorization URL is opened.
func WithBrowser(open func(string) error) GoogleOption {
	return func(p *GoogleProvider) { p.open = open }
}

func WithTimeout(d time.Duration) GoogleOption {
	return func(p *GoogleProvider) { p.timeout = d }
}

// WithPrompt sets where instructions for the user are written.
func WithPrompt(w io.Writer) GoogleOption {
	return func(p *GoogleProvider) { p.out = w }
}

func WithProviderLogger(l *log.Logger) GoogleOption {
	return func(p *GoogleProvider) { p.logger = l }
}

// NewGoogleProvider validates cfg and builds a provider. A port of 0 in the redirect URI picks a free port.
func NewGoogleProvider(cfg shared.GoogleConfig, opts ...GoogleOption) (*GoogleProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: invalid google redirect_uri %q", shared.ErrInvalidConfig, cfg.RedirectURI)
	}

	p := &GoogleProvider{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       googleScopes,
			Endpoint:     endpoints.Google,
		},
		listenAddr:  redirect.Host,
		path:        redirect.Path,
		userInfoURL: GoogleUserInfoURL,
		timeout:     DefaultAuthTimeout,
		open:        shared.OpenBrowser,
		out:         os.Stdout,
		logger:      log.Default(),
	}
	if p.path == "" {
		p.path = server.DefaultCallbackPath
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *GoogleProvider) Name() string { return models.ProviderGoogle }

// Authenticate opens the consent page, waits for the callback and reads the user's profile.
func (p *GoogleProvider) Authenticate(ctx context.Context) (*Identity, error) {
	listener, err := net.Listen("tcp", p.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start callback server: %w", shared.ErrAuthFailed, err)
	}

	config := p.config
	config.RedirectURL = (&url.URL{Scheme: "http", Host: listener.Addr().String(), Path: p.path}).String()

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(&config, state, p.path)
	router := server.NewBasicRouter()
	router.Handler(handler)
	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		p.logger.Debug("starting OAuth callback server", "addr", listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintln(p.out, "→ Opening browser for Google sign-in...")
	if err := p.open(authURL); err != nil {
		p.logger.Warn("failed to open browser automatically", "error", err)
		fmt.Fprintf(p.out, "Please open this URL in your browser:\n%s\n\n", authURL)
	}

	timeout := time.NewTimer(p.timeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server: %w", shared.ErrAuthFailed, err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: %w: no callback after %s", shared.ErrAuthFailed, shared.ErrTimeout, p.timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, ctx.Err())
	}

	if err := result.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	user, err := p.userInfo(ctx, &config, result.Token)
	if err != nil {
		return nil, err
	}
	return &Identity{User: user, Token: result.Token}, nil
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *GoogleProvider) userInfo(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	resp, err := config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo request: %w", shared.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: failed to decode userinfo: %w", shared.ErrAuthFailed, err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("%w: userinfo has no subject", shared.ErrAuthFailed)
	}
	return models.NewUser(info.Sub, info.Name, info.Email, models.ProviderGoogle), nil
}
