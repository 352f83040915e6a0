package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DefaultCallbackAddr is where the OAuth redirect is received
const DefaultCallbackAddr = "localhost:8085"

// OAuthConfig holds the configuration for OAuth 2.0 authentication
type OAuthConfig struct {
	CredentialsFile string    // Path to OAuth client credentials JSON
	TokenFile       string    // Path to store/load token
	CallbackAddr    string    // host:port of the local redirect listener
	Output          io.Writer // where sign-in instructions are printed
}

// NewClientFromCredentials picks service account or OAuth authentication
// based on the type of the credentials file
func NewClientFromCredentials(ctx context.Context, cfg OAuthConfig, opts ...ClientOption) (*Client, error) {
	kind, err := credentialsType(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	if kind == "service_account" {
		return NewClient(ctx, cfg.CredentialsFile, opts...)
	}
	return NewClientWithOAuth(ctx, cfg, opts...)
}

// NewClientWithOAuth creates a new Google Drive client using OAuth 2.0
func NewClientWithOAuth(ctx context.Context, cfg OAuthConfig, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create one with OAuth
	if c.driveService == nil {
		svc, err := newOAuthDriveService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}

func credentialsType(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read credentials file: %w", err)
	}
	var creds struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &creds); err != nil {
		return "", fmt.Errorf("unable to parse credentials: %w", err)
	}
	return creds.Type, nil
}

// newOAuthDriveService creates a Drive service using OAuth 2.0 user authentication
func newOAuthDriveService(ctx context.Context, cfg OAuthConfig) (*GoogleDriveService, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth credentials: %w", err)
	}

	token, err := getToken(ctx, config, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to get OAuth token: %w", err)
	}

	client := config.Client(ctx, token)
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// getToken retrieves a token from file or initiates the OAuth flow
func getToken(ctx context.Context, config *oauth2.Config, cfg OAuthConfig) (*oauth2.Token, error) {
	token, err := loadToken(cfg.TokenFile)
	if err == nil {
		newToken, err := config.TokenSource(ctx, token).Token()
		if err == nil {
			if newToken.AccessToken != token.AccessToken {
				saveToken(cfg.TokenFile, newToken)
			}
			return newToken, nil
		}
	}

	return getTokenFromWeb(ctx, config, cfg)
}

// loadToken loads a token from a file
func loadToken(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// saveToken saves a token to a file readable only by the owner
func saveToken(file string, token *oauth2.Token) error {
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

// getTokenFromWeb runs the installed-app flow with a local redirect listener
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, cfg OAuthConfig) (*oauth2.Token, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	addr := cfg.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}

	config.RedirectURL = "http://" + addr + "/callback"

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no code in callback")
			fmt.Fprintf(w, "Error: No authorization code received")
			return
		}
		codeChan <- code
		fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("unable to listen for OAuth callback: %w", err)
	}
	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Opening browser for Google authentication...")
	fmt.Fprintln(out, "If the browser doesn't open, please visit this URL:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, authURL)
	fmt.Fprintln(out)

	openBrowser(authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange auth code: %w", err)
	}

	if err := saveToken(cfg.TokenFile, token); err != nil {
		fmt.Fprintf(out, "Warning: couldn't save token: %v\n", err)
	}

	fmt.Fprintln(out, "Authentication successful!")
	return token, nil
}

// openBrowser opens a URL in the default browser
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			cmd = exec.Command("xdg-open", url)
		} else if _, err := exec.LookPath("wslview"); err == nil {
			cmd = exec.Command("wslview", url)
		}
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}

	if cmd != nil {
		cmd.Start()
	}
}
