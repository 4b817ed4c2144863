package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

const (
	plexTVBaseURL = "https://plex.tv"
	plexProduct   = "Plex Poster Set Helper"

	// DefaultPinPollInterval is how often the auth flow checks whether the
	// user has claimed the PIN on plex.tv/link.
	DefaultPinPollInterval = 2 * time.Second
)

// Pin is a claimable login PIN issued by plex.tv.
type Pin struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	AuthToken string    `json:"authToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PinClient drives the plex.tv PIN login flow: request a PIN, send the user
// to plex.tv/link to claim it, then poll until plex.tv attaches a token.
type PinClient struct {
	baseURL  string
	clientID string
	client   *http.Client
	logger   *log.Logger
}

// NewPinClient creates a PIN login client. Each client gets a fresh device
// identifier, which plex.tv uses to bind the issued token.
func NewPinClient(client *http.Client, logger *log.Logger) *PinClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &PinClient{
		baseURL:  plexTVBaseURL,
		clientID: shared.GenerateID(),
		client:   client,
		logger:   logger,
	}
}

// CreatePin requests a new login PIN from plex.tv.
func (c *PinClient) CreatePin(ctx context.Context) (*Pin, error) {
	endpoint := c.baseURL + "/api/v2/pins?" + url.Values{"strong": {"true"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: pin request returned %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var pin Pin
	if err := json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}

	c.logger.Debug("created login pin", "id", pin.ID, "expiresAt", pin.ExpiresAt)
	return &pin, nil
}

// LinkURL returns the page where the user claims the PIN. The query
// parameters prefill the code so the user only has to approve.
func (c *PinClient) LinkURL(pin *Pin) string {
	query := url.Values{"clientID": {c.clientID}, "code": {pin.Code}}
	return c.baseURL + "/link?" + query.Encode()
}

// CheckPin fetches the PIN's current state. The returned pin carries an
// AuthToken once the user has claimed it.
func (c *PinClient) CheckPin(ctx context.Context, id int) (*Pin, error) {
	endpoint := fmt.Sprintf("%s/api/v2/pins/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrPinExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: pin check returned %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var pin Pin
	if err := json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}
	return &pin, nil
}

// WaitForToken polls the PIN until the user claims it and returns the issued
// token. It fails with ErrPinExpired when the PIN lapses and with the
// context's error when the caller gives up first.
func (c *PinClient) WaitForToken(ctx context.Context, pin *Pin, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = DefaultPinPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: gave up waiting for pin %d", shared.ErrTimeout, pin.ID)
		case <-ticker.C:
		}

		if !pin.ExpiresAt.IsZero() && time.Now().After(pin.ExpiresAt) {
			return "", shared.ErrPinExpired
		}

		current, err := c.CheckPin(ctx, pin.ID)
		if err != nil {
			return "", err
		}
		if current.AuthToken != "" {
			c.logger.Debug("pin claimed", "id", pin.ID)
			return current.AuthToken, nil
		}
	}
}

func (c *PinClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Product", plexProduct)
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
}
