package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"complaint-service/internal/config"
)

// DirectoryClient talks to the identity service to verify that an id passed
// to assign really is a worker. Only existence and role matter here.
type DirectoryClient struct {
	baseURL       string
	internalToken string
	httpClient    *http.Client
}

func NewDirectoryClient(cfg *config.Config) *DirectoryClient {
	return &DirectoryClient{
		baseURL:       cfg.ExternalServices.DirectoryServiceURL,
		internalToken: cfg.ExternalServices.DirectoryInternalToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type directoryUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type directoryUserResponse struct {
	Data directoryUser `json:"data"`
}

// WorkerExists returns true when the directory knows the id and it carries
// the worker role. A 404 from the directory is a clean false, not an error.
func (c *DirectoryClient) WorkerExists(ctx context.Context, workerID uuid.UUID) (bool, error) {
	if c.baseURL == "" {
		return false, fmt.Errorf("directory service URL is not configured")
	}

	u, err := url.Parse(c.baseURL + "/internal/users/" + workerID.String())
	if err != nil {
		return false, fmt.Errorf("invalid directory service URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if c.internalToken != "" {
		req.Header.Set("X-Internal-Token", c.internalToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("directory service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response directoryUserResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Data.Role == "worker", nil
}
