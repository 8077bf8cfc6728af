// Package ciapi implements the CI client against the CI server's REST API.
package ciapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/schema"
	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the number of versions fetched per history page.
const DefaultPageSize = 25

// DefaultAuthFileName is the credentials file looked up in $HOME.
const DefaultAuthFileName = ".greenbase.yml"

// AuthConfig holds the CI server endpoint and API credentials, read from a
// YAML file.
type AuthConfig struct {
	BaseURL string `yaml:"base_url"`
	User    string `yaml:"user"`
	APIKey  string `yaml:"api_key"`
}

// DefaultAuthPath returns the default credentials file location.
func DefaultAuthPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultAuthFileName
	}
	return filepath.Join(home, DefaultAuthFileName)
}

// LoadAuthConfig reads and validates the credentials file at path.
func LoadAuthConfig(path string) (*AuthConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading CI config file: %w", err)
	}
	var auth AuthConfig
	if err := yaml.Unmarshal(data, &auth); err != nil {
		return nil, fmt.Errorf("parsing CI config file %q: %w", path, err)
	}
	if auth.BaseURL == "" {
		return nil, fmt.Errorf("CI config file %q is missing base_url", path)
	}
	return &auth, nil
}

// RESTClient implements the CIClient interface over the CI server's JSON API.
type RESTClient struct {
	auth     AuthConfig
	http     *http.Client
	pageSize int
}

var _ contract.CIClient = &RESTClient{} // Compile-time check

// NewRESTClient creates a client for the given credentials.
func NewRESTClient(auth *AuthConfig) *RESTClient {
	return &RESTClient{
		auth:     *auth,
		http:     &http.Client{Timeout: 30 * time.Second},
		pageSize: DefaultPageSize,
	}
}

// Versions returns a newest-first iterator over the project's version
// history, paginated internally. The iterator is restartable only by calling
// Versions again.
func (c *RESTClient) Versions(_ context.Context, project string) contract.VersionIterator {
	return &versionIterator{client: c, project: project}
}

// DepRepoLocations implements the CIClient interface.
func (c *RESTClient) DepRepoLocations(ctx context.Context, project string) (map[string]string, error) {
	var locations map[string]string
	path := fmt.Sprintf("projects/%s/repos", url.PathEscape(project))
	if err := c.get(ctx, path, nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// DepRepoRevisions implements the CIClient interface.
func (c *RESTClient) DepRepoRevisions(ctx context.Context, project, revision string) (map[string]string, error) {
	var revisions map[string]string
	path := fmt.Sprintf("projects/%s/versions/%s/repos", url.PathEscape(project), url.PathEscape(revision))
	if err := c.get(ctx, path, nil, &revisions); err != nil {
		return nil, err
	}
	return revisions, nil
}

// get performs an authenticated GET against the API and decodes the JSON
// response into out.
func (c *RESTClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := fmt.Sprintf("%s/%s", c.auth.BaseURL, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building CI request: %w", err)
	}
	req.Header.Set("Api-User", c.auth.User)
	req.Header.Set("Api-Key", c.auth.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("CI request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("CI request %s returned %s: %s", path, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding CI response for %s: %w", path, err)
	}
	return nil
}

// fetchVersionPage fetches one page of version history starting at offset.
func (c *RESTClient) fetchVersionPage(ctx context.Context, project string, offset int) ([]schema.Version, error) {
	query := url.Values{}
	query.Set("start", fmt.Sprintf("%d", offset))
	query.Set("limit", fmt.Sprintf("%d", c.pageSize))

	var page []schema.Version
	path := fmt.Sprintf("projects/%s/versions", url.PathEscape(project))
	if err := c.get(ctx, path, query, &page); err != nil {
		return nil, err
	}
	return page, nil
}
