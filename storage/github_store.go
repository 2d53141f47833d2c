package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"job-aggregator/config"
	"job-aggregator/utils"
)

const commitMessage = "Update db.json"

// GitHubConfig locates the search document inside a GitHub repository.
type GitHubConfig struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
	Token  string
	APIURL string
	RawURL string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// GitHubStore keeps the search document as a JSON file committed to a
// repository. Reads go through the raw content host, writes through the
// contents API.
type GitHubStore struct {
	cfg    GitHubConfig
	client *http.Client
	logger *utils.Logger
}

// NewGitHubStore creates a GitHubStore.
func NewGitHubStore(cfg GitHubConfig, logger *utils.Logger) *GitHubStore {
	if cfg.Path == "" {
		cfg.Path = "db.json"
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.github.com"
	}
	if cfg.RawURL == "" {
		cfg.RawURL = "https://raw.githubusercontent.com"
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.RawURL = strings.TrimRight(cfg.RawURL, "/")

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &GitHubStore{cfg: cfg, client: client, logger: logger}
}

func (s *GitHubStore) rawURL() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", s.cfg.RawURL, s.cfg.Owner, s.cfg.Repo, s.cfg.Branch, s.cfg.Path)
}

func (s *GitHubStore) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.cfg.APIURL, s.cfg.Owner, s.cfg.Repo, s.cfg.Path)
}

// Read fetches and decodes the current document.
func (s *GitHubStore) Read(ctx context.Context) (config.SearchConfig, error) {
	var out config.SearchConfig

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.rawURL(), nil)
	if err != nil {
		return out, fmt.Errorf("github: build read request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("github: read %s: %w", s.cfg.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return out, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return out, fmt.Errorf("github: read %s: unexpected status %d", s.cfg.Path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("github: decode %s: %w", s.cfg.Path, err)
	}
	s.logger.Debug("[github] Read %s@%s", s.cfg.Path, s.cfg.Branch)
	return out, nil
}

type contentsResponse struct {
	SHA string `json:"sha"`
}

type updateRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

// Write commits cfg as the new document. The file is created when it does
// not exist yet.
func (s *GitHubStore) Write(ctx context.Context, cfg config.SearchConfig) error {
	if s.cfg.Token == "" {
		return fmt.Errorf("github: write: %w", config.ErrNoCredential)
	}

	body, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("github: encode document: %w", err)
	}

	sha, err := s.currentSHA(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(updateRequest{
		Message: commitMessage,
		Content: base64.StdEncoding.EncodeToString(body),
		Branch:  s.cfg.Branch,
		SHA:     sha,
	})
	if err != nil {
		return fmt.Errorf("github: encode update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.contentsURL(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("github: build update request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("github: update %s: %w", s.cfg.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github: update %s: status %d: %s", s.cfg.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	s.logger.Info("[github] Committed %s to %s/%s@%s", s.cfg.Path, s.cfg.Owner, s.cfg.Repo, s.cfg.Branch)
	return nil
}

// currentSHA returns the blob sha of the document, or "" when it does not
// exist.
func (s *GitHubStore) currentSHA(ctx context.Context) (string, error) {
	u := s.contentsURL() + "?ref=" + url.QueryEscape(s.cfg.Branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("github: build contents request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("github: get contents: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("github: get contents: unexpected status %d", resp.StatusCode)
	}

	var c contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return "", fmt.Errorf("github: decode contents: %w", err)
	}
	return c.SHA, nil
}

func (s *GitHubStore) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
