// Package github enriches user profiles with public GitHub activity via the
// GitHub REST API. Enrichment is read-only and unauthenticated; it never
// blocks signup or recommendations.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultTimeout bounds each API request.
const DefaultTimeout = 10 * time.Second

// recentRepoCount is how many most-recently-updated repositories feed the
// language and activity summary.
const recentRepoCount = 10

// Profile summarizes a user's public GitHub presence.
type Profile struct {
	Username    string   `json:"username"`
	PublicRepos int      `json:"publicRepos"`
	Followers   int      `json:"followers"`
	Following   int      `json:"following"`
	Languages   []string `json:"languages"`
	RecentRepos []string `json:"recentRepos"`
}

// NotFoundError indicates the username does not exist on GitHub.
type NotFoundError struct {
	Username string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("github user not found: %s", e.Username)
}

// Client fetches public profile data from the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a GitHub API client against the public endpoint.
func NewClient() *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint, used by
// tests and GitHub Enterprise deployments.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

type apiUser struct {
	Login       string `json:"login"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

type apiRepo struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// FetchProfile loads a user's profile and recent repositories concurrently
// and folds them into a Profile summary.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	var user apiUser
	var repos []apiRepo

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(ctx, fmt.Sprintf("/users/%s", username), username, &user)
	})
	g.Go(func() error {
		path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=%d", username, recentRepoCount)
		return c.getJSON(ctx, path, username, &repos)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := &Profile{
		Username:    user.Login,
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
		Following:   user.Following,
		Languages:   []string{},
		RecentRepos: []string{},
	}

	seen := make(map[string]bool)
	for _, repo := range repos {
		profile.RecentRepos = append(profile.RecentRepos, repo.Name)
		if repo.Language != "" && !seen[repo.Language] {
			seen[repo.Language] = true
			profile.Languages = append(profile.Languages, repo.Language)
		}
	}

	return profile, nil
}

func (c *Client) getJSON(ctx context.Context, path, username string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Username: username}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github responded with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read github response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse github response: %w", err)
	}
	return nil
}
