package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/colonia-io/colonia/config"
)

// ErrManifestNotFound means the repository exists but declares no manifest.
// It is a valid outcome, not a failure: the scan worker must leave the
// project's resources untouched.
var ErrManifestNotFound = errors.New("manifest not found in repository")

// SCMClient fetches the well-known manifest file from a hosted repository.
// GitHub URLs are rewritten to raw content URLs; the default branch is probed
// as main first, then master.
type SCMClient struct {
	client       *http.Client
	manifestFile string
	rawBase      string
}

func InitSCMClient(cfg *config.EnvConfig) *SCMClient {
	return &SCMClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.Scan.FetchTimeout) * time.Second,
		},
		manifestFile: cfg.Scan.ManifestFile,
		rawBase:      "https://raw.githubusercontent.com",
	}
}

// FetchManifest returns the raw manifest text, ErrManifestNotFound when the
// file does not exist on any probed branch, or a wrapped error on network or
// host failures. Network errors are retryable at the caller's discretion; the
// client itself never retries.
func (s *SCMClient) FetchManifest(ctx context.Context, repositoryURL string) ([]byte, error) {
	if repositoryURL == "" {
		return nil, ErrManifestNotFound
	}

	repoPath, ok := githubRepoPath(repositoryURL)
	if !ok {
		// Only GitHub-hosted repositories are supported; other hosts have
		// nothing fetchable, which is the same as declaring no manifest.
		return nil, ErrManifestNotFound
	}

	for _, branch := range []string{"main", "master"} {
		rawURL := fmt.Sprintf("%s/%s/%s/%s", s.rawBase, repoPath, branch, s.manifestFile)

		body, status, err := s.get(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
		}

		switch {
		case status == http.StatusOK:
			return body, nil
		case status == http.StatusNotFound:
			continue
		default:
			return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, status)
		}
	}

	return nil, ErrManifestNotFound
}

func (s *SCMClient) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// githubRepoPath extracts "owner/repo" from a GitHub repository URL, handling
// trailing slashes and .git suffixes.
func githubRepoPath(repositoryURL string) (string, bool) {
	for _, prefix := range []string{"https://github.com/", "http://github.com/"} {
		if strings.HasPrefix(repositoryURL, prefix) {
			path := strings.TrimPrefix(repositoryURL, prefix)
			path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
			if strings.Count(path, "/") == 1 {
				return path, true
			}
			return "", false
		}
	}
	return "", false
}
