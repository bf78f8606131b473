package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSCMClient(serverURL string) *SCMClient {
	return &SCMClient{
		client:       http.DefaultClient,
		manifestFile: "colonia.yaml",
		rawBase:      serverURL,
	}
}

func TestFetchManifestFromMainBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/acme/payments/main/colonia.yaml" {
			_, _ = w.Write([]byte("environments: []\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestSCMClient(server.URL)
	body, err := client.FetchManifest(context.Background(), "https://github.com/acme/payments")
	require.NoError(t, err)
	assert.Equal(t, "environments: []\n", string(body))
}

func TestFetchManifestFallsBackToMaster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/acme/payments/master/colonia.yaml" {
			_, _ = w.Write([]byte("stacks: []\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestSCMClient(server.URL)
	body, err := client.FetchManifest(context.Background(), "https://github.com/acme/payments.git")
	require.NoError(t, err)
	assert.Equal(t, "stacks: []\n", string(body))
}

func TestFetchManifestNotFoundOnAnyBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestSCMClient(server.URL)
	_, err := client.FetchManifest(context.Background(), "https://github.com/acme/payments")
	assert.ErrorIs(t, err, ErrManifestNotFound)
}

func TestFetchManifestUnsupportedURLs(t *testing.T) {
	client := newTestSCMClient("http://unused.invalid")

	for _, url := range []string{
		"",
		"https://gitlab.com/acme/payments",
		"https://github.com/acme",
		"https://github.com/acme/payments/tree/main",
	} {
		_, err := client.FetchManifest(context.Background(), url)
		assert.ErrorIs(t, err, ErrManifestNotFound, "url %q", url)
	}
}

func TestFetchManifestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestSCMClient(server.URL)
	_, err := client.FetchManifest(context.Background(), "https://github.com/acme/payments")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrManifestNotFound)
}

func TestGithubRepoPath(t *testing.T) {
	cases := map[string]string{
		"https://github.com/acme/payments":     "acme/payments",
		"https://github.com/acme/payments.git": "acme/payments",
		"https://github.com/acme/payments/":    "acme/payments",
		"http://github.com/acme/payments":      "acme/payments",
		"https://github.com/acme":              "",
		"https://example.com/acme/payments":    "",
		"git@github.com:acme/payments.git":     "",
		"https://github.com/acme/payments/x/y": "",
	}
	for url, want := range cases {
		path, ok := githubRepoPath(url)
		if want == "" {
			assert.False(t, ok, "url %q", url)
		} else {
			require.True(t, ok, "url %q", url)
			assert.Equal(t, want, path)
		}
	}
}
