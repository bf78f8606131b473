package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/colonia-io/colonia/config"
)

var ErrVaultNotConfigured = errors.New("vault is not configured")

// VaultClient talks to a HashiCorp Vault server over its HTTP API. Connection
// settings are resolved from the file store on every call, so a saved config
// takes effect without a restart.
type VaultClient struct {
	store  *config.FileStore
	client *http.Client
}

func InitVaultClient(store *config.FileStore) *VaultClient {
	return &VaultClient{
		store:  store,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type tokenLookupResponse struct {
	Data struct {
		Policies []string `json:"policies"`
	} `json:"data"`
}

// TestConnection verifies the given settings by looking up the token's own
// info. Returns a human-readable status message for the settings page.
func (v *VaultClient) TestConnection(ctx context.Context, url, token, namespace string) (string, error) {
	body, status, err := v.request(ctx, http.MethodGet, url, token, namespace, "/v1/auth/token/lookup-self", nil)
	if err != nil {
		return "", fmt.Errorf("cannot reach vault server at %s: %w", url, err)
	}

	switch status {
	case http.StatusOK:
		var lookup tokenLookupResponse
		if err := json.Unmarshal(body, &lookup); err != nil {
			return "Connection and authentication successful!", nil
		}
		return fmt.Sprintf("Connection successful! Token has policies: %s", strings.Join(lookup.Data.Policies, ", ")), nil
	case http.StatusForbidden, http.StatusUnauthorized:
		return "", errors.New("authentication failed: invalid token or insufficient permissions")
	default:
		return "", fmt.Errorf("vault returned status %d: %s", status, string(body))
	}
}

// ListSecretsEngines returns the mounted secrets engines keyed by mount path.
func (v *VaultClient) ListSecretsEngines(ctx context.Context) (map[string]map[string]interface{}, error) {
	cfg, err := v.settings()
	if err != nil {
		return nil, err
	}

	body, status, err := v.request(ctx, http.MethodGet, cfg.URL, cfg.Token, cfg.Namespace, "/v1/sys/mounts", nil)
	if err != nil {
		return nil, fmt.Errorf("list secrets engines: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("vault returned status %d: %s", status, string(body))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode mounts response: %w", err)
	}

	engines := make(map[string]map[string]interface{})
	for path, payload := range raw {
		if !strings.HasSuffix(path, "/") {
			continue
		}
		var mount map[string]interface{}
		if err := json.Unmarshal(payload, &mount); err != nil {
			continue
		}
		engines[path] = mount
	}
	return engines, nil
}

// EnableSecretsEngine mounts a new secrets engine at the given path.
func (v *VaultClient) EnableSecretsEngine(ctx context.Context, path, engineType, description string) error {
	cfg, err := v.settings()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"type":        engineType,
		"description": description,
	})
	if err != nil {
		return err
	}

	body, status, err := v.request(ctx, http.MethodPost, cfg.URL, cfg.Token, cfg.Namespace,
		"/v1/sys/mounts/"+strings.Trim(path, "/"), payload)
	if err != nil {
		return fmt.Errorf("enable secrets engine: %w", err)
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("vault returned status %d: %s", status, string(body))
	}
	return nil
}

// ReadSecret reads a KV secret, trying the v2 layout first and falling back
// to v1, matching how operators store backend-storage credentials.
func (v *VaultClient) ReadSecret(ctx context.Context, path string) (map[string]interface{}, error) {
	cfg, err := v.settings()
	if err != nil {
		return nil, err
	}

	path = strings.Trim(path, "/")

	// KV v2: /v1/secret/data/<path>, payload nested under data.data
	body, status, err := v.request(ctx, http.MethodGet, cfg.URL, cfg.Token, cfg.Namespace, "/v1/secret/data/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	if status == http.StatusOK {
		var resp struct {
			Data struct {
				Data map[string]interface{} `json:"data"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &resp); err == nil && resp.Data.Data != nil {
			return resp.Data.Data, nil
		}
	}

	// KV v1: /v1/secret/<path>, payload directly under data
	body, status, err = v.request(ctx, http.MethodGet, cfg.URL, cfg.Token, cfg.Namespace, "/v1/secret/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("secret %q not found in vault (status %d)", path, status)
	}

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode secret response: %w", err)
	}
	return resp.Data, nil
}

func (v *VaultClient) settings() (*config.VaultConfig, error) {
	cfg, err := v.store.Vault()
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.URL == "" || cfg.Token == "" {
		return nil, ErrVaultNotConfigured
	}
	return cfg, nil
}

func (v *VaultClient) request(ctx context.Context, method, baseURL, token, namespace, path string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(baseURL, "/")+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("X-Vault-Token", token)
	if namespace != "" {
		req.Header.Set("X-Vault-Namespace", namespace)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.client.Do(req)
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
