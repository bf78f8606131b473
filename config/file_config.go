package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileConfig holds operator-editable integration settings that live outside
// the database, persisted as YAML on disk.
type FileConfig struct {
	Vault *VaultConfig `yaml:"vault,omitempty"`
}

type VaultConfig struct {
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	Namespace string `yaml:"namespace,omitempty"`
}

// FileStore reads and writes the integration config file. Writes replace the
// whole file; a mutex keeps concurrent handler saves from interleaving.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read() (*FileConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) read() (*FileConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *FileStore) Write(cfg *FileConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// SetVault updates only the vault section, preserving the rest of the file.
func (s *FileStore) SetVault(vault *VaultConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if err != nil {
		return err
	}
	cfg.Vault = vault

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Vault returns the stored vault config, or nil when not configured.
func (s *FileStore) Vault() (*VaultConfig, error) {
	cfg, err := s.Read()
	if err != nil {
		return nil, err
	}
	return cfg.Vault, nil
}
