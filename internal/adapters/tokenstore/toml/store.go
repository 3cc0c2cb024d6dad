package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/workai-app/workai-cli/internal/domain"
	"github.com/workai-app/workai-cli/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	tokensPathKey   = "tokens.path"
	tokensFileMode  = 0o600
	tokensDirMode   = 0o700
	configDir       = ".workai"
	tokensFile      = "tokens.toml"
	tempFilePattern = ".tokens-*.toml.tmp"
)

// Store keeps tokens in memory and mirrors every mutation to a single
// TOML file. Reads after the first load are served from memory.
type Store struct {
	tokensPath string
	mu         *sync.RWMutex
	loaded     bool
	cache      map[domain.TokenKind]string
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.TokenStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDir, tokensFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetDefault(tokensPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	tokensPath := cfg.GetString(tokensPathKey)
	if tokensPath == "" {
		return nil, errors.New("tokens path is empty")
	}
	tokensPath, err = normalizeTokensPath(tokensPath)
	if err != nil {
		return nil, err
	}

	return &Store{
		tokensPath: tokensPath,
		mu:         lockForPath(tokensPath),
		cache:      map[domain.TokenKind]string{},
	}, nil
}

func (s *Store) Get(ctx context.Context, kind domain.TokenKind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return "", err
	}

	value, ok := s.cache[kind]
	if !ok || value == "" {
		return "", fmt.Errorf("token %q: %w", kind, domain.ErrTokenNotFound)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, kind domain.TokenKind, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == "" {
		return s.Delete(ctx, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	previous, had := s.cache[kind]
	s.cache[kind] = value

	if err := s.writeLocked(); err != nil {
		if had {
			s.cache[kind] = previous
		} else {
			delete(s.cache, kind)
		}
		return err
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, kind domain.TokenKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	previous, had := s.cache[kind]
	if !had {
		return nil
	}
	delete(s.cache, kind)

	if err := s.writeLocked(); err != nil {
		s.cache[kind] = previous
		return err
	}

	return nil
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.tokensPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read tokens file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decode tokens file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return err
	}

	for key, value := range file.Tokens {
		if value == "" {
			continue
		}
		s.cache[domain.TokenKind(key)] = value
	}
	s.loaded = true

	return nil
}

func (s *Store) writeLocked() error {
	file := fileSchema{Version: schemaVersion, Tokens: map[string]string{}}
	for kind, value := range s.cache {
		file.Tokens[string(kind)] = value
	}

	if err := os.MkdirAll(filepath.Dir(s.tokensPath), tokensDirMode); err != nil {
		return fmt.Errorf("create tokens directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode tokens file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.tokensPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp tokens file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp tokens file: %w", err)
	}

	if err := tempFile.Chmod(tokensFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp tokens file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp tokens file: %w", err)
	}

	if err := os.Rename(tempName, s.tokensPath); err != nil {
		return fmt.Errorf("replace tokens file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.tokensPath, tokensFileMode); err != nil {
		return fmt.Errorf("chmod tokens file: %w", err)
	}

	return nil
}

func normalizeTokensPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve tokens path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
