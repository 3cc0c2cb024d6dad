package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/workai-app/workai-cli/internal/adapters/backend"
	statusadapter "github.com/workai-app/workai-cli/internal/adapters/render/status"
	chainstore "github.com/workai-app/workai-cli/internal/adapters/tokenstore/chain"
	"github.com/workai-app/workai-cli/internal/application"
	"github.com/workai-app/workai-cli/internal/ports"
)

const (
	apiURLKey   = "api.url"
	logLevelKey = "log.level"

	defaultAPIURL      = "http://localhost:3000"
	defaultLogLevel    = "warn"
	defaultOAuthListen = "127.0.0.1:8756"
	oauthWaitTimeout   = 5 * time.Minute
)

type app struct {
	cfg            *viper.Viper
	logger         zerolog.Logger
	tokenStore     ports.TokenStore
	backend        *backend.Client
	sessions       *application.SessionService
	providers      *application.ProviderService
	statusRenderer func(statusadapter.Report, statusadapter.RenderOptions) (string, error)
	oauthListen    string
	oauthTimeout   time.Duration
	clock          ports.Clock
}

func wireApp() (*app, error) {
	cfg := viper.New()
	cfg.SetEnvPrefix("WORKAI")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	cfg.SetDefault(apiURLKey, defaultAPIURL)
	cfg.SetDefault(logLevelKey, defaultLogLevel)

	logger, err := newLogger(cfg.GetString(logLevelKey))
	if err != nil {
		return nil, err
	}

	tokenStore, err := chainstore.NewPassFirstWithFileFallback(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire token store chain: %w", err)
	}

	client, err := backend.NewClient(cfg.GetString(apiURLKey), http.DefaultClient, logger)
	if err != nil {
		return nil, fmt.Errorf("wire backend client: %w", err)
	}

	return &app{
		cfg:            cfg,
		logger:         logger,
		tokenStore:     tokenStore,
		backend:        client,
		sessions:       application.NewSessionService(tokenStore, client, logger),
		providers:      application.NewProviderService(tokenStore, client, logger),
		statusRenderer: statusadapter.Render,
		oauthListen:    envOrDefault("WORKAI_OAUTH_LISTEN", defaultOAuthListen),
		oauthTimeout:   oauthWaitTimeout,
		clock:          ports.SystemClock{},
	}, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger(), nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
