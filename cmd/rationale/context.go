package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"rationale/internal/api"
	"rationale/internal/config"
	"rationale/internal/history"
	"rationale/internal/logging"
	"rationale/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) sessionStore() (*session.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return session.NewStore(cfg.Paths.StateDir)
}

func (c *commandContext) historyStore(ctx context.Context) (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(ctx, cfg.Paths.StateDir, c.loggerValue())
}

// anonClient builds an API client without a bearer token. Only login uses it.
func (c *commandContext) anonClient() (*api.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return api.New(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.RequestTimeout) * time.Second}),
		api.WithLogger(c.loggerValue()),
	)
}

// apiClient builds an API client carrying the persisted session token.
func (c *commandContext) apiClient() (*api.Client, *session.Session, error) {
	store, err := c.sessionStore()
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return nil, nil, errors.New("not logged in; run `rationale login` first")
		}
		return nil, nil, fmt.Errorf("load session: %w", err)
	}

	client, err := c.anonClient()
	if err != nil {
		return nil, nil, err
	}
	client.SetToken(sess.Token)
	return client, sess, nil
}

// watchTimeout bounds blocking watch loops.
func (c *commandContext) watchTimeout() time.Duration {
	cfg, err := c.ensureConfig()
	if err != nil || cfg.Workflow.WatchTimeout <= 0 {
		return time.Hour
	}
	return time.Duration(cfg.Workflow.WatchTimeout) * time.Second
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
