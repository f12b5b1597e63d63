package authsession

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/viant/authsession/authstore"
	"github.com/viant/authsession/filetoken"
)

// Options defines options for configuring the session components.
type Options struct {
	BaseURL                string `yaml:"baseURL" json:"baseURL" short:"u" long:"url" env:"AUTHSESSION_BASE_URL" description:"api base url"`
	StorageURL             string `yaml:"storageURL,omitempty" json:"storageURL,omitempty" short:"s" long:"storage" env:"AUTHSESSION_STORAGE_URL" description:"session storage: mem, a local directory or an afs URL"`
	RedisAddr              string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty" long:"redis" env:"AUTHSESSION_REDIS_ADDR" description:"redis address, takes precedence over storage URL"`
	RedisPrefix            string `yaml:"redisPrefix,omitempty" json:"redisPrefix,omitempty" long:"redis-prefix" env:"AUTHSESSION_REDIS_PREFIX" description:"redis key prefix"`
	AuthStorageKey         string `yaml:"authStorageKey,omitempty" json:"authStorageKey,omitempty" long:"auth-key" env:"AUTHSESSION_AUTH_KEY" description:"session storage key"`
	FileTokenKey           string `yaml:"fileTokenKey,omitempty" json:"fileTokenKey,omitempty" long:"file-token-key" env:"AUTHSESSION_FILE_TOKEN_KEY" description:"file token storage key"`
	FileTokenMarginSeconds int    `yaml:"fileTokenMarginSeconds,omitempty" json:"fileTokenMarginSeconds,omitempty" long:"file-token-margin" env:"AUTHSESSION_FILE_TOKEN_MARGIN" description:"seconds before expiry a file token is renewed"`
	TimeoutSeconds         int    `yaml:"timeoutSeconds,omitempty" json:"timeoutSeconds,omitempty" long:"timeout" env:"AUTHSESSION_TIMEOUT" description:"http timeout in seconds, 0 disables"`
	Lang                   string `yaml:"lang,omitempty" json:"lang,omitempty" long:"lang" env:"AUTHSESSION_LANG" description:"Accept-Language header"`
	LogLevel               string `yaml:"logLevel,omitempty" json:"logLevel,omitempty" short:"l" long:"log-level" env:"AUTHSESSION_LOG_LEVEL" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"disabled"`
}

// Init applies defaults to unset options.
func (o *Options) Init() {
	if o.StorageURL == "" {
		o.StorageURL = "mem"
	}
	if o.AuthStorageKey == "" {
		o.AuthStorageKey = authstore.DefaultStorageKey
	}
	if o.FileTokenKey == "" {
		o.FileTokenKey = filetoken.DefaultStorageKey
	}
	if o.FileTokenMarginSeconds <= 0 {
		o.FileTokenMarginSeconds = int(filetoken.DefaultMargin / time.Second)
	}
	if o.Lang == "" {
		o.Lang = "en-US"
	}
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
}

// Validate checks required options.
func (o *Options) Validate() error {
	if o.BaseURL == "" {
		return fmt.Errorf("base url was empty")
	}
	return nil
}

// FileTokenMargin returns the file token safety margin.
func (o *Options) FileTokenMargin() time.Duration {
	return time.Duration(o.FileTokenMarginSeconds) * time.Second
}

// Timeout returns the http timeout.
func (o *Options) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// LoadEnv fills options left unset from AUTHSESSION_* environment variables.
func (o *Options) LoadEnv(ctx context.Context) error {
	if err := envconfig.Process(ctx, o); err != nil {
		return fmt.Errorf("failed to load options from environment: %w", err)
	}
	return nil
}

// LoadOptions reads options from the environment and applies defaults.
func LoadOptions(ctx context.Context) (*Options, error) {
	ret := &Options{}
	if err := ret.LoadEnv(ctx); err != nil {
		return nil, err
	}
	ret.Init()
	return ret, nil
}
