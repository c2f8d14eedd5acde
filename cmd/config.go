package cmd

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/kwoodhouse93/runplan-sync/runplan"
)

type Config struct {
	BaseURL               string        `envconfig:"RUNPLAN_BASE_URL" default:"https://runplan.training"`
	ClientID              string        `envconfig:"RUNPLAN_CLIENT_ID"`
	ClientSecret          string        `envconfig:"RUNPLAN_CLIENT_SECRET"`
	RedirectURL           string        `envconfig:"RUNPLAN_REDIRECT_URL"`
	Token                 string        `envconfig:"RUNPLAN_TOKEN"`
	PageSize              int           `envconfig:"RUNPLAN_PAGE_SIZE" default:"200"`
	TimeZone              string        `envconfig:"RUNPLAN_TIMEZONE" default:"UTC"`
	HTTPTimeout           time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	PostgresConnectionURL string        `envconfig:"POSTGRES_CONNECTION_URL"`
	LogLevel              string        `envconfig:"LOG_LEVEL" default:"info"`
}

func loadConfig() (Config, error) {
	config := Config{}
	err := envconfig.Process("", &config)
	if err != nil {
		return Config{}, errors.Wrap(err, "cmd: failed to load config")
	}
	return config, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "cmd: invalid LOG_LEVEL %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func newRunplanAPI(config Config, logger *slog.Logger) (*runplan.API, error) {
	loc, err := time.LoadLocation(config.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "cmd: invalid RUNPLAN_TIMEZONE %q", config.TimeZone)
	}
	client := &http.Client{Timeout: config.HTTPTimeout}
	return runplan.NewAPI(runplan.Config{
		BaseURL:      config.BaseURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		PageSize:     config.PageSize,
		Location:     loc,
	}, client, runplan.WithLogger(logger.With("service", runplan.Capabilities().ID))), nil
}
