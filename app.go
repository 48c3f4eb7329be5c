package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/leafdoc-core/server/internal/agent/audio"
	"github.com/leafdoc-core/server/internal/agent/cache"
	"github.com/leafdoc-core/server/internal/agent/chat"
	"github.com/leafdoc-core/server/internal/agent/gemini"
	"github.com/leafdoc-core/server/internal/agent/geo"
	"github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/repo"
	"github.com/leafdoc-core/server/internal/agent/screen"
	"github.com/leafdoc-core/server/internal/agent/speech"
	"github.com/leafdoc-core/server/internal/core"
	logx "github.com/leafdoc-core/server/pkg/logger"
	pkgredis "github.com/leafdoc-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters, sourced from environment
// variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider. The key is optional at startup; without it every
	// analysis reports a configuration error.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Analysis model.AnalysisModelConfig
	Speech   model.SpeechModelConfig
	Chat     model.ChatModelConfig
	History  model.HistoryConfig
	Location model.LocationConfig

	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"en"`
	AudioOutputDir  string `envconfig:"AUDIO_OUTPUT_DIR" default:"narration"`
}

func loadConfig(envFile string) (AppConfig, error) {
	var cfg AppConfig
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			logx.Warn().Err(err).Str("file", envFile).Msg("could not load env file")
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to process environment config: %w", err)
	}
	return cfg, nil
}

// App holds the wired components for one interactive session.
type App struct {
	Screen  *screen.Controller
	Speech  *speech.Controller
	History model.HistoryRepository

	out     *syncWriter
	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg AppConfig, out io.Writer) (*App, error) {
	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	app := &App{out: &syncWriter{w: out}}

	history, closeHistory, err := newHistory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.History = history
	if closeHistory != nil {
		app.closers = append(app.closers, closeHistory)
	}

	client, clientErr := gemini.NewClient(ctx, gemini.ClientConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	if clientErr != nil {
		logx.Warn().Err(clientErr).Msg("Gemini client unavailable; analysis will report a setup error")
	}

	player := &audio.FilePlayer{
		Dir: cfg.AudioOutputDir,
		OnFile: func(path string) {
			fmt.Fprintf(app.out, "🔊 narration saved to %s\n", path)
		},
	}
	app.Speech = speech.NewController(gemini.NewSynthesizer(client, clientErr, cfg.Speech), player, cfg.Speech.MaxChars)
	app.closers = append(app.closers, app.Speech.Close)

	locator, err := geo.NewStaticFromConfig(cfg.Location)
	if err != nil {
		logx.Warn().Err(err).Msg("ignoring configured location")
	}
	locateTimeout, err := time.ParseDuration(cfg.Location.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_TIMEOUT '%s': %w", cfg.Location.Timeout, err)
	}

	lang := model.MatchLanguage(cfg.DefaultLanguage)
	scfg := screen.Config{
		Analyzer:      gemini.NewAnalyzer(client, clientErr, cfg.Analysis),
		Cache:         cache.NewResults(),
		History:       history,
		Speech:        app.Speech,
		Locator:       locator,
		LocateTimeout: locateTimeout,
		Sharer:        &writerSharer{w: app.out},
		Language:      lang,
	}
	if client != nil {
		cm, err := gemini.NewChatModel(ctx, client, cfg.Chat)
		if err != nil {
			return nil, err
		}
		svc, err := chat.NewService(ctx, cm, cfg.Chat)
		if err != nil {
			return nil, err
		}
		scfg.Chat = svc
	}

	app.Screen, err = screen.NewController(scfg)
	if err != nil {
		return nil, err
	}
	logx.Info().Str("env", env.String()).Str("lang", lang.String()).Bool("gemini", client != nil).Msg("leafdoc ready")
	return app, nil
}

// newHistory prefers Redis and falls back to process memory when Redis is not
// configured or unreachable.
func newHistory(ctx context.Context, cfg AppConfig) (model.HistoryRepository, func(), error) {
	ttl, err := time.ParseDuration(cfg.History.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid HISTORY_TTL '%s': %w", cfg.History.TTL, err)
	}
	if !cfg.Redis.Enabled() {
		return repo.NewMemoryHistoryRepository(cfg.History.MaxItems), nil, nil
	}

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("Redis unavailable; history kept in memory")
		return repo.NewMemoryHistoryRepository(cfg.History.MaxItems), nil, nil
	}
	logx.Info().Msg("Connected to Redis successfully")
	closeFn := func() { _ = rdb.Close() }
	return repo.NewRedisHistoryRepository(rdb, cfg.History.Key, cfg.History.MaxItems, ttl), closeFn, nil
}
