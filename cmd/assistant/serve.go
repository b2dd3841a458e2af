package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/plannerhq/assistant/internal/agent"
	"github.com/plannerhq/assistant/internal/chat"
	"github.com/plannerhq/assistant/internal/config"
	"github.com/plannerhq/assistant/internal/handlers"
	"github.com/plannerhq/assistant/internal/links"
	"github.com/plannerhq/assistant/internal/llm"
	"github.com/plannerhq/assistant/internal/logger"
	"github.com/plannerhq/assistant/internal/narrator"
	"github.com/plannerhq/assistant/internal/server"
	"github.com/plannerhq/assistant/internal/tools"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideLLMClient,
			provideToolRegistry,
			provideGraph,
			provideNarrator,
			provideSuggester,
			provideChatService,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(handlers.NewChatHandler),
			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideLLMClient(log *slog.Logger, cfg config.Config) *llm.OpenAIClient {
	return llm.NewOpenAIClient(log, cfg.LLM)
}

func provideToolRegistry() *tools.Registry {
	return tools.NewRegistry(tools.Weather())
}

func provideGraph(log *slog.Logger, client *llm.OpenAIClient, registry *tools.Registry, cfg config.Config) *agent.Graph {
	return agent.New(log, client, registry, cfg.Chat.MaxToolCycles)
}

func provideNarrator(cfg config.Config) *narrator.Narrator {
	return narrator.New(cfg.Chat.ThinkingDelay(), nil)
}

func provideSuggester() links.Suggester {
	return links.NewStatic()
}

func provideChatService(log *slog.Logger, graph *agent.Graph, narr *narrator.Narrator, suggester links.Suggester, cfg config.Config) *chat.Service {
	return chat.NewService(log, graph, narr, suggester, cfg.Chat.TokenDelay(), nil)
}

func provideAuthHandler(log *slog.Logger, cfg config.Config) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, cfg.Admin, cfg.Auth.JWTSecret, cfg.Auth.ExpiresIn())
}

type serverParams struct {
	fx.In
	Logger   *slog.Logger
	Config   config.Config
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.Config.Auth.JWTSecret, params.Handlers)
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
