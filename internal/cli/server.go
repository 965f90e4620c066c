package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizdrill/internal/app"
	"quizdrill/internal/config"
	"quizdrill/internal/gen"
	"quizdrill/internal/infra/memory"
	pgstore "quizdrill/internal/infra/postgres"
	redisinfra "quizdrill/internal/infra/redis"
	sqlitestore "quizdrill/internal/infra/sqlite"
	transport "quizdrill/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the drill server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Storage.Driver == "postgres" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	documents, closeStore, err := buildDocumentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	loader := memory.NewDocumentQuizLoader(documents)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var generator app.Generator
	if cfg.Generator.BaseURL != "" && cfg.Generator.APIKey != "" {
		timeout := config.TTLDuration(cfg.Generator.Timeout, 60*time.Second)
		generator = clientGenerator{client: gen.NewClient(cfg.Generator.BaseURL, cfg.Generator.APIKey, cfg.Generator.Model, timeout)}
	}

	service := app.NewDrillService(sessions, quizRepo, documents, generator)
	handler := transport.NewRouter(service, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting drill server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildDocumentStore opens the configured document store and returns it
// with its cleanup.
func buildDocumentStore(ctx context.Context, cfg config.Config) (app.DocumentStore, func(), error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return memory.NewDocumentStore(), func() {}, nil
	case "sqlite":
		db, err := sqlitestore.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlitestore.NewDocumentStore(db), func() { _ = db.Close() }, nil
	case "postgres":
		if cfg.Storage.DSN == "" {
			return nil, nil, fmt.Errorf("postgres dsn not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewDocumentStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// clientGenerator adapts the chat completion client to the service's
// generator port.
type clientGenerator struct {
	client *gen.Client
}

func (g clientGenerator) Generate(ctx context.Context, title, sourceText string, questionCount int) (string, error) {
	return g.client.Generate(ctx, gen.Request{Title: title, SourceText: sourceText, QuestionCount: questionCount})
}
