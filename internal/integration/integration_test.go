package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quizdrill/internal/app"
	"quizdrill/internal/domain"
	"quizdrill/internal/infra/memory"
	pgstore "quizdrill/internal/infra/postgres"
	pgmigrations "quizdrill/internal/infra/postgres/migrations"
	redisinfra "quizdrill/internal/infra/redis"
)

const drillQuestions = `1. Which join keeps unmatched left rows?
A. INNER JOIN
B. LEFT JOIN
C. CROSS JOIN

2. [Multiple] Which statements modify data?
A. SELECT
B. INSERT
C. UPDATE
`

const drillAnswers = `1. Correct: B
Explanation: LEFT JOIN preserves the left side.

2. Correct: B, C
`

func TestDrillEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDatabase(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	documents := pgstore.NewDocumentStore(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	quizRepo := redisinfra.NewQuizRepository(redisClient, memory.NewDocumentQuizLoader(documents), 5*time.Minute)
	sessions := redisinfra.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewDrillService(sessions, quizRepo, documents, nil)

	quiz, err := service.CreateQuiz(ctx, "SQL drill", drillQuestions, drillAnswers)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}

	summaries, err := service.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list quizzes: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != quiz.ID {
		t.Fatalf("expected stored quiz listed, got %+v", summaries)
	}

	view, err := service.StartSession(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	// Wrong pick on the single-answer question locks it immediately.
	feedback, progress, err := service.Toggle(ctx, view.SessionID, "1", "A")
	if err != nil {
		t.Fatalf("toggle q1: %v", err)
	}
	if feedback.Status != domain.StatusIncorrect {
		t.Fatalf("expected incorrect, got %s", feedback.Status)
	}
	if progress.Answered != 1 {
		t.Fatalf("expected 1 answered, got %d", progress.Answered)
	}

	// Checking exactly the correct set completes the multiple question.
	if _, _, err := service.Toggle(ctx, view.SessionID, "2", "B"); err != nil {
		t.Fatalf("toggle q2 B: %v", err)
	}
	feedback, progress, err = service.Toggle(ctx, view.SessionID, "2", "C")
	if err != nil {
		t.Fatalf("toggle q2 C: %v", err)
	}
	if feedback.Status != domain.StatusCorrect {
		t.Fatalf("expected correct, got %s", feedback.Status)
	}
	if progress.Answered != 2 || progress.Percent != 50 {
		t.Fatalf("expected 2 answered at 50%%, got %+v", progress)
	}

	summary, err := service.Summary(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Percent != 50 || len(summary.Incorrect) != 1 || summary.Incorrect[0].ID != "1" {
		t.Fatalf("expected question 1 in review at 50%%, got %+v", summary)
	}

	export, err := service.Export(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(export.IncorrectQuestions) != 1 {
		t.Fatalf("expected 1 exported question, got %d", len(export.IncorrectQuestions))
	}
}

func migrateDatabase(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "drill", "POSTGRES_PASSWORD": "drillpass", "POSTGRES_DB": "drilldb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://drill:drillpass@%s:%s/drilldb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
