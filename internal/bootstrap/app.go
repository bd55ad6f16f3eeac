package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-intro-backend/internal/generations"
	"resume-intro-backend/internal/intros"
	"resume-intro-backend/internal/llm"
	"resume-intro-backend/internal/llm/openrouter"
	"resume-intro-backend/internal/shared/config"
	"resume-intro-backend/internal/shared/server"
	"resume-intro-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	GenerationsRepo generations.Repo
	IntroService    *intros.Service
	IntroHandler    *intros.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	var genRepo generations.Repo
	if sqlDB != nil {
		genRepo = &generations.PGRepo{DB: sqlDB}
	} else {
		genRepo = generations.NewMemoryRepo()
	}

	introSvc := &intros.Service{LLM: llmClient, Repo: genRepo}

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		GenerationsRepo: genRepo,
		IntroService:    introSvc,
		IntroHandler:    intros.NewHandler(introSvc),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       app.Config,
		IntroHandler: app.IntroHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory generations repo")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory generations repo: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory generations repo: %v", err)
			sqlDB.Close()
			return nil, nil
		}
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openrouter" {
		log.Printf("bootstrap: LLM_PROVIDER %q not wired; completion calls will fail", cfg.LLMProvider)
		return llm.PlaceholderClient{}, nil
	}

	apiKey := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	if apiKey == "" && isDevLike(cfg.Env) {
		log.Printf("bootstrap: OPENROUTER_API_KEY empty; completion calls will fail")
		return llm.PlaceholderClient{}, nil
	}

	return openrouter.NewClient(apiKey, cfg.LLMModel, cfg.LLMBaseURL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
