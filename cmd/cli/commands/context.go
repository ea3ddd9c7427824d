package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/internal/config"
	"github.com/jakechorley/lesson-scheduler/pkg/clients/sheetsclient"
	"github.com/jakechorley/lesson-scheduler/pkg/db"
	"github.com/jakechorley/lesson-scheduler/pkg/ingest"
	"github.com/jakechorley/lesson-scheduler/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands.
// Input sources and the database are opened on demand since not every command needs them.
type AppContext struct {
	Cfg    *config.Config
	Env    string
	Logger *zap.Logger
	Ctx    context.Context
}

// Source opens the configured teacher and student tables
func (app *AppContext) Source() (ingest.Source, error) {
	inputs := app.Cfg.Inputs

	switch inputs.Source {
	case "csv":
		app.Logger.Debug("Reading inputs from CSV",
			zap.String("teachers_file", inputs.TeachersFile),
			zap.String("students_file", inputs.StudentsFile))
		return &ingest.CSVSource{
			TeachersFile: inputs.TeachersFile,
			StudentsFile: inputs.StudentsFile,
		}, nil

	case "sheets":
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		app.Logger.Info("Initializing sheets client")
		client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Logger.Debug("Sheets client initialized successfully")

		return &ingest.SheetsSource{
			Reader:        client,
			SpreadsheetID: inputs.SpreadsheetID,
			TeachersTab:   inputs.TeachersTab,
			StudentsTab:   inputs.StudentsTab,
		}, nil

	default:
		return nil, fmt.Errorf("unknown input source %q", inputs.Source)
	}
}

// Store connects to the configured database and applies migrations.
// Returns a nil store and a no-op close function when no database is configured.
func (app *AppContext) Store() (db.TimetableStore, func(), error) {
	url := app.Cfg.Output.DatabaseURL
	if url == "" {
		return nil, func() {}, nil
	}

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, url, app.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(app.Ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Database ready")

	return database, database.Close, nil
}
