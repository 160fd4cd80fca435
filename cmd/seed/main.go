package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"cypress/internal/auth"
	"cypress/internal/config"
	"cypress/internal/repository/postgres"
	"cypress/internal/state"
	"cypress/internal/sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fixture is the YAML shape consumed by -fixture.
type fixture struct {
	User struct {
		ID       string `yaml:"id"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"user"`
	Workspaces []fixtureWorkspace `yaml:"workspaces"`
}

type fixtureWorkspace struct {
	Title   string          `yaml:"title"`
	IconID  string          `yaml:"icon_id"`
	Folders []fixtureFolder `yaml:"folders"`
}

type fixtureFolder struct {
	Title  string        `yaml:"title"`
	IconID string        `yaml:"icon_id"`
	Files  []fixtureFile `yaml:"files"`
}

type fixtureFile struct {
	Title  string `yaml:"title"`
	IconID string `yaml:"icon_id"`
	Data   string `yaml:"data"`
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	fixturePath := flag.String("fixture", "fixtures/demo.yaml", "YAML fixture to seed from")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot drop tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to read fixture %s: %v", *fixturePath, err)
	}
	var fix fixture
	if err := yaml.Unmarshal(raw, &fix); err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	ownerID, err := ensureDemoUser(ctx, pool, tables, cfg, &fix)
	if err != nil {
		log.Fatalf("Failed to ensure demo user: %v", err)
	}
	log.Printf("👤 Demo user ready (id: %s)", ownerID)

	// Seed through the same optimistic path the server uses, then wait for
	// every persist to land.
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	syncer := sync.NewSyncer(
		state.NewStore(state.AppState{}),
		postgres.NewWorkspaceRepository(repoConfig),
		postgres.NewFolderRepository(repoConfig),
		postgres.NewFileRepository(repoConfig),
		postgres.NewCollaboratorRepository(repoConfig),
		postgres.NewTransactionManager(pool),
		&sync.LogNotifier{Logger: logger},
		cfg.DebounceDelay,
		logger,
	)
	defer syncer.Close()

	log.Println("📝 Seeding workspaces...")
	for _, ws := range fix.Workspaces {
		workspace, err := syncer.CreateWorkspace(ctx, sync.CreateWorkspaceRequest{
			OwnerID: ownerID,
			Title:   ws.Title,
			IconID:  ws.IconID,
		})
		if err != nil {
			log.Fatalf("Failed to create workspace %q: %v", ws.Title, err)
		}

		for _, fo := range ws.Folders {
			folder, err := syncer.CreateFolder(ctx, sync.CreateFolderRequest{
				WorkspaceID: workspace.ID,
				Title:       fo.Title,
				IconID:      fo.IconID,
			})
			if err != nil {
				log.Fatalf("Failed to create folder %q: %v", fo.Title, err)
			}

			for _, fi := range fo.Files {
				file, err := syncer.CreateFile(ctx, sync.CreateFileRequest{
					WorkspaceID: workspace.ID,
					FolderID:    folder.ID,
					Title:       fi.Title,
					IconID:      fi.IconID,
				})
				if err != nil {
					log.Fatalf("Failed to create file %q: %v", fi.Title, err)
				}
				if fi.Data != "" {
					syncer.SaveFileData(ctx, workspace.ID, folder.ID, file.ID, fi.Data)
				}
			}
		}
	}

	syncer.Wait()
	log.Println("✅ Seeding complete")
}

// ensureDemoUser resolves the owner id for the fixture. When a service key is
// available the user is (re)created through the Supabase admin API; otherwise
// the fixture must carry an explicit id. Either way a profile row is upserted
// so collaborator search finds the account.
func ensureDemoUser(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, cfg *config.Config, fix *fixture) (string, error) {
	userID := fix.User.ID

	if serviceKey := os.Getenv("SUPABASE_SERVICE_KEY"); serviceKey != "" && fix.User.Email != "" {
		admin := auth.NewAdminClient(cfg.SupabaseURL, serviceKey)
		_ = admin.DeleteUserByEmail(fix.User.Email)
		id, err := admin.CreateUser(fix.User.Email, fix.User.Password)
		if err != nil {
			return "", err
		}
		userID = id
	}

	if userID == "" {
		log.Fatal("fixture user.id is required when SUPABASE_SERVICE_KEY is not set")
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO `+tables.Users+` (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
	`, userID, fix.User.Email)
	return userID, err
}

func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT,
			avatar_url TEXT,
			billing_address TEXT,
			payment_method TEXT,
			updated_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Subscriptions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			price_id TEXT,
			quantity INTEGER,
			cancel_at_period_end BOOLEAN,
			current_period_end TIMESTAMPTZ,
			created TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Workspaces + ` (
			id UUID PRIMARY KEY,
			workspace_owner UUID NOT NULL,
			title TEXT NOT NULL,
			icon_id TEXT NOT NULL,
			data TEXT,
			logo TEXT,
			banner_url TEXT,
			in_trash TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			icon_id TEXT NOT NULL,
			data TEXT,
			banner_url TEXT,
			in_trash TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY,
			folder_id UUID NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			icon_id TEXT NOT NULL,
			data TEXT,
			banner_url TEXT,
			in_trash TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Collaborators + ` (
			id UUID PRIMARY KEY,
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(workspace_id, user_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `workspaces_owner ON ` + tables.Workspaces + `(workspace_owner)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_workspace ON ` + tables.Folders + `(workspace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_folder ON ` + tables.Files + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_workspace ON ` + tables.Files + `(workspace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `collaborators_user ON ` + tables.Collaborators + `(user_id)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	drops := []string{
		`DROP TABLE IF EXISTS ` + tables.Collaborators + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.Files + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.Folders + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.Workspaces + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.Subscriptions + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.Users + ` CASCADE`,
	}
	for _, stmt := range drops {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
