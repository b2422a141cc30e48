package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	catalogApp "github.com/unical-dimes/professors/internal/application/catalog"
	permissionApp "github.com/unical-dimes/professors/internal/application/permission"
	userApp "github.com/unical-dimes/professors/internal/application/user"
	"github.com/unical-dimes/professors/internal/application/user/helpers"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/infrastructure/auth"
	"github.com/unical-dimes/professors/internal/infrastructure/config"
	"github.com/unical-dimes/professors/internal/infrastructure/database"
	"github.com/unical-dimes/professors/internal/infrastructure/migration"
	"github.com/unical-dimes/professors/internal/infrastructure/moderation"
	"github.com/unical-dimes/professors/internal/infrastructure/permission"
	"github.com/unical-dimes/professors/internal/infrastructure/repository"
	"github.com/unical-dimes/professors/internal/shared/biztime"
	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/services/markdown"
)

var (
	env    string
	sample bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed roles, the default admin and policies",
		Long: `Create the built-in roles, the default admin account (auth.admin.email /
DEFAULT_ADMIN_EMAIL) and the default access policies. With --sample, also
load a small teacher catalog when the catalog is empty.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().BoolVar(&sample, "sample", false, "Load sample teachers, courses and reviews")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	manager, err := migration.NewManager(&cfg.Database)
	if err != nil {
		return err
	}
	if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
		return fmt.Errorf("failed to migrate before seeding: %w", err)
	}

	seeder, err := Build(database.Get(), cfg, log)
	if err != nil {
		return err
	}

	report, err := seeder.Run(context.Background(), cfg.Auth.Admin.Email, cfg.Auth.Admin.Password, sample)
	if err != nil {
		log.Errorw("seed failed", "error", err)
		return err
	}

	out := cmd.OutOrStdout()
	if report.AdminCreated {
		fmt.Fprintf(out, "Created default admin user with email '%s'\n", cfg.Auth.Admin.Email)
	}
	if sample {
		fmt.Fprintf(out, "Sample data: %d teachers, %d courses, %d reviews\n", report.Teachers, report.Courses, report.Reviews)
	}
	fmt.Fprintln(out, "Database seeded successfully")
	return nil
}

// Build wires a Seeder over gdb. The casbin default policies are loaded as
// part of building the enforcer.
func Build(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Seeder, error) {
	tx := db.NewTransactionManager(gdb)

	enforcer, err := permission.NewEnforcer(gdb, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build policy enforcer: %w", err)
	}
	if err := permission.InitDefaultPolicies(enforcer, log); err != nil {
		return nil, fmt.Errorf("failed to seed default policies: %w", err)
	}

	tokens, err := auth.NewTokenCodecFromConfig(cfg.Auth.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}
	hasher, err := auth.NewPasswordHasher(cfg.Auth.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to build password hasher: %w", err)
	}

	userRepo := repository.NewUserRepository(gdb, log)
	perms := permissionApp.NewService(repository.NewRoleRepository(gdb), enforcer, tx, log)
	sessions := helpers.NewSessionStore(repository.NewSessionRepository(gdb), tokens, tx, biztime.System, cfg.Auth.Session.MaxActivePerUser, log)

	users := userApp.NewServiceDDD(userApp.Dependencies{
		UserRepo:       userRepo,
		Sessions:       sessions,
		Tokens:         tokens,
		Hasher:         hasher,
		RoleAssigner:   perms,
		PasswordPolicy: vo.NewPasswordPolicy(cfg.Auth.Password.MinLength),
		TxManager:      tx,
	}, log)

	evaluator, err := moderation.NewHeuristicEvaluator(moderation.Options{
		Threshold:        cfg.Moderation.BlockThreshold,
		ModelVersion:     cfg.Moderation.ModelVersion,
		LexiconPath:      cfg.Moderation.LexiconPath,
		AllowedLanguages: cfg.Moderation.AllowedLanguages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build moderation evaluator: %w", err)
	}

	catalog := catalogApp.NewService(
		repository.NewTeacherRepository(gdb),
		repository.NewCourseRepository(gdb),
		repository.NewReviewRepository(gdb),
		evaluator,
		markdown.NewMarkdownService(),
		log,
	)

	return NewSeeder(perms, userRepo, users, catalog, log), nil
}
