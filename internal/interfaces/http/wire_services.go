package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	catalogApp "github.com/unical-dimes/professors/internal/application/catalog"
	permissionApp "github.com/unical-dimes/professors/internal/application/permission"
	"github.com/unical-dimes/professors/internal/application/user"
	"github.com/unical-dimes/professors/internal/application/user/helpers"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/infrastructure/auth"
	"github.com/unical-dimes/professors/internal/infrastructure/config"
	"github.com/unical-dimes/professors/internal/infrastructure/moderation"
	"github.com/unical-dimes/professors/internal/infrastructure/permission"
	"github.com/unical-dimes/professors/internal/infrastructure/ratelimit"
	"github.com/unical-dimes/professors/internal/infrastructure/scheduler"
	"github.com/unical-dimes/professors/internal/shared/biztime"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/services/markdown"
)

// initInfrastructure sets up Redis, repositories, the token codec, the
// password hasher and the casbin policy store.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.repos = newRepositories(c.db, c.log)
	c.txManager = db.NewTransactionManager(c.db)

	tokens, err := auth.NewTokenCodecFromConfig(cfg.Auth.JWT)
	if err != nil {
		return fmt.Errorf("failed to build token codec: %w", err)
	}
	c.tokens = tokens

	hasher, err := auth.NewPasswordHasher(cfg.Auth.Password)
	if err != nil {
		return fmt.Errorf("failed to build password hasher: %w", err)
	}
	c.hasher = hasher

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to build policy enforcer: %w", err)
	}
	if err := permission.InitDefaultPolicies(enforcer, c.log); err != nil {
		return fmt.Errorf("failed to seed default policies: %w", err)
	}
	c.enforcer = enforcer

	if cfg.RateLimit.Enabled {
		if c.redis != nil {
			c.limiter = ratelimit.NewRedisRateLimiter(c.redis, biztime.System)
		} else {
			c.limiter = ratelimit.NewMemoryRateLimiter(biztime.System)
		}
	}

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// initAuth wires the session store, the user service and the admin use cases.
func (c *Container) initAuth() {
	c.permissionService = permissionApp.NewService(c.repos.roleRepo, c.enforcer, c.txManager, c.log)
	c.sessions = helpers.NewSessionStore(
		c.repos.sessionRepo,
		c.tokens,
		c.txManager,
		biztime.System,
		c.cfg.Auth.Session.MaxActivePerUser,
		c.log,
	)

	c.userService = user.NewServiceDDD(user.Dependencies{
		UserRepo:       c.repos.userRepo,
		Sessions:       c.sessions,
		Tokens:         c.tokens,
		Hasher:         c.hasher,
		RoleAssigner:   c.permissionService,
		PasswordPolicy: vo.NewPasswordPolicy(c.cfg.Auth.Password.MinLength),
		TxManager:      c.txManager,
	}, c.log)

	c.ucs = c.newAdminUseCases()
}

// initCatalog wires the moderation gate and the catalog service.
func (c *Container) initCatalog() error {
	modCfg := c.cfg.Moderation
	evaluator, err := moderation.NewHeuristicEvaluator(moderation.Options{
		Threshold:        modCfg.BlockThreshold,
		ModelVersion:     modCfg.ModelVersion,
		LexiconPath:      modCfg.LexiconPath,
		AllowedLanguages: modCfg.AllowedLanguages,
	})
	if err != nil {
		return fmt.Errorf("failed to build moderation evaluator: %w", err)
	}

	c.catalogService = catalogApp.NewService(
		c.repos.teacherRepo,
		c.repos.courseRepo,
		c.repos.reviewRepo,
		evaluator,
		markdown.NewMarkdownService(),
		c.log,
	)
	return nil
}

// initScheduler registers the expired-session sweep. The scheduler is
// started by Router.StartBackground.
func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := time.Duration(c.cfg.Auth.Session.CleanupIntervalMinutes) * time.Minute
	if interval > 0 {
		if err := manager.RegisterSessionCleanupJob(scheduler.BatchJobFunc(c.sessions.SweepExpired), interval); err != nil {
			return fmt.Errorf("failed to register session cleanup: %w", err)
		}
	}
	c.schedulerManager = manager
	return nil
}
