package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appPermission "github.com/unical-dimes/professors/internal/application/permission"
	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/domain/user"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/infrastructure/auth"
	"github.com/unical-dimes/professors/internal/infrastructure/permission"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/infrastructure/repository"
	"github.com/unical-dimes/professors/internal/shared/biztime"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

const testPassword = "correct-horse-battery"

type testEnv struct {
	db       *gorm.DB
	users    user.Repository
	sessions user.SessionRepository
	codec    *auth.TokenCodec
	clock    *biztime.FixedClock
	store    *helpers.SessionStore
	roles    *appPermission.Service

	register *RegisterUserUseCase
	login    *LoginWithPasswordUseCase
	refresh  *RefreshTokenUseCase
	logout   *LogoutUseCase
	identity *ResolveIdentityUseCase
}

func newTestEnv(t *testing.T, maxActive int) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	log := logger.NewNopLogger()
	clock := &biztime.FixedClock{T: time.Now().UTC().Truncate(time.Second)}
	codec, err := auth.NewTokenCodec(auth.TokenCodecConfig{
		Access:   auth.TokenDomainConfig{Secret: "access-secret", Algorithm: "HS256", TTL: 15 * time.Minute},
		Refresh:  auth.TokenDomainConfig{Secret: "refresh-secret", Algorithm: "HS512", TTL: 7 * 24 * time.Hour},
		Issuer:   "test-issuer",
		Audience: "test-audience",
	})
	require.NoError(t, err)
	codec = codec.WithClock(clock)

	enforcer, err := permission.NewMemoryEnforcer(log)
	require.NoError(t, err)

	txManager := db.NewTransactionManager(gdb)
	users := repository.NewUserRepository(gdb, log)
	sessions := repository.NewSessionRepository(gdb)
	roles := appPermission.NewService(repository.NewRoleRepository(gdb), enforcer, txManager, log)
	hasher := auth.NewArgon2idPasswordHasher(1, 8*1024, 1)
	store := helpers.NewSessionStore(sessions, codec, txManager, clock, maxActive, log)

	return &testEnv{
		db:       gdb,
		users:    users,
		sessions: sessions,
		codec:    codec,
		clock:    clock,
		store:    store,
		roles:    roles,
		register: NewRegisterUserUseCase(users, roles, hasher, vo.NewPasswordPolicy(12), txManager, log),
		login:    NewLoginWithPasswordUseCase(users, hasher, codec, store, log),
		refresh:  NewRefreshTokenUseCase(users, codec, store, log),
		logout:   NewLogoutUseCase(store, log),
		identity: NewResolveIdentityUseCase(users, codec, log),
	}
}

func (e *testEnv) registerUser(t *testing.T, email string) *user.User {
	t.Helper()
	result, err := e.register.Execute(context.Background(), RegisterUserCommand{Email: email, Password: testPassword})
	require.NoError(t, err)
	return result.User
}

func (e *testEnv) loginUser(t *testing.T, email string) *LoginWithPasswordResult {
	t.Helper()
	result, err := e.login.Execute(context.Background(), LoginWithPasswordCommand{Email: email, Password: testPassword})
	require.NoError(t, err)
	return result
}

func (e *testEnv) deactivate(t *testing.T, u *user.User) {
	t.Helper()
	u.Deactivate()
	require.NoError(t, e.users.Update(context.Background(), u))
}
