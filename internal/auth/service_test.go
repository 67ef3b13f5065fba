package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/bistro-backend/internal/users"
	pkgAuth "github.com/angelmondragon/bistro-backend/pkg/auth"
	"github.com/angelmondragon/bistro-backend/pkg/auth/session"
	"github.com/angelmondragon/bistro-backend/pkg/config"
	"github.com/angelmondragon/bistro-backend/pkg/db/dbtest"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	mu      sync.Mutex
	created []*session.Session
	revoked []string
}

func (f *fakeSessions) Create(_ context.Context, userID uuid.UUID, role enums.UserRole, email, name string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess := &session.Session{ID: session.NewID(), UserID: userID, Role: role, Email: email, Name: name}
	f.created = append(f.created, sess)
	return sess, nil
}

func (f *fakeSessions) Revoke(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, id)
	return nil
}

type countingLimiter struct {
	counts map[string]int64
}

func (c *countingLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	c.counts[scope]++
	return c.counts[scope] <= limit, c.counts[scope], nil
}

var jwtCfg = config.JWTConfig{Secret: "test-secret", Issuer: "bistro", ExpirationMinutes: 60}

func fastHasher() *security.Hasher {
	return security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
}

type fixture struct {
	svc      Service
	repo     *users.Repository
	sessions *fakeSessions
	limiter  *countingLimiter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	repo := users.NewRepository(client.DB())
	sessions := &fakeSessions{}
	limiter := &countingLimiter{counts: map[string]int64{}}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		Hasher:         fastHasher(),
		RateLimiter:    limiter,
		JWTConfig:      jwtCfg,
		RateLimit:      config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginEmailLimit: 3, LoginIPLimit: 10},
	})
	require.NoError(t, err)
	return &fixture{svc: svc, repo: repo, sessions: sessions, limiter: limiter}
}

func (f *fixture) seedAdmin(t *testing.T) {
	t.Helper()
	hash, err := fastHasher().Hash("kitchen-pass")
	require.NoError(t, err)
	_, err = f.repo.Create(context.Background(), users.CreateUserDTO{
		Email: "admin@bistro.test", PasswordHash: hash, Name: "Admin", Role: enums.UserRoleAdmin,
	})
	require.NoError(t, err)
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestRegisterCreatesCustomerAndSession(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Register(context.Background(), RegisterRequest{
		Name: " Zara ", Email: " Zara@Example.COM ", Password: "supersecret", Phone: "03001112233",
	})
	require.NoError(t, err)
	assert.Equal(t, "zara@example.com", res.User.Email)
	assert.Equal(t, enums.UserRoleCustomer, res.User.Role)
	assert.Equal(t, "Bearer", res.TokenType)
	require.Len(t, f.sessions.created, 1)

	claims, err := pkgAuth.ParseAccessToken(jwtCfg, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.sessions.created[0].ID, claims.SessionID())
	assert.Equal(t, res.User.ID, claims.UserID)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := RegisterRequest{Name: "Zara", Email: "zara@example.com", Password: "supersecret"}
	_, err := f.svc.Register(ctx, req)
	require.NoError(t, err)

	req.Email = "ZARA@example.com"
	_, err = f.svc.Register(ctx, req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	_, err = f.svc.Register(ctx, RegisterRequest{Name: "Short", Email: "short@example.com", Password: "123"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, RegisterRequest{Name: "Omar", Email: "omar@example.com", Password: "password1"})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, LoginRequest{Email: "OMAR@example.com", Password: "password1", IP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotNil(t, res.User.LastLoginAt)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "omar@example.com", Password: "nope"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = f.svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "password1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.Register(ctx, RegisterRequest{Name: "Omar", Email: "omar@example.com", Password: "password1"})
	require.NoError(t, err)
	require.NoError(t, f.repo.SetActive(ctx, res.User.ID, false))

	_, err = f.svc.Login(ctx, LoginRequest{Email: "omar@example.com", Password: "password1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestLoginRateLimitedPerEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Login(ctx, LoginRequest{Email: "who@example.com", Password: "x"})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	}
	_, err := f.svc.Login(ctx, LoginRequest{Email: "who@example.com", Password: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRateLimit))
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAdmin(t)
	_, err := f.svc.Register(ctx, RegisterRequest{Name: "Omar", Email: "omar@example.com", Password: "password1"})
	require.NoError(t, err)

	res, err := f.svc.AdminLogin(ctx, LoginRequest{Email: "admin@bistro.test", Password: "kitchen-pass"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, res.User.Role)

	_, err = f.svc.AdminLogin(ctx, LoginRequest{Email: "omar@example.com", Password: "password1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.Logout(context.Background(), "sess-9"))
	assert.Equal(t, []string{"sess-9"}, f.sessions.revoked)

	err := f.svc.Logout(context.Background(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
