package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardverse/cardverse/cardverse/database"
	"github.com/cardverse/cardverse/cardverse/database/models"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
	"github.com/cardverse/cardverse/cardverse/services"
)

type testEnv struct {
	db       *database.DB
	users    repositories.UserRepository
	trades   repositories.TradeRepository
	accounts *services.AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(context.Background(), database.Config{
		Path: filepath.Join(t.TempDir(), "store.db"),
	})
	require.NoError(t, err)
	require.NoError(t, db.InitializeSchema(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	users := repositories.NewUserRepository(db.BunDB())
	trades := repositories.NewTradeRepository(db.BunDB())
	return &testEnv{
		db:       db,
		users:    users,
		trades:   trades,
		accounts: services.NewAccountService(users, trades),
	}
}

func TestRegisterDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"momo", "rin", "yui"} {
		user, err := env.accounts.Register(ctx, name, "pw", "")
		require.NoError(t, err)
		assert.Equal(t, name, user.Username)
		assert.Equal(t, services.StartingBalance, user.Balance)
		assert.Equal(t, 1, user.Level)
		assert.Empty(t, user.Collection)
		assert.Empty(t, user.Achievements)
		assert.False(t, user.IsAdmin)
		assert.Empty(t, user.PasswordHash, "credential must be stripped")
		assert.Contains(t, user.AvatarURL, name)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "")
	require.NoError(t, err)

	_, err = env.accounts.Register(ctx, "momo", "other", "")
	assert.ErrorIs(t, err, services.ErrDuplicateUser)

	users, err := env.accounts.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "failed registration must not change the store")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "hunter2", "")
	require.NoError(t, err)

	user, err := env.accounts.Login(ctx, "momo", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "momo", user.Username)
	assert.Empty(t, user.PasswordHash)

	// Wrong password and unknown username are indistinguishable.
	_, badPass := env.accounts.Login(ctx, "momo", "wrong")
	_, badUser := env.accounts.Login(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, badPass, services.ErrInvalidCredentials)
	assert.ErrorIs(t, badUser, services.ErrInvalidCredentials)
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.accounts.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "momo@example.com")
	require.NoError(t, err)

	found, err := env.accounts.ResetPassword(ctx, "momo@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = env.accounts.ResetPassword(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddFriendSymmetric(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "")
	require.NoError(t, err)
	_, err = env.accounts.Register(ctx, "rin", "pw", "")
	require.NoError(t, err)

	require.NoError(t, env.accounts.AddFriend(ctx, "momo", "rin"))

	momo, err := env.accounts.GetUser(ctx, "momo")
	require.NoError(t, err)
	rin, err := env.accounts.GetUser(ctx, "rin")
	require.NoError(t, err)
	assert.True(t, momo.Friends.Contains("rin"))
	assert.True(t, rin.Friends.Contains("momo"))

	// Re-adding is a no-op, not a duplicate.
	require.NoError(t, env.accounts.AddFriend(ctx, "momo", "rin"))
	momo, err = env.accounts.GetUser(ctx, "momo")
	require.NoError(t, err)
	assert.Len(t, momo.Friends, 1)
}

func TestAddFriendMissingUserIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "")
	require.NoError(t, err)

	require.NoError(t, env.accounts.AddFriend(ctx, "momo", "ghost"))

	momo, err := env.accounts.GetUser(ctx, "momo")
	require.NoError(t, err)
	assert.Empty(t, momo.Friends)
}

func TestRemoveFriendAsymmetric(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "")
	require.NoError(t, err)
	_, err = env.accounts.Register(ctx, "rin", "pw", "")
	require.NoError(t, err)

	require.NoError(t, env.accounts.AddFriend(ctx, "momo", "rin"))
	require.NoError(t, env.accounts.RemoveFriend(ctx, "momo", "rin"))

	momo, err := env.accounts.GetUser(ctx, "momo")
	require.NoError(t, err)
	rin, err := env.accounts.GetUser(ctx, "rin")
	require.NoError(t, err)
	assert.False(t, momo.Friends.Contains("rin"))
	assert.True(t, rin.Friends.Contains("momo"), "unfriend removes only the initiating direction")
}

func TestDeleteUserPurgesTrades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"momo", "rin", "yui"} {
		_, err := env.accounts.Register(ctx, name, "pw", "")
		require.NoError(t, err)
	}

	tradeSvc := services.NewTradeService(env.trades, env.users)
	_, err := tradeSvc.Offer(ctx, "momo", "rin", "c1", "r1")
	require.NoError(t, err)
	_, err = tradeSvc.Offer(ctx, "yui", "momo", "c2", "c3")
	require.NoError(t, err)
	_, err = tradeSvc.Offer(ctx, "rin", "yui", "c4", "e1")
	require.NoError(t, err)

	require.NoError(t, env.accounts.DeleteUser(ctx, "momo"))

	users, err := env.accounts.ListUsers(ctx)
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEqual(t, "momo", u.Username)
	}

	remaining, err := env.trades.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "rin", remaining[0].FromUser)
	assert.Equal(t, "yui", remaining[0].ToUser)
}

func TestTradeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "")
	require.NoError(t, err)
	_, err = env.accounts.Register(ctx, "rin", "pw", "")
	require.NoError(t, err)

	tradeSvc := services.NewTradeService(env.trades, env.users)

	_, err = tradeSvc.Offer(ctx, "momo", "ghost", "c1", "r1")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	trade, err := tradeSvc.Offer(ctx, "momo", "rin", "c1", "r1")
	require.NoError(t, err)
	assert.Equal(t, models.TradePending, trade.Status)
	assert.NotEmpty(t, trade.TradeID)

	require.NoError(t, tradeSvc.Respond(ctx, trade.TradeID, models.TradeAccepted))

	// A resolved trade cannot be re-resolved.
	err = tradeSvc.Respond(ctx, trade.TradeID, models.TradeCancelled)
	assert.Error(t, err)

	mine, err := tradeSvc.ListForUser(ctx, "momo")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.TradeAccepted, mine[0].Status)
}
