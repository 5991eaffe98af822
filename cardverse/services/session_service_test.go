package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardverse/cardverse/cardverse/database/repositories"
	"github.com/cardverse/cardverse/cardverse/services"
)

func newSessionService(t *testing.T) (*services.SessionService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	sessions := repositories.NewSessionRepository(env.db.BunDB())
	return services.NewSessionService(sessions, env.accounts), env
}

func TestSessionRestoreEmpty(t *testing.T) {
	svc, _ := newSessionService(t)

	user, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user, "a fresh store has no session")
}

func TestSessionRememberRestoreForget(t *testing.T) {
	svc, env := newSessionService(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "")
	require.NoError(t, err)

	require.NoError(t, svc.Remember(ctx, "momo"))
	user, err := svc.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "momo", user.Username)

	require.NoError(t, svc.Forget(ctx))
	user, err = svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionDanglingPointerIsCleared(t *testing.T) {
	svc, env := newSessionService(t)
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "momo", "pw", "")
	require.NoError(t, err)
	require.NoError(t, svc.Remember(ctx, "momo"))
	require.NoError(t, env.accounts.DeleteUser(ctx, "momo"))

	user, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user, "session pointing at a deleted user reads as logged out")

	// The dangling pointer is also removed from the store.
	user, err = svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}
