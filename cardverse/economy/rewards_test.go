package economy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardverse/cardverse/cardverse/catalog"
	"github.com/cardverse/cardverse/cardverse/economy"
)

func TestSchedulePaysOutOnce(t *testing.T) {
	env := newEngineEnv(t)
	env.createUser(t, "momo", 0)
	ctx := context.Background()

	scheduler := economy.NewRewardScheduler(env.engine, 10*time.Millisecond)
	task := catalog.Task{ID: "t1", Reward: 50}

	require.True(t, scheduler.Schedule(ctx, "momo", task))
	// A second schedule for the same pair is rejected while pending.
	require.False(t, scheduler.Schedule(ctx, "momo", task))
	scheduler.Wait()

	user, err := env.users.GetByUsername(ctx, "momo")
	require.NoError(t, err)
	assert.Equal(t, int64(50), user.Balance)
}

func TestScheduleAllowsRepeatAfterPayout(t *testing.T) {
	env := newEngineEnv(t)
	env.createUser(t, "momo", 0)
	ctx := context.Background()

	scheduler := economy.NewRewardScheduler(env.engine, time.Millisecond)
	task := catalog.Task{ID: "t1", Reward: 50}

	require.True(t, scheduler.Schedule(ctx, "momo", task))
	scheduler.Wait()
	require.True(t, scheduler.Schedule(ctx, "momo", task))
	scheduler.Wait()

	user, err := env.users.GetByUsername(ctx, "momo")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Balance)
}

func TestScheduleDistinctTasksRunIndependently(t *testing.T) {
	env := newEngineEnv(t)
	env.createUser(t, "momo", 0)
	env.createUser(t, "yuki", 0)
	ctx := context.Background()

	scheduler := economy.NewRewardScheduler(env.engine, time.Millisecond)
	require.True(t, scheduler.Schedule(ctx, "momo", catalog.Task{ID: "t1", Reward: 50}))
	require.True(t, scheduler.Schedule(ctx, "momo", catalog.Task{ID: "t2", Reward: 150}))
	require.True(t, scheduler.Schedule(ctx, "yuki", catalog.Task{ID: "t1", Reward: 50}))
	scheduler.Wait()

	momo, err := env.users.GetByUsername(ctx, "momo")
	require.NoError(t, err)
	assert.Equal(t, int64(200), momo.Balance)

	yuki, err := env.users.GetByUsername(ctx, "yuki")
	require.NoError(t, err)
	assert.Equal(t, int64(50), yuki.Balance)
}

func TestTrainingTaskSetsFlag(t *testing.T) {
	env := newEngineEnv(t)
	env.createUser(t, "momo", 0)
	ctx := context.Background()

	scheduler := economy.NewRewardScheduler(env.engine, time.Millisecond)
	require.True(t, scheduler.Schedule(ctx, "momo", catalog.Task{ID: "t0", Reward: 100, IsTraining: true}))
	scheduler.Wait()

	user, err := env.users.GetByUsername(ctx, "momo")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Balance)
	assert.True(t, user.CompletedTraining)
}

func TestScheduleUnknownUserStillFires(t *testing.T) {
	env := newEngineEnv(t)
	scheduler := economy.NewRewardScheduler(env.engine, time.Millisecond)

	// Payout for a missing user is a silent no-op rather than a crash.
	require.True(t, scheduler.Schedule(context.Background(), "ghost", catalog.Task{ID: "t1", Reward: 50}))
	scheduler.Wait()
}
