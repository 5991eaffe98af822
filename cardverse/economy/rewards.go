package economy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cardverse/cardverse/cardverse/catalog"
)

// RewardScheduler pays out task rewards after a fixed delay. Each scheduled
// task fires exactly once; scheduling the same user/task pair again while a
// payout is pending is rejected.
type RewardScheduler struct {
	engine  *Engine
	delay   time.Duration
	pending sync.Map
	wg      sync.WaitGroup
}

func NewRewardScheduler(engine *Engine, delay time.Duration) *RewardScheduler {
	return &RewardScheduler{
		engine: engine,
		delay:  delay,
	}
}

type pendingKey struct {
	username string
	taskID   string
}

// Schedule queues the task's reward for the user. It returns false when the
// same user/task payout is already pending.
func (s *RewardScheduler) Schedule(ctx context.Context, username string, task catalog.Task) bool {
	key := pendingKey{username: username, taskID: task.ID}
	if _, loaded := s.pending.LoadOrStore(key, time.Now()); loaded {
		return false
	}

	s.wg.Add(1)
	time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		defer s.pending.Delete(key)
		s.payout(username, task)
	})
	return true
}

func (s *RewardScheduler) payout(username string, task catalog.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.engine.UpdateBalance(ctx, username, task.Reward); err != nil {
		slog.Error("Task reward payout failed",
			slog.String("type", "error"),
			slog.String("username", username),
			slog.String("task", task.ID),
			slog.Any("error", err))
		return
	}

	if task.IsTraining {
		done := true
		if _, err := s.engine.UpdateProfile(ctx, username, ProfilePatch{CompletedTraining: &done}); err != nil {
			slog.Error("Training flag update failed",
				slog.String("type", "error"),
				slog.String("username", username),
				slog.Any("error", err))
		}
	}

	slog.Info("Task reward paid",
		slog.String("type", "op"),
		slog.String("name", "complete_task"),
		slog.String("username", username),
		slog.String("task", task.ID),
		slog.Int64("reward", task.Reward))
}

// Wait blocks until all pending payouts have fired.
func (s *RewardScheduler) Wait() {
	s.wg.Wait()
}
