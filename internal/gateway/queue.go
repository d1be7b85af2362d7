package gateway

import (
	"log/slog"
	"sync"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
)

// queueDepth is the buffered backlog of pending saves. When the buffer is
// full new saves are dropped with a log line rather than blocking the caller.
const queueDepth = 256

// Queue applies entity saves asynchronously. Callers never wait on a save
// and never see its error: a failed save is logged and dropped, the local
// state keeps the change.
type Queue struct {
	profiles    repository.ProfileRepository
	goals       repository.GoalRepository
	confessions repository.ConfessionRepository
	progress    repository.ProgressRepository
	interactions repository.InteractionRepository

	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewQueue(
	profiles repository.ProfileRepository,
	goals repository.GoalRepository,
	confessions repository.ConfessionRepository,
	progress repository.ProgressRepository,
	interactions repository.InteractionRepository,
) *Queue {
	q := &Queue{
		profiles:     profiles,
		goals:        goals,
		confessions:  confessions,
		progress:     progress,
		interactions: interactions,
		tasks:        make(chan func(), queueDepth),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	for task := range q.tasks {
		task()
		q.wg.Done()
	}
}

func (q *Queue) enqueue(task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		slog.Warn("save queue closed, dropping save")
		return
	}
	q.wg.Add(1)
	select {
	case q.tasks <- task:
	default:
		q.wg.Done()
		slog.Warn("save queue full, dropping save")
	}
}

// SaveProfile upserts the full profile row.
func (q *Queue) SaveProfile(profile model.Profile) {
	q.enqueue(func() {
		if err := q.profiles.Upsert(&profile); err != nil {
			slog.Warn("profile save failed", "error", err, "user_id", profile.UserID)
		}
	})
}

// SaveGoal persists a goal. Goals that have never been stored (placeholder
// ids, not yet persisted) are inserted under a fresh server id; known goals
// are upserted in place.
func (q *Queue) SaveGoal(goal model.Goal) {
	q.enqueue(func() {
		var err error
		if goal.Persisted && model.IsBackendID(goal.ID) {
			err = q.goals.Upsert(&goal)
		} else {
			err = q.goals.Insert(&goal)
		}
		if err != nil {
			slog.Warn("goal save failed", "error", err, "user_id", goal.UserID, "goal", goal.GoalTitle)
		}
	})
}

func (q *Queue) SaveConfession(confession model.Confession) {
	q.enqueue(func() {
		if err := q.confessions.Insert(&confession); err != nil {
			slog.Warn("confession save failed", "error", err, "user_id", confession.UserID)
		}
	})
}

func (q *Queue) SavePilarProgress(p model.PilarProgress) {
	q.enqueue(func() {
		if err := q.progress.Upsert(&p); err != nil {
			slog.Warn("pillar progress save failed", "error", err, "user_id", p.UserID, "pilar_id", p.PilarID)
		}
	})
}

// LogInteraction records an engagement event for the stats view. Losing one
// is harmless.
func (q *Queue) LogInteraction(i model.Interaction) {
	q.enqueue(func() {
		if err := q.interactions.Insert(&i); err != nil {
			slog.Warn("interaction log failed", "error", err, "user_id", i.UserID, "action", i.ActionType)
		}
	})
}

// Wait blocks until every enqueued save has been applied. Used by tests and
// graceful shutdown.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Close drains the queue and stops the worker. Saves enqueued after Close
// are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.wg.Wait()
	close(q.tasks)
}
