package gateway

import (
	"sync"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
)

// The fakes record every write under a mutex so tests can assert after
// Queue.Wait.

type fakeProfileRepo struct {
	mu       sync.Mutex
	profile  *model.Profile
	err      error
	upserts  []model.Profile
	verified []string
}

func (f *fakeProfileRepo) ByUserID(userID string) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil {
		return nil, repository.ErrProfileNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileRepo) Create(p *model.Profile) error { return f.err }

func (f *fakeProfileRepo) Upsert(p *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, *p)
	return nil
}

func (f *fakeProfileRepo) MarkVerified(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, userID)
	return f.err
}

type fakeGoalRepo struct {
	mu      sync.Mutex
	goals   []model.Goal
	err     error
	inserts []model.Goal
	upserts []model.Goal
}

func (f *fakeGoalRepo) ByUser(userID string) ([]model.Goal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.goals, nil
}

func (f *fakeGoalRepo) Insert(g *model.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, *g)
	return f.err
}

func (f *fakeGoalRepo) Upsert(g *model.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, *g)
	return f.err
}

type fakeConfessionRepo struct {
	mu          sync.Mutex
	confessions []model.Confession
	err         error
	inserts     []model.Confession
}

func (f *fakeConfessionRepo) ByUser(userID string) ([]model.Confession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.confessions, nil
}

func (f *fakeConfessionRepo) Insert(c *model.Confession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, *c)
	return f.err
}

type fakePilarRepo struct {
	defs []model.PilarDefinition
	err  error
}

func (f *fakePilarRepo) Definitions() ([]model.PilarDefinition, error) {
	return f.defs, f.err
}

type fakeProgressRepo struct {
	mu       sync.Mutex
	progress []model.PilarProgress
	err      error
	upserts  []model.PilarProgress
}

func (f *fakeProgressRepo) ByUser(userID string) ([]model.PilarProgress, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.progress, nil
}

func (f *fakeProgressRepo) Upsert(p *model.PilarProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, *p)
	return f.err
}

type fakeSparkRepo struct {
	sparks []model.DailySpark
	err    error
}

func (f *fakeSparkRepo) Recent(limit int) ([]model.DailySpark, error) {
	return f.sparks, f.err
}

func (f *fakeSparkRepo) Seed(sparks []model.DailySpark) error { return f.err }

type fakeInteractionRepo struct {
	mu           sync.Mutex
	interactions []model.Interaction
	err          error
	inserts      []model.Interaction
}

func (f *fakeInteractionRepo) Insert(i *model.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, *i)
	return f.err
}

func (f *fakeInteractionRepo) Since(userID string, t time.Time) ([]model.Interaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.interactions, nil
}
