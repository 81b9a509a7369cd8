package command

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type statsStore struct {
	byUser map[string]*stats.UserStats
}

func newStatsStore() *statsStore {
	return &statsStore{byUser: make(map[string]*stats.UserStats)}
}

func (s *statsStore) GetByUserID(_ context.Context, userID string) (*stats.UserStats, error) {
	us, ok := s.byUser[userID]
	if !ok {
		return nil, shared.ErrStatsNotFound
	}
	return us, nil
}

func (s *statsStore) GetOrCreate(_ context.Context, userID string) (*stats.UserStats, error) {
	if us, ok := s.byUser[userID]; ok {
		return us, nil
	}
	us := stats.NewUserStats(userID)
	s.byUser[userID] = us
	return us, nil
}

func (s *statsStore) Save(_ context.Context, us *stats.UserStats) error {
	s.byUser[us.UserID] = us
	return nil
}

func (s *statsStore) GetAll(_ context.Context) ([]*stats.UserStats, error) {
	all := make([]*stats.UserStats, 0, len(s.byUser))
	for _, us := range s.byUser {
		all = append(all, us)
	}
	return all, nil
}

func (s *statsStore) CountActive(context.Context) (int, error) { return len(s.byUser), nil }

func (s *statsStore) GlobalFocusMinutes(context.Context) (int, int, error) { return 0, 0, nil }

type sessionStore struct {
	rows   []*stats.Session
	nextID int64
}

func (s *sessionStore) Insert(_ context.Context, row *stats.Session) (int64, error) {
	s.nextID++
	row.ID = s.nextID
	s.rows = append(s.rows, row)
	return s.nextID, nil
}

func (s *sessionStore) CountCompleted(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (s *sessionStore) CountInterrupted(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (s *sessionStore) SumFocusMinutes(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (s *sessionStore) CountByHourRange(context.Context, string, time.Time, time.Time, int, int) (int, error) {
	return 0, nil
}

func (s *sessionStore) SessionsPerDay(context.Context, string, time.Time, time.Time) ([]stats.DailyCount, error) {
	return nil, nil
}

func (s *sessionStore) MinutesPerDay(context.Context, string, time.Time, time.Time) ([]stats.DailyCount, error) {
	return nil, nil
}

func (s *sessionStore) FirstSessionDate(context.Context, string) (time.Time, error) {
	return time.Time{}, shared.ErrNotFound
}

type taskStore struct {
	titles []string
	nextID int64
}

func (s *taskStore) InsertCompleted(_ context.Context, userID, guildID, title string, completedAt time.Time) (int64, error) {
	s.nextID++
	s.titles = append(s.titles, title)
	return s.nextID, nil
}

func (s *taskStore) CountCompleted(context.Context, string, time.Time, time.Time) (int, error) {
	return len(s.titles), nil
}

type capturedBus struct {
	events []shared.Event
}

func (b *capturedBus) Subscribe(shared.EventType, shared.EventHandler) error { return nil }

func (b *capturedBus) Publish(event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *capturedBus) types() []shared.EventType {
	out := make([]shared.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventType()
	}
	return out
}

type commandFixture struct {
	repo     *statsStore
	sessions *sessionStore
	tasks    *taskStore
	bus      *capturedBus
	session  *RecordSessionHandler
	task     *RecordTaskHandler
}

func newCommandFixture() *commandFixture {
	log := logger.New(logger.Options{Output: io.Discard})
	repo := newStatsStore()
	sessions := &sessionStore{}
	tasks := &taskStore{}
	bus := &capturedBus{}
	locks := shared.NewKeyedMutex()
	agg := stats.NewAggregator(repo, sessions, tasks, nil, bus, log)

	return &commandFixture{
		repo:     repo,
		sessions: sessions,
		tasks:    tasks,
		bus:      bus,
		session:  NewRecordSessionHandler(sessions, agg, bus, locks, log),
		task:     NewRecordTaskHandler(tasks, agg, bus, locks, log),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordSession
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSession_CompletedUpdatesStatsAndPublishes(t *testing.T) {
	f := newCommandFixture()

	result, err := f.session.Handle(context.Background(), RecordSessionCommand{
		UserID:          "u1",
		GuildID:         "g1",
		DurationMinutes: 25,
		StartedAt:       time.Now().Add(-25 * time.Minute),
		Completed:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.SessionID)
	require.Len(t, f.sessions.rows, 1)
	assert.True(t, f.sessions.rows[0].Completed)

	us := f.repo.byUser["u1"]
	require.NotNil(t, us)
	assert.Equal(t, 1, us.TotalSessionsCompleted)
	assert.Equal(t, 25, us.TotalFocusMinutes)
	assert.Equal(t, 1, us.CurrentStreak)

	// The aggregator raises the streak event before the handler publishes
	// the session event, all under the same per-user lock.
	assert.Equal(t, []shared.EventType{
		shared.EventStreakUpdated,
		shared.EventSessionCompleted,
	}, f.bus.types())
}

func TestRecordSession_InterruptedPublishesInterruptedEvent(t *testing.T) {
	f := newCommandFixture()

	_, err := f.session.Handle(context.Background(), RecordSessionCommand{
		UserID:    "u1",
		StartedAt: time.Now().Add(-5 * time.Minute),
		Completed: false,
	})
	require.NoError(t, err)

	us := f.repo.byUser["u1"]
	assert.Equal(t, 1, us.TotalSessionsInterrupted)
	assert.Equal(t, 0, us.TotalFocusMinutes)

	types := f.bus.types()
	assert.Contains(t, types, shared.EventSessionInterrupted)
	assert.NotContains(t, types, shared.EventSessionCompleted)
}

func TestRecordSession_Validation(t *testing.T) {
	f := newCommandFixture()

	_, err := f.session.Handle(context.Background(), RecordSessionCommand{
		StartedAt: time.Now(),
	})
	assert.Error(t, err, "missing user id")

	_, err = f.session.Handle(context.Background(), RecordSessionCommand{
		UserID:          "u1",
		DurationMinutes: -5,
		StartedAt:       time.Now(),
	})
	assert.ErrorIs(t, err, shared.ErrNegativeFocusMinutes)

	_, err = f.session.Handle(context.Background(), RecordSessionCommand{UserID: "u1"})
	assert.Error(t, err, "missing started_at")

	assert.Empty(t, f.sessions.rows, "invalid commands store nothing")
	assert.Empty(t, f.bus.events)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordTask
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordTask_UpdatesStatsAndPublishes(t *testing.T) {
	f := newCommandFixture()

	result, err := f.task.Handle(context.Background(), RecordTaskCommand{
		UserID:  "u1",
		GuildID: "g1",
		Title:   "write report",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.TaskID)
	assert.Equal(t, []string{"write report"}, f.tasks.titles)
	assert.Equal(t, 1, f.repo.byUser["u1"].TotalTasksCompleted)
	assert.Equal(t, []shared.EventType{shared.EventTaskCompleted}, f.bus.types())
}

func TestRecordTask_Validation(t *testing.T) {
	f := newCommandFixture()

	_, err := f.task.Handle(context.Background(), RecordTaskCommand{Title: "x"})
	assert.Error(t, err, "missing user id")

	_, err = f.task.Handle(context.Background(), RecordTaskCommand{UserID: "u1"})
	assert.Error(t, err, "missing title")

	assert.Empty(t, f.tasks.titles)
}
