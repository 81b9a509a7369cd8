package leaderboard

import (
	"context"
	"time"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/logger"
)

const (
	// cacheTTL bounds how long an untouched ranking key survives. Every
	// write refreshes it, so active keys stay warm and idle ones expire.
	cacheTTL = time.Hour

	// DefaultTopLimit is the top-N size used when callers pass no limit.
	DefaultTopLimit = 100
)

// Service maintains the ranking keys. All cache failures are logged and
// degraded: reads return empty results, writes become no-ops. Only the
// durable store is authoritative.
type Service struct {
	cache     SortedSetCache
	statsRepo stats.Repository
	log       *logger.Logger

	// rebuilds single-flights concurrent rebuild-on-miss for the same
	// key; independent keys never block each other.
	rebuilds *shared.KeyedMutex
}

// NewService creates the leaderboard service.
func NewService(cache SortedSetCache, statsRepo stats.Repository, log *logger.Logger) *Service {
	return &Service{
		cache:     cache,
		statsRepo: statsRepo,
		log:       log.With(logger.Component("leaderboard")),
		rebuilds:  shared.NewKeyedMutex(),
	}
}

// UpdateUserLeaderboards writes the user's current score into every type's
// global key and, when a guild is known, into that server's keys. Cache
// failures are logged per key and never propagate.
func (s *Service) UpdateUserLeaderboards(ctx context.Context, userID, guildID string) {
	st, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !shared.IsNotFound(err) {
			s.log.Warn("failed to load stats for leaderboard update", logger.UserID(userID), logger.Err(err))
		}
		return
	}

	for _, t := range AllTypes() {
		s.writeScore(ctx, Key(t, ScopeGlobal, ""), userID, t.Score(st))
		if guildID != "" {
			s.writeScore(ctx, Key(t, ScopeServer, guildID), userID, t.Score(st))
		}
	}
}

func (s *Service) writeScore(ctx context.Context, key, userID string, score float64) {
	if err := s.cache.AddScore(ctx, key, userID, score); err != nil {
		s.log.Warn("leaderboard write failed", logger.String("key", key), logger.UserID(userID), logger.Err(err))
		return
	}
	if err := s.cache.Expire(ctx, key, cacheTTL); err != nil {
		s.log.Warn("leaderboard expire failed", logger.String("key", key), logger.Err(err))
	}
}

// GetTop returns the top limit entries of a ranking, descending by score.
// An empty or expired key is rebuilt synchronously from the durable store
// before the re-read; a rebuild already in flight for the same key is
// waited on instead of duplicated.
func (s *Service) GetTop(ctx context.Context, t Type, scope Scope, guildID string, limit int) []*Entry {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	key := Key(t, scope, guildID)

	members, err := s.cache.TopWithScores(ctx, key, int64(limit))
	if err != nil {
		s.log.Warn("leaderboard read failed", logger.String("key", key), logger.Err(err))
		return nil
	}

	if len(members) == 0 {
		s.rebuildKey(ctx, t, scope, guildID)
		members, err = s.cache.TopWithScores(ctx, key, int64(limit))
		if err != nil {
			s.log.Warn("leaderboard re-read failed", logger.String("key", key), logger.Err(err))
			return nil
		}
	}

	return s.buildEntries(ctx, members)
}

// GetUserRank returns the user's one-based rank entry in a ranking, or nil
// when the user is not present in the key. Absence is a valid result, not
// an error.
func (s *Service) GetUserRank(ctx context.Context, t Type, scope Scope, guildID, userID string) *Entry {
	key := Key(t, scope, guildID)

	rank, score, err := s.cache.RankAndScore(ctx, key, userID)
	if err != nil {
		if !shared.IsNotFound(err) {
			s.log.Warn("leaderboard rank read failed", logger.String("key", key), logger.UserID(userID), logger.Err(err))
		}
		return nil
	}

	st, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil && !shared.IsNotFound(err) {
		s.log.Warn("failed to load stats for rank entry", logger.UserID(userID), logger.Err(err))
		st = nil
	}

	entry := newEntry(int(rank)+1, userID, score, st)
	entry.IsCurrentUser = true
	return entry
}

// GetSize returns the number of ranked members in a key, 0 on any cache
// failure.
func (s *Service) GetSize(ctx context.Context, t Type, scope Scope, guildID string) int64 {
	key := Key(t, scope, guildID)
	n, err := s.cache.Cardinality(ctx, key)
	if err != nil {
		s.log.Warn("leaderboard size read failed", logger.String("key", key), logger.Err(err))
		return 0
	}
	return n
}

// Rebuild recomputes one ranking key from every user's aggregate. Scores of
// zero or less are excluded, so inactive users never appear and users whose
// score dropped to zero are purged.
func (s *Service) Rebuild(ctx context.Context, t Type, scope Scope, guildID string) error {
	key := Key(t, scope, guildID)

	all, err := s.statsRepo.GetAll(ctx)
	if err != nil {
		return shared.WrapError("leaderboard", "Rebuild", shared.ErrExternalService, "failed to scan user stats", err)
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("failed to clear leaderboard key", logger.String("key", key), logger.Err(err))
		return nil
	}

	inserted := 0
	for _, st := range all {
		score := t.Score(st)
		if score <= 0 {
			continue
		}
		if err := s.cache.AddScore(ctx, key, st.UserID, score); err != nil {
			s.log.Warn("leaderboard rebuild write failed", logger.String("key", key), logger.UserID(st.UserID), logger.Err(err))
			return nil
		}
		inserted++
	}

	if err := s.cache.Expire(ctx, key, cacheTTL); err != nil {
		s.log.Warn("leaderboard expire failed", logger.String("key", key), logger.Err(err))
	}

	s.log.Info("rebuilt leaderboard",
		logger.String("key", key),
		logger.Int("entries", inserted),
	)
	return nil
}

// RebuildAllGlobal recomputes every global-scope key. Used by the periodic
// refresh jobs to bound staleness.
func (s *Service) RebuildAllGlobal(ctx context.Context) error {
	for _, t := range AllTypes() {
		if err := s.Rebuild(ctx, t, ScopeGlobal, ""); err != nil {
			return err
		}
	}
	return nil
}

// rebuildKey runs Rebuild under the key's single-flight lock. Waiters that
// arrive while a rebuild is running re-read instead of rebuilding again.
func (s *Service) rebuildKey(ctx context.Context, t Type, scope Scope, guildID string) {
	key := Key(t, scope, guildID)
	unlock := s.rebuilds.Lock(key)
	defer unlock()

	// A concurrent rebuild may have filled the key while we waited.
	if n, err := s.cache.Cardinality(ctx, key); err == nil && n > 0 {
		return
	}

	if err := s.Rebuild(ctx, t, scope, guildID); err != nil {
		s.log.Warn("rebuild-on-miss failed", logger.String("key", key), logger.Err(err))
	}
}

// buildEntries enriches raw members with aggregate display fields. Members
// whose aggregate vanished are skipped but still consume their rank, so
// surviving positions stay stable.
func (s *Service) buildEntries(ctx context.Context, members []MemberScore) []*Entry {
	entries := make([]*Entry, 0, len(members))
	rank := 1
	for _, m := range members {
		st, err := s.statsRepo.GetByUserID(ctx, m.Member)
		if err != nil {
			if !shared.IsNotFound(err) {
				s.log.Warn("failed to load stats for entry", logger.UserID(m.Member), logger.Err(err))
			}
			rank++
			continue
		}
		entries = append(entries, newEntry(rank, m.Member, m.Score, st))
		rank++
	}
	return entries
}
