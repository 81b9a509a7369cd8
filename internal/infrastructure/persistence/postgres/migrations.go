// Package postgres implements the PostgreSQL persistence layer.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USER STATS & XP LEDGER
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create user stats aggregate and xp ledger
-- Version: 001

CREATE TABLE IF NOT EXISTS user_stats (
    user_id VARCHAR(32) PRIMARY KEY,
    total_focus_minutes INTEGER NOT NULL DEFAULT 0,
    total_sessions_completed INTEGER NOT NULL DEFAULT 0,
    total_sessions_interrupted INTEGER NOT NULL DEFAULT 0,
    total_tasks_completed INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    last_session_date TIMESTAMP WITH TIME ZONE,
    level INTEGER NOT NULL DEFAULT 1,
    current_xp INTEGER NOT NULL DEFAULT 0,
    total_xp_earned INTEGER NOT NULL DEFAULT 0,
    achievements_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_level CHECK (level >= 1),
    CONSTRAINT valid_current_xp CHECK (current_xp >= 0),
    CONSTRAINT valid_streak CHECK (current_streak >= 0 AND best_streak >= current_streak)
);

CREATE INDEX IF NOT EXISTS idx_user_stats_level ON user_stats(level DESC);
CREATE INDEX IF NOT EXISTS idx_user_stats_total_xp ON user_stats(total_xp_earned DESC);
CREATE INDEX IF NOT EXISTS idx_user_stats_streak ON user_stats(current_streak DESC) WHERE current_streak > 0;

-- Append-only experience ledger
CREATE TABLE IF NOT EXISTS xp_transactions (
    id UUID PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    amount INTEGER NOT NULL,
    source VARCHAR(50) NOT NULL,
    level_before INTEGER NOT NULL,
    level_after INTEGER NOT NULL,
    reference_id VARCHAR(100),
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_amount CHECK (amount >= 0)
);

CREATE INDEX IF NOT EXISTS idx_xp_transactions_user ON xp_transactions(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_xp_transactions_source ON xp_transactions(user_id, source, created_at DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS xp_transactions;
DROP TABLE IF EXISTS user_stats;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create achievement catalogue and unlock records
-- Version: 002

CREATE TABLE IF NOT EXISTS achievements (
    id SERIAL PRIMARY KEY,
    code VARCHAR(50) NOT NULL UNIQUE,
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    icon VARCHAR(10) NOT NULL DEFAULT '',
    requirement_type VARCHAR(50) NOT NULL,
    requirement_value INTEGER NOT NULL DEFAULT 0,
    rarity VARCHAR(20) NOT NULL DEFAULT 'common',
    xp_reward INTEGER NOT NULL DEFAULT 50,
    is_secret BOOLEAN NOT NULL DEFAULT FALSE,
    hint VARCHAR(200) NOT NULL DEFAULT '',
    display_order INTEGER NOT NULL DEFAULT 0,
    is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_achievements_enabled ON achievements(display_order) WHERE is_enabled;

-- One row per (user, achievement); the unique constraint is the concurrency
-- guard for idempotent unlocking.
CREATE TABLE IF NOT EXISTS user_achievements (
    id UUID PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    achievement_code VARCHAR(50) NOT NULL REFERENCES achievements(code),
    unlocked_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_user_achievement UNIQUE (user_id, achievement_code)
);

CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id, unlocked_at DESC);

-- Seed catalogue
INSERT INTO achievements (code, name, description, icon, requirement_type, requirement_value, rarity, xp_reward, is_secret, hint, display_order) VALUES
    ('FIRST_FOCUS',      'First Focus',      'Complete your first focus session',         '🌱', 'sessions_completed',  1,    'common',    50,  FALSE, '', 1),
    ('GETTING_SERIOUS',  'Getting Serious',  'Complete 10 focus sessions',                '🍅', 'sessions_completed',  10,   'common',    50,  FALSE, '', 2),
    ('CENTURION',        'Centurion',        'Complete 100 focus sessions',               '💯', 'sessions_completed',  100,  'rare',      100, FALSE, '', 3),
    ('FOCUS_LEGEND',     'Focus Legend',     'Complete 1000 focus sessions',              '🏛️', 'sessions_completed',  1000, 'legendary', 500, FALSE, '', 4),
    ('HOUR_OF_POWER',    'Hour of Power',    'Accumulate 60 minutes of focus time',       '⏱️', 'total_focus_minutes', 60,   'common',    50,  FALSE, '', 5),
    ('DEEP_DIVER',       'Deep Diver',       'Accumulate 1000 minutes of focus time',     '🌊', 'total_focus_minutes', 1000, 'uncommon',  75,  FALSE, '', 6),
    ('TIME_LORD',        'Time Lord',        'Accumulate 10000 minutes of focus time',    '⌛', 'total_focus_minutes', 10000,'epic',      200, FALSE, '', 7),
    ('WARMING_UP',       'Warming Up',       'Keep a 3-day streak',                       '🔥', 'streak_days',         3,    'common',    50,  FALSE, '', 8),
    ('WEEK_WARRIOR',     'Week Warrior',     'Keep a 7-day streak',                       '⚔️', 'streak_days',         7,    'uncommon',  100, FALSE, '', 9),
    ('UNSTOPPABLE',      'Unstoppable',      'Keep a 30-day streak',                      '🚀', 'streak_days',         30,   'epic',      300, FALSE, '', 10),
    ('TASK_TACKLER',     'Task Tackler',     'Complete 10 tasks',                         '✅', 'tasks_completed',     10,   'common',    50,  FALSE, '', 11),
    ('LIST_CRUSHER',     'List Crusher',     'Complete 100 tasks',                        '📋', 'tasks_completed',     100,  'rare',      150, FALSE, '', 12),
    ('LEVEL_5',          'Rising Star',      'Reach level 5',                             '⭐', 'level_reached',       5,    'common',    50,  FALSE, '', 13),
    ('LEVEL_10',         'Dedicated',        'Reach level 10',                            '🌟', 'level_reached',       10,   'uncommon',  100, FALSE, '', 14),
    ('LEVEL_25',         'Elite',            'Reach level 25',                            '✨', 'level_reached',       25,   'legendary', 400, FALSE, '', 15),
    ('EARLY_BIRD',       'Early Bird',       'Complete 10 sessions before noon',          '🌅', 'morning_sessions',    10,   'uncommon',  75,  FALSE, '', 16),
    ('NIGHT_OWL',        'Night Owl',        'Complete 10 sessions in the evening',       '🦉', 'evening_sessions',    10,   'uncommon',  75,  FALSE, '', 17),
    ('CHRISTMAS_SPIRIT', 'Christmas Spirit', 'Complete a session on December 25',         '🎄', 'special_date',        1,    'rare',      100, TRUE,  'A very special winter day...', 18),
    ('SPOOKY_FOCUS',     'Spooky Focus',     'Complete a session on October 31',          '🎃', 'special_date',        1,    'rare',      100, TRUE,  'Focus among the pumpkins...', 19),
    ('NEW_YEAR_FOCUS',   'New Year Focus',   'Complete a session on January 1',           '🎆', 'special_date',        1,    'rare',      100, TRUE,  'Start the year right...', 20),
    ('PERFECT_WEEK',     'Perfect Week',     'Complete every session for 7 days straight','🏆', 'perfect_week',        7,    'mythic',    500, TRUE,  'Flawless for a whole week...', 21)
ON CONFLICT (code) DO NOTHING;
`

const migration002Down = `
DROP TABLE IF EXISTS user_achievements;
DROP TABLE IF EXISTS achievements;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: SESSION & TASK HISTORY
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create session and task history
-- Version: 003

CREATE TABLE IF NOT EXISTS focus_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    guild_id VARCHAR(32),
    duration_minutes INTEGER NOT NULL DEFAULT 0,
    started_at TIMESTAMP WITH TIME ZONE NOT NULL,
    ended_at TIMESTAMP WITH TIME ZONE,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    interrupted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- A terminal session is exactly one of completed/interrupted
    CONSTRAINT terminal_state CHECK (NOT (completed AND interrupted)),
    CONSTRAINT valid_duration CHECK (duration_minutes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_started ON focus_sessions(user_id, started_at DESC);
CREATE INDEX IF NOT EXISTS idx_sessions_user_completed ON focus_sessions(user_id, started_at) WHERE completed;

CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    guild_id VARCHAR(32),
    title VARCHAR(200) NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_completed ON tasks(user_id, completed_at) WHERE completed;
`

const migration003Down = `
DROP TABLE IF EXISTS tasks;
DROP TABLE IF EXISTS focus_sessions;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_user_stats",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_achievements",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_activity_history",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
