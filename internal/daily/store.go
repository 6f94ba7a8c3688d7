package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily card.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Mode      string `json:"mode"`
	Toggles   int    `json:"toggles"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	UserID    string `json:"userId"`
	Toggles   int    `json:"toggles"`
	ElapsedMs int    `json:"elapsedMs"`
}

// DefaultLeaderboardLimit applies when Leaderboard is called with limit <= 0.
const DefaultLeaderboardLimit = 20

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// InsertResult records a win. A second result for the same user and date is
// ignored (UNIQUE(user_id, date)).
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, mode, toggles, elapsed_ms)
		 VALUES(?,?,?,?,?)`,
		r.UserID, r.Date, r.Mode, r.Toggles, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the fastest finishers for date, then fewest toggles.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, toggles, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY elapsed_ms ASC, toggles ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Toggles, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
