package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultRecord is one completed test in the local history.
type ResultRecord struct {
	ID           string
	TestID       string
	FirstName    string
	LastName     string
	StartLevel   string
	Theta        float64
	SE           float64
	TScore       float64
	CEFR         string
	DurationSecs int
	TakenAt      time.Time
}

// ResultRepo persists and lists completed test results.
type ResultRepo interface {
	Save(ctx context.Context, rec *ResultRecord) error
	List(ctx context.Context, limit int) ([]ResultRecord, error)
}

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) Save(ctx context.Context, rec *ResultRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.TakenAt.IsZero() {
		rec.TakenAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO results (id, test_id, first_name, last_name, start_level, theta, se, t_score, cefr, duration_secs, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TestID, rec.FirstName, rec.LastName, rec.StartLevel,
		rec.Theta, rec.SE, rec.TScore, rec.CEFR, rec.DurationSecs,
		rec.TakenAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (r *resultRepo) List(ctx context.Context, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, test_id, first_name, last_name, start_level, theta, se, t_score, cefr, duration_secs, taken_at
		FROM results
		ORDER BY taken_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		var takenAt string
		if err := rows.Scan(
			&rec.ID, &rec.TestID, &rec.FirstName, &rec.LastName, &rec.StartLevel,
			&rec.Theta, &rec.SE, &rec.TScore, &rec.CEFR, &rec.DurationSecs, &takenAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, takenAt); err == nil {
			rec.TakenAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
