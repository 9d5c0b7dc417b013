package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fitlens/backend/internal/models"
)

// SaveExerciseEntry stores a single set row.
func (s *Store) SaveExerciseEntry(ctx context.Context, e models.ExerciseEntry) error {
	var metadata sql.NullString
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for %s: %w", e.ID, err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	var entryID sql.NullString
	if e.EntryID != "" {
		entryID = sql.NullString{String: e.EntryID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO exercise_entries
		(id, user_id, entry_id, date, created_at, exercise_key, subtype,
		 set_count, duration_minutes, distance_miles, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, entryID, e.Date, formatTime(e.CreatedAt), e.ExerciseKey, nullString(e.Subtype),
		e.SetCount, nullFloat(e.DurationMinutes), nullFloat(e.DistanceMiles), metadata,
	)
	if err != nil {
		return fmt.Errorf("saving exercise entry %s: %w", e.ID, err)
	}
	return nil
}

// ListExerciseEntries returns the user's set rows dated on or after since.
// Non-empty fields of q narrow the rows in the query.
func (s *Store) ListExerciseEntries(ctx context.Context, userID string, since time.Time, q models.ExerciseQuery) ([]models.ExerciseEntry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, user_id, entry_id, date, created_at, exercise_key, subtype,
		set_count, duration_minutes, distance_miles, metadata
		FROM exercise_entries
		WHERE user_id = ? AND date >= ?`)
	args := []any{userID, since.Format(models.DateLayout)}

	if q.ExerciseKey != "" {
		sb.WriteString(" AND exercise_key = ?")
		args = append(args, q.ExerciseKey)
	}
	if q.Subtype != "" {
		sb.WriteString(" AND subtype = ?")
		args = append(args, q.Subtype)
	}
	sb.WriteString(" ORDER BY created_at")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.ExerciseEntry
	for rows.Next() {
		var e models.ExerciseEntry
		var entryID, subtype, metadata sql.NullString
		var duration, distance sql.NullFloat64
		var createdAt string

		err := rows.Scan(&e.ID, &e.UserID, &entryID, &e.Date, &createdAt, &e.ExerciseKey, &subtype,
			&e.SetCount, &duration, &distance, &metadata)
		if err != nil {
			return nil, err
		}

		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("reading exercise entry %s: %w", e.ID, err)
		}
		e.EntryID = entryID.String
		if subtype.Valid {
			e.Subtype = &subtype.String
		}
		if duration.Valid {
			e.DurationMinutes = &duration.Float64
		}
		if distance.Valid {
			e.DistanceMiles = &distance.Float64
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
				return nil, fmt.Errorf("decoding metadata for %s: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
