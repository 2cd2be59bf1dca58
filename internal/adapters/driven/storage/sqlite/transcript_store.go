package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// transcriptStore implements driven.TranscriptStore.
type transcriptStore struct {
	store *Store
}

var _ driven.TranscriptStore = (*transcriptStore)(nil)

// SaveTranscript stores a new transcript with its segments in one
// transaction and returns the assigned ID.
func (s *transcriptStore) SaveTranscript(ctx context.Context, filename string, segments []domain.Segment) (int64, error) {
	for _, seg := range segments {
		if err := seg.Validate(); err != nil {
			return 0, fmt.Errorf("segment %d: %w", seg.Position, err)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO transcripts (filename, uploaded_at) VALUES (?, ?)",
		filename, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("saving transcript: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting transcript id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segments (transcript_id, position, text, start_time, end_time, speaker)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing segment insert: %w", err)
	}
	defer stmt.Close()

	for i, seg := range segments {
		if _, err := stmt.ExecContext(ctx, id, i, seg.Text, seg.StartTime, seg.EndTime, seg.Speaker); err != nil {
			return 0, fmt.Errorf("saving segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transcript: %w", err)
	}

	return id, nil
}

// GetTranscript retrieves a transcript with its segments.
func (s *transcriptStore) GetTranscript(ctx context.Context, id int64) (*domain.Transcript, error) {
	var transcript domain.Transcript
	var uploadedAt sql.NullTime

	row := s.store.db.QueryRowContext(ctx,
		"SELECT id, filename, uploaded_at FROM transcripts WHERE id = ?", id)
	if err := row.Scan(&transcript.ID, &transcript.Filename, &uploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning transcript: %w", err)
	}
	if uploadedAt.Valid {
		transcript.UploadedAt = uploadedAt.Time
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT transcript_id, position, text, start_time, end_time, speaker
		FROM segments WHERE transcript_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seg domain.Segment
		if err := rows.Scan(&seg.TranscriptID, &seg.Position, &seg.Text,
			&seg.StartTime, &seg.EndTime, &seg.Speaker); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		transcript.Segments = append(transcript.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating segments: %w", err)
	}

	return &transcript, nil
}

// ListTranscripts returns transcripts without segments, newest first.
func (s *transcriptStore) ListTranscripts(ctx context.Context, limit, offset int) ([]domain.Transcript, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, uploaded_at
		FROM transcripts ORDER BY uploaded_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []domain.Transcript //nolint:prealloc // size unknown from query
	for rows.Next() {
		var transcript domain.Transcript
		var uploadedAt sql.NullTime
		if err := rows.Scan(&transcript.ID, &transcript.Filename, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning transcript: %w", err)
		}
		if uploadedAt.Valid {
			transcript.UploadedAt = uploadedAt.Time
		}
		transcripts = append(transcripts, transcript)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcripts: %w", err)
	}

	return transcripts, nil
}

// DeleteTranscript removes a transcript; segments cascade.
func (s *transcriptStore) DeleteTranscript(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM transcripts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transcript: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats computes corpus-wide counts and upload date bounds.
func (s *transcriptStore) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	var earliest, latest sql.NullTime

	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       (SELECT COUNT(*) FROM segments),
		       MIN(uploaded_at), MAX(uploaded_at)
		FROM transcripts
	`)
	if err := row.Scan(&stats.TotalTranscripts, &stats.TotalSegments, &earliest, &latest); err != nil {
		return domain.Stats{}, fmt.Errorf("scanning stats: %w", err)
	}
	if earliest.Valid {
		stats.EarliestUpload = earliest.Time
	}
	if latest.Valid {
		stats.LatestUpload = latest.Time
	}

	return stats, nil
}

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// SaveHistory appends a question/answer pair.
func (s *historyStore) SaveHistory(ctx context.Context, question, answer string) error {
	_, err := s.store.db.ExecContext(ctx,
		"INSERT INTO search_history (question, answer, asked_at) VALUES (?, ?, ?)",
		question, answer, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// ListHistory returns recent entries, newest first.
func (s *historyStore) ListHistory(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, question, answer, asked_at
		FROM search_history ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.HistoryEntry
		var askedAt sql.NullTime
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &askedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		if askedAt.Valid {
			entry.AskedAt = askedAt.Time
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}

	return entries, nil
}
