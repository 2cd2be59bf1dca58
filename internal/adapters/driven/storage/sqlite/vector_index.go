package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// dimensionKey is the index_meta row holding the fixed embedding dimension.
const dimensionKey = "dimension"

// vectorIndex implements driven.VectorIndex on top of the index_entries
// table. Filtering happens in SQL; similarity ranking happens in memory over
// the filtered candidate set, which for a personal meeting corpus stays
// small enough that brute-force cosine beats maintaining an ANN structure.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces entries keyed by chunk ID in one transaction.
// The first write fixes the index dimension; later writes with a different
// dimension fail before anything is stored.
func (v *vectorIndex) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dim := len(entries[0].Embedding)
	if dim == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
	}
	for _, entry := range entries {
		if len(entry.Embedding) != dim {
			return fmt.Errorf("%w: batch mixes dimensions %d and %d",
				domain.ErrDimensionMismatch, dim, len(entry.Embedding))
		}
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var stored int
	row := tx.QueryRowContext(ctx,
		"SELECT value FROM index_meta WHERE key = ?", dimensionKey)
	switch err := row.Scan(&stored); {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO index_meta (key, value) VALUES (?, ?)", dimensionKey, dim); err != nil {
			return fmt.Errorf("recording index dimension: %w", err)
		}
	case err != nil:
		return fmt.Errorf("reading index dimension: %w", err)
	case stored != dim:
		return fmt.Errorf("%w: index holds %d-dimensional vectors, got %d",
			domain.ErrDimensionMismatch, stored, dim)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries
			(chunk_id, transcript_id, filename, text, embedding, start_time, end_time, speaker, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			transcript_id = excluded.transcript_id,
			filename = excluded.filename,
			text = excluded.text,
			embedding = excluded.embedding,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			speaker = excluded.speaker,
			uploaded_at = excluded.uploaded_at
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		meta := entry.Metadata
		if _, err := stmt.ExecContext(ctx,
			entry.ChunkID, meta.TranscriptID, meta.Filename, entry.Text,
			float32SliceToBytes(entry.Embedding),
			meta.StartTime, meta.EndTime, meta.Speaker, meta.UploadedAt,
		); err != nil {
			return fmt.Errorf("upserting entry %s: %w", entry.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}

	return nil
}

// DeleteByTranscript removes all entries for the given transcript.
func (v *vectorIndex) DeleteByTranscript(ctx context.Context, transcriptID int64) error {
	if _, err := v.store.db.ExecContext(ctx,
		"DELETE FROM index_entries WHERE transcript_id = ?", transcriptID); err != nil {
		return fmt.Errorf("deleting index entries: %w", err)
	}
	return nil
}

// Query ranks the filtered candidate set by cosine similarity. The filter
// translates to SQL predicates so ranking never sees out-of-filter rows.
func (v *vectorIndex) Query(ctx context.Context, vector []float32, topK int, filter domain.QueryFilter) ([]domain.ChunkMatch, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	query := `
		SELECT chunk_id, transcript_id, filename, text, embedding, start_time, end_time, speaker, uploaded_at
		FROM index_entries WHERE 1=1
	`
	var args []any
	if !filter.From.IsZero() {
		query += " AND uploaded_at >= ?"
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += " AND uploaded_at <= ?"
		args = append(args, filter.To)
	}
	if filter.TranscriptID != 0 {
		query += " AND transcript_id = ?"
		args = append(args, filter.TranscriptID)
	}
	if filter.Speaker != "" {
		query += " AND speaker = ?"
		args = append(args, filter.Speaker)
	}

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index entries: %w", err)
	}
	defer rows.Close()

	var matches []domain.ChunkMatch
	for rows.Next() {
		var match domain.ChunkMatch
		var blob []byte
		var uploadedAt sql.NullTime
		if err := rows.Scan(&match.ChunkID, &match.Metadata.TranscriptID,
			&match.Metadata.Filename, &match.Text, &blob,
			&match.Metadata.StartTime, &match.Metadata.EndTime,
			&match.Metadata.Speaker, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning index entry: %w", err)
		}
		if uploadedAt.Valid {
			match.Metadata.UploadedAt = uploadedAt.Time
		}

		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(vector) {
			return nil, fmt.Errorf("%w: index holds %d-dimensional vectors, query has %d",
				domain.ErrDimensionMismatch, len(embedding), len(vector))
		}
		match.Score = cosineSimilarity(vector, embedding)
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index entries: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// Count returns the number of stored entries.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	row := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_entries")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting index entries: %w", err)
	}
	return count, nil
}

// Close is a no-op; the underlying Store owns the connection.
func (v *vectorIndex) Close() error {
	return nil
}

// cosineSimilarity computes cosine similarity normalised to [0, 1].
// A zero vector on either side yields 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}
