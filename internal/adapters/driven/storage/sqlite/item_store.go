package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/core/ports/driven"
)

// itemStore implements driven.ItemStore.
type itemStore struct {
	store *Store
}

var _ driven.ItemStore = (*itemStore)(nil)

const itemColumns = `id, project_id, source_id, item_type, statement, who, position,
	affected_disciplines, confidence, why, causation, impacts, consensus,
	owner, due_date, is_done, discussion_points, related_topic, reference_source,
	source_excerpt, embedding, created_at`

// Save stores a new item.
func (s *itemStore) Save(ctx context.Context, item *domain.ProjectItem) error {
	disciplinesJSON, err := json.Marshal(item.AffectedDisciplines)
	if err != nil {
		return fmt.Errorf("marshalling disciplines: %w", err)
	}
	consensus := item.Consensus
	if consensus == nil {
		consensus = map[string]string{}
	}
	consensusJSON, err := json.Marshal(consensus)
	if err != nil {
		return fmt.Errorf("marshalling consensus: %w", err)
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO project_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.ProjectID, item.SourceID, string(item.Type), item.Statement,
		item.Who, item.Timestamp, string(disciplinesJSON), item.Confidence,
		item.Why, item.Causation, item.Impacts, string(consensusJSON),
		item.Owner, item.DueDate, item.IsDone,
		item.DiscussionPoints, item.RelatedTopic, item.ReferenceSource,
		item.SourceExcerpt, float32SliceToBytes(item.Embedding), item.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return nil
}

// SaveBatch stores a batch of items from one extraction attempt in a
// single transaction, so a partial failure leaves nothing behind.
func (s *itemStore) SaveBatch(ctx context.Context, items []domain.ProjectItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO project_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range items {
		item := &items[i]
		disciplinesJSON, err := json.Marshal(item.AffectedDisciplines)
		if err != nil {
			return fmt.Errorf("marshalling disciplines: %w", err)
		}
		consensus := item.Consensus
		if consensus == nil {
			consensus = map[string]string{}
		}
		consensusJSON, err := json.Marshal(consensus)
		if err != nil {
			return fmt.Errorf("marshalling consensus: %w", err)
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}

		_, err = stmt.ExecContext(ctx, item.ID, item.ProjectID, item.SourceID,
			string(item.Type), item.Statement, item.Who, item.Timestamp,
			string(disciplinesJSON), item.Confidence,
			item.Why, item.Causation, item.Impacts, string(consensusJSON),
			item.Owner, item.DueDate, item.IsDone,
			item.DiscussionPoints, item.RelatedTopic, item.ReferenceSource,
			item.SourceExcerpt, float32SliceToBytes(item.Embedding), item.CreatedAt)
		if err != nil {
			return fmt.Errorf("saving item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListBySource returns all items extracted from a source.
func (s *itemStore) ListBySource(ctx context.Context, sourceID string) ([]domain.ProjectItem, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM project_items WHERE source_id = ? ORDER BY created_at`,
		sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []domain.ProjectItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.ProjectItem
		var itemType, disciplinesJSON, consensusJSON string
		var embeddingBlob []byte

		err := rows.Scan(&item.ID, &item.ProjectID, &item.SourceID, &itemType,
			&item.Statement, &item.Who, &item.Timestamp,
			&disciplinesJSON, &item.Confidence,
			&item.Why, &item.Causation, &item.Impacts, &consensusJSON,
			&item.Owner, &item.DueDate, &item.IsDone,
			&item.DiscussionPoints, &item.RelatedTopic, &item.ReferenceSource,
			&item.SourceExcerpt, &embeddingBlob, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		item.Type = domain.ItemType(itemType)
		item.Embedding = bytesToFloat32Slice(embeddingBlob)
		if err := json.Unmarshal([]byte(disciplinesJSON), &item.AffectedDisciplines); err != nil {
			return nil, fmt.Errorf("unmarshaling disciplines: %w", err)
		}
		if err := json.Unmarshal([]byte(consensusJSON), &item.Consensus); err != nil {
			return nil, fmt.Errorf("unmarshaling consensus: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}
