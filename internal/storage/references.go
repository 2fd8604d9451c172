package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"blogsmith/internal/models"
)

// CreateReference inserts a reference for an existing article and returns
// the stored record. A missing article surfaces as ErrNotFound via the
// foreign key constraint.
func (s *Store) CreateReference(ctx context.Context, ref *models.Reference) (*models.Reference, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO article_references (article_id, title, url, description)
		 VALUES (?, ?, ?, ?)`,
		ref.ArticleID, ref.Title, ref.URL, ref.Description,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return nil, fmt.Errorf("article %d: %w", ref.ArticleID, ErrNotFound)
		}
		return nil, fmt.Errorf("creating reference: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting created reference id: %w", err)
	}

	stored := *ref
	stored.ID = id
	return &stored, nil
}

// GetReferences returns all references owned by the given article, in
// insertion order. The slice is empty (never nil) when there are none.
func (s *Store) GetReferences(ctx context.Context, articleID int64) ([]models.Reference, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, article_id, title, url, description
		 FROM article_references
		 WHERE article_id = ?
		 ORDER BY id`,
		articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	refs := []models.Reference{}
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reference row: %w", err)
		}
		refs = append(refs, *ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reference rows: %w", err)
	}

	return refs, nil
}

// DeleteReference removes a reference by ID, scoped to its owning article.
func (s *Store) DeleteReference(ctx context.Context, articleID, refID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM article_references WHERE id = ? AND article_id = ?`,
		refID, articleID,
	)
	if err != nil {
		return fmt.Errorf("deleting reference: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// loadReferencesForArticles populates the References slice of each article
// in a single query over all article IDs.
func (s *Store) loadReferencesForArticles(ctx context.Context, articles []models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ids := make([]any, len(articles))
	placeholders := make([]string, len(articles))
	byID := make(map[int64]*models.Article, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
		placeholders[i] = "?"
		byID[articles[i].ID] = &articles[i]
	}

	query := fmt.Sprintf(
		`SELECT id, article_id, title, url, description
		 FROM article_references
		 WHERE article_id IN (%s)
		 ORDER BY id`,
		strings.Join(placeholders, ","),
	)

	rows, err := s.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return fmt.Errorf("scanning reference row: %w", err)
		}
		if article, ok := byID[ref.ArticleID]; ok {
			article.References = append(article.References, *ref)
		}
	}
	return rows.Err()
}

// scanReference scans a single reference row into a models.Reference.
func scanReference(row scanner) (*models.Reference, error) {
	var (
		ref         models.Reference
		description sql.NullString
	)

	if err := row.Scan(&ref.ID, &ref.ArticleID, &ref.Title, &ref.URL, &description); err != nil {
		return nil, err
	}

	if description.Valid {
		ref.Description = &description.String
	}

	return &ref, nil
}
