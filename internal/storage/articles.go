package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogsmith/internal/models"
)

// CreateArticle inserts a new article with empty content and server-assigned
// timestamps, and returns the stored record (including its empty references
// list).
func (s *Store) CreateArticle(ctx context.Context, a *models.Article) (*models.Article, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (title, topic, style, keywords, length)
		 VALUES (?, ?, ?, ?, ?)`,
		a.Title, a.Topic, a.Style, a.Keywords, a.Length,
	)
	if err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting created article id: %w", err)
	}

	return s.GetArticle(ctx, id)
}

// ListArticles returns articles in insertion order, paginated by offset and
// limit. References are loaded for each returned article.
func (s *Store) ListArticles(ctx context.Context, offset, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, topic, style, keywords, length, content, created_at, updated_at
		 FROM articles
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating article rows: %w", err)
	}

	if err := s.loadReferencesForArticles(ctx, articles); err != nil {
		return nil, fmt.Errorf("loading references: %w", err)
	}

	return articles, nil
}

// GetArticle returns the article with the given ID, references included.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, topic, style, keywords, length, content, created_at, updated_at
		 FROM articles
		 WHERE id = ?`, id)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting article by id: %w", err)
	}

	refs, err := s.GetReferences(ctx, id)
	if err != nil {
		return nil, err
	}
	article.References = refs

	return article, nil
}

// UpdateArticleContent replaces an article's content and bumps updated_at.
// All other fields are immutable through this path.
func (s *Store) UpdateArticleContent(ctx context.Context, id int64, content string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET content = ?, updated_at = datetime('now') WHERE id = ?`,
		content, id,
	)
	if err != nil {
		return fmt.Errorf("updating article content: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteArticle removes an article by ID. Its references go with it via the
// schema's cascade.
func (s *Store) DeleteArticle(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM articles WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveGeneratedArticle inserts an article together with its content and any
// supplied references inside a single transaction. A failure on any write
// rolls back the whole save. The new article ID is returned.
func (s *Store) SaveGeneratedArticle(ctx context.Context, a *models.Article, refs []models.Reference) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO articles (title, topic, style, keywords, length, content)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Title, a.Topic, a.Style, a.Keywords, a.Length, a.Content,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting saved article id: %w", err)
	}

	for _, ref := range refs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_references (article_id, title, url, description)
			 VALUES (?, ?, ?, ?)`,
			id, ref.Title, ref.URL, ref.Description,
		); err != nil {
			return 0, fmt.Errorf("inserting reference %q: %w", ref.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return id, nil
}

// scanner is a minimal interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanArticle scans a single article row into a models.Article. The
// references slice is initialized empty; callers load it separately.
func scanArticle(row scanner) (*models.Article, error) {
	var (
		article   models.Article
		title     sql.NullString
		keywords  sql.NullString
		createdAt string
		updatedAt string
	)

	if err := row.Scan(
		&article.ID, &title, &article.Topic, &article.Style, &keywords,
		&article.Length, &article.Content, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	if title.Valid {
		article.Title = &title.String
	}
	if keywords.Valid {
		article.Keywords = &keywords.String
	}
	article.CreatedAt = parseTime(createdAt)
	article.UpdatedAt = parseTime(updatedAt)
	article.References = []models.Reference{}

	return &article, nil
}
