package models

import "time"

// Article represents one generated blog post and its metadata. Content is
// empty until a generation result has been saved against the record.
type Article struct {
	ID         int64       `json:"id"`
	Title      *string     `json:"title"`
	Topic      string      `json:"topic"`
	Style      string      `json:"style"`
	Keywords   *string     `json:"keywords"`
	Length     int         `json:"length"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	References []Reference `json:"references"`
}

// Reference is a cited source tied to an article.
type Reference struct {
	ID          int64   `json:"id"`
	ArticleID   int64   `json:"article_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
}
