package database

import (
	"database/sql"
)

// InsertArticle inserts an article. Returns the ID on success, 0 if the URL
// already exists.
func (db *DB) InsertArticle(url, title string, source, publishedDate, content *string, wordCount int) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO articles (url, title, source, published_date, content, word_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		url, title, source, publishedDate, content, wordCount,
	)
	if err != nil {
		// Duplicate URL constraint
		return 0, nil //nolint: nilerr
	}
	return result.LastInsertId()
}

// GetArticles returns the most recent articles, newest first.
// limit <= 0 returns everything.
func (db *DB) GetArticles(limit int) ([]Article, error) {
	query := articleColumns + " FROM articles ORDER BY scraped_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetArticlesBySource returns articles from a single source, newest first.
func (db *DB) GetArticlesBySource(source string) ([]Article, error) {
	rows, err := db.conn.Query(
		articleColumns+" FROM articles WHERE source = ? ORDER BY scraped_at DESC", source,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetUnanalyzedArticles returns articles without a sentiment label.
func (db *DB) GetUnanalyzedArticles() ([]Article, error) {
	rows, err := db.conn.Query(
		articleColumns + ` FROM articles
		WHERE sentiment_label IS NULL AND content IS NOT NULL AND content != ''
		ORDER BY scraped_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetLabeledArticles returns articles usable as a training corpus: a
// positive or negative label plus non-empty processed content.
func (db *DB) GetLabeledArticles() ([]Article, error) {
	rows, err := db.conn.Query(
		articleColumns + ` FROM articles
		WHERE sentiment_label IN ('positive', 'negative')
		AND processed_content IS NOT NULL AND processed_content != ''
		ORDER BY scraped_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// UpdateArticleContent replaces an article's raw content after a full-text
// fetch.
func (db *DB) UpdateArticleContent(articleID int64, content string, wordCount int) error {
	_, err := db.conn.Exec(
		"UPDATE articles SET content = ?, word_count = ? WHERE id = ?",
		content, wordCount, articleID,
	)
	return err
}

// UpdateProcessedContent stores the cleaned text and word count for an article.
func (db *DB) UpdateProcessedContent(articleID int64, processed string, wordCount int) error {
	_, err := db.conn.Exec(
		"UPDATE articles SET processed_content = ?, word_count = ? WHERE id = ?",
		processed, wordCount, articleID,
	)
	return err
}

// UpdateSentiment writes analysis results back to an article.
func (db *DB) UpdateSentiment(articleID int64, u SentimentUpdate) error {
	_, err := db.conn.Exec(
		`UPDATE articles SET sentiment_label = ?, sentiment_score = ?, model_used = ?,
		analyzed_at = datetime('now') WHERE id = ?`,
		u.Label, u.Score, u.ModelUsed, articleID,
	)
	return err
}

// GetArticleByID returns a single article by ID, or nil if absent.
func (db *DB) GetArticleByID(articleID int64) (*Article, error) {
	row := db.conn.QueryRow(articleColumns+" FROM articles WHERE id = ?", articleID)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAllArticles removes every article. Returns the number deleted.
func (db *DB) DeleteAllArticles() (int64, error) {
	result, err := db.conn.Exec("DELETE FROM articles")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const articleColumns = `SELECT id, url, title, source, published_date, content,
	processed_content, word_count, sentiment_label, sentiment_score, model_used,
	analyzed_at, scraped_at`

func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.URL, &a.Title, &a.Source, &a.PublishedDate,
			&a.Content, &a.ProcessedContent, &a.WordCount, &a.SentimentLabel,
			&a.SentimentScore, &a.ModelUsed, &a.AnalyzedAt, &a.ScrapedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanArticle(row *sql.Row) (*Article, error) {
	var a Article
	if err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Source, &a.PublishedDate,
		&a.Content, &a.ProcessedContent, &a.WordCount, &a.SentimentLabel,
		&a.SentimentScore, &a.ModelUsed, &a.AnalyzedAt, &a.ScrapedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
