package database

// GetStats returns aggregate statistics across the whole database.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	if err := db.conn.QueryRow("SELECT COUNT(*) FROM articles").Scan(&stats.TotalArticles); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM articles WHERE sentiment_label IS NOT NULL",
	).Scan(&stats.AnalyzedArticles); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM analysis_runs").Scan(&stats.AnalysisRuns); err != nil {
		return nil, err
	}

	byLabel, err := db.GetSentimentCounts()
	if err != nil {
		return nil, err
	}
	stats.ByLabel = byLabel

	bySource, err := db.GetSourceCounts()
	if err != nil {
		return nil, err
	}
	stats.BySource = bySource

	return stats, nil
}

// GetSentimentCounts returns article counts and mean scores per sentiment label.
func (db *DB) GetSentimentCounts() ([]LabelCount, error) {
	rows, err := db.conn.Query(
		`SELECT sentiment_label, COUNT(*), COALESCE(AVG(sentiment_score), 0)
		FROM articles WHERE sentiment_label IS NOT NULL
		GROUP BY sentiment_label ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []LabelCount
	for rows.Next() {
		var c LabelCount
		if err := rows.Scan(&c.Label, &c.Count, &c.AvgScore); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetSourceCounts returns article counts and mean sentiment scores per source.
func (db *DB) GetSourceCounts() ([]SourceCount, error) {
	rows, err := db.conn.Query(
		`SELECT COALESCE(source, 'unknown'), COUNT(*), COALESCE(AVG(sentiment_score), 0)
		FROM articles GROUP BY source ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SourceCount
	for rows.Next() {
		var c SourceCount
		if err := rows.Scan(&c.Source, &c.Count, &c.AvgScore); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SourceLabelCounts returns, per source, the article count for each sentiment
// label. Used for the stacked source chart.
func (db *DB) SourceLabelCounts() (map[string]map[string]int, error) {
	rows, err := db.conn.Query(
		`SELECT COALESCE(source, 'unknown'), sentiment_label, COUNT(*)
		FROM articles WHERE sentiment_label IS NOT NULL
		GROUP BY source, sentiment_label`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]map[string]int)
	for rows.Next() {
		var source, label string
		var count int
		if err := rows.Scan(&source, &label, &count); err != nil {
			return nil, err
		}
		if result[source] == nil {
			result[source] = make(map[string]int)
		}
		result[source][label] = count
	}
	return result, rows.Err()
}
