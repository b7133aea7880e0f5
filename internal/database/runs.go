package database

import "database/sql"

// InsertAnalysisRun records an analyze+retrain batch and returns its ID.
func (db *DB) InsertAnalysisRun(analyzed, trained int, trainStatus, summaryMarkdown string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO analysis_runs (analyzed_count, trained_count, train_status, summary_markdown)
		VALUES (?, ?, ?, ?)`,
		analyzed, trained, trainStatus, summaryMarkdown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetLatestAnalysisRun returns the most recent analysis run, or nil if none.
func (db *DB) GetLatestAnalysisRun() (*AnalysisRun, error) {
	row := db.conn.QueryRow(
		`SELECT id, ran_at, analyzed_count, trained_count, train_status, summary_markdown
		FROM analysis_runs ORDER BY id DESC LIMIT 1`,
	)

	var run AnalysisRun
	err := row.Scan(&run.ID, &run.RanAt, &run.AnalyzedCount, &run.TrainedCount,
		&run.TrainStatus, &run.SummaryMarkdown)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetAnalysisRuns returns all analysis runs, newest first.
func (db *DB) GetAnalysisRuns() ([]AnalysisRun, error) {
	rows, err := db.conn.Query(
		`SELECT id, ran_at, analyzed_count, trained_count, train_status, summary_markdown
		FROM analysis_runs ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		if err := rows.Scan(&run.ID, &run.RanAt, &run.AnalyzedCount, &run.TrainedCount,
			&run.TrainStatus, &run.SummaryMarkdown); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
