package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Size charts table - stores custom store-provided size charts
		`CREATE TABLE IF NOT EXISTS size_charts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			gender TEXT NOT NULL CHECK(gender IN ('male', 'female', 'unisex')),
			sizes TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Analyses table - anonymous history of measurement runs
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			gender TEXT NOT NULL,
			height_cm REAL NOT NULL,
			body_type TEXT NOT NULL,
			measurements TEXT NOT NULL,
			recommended_size TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			quality_score INTEGER NOT NULL,
			ai_enhanced INTEGER NOT NULL DEFAULT 0,
			chart_id TEXT REFERENCES size_charts(id) ON DELETE SET NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_chart_id ON analyses(chart_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
