package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/nramsai/sizely/internal/measure"
)

// Analysis is one stored measurement run. Records are anonymous: no image
// bytes or user identity are persisted, only the derived numbers.
type Analysis struct {
	ID              string
	Gender          string
	HeightCM        float64
	BodyType        string
	Measurements    measure.Measurements
	RecommendedSize string
	Confidence      int
	QualityScore    int
	AIEnhanced      bool
	ChartID         string // empty for built-in charts
	CreatedAt       time.Time
}

// AnalysisRepository provides persistence for analysis history.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Create inserts a new analysis record.
func (r *AnalysisRepository) Create(a *Analysis) error {
	measurements, err := json.Marshal(a.Measurements)
	if err != nil {
		return err
	}

	a.CreatedAt = time.Now()

	var chartID any
	if a.ChartID != "" {
		chartID = a.ChartID
	}

	_, err = r.db.Exec(
		`INSERT INTO analyses (id, gender, height_cm, body_type, measurements,
			recommended_size, confidence, quality_score, ai_enhanced, chart_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Gender, a.HeightCM, a.BodyType, string(measurements),
		a.RecommendedSize, a.Confidence, a.QualityScore, a.AIEnhanced, chartID, a.CreatedAt,
	)
	return err
}

// GetByID retrieves an analysis by its ID.
func (r *AnalysisRepository) GetByID(id string) (*Analysis, error) {
	a := &Analysis{}
	var measurements string
	var chartID sql.NullString

	err := r.db.QueryRow(
		`SELECT id, gender, height_cm, body_type, measurements,
			recommended_size, confidence, quality_score, ai_enhanced, chart_id, created_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Gender, &a.HeightCM, &a.BodyType, &measurements,
		&a.RecommendedSize, &a.Confidence, &a.QualityScore, &a.AIEnhanced, &chartID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.ChartID = chartID.String
	if err := json.Unmarshal([]byte(measurements), &a.Measurements); err != nil {
		return nil, err
	}
	return a, nil
}

// ListRecent retrieves the most recent analyses, newest first.
func (r *AnalysisRepository) ListRecent(limit int) ([]*Analysis, error) {
	rows, err := r.db.Query(
		`SELECT id, gender, height_cm, body_type, measurements,
			recommended_size, confidence, quality_score, ai_enhanced, chart_id, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		a := &Analysis{}
		var measurements string
		var chartID sql.NullString

		err := rows.Scan(&a.ID, &a.Gender, &a.HeightCM, &a.BodyType, &measurements,
			&a.RecommendedSize, &a.Confidence, &a.QualityScore, &a.AIEnhanced, &chartID, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		a.ChartID = chartID.String
		if err := json.Unmarshal([]byte(measurements), &a.Measurements); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// Delete removes an analysis by its ID.
func (r *AnalysisRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
