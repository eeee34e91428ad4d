package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/nramsai/sizely/internal/sizing"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// SizeChart is a custom chart record. The chart's sizes are stored as a
// JSON column; gender selects the scoring context it replaces.
type SizeChart struct {
	ID        string
	Name      string
	Gender    sizing.Gender
	Sizes     []sizing.Size
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chart converts the record into a sizing chart.
func (c *SizeChart) Chart() sizing.Chart {
	return sizing.Chart{Name: c.Name, Sizes: c.Sizes}
}

// ChartRepository provides CRUD operations for custom size charts.
type ChartRepository struct {
	db *sql.DB
}

// Charts returns the size chart repository for this store.
func (s *Store) Charts() *ChartRepository {
	return &ChartRepository{db: s.db}
}

// Create inserts a new size chart. The chart is validated before insert so
// the table never holds an unusable chart.
func (r *ChartRepository) Create(c *SizeChart) error {
	if err := c.Chart().Validate(); err != nil {
		return err
	}

	sizes, err := json.Marshal(c.Sizes)
	if err != nil {
		return err
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err = r.db.Exec(
		`INSERT INTO size_charts (id, name, gender, sizes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Gender), string(sizes), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// GetByID retrieves a size chart by its ID.
func (r *ChartRepository) GetByID(id string) (*SizeChart, error) {
	return r.get(`SELECT id, name, gender, sizes, created_at, updated_at
		 FROM size_charts WHERE id = ?`, id)
}

// GetByName retrieves a size chart by its unique name.
func (r *ChartRepository) GetByName(name string) (*SizeChart, error) {
	return r.get(`SELECT id, name, gender, sizes, created_at, updated_at
		 FROM size_charts WHERE name = ?`, name)
}

func (r *ChartRepository) get(query string, arg any) (*SizeChart, error) {
	c := &SizeChart{}
	var gender, sizes string

	err := r.db.QueryRow(query, arg).
		Scan(&c.ID, &c.Name, &gender, &sizes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.Gender = sizing.Gender(gender)
	if err := json.Unmarshal([]byte(sizes), &c.Sizes); err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all size charts.
func (r *ChartRepository) List() ([]*SizeChart, error) {
	rows, err := r.db.Query(
		`SELECT id, name, gender, sizes, created_at, updated_at
		 FROM size_charts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charts []*SizeChart
	for rows.Next() {
		c := &SizeChart{}
		var gender, sizes string

		if err := rows.Scan(&c.ID, &c.Name, &gender, &sizes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Gender = sizing.Gender(gender)
		if err := json.Unmarshal([]byte(sizes), &c.Sizes); err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return charts, nil
}

// Update updates an existing size chart.
func (r *ChartRepository) Update(c *SizeChart) error {
	if err := c.Chart().Validate(); err != nil {
		return err
	}

	sizes, err := json.Marshal(c.Sizes)
	if err != nil {
		return err
	}

	c.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE size_charts SET name = ?, gender = ?, sizes = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, string(c.Gender), string(sizes), c.UpdatedAt, c.ID,
	)
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

// Delete removes a size chart by its ID.
func (r *ChartRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM size_charts WHERE id = ?`, id)
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
