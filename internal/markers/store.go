package markers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/lfarias/normanav/internal/db"
)

// Store manages persistence of markers and preferences.
type Store struct {
	db *db.DB
}

// NewStore creates a new marker store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Add assigns a marker to the unit. The color is the lowest unused palette
// slot; once the palette is exhausted assignment falls back to round-robin
// over the total marker count. Adding to an already-marked uid returns the
// existing marker unchanged.
func (s *Store) Add(ctx context.Context, unitUID string) (*Marker, error) {
	if existing, err := s.Get(ctx, unitUID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	used := make(map[int]bool)
	count := 0
	rows, err := s.db.QueryContext(ctx, `SELECT color_index FROM markers`)
	if err != nil {
		return nil, fmt.Errorf("listing marker colors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning marker color: %w", err)
		}
		used[c] = true
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	color := (count + 1) % PaletteSize
	for i := 0; i < PaletteSize; i++ {
		if !used[i] {
			color = i
			break
		}
	}

	m := &Marker{ID: uuid.New().String(), UID: unitUID, ColorIndex: color}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO markers (id, uid, color_index) VALUES (?, ?, ?)`,
		m.ID, m.UID, m.ColorIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting marker: %w", err)
	}
	return m, nil
}

// Get retrieves the marker on a unit, or nil when unmarked.
func (s *Store) Get(ctx context.Context, unitUID string) (*Marker, error) {
	var m Marker
	err := s.db.QueryRowContext(ctx,
		`SELECT id, uid, color_index FROM markers WHERE uid = ?`, unitUID,
	).Scan(&m.ID, &m.UID, &m.ColorIndex)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting marker: %w", err)
	}
	return &m, nil
}

// Remove deletes the marker on a unit. Removing an unmarked uid is a no-op.
func (s *Store) Remove(ctx context.Context, unitUID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM markers WHERE uid = ?`, unitUID)
	if err != nil {
		return fmt.Errorf("removing marker: %w", err)
	}
	return nil
}

// List returns all markers in creation order.
func (s *Store) List(ctx context.Context) ([]Marker, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uid, color_index FROM markers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing markers: %w", err)
	}
	defer rows.Close()

	var out []Marker
	for rows.Next() {
		var m Marker
		if err := rows.Scan(&m.ID, &m.UID, &m.ColorIndex); err != nil {
			return nil, fmt.Errorf("scanning marker: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetPrefs reads the stored preferences, applying defaults for missing or
// malformed values and clamping the zoom scale.
func (s *Store) GetPrefs(ctx context.Context) (Prefs, error) {
	p := DefaultPrefs()
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return p, fmt.Errorf("reading preferences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return p, fmt.Errorf("scanning preference: %w", err)
		}
		switch key {
		case "zoom":
			if z, err := strconv.ParseFloat(value, 64); err == nil {
				p.Zoom = ClampZoom(z)
			}
		case "compact":
			if b, err := strconv.ParseBool(value); err == nil {
				p.Compact = b
			}
		}
	}
	return p, rows.Err()
}

// SetPrefs writes the preferences synchronously. Zoom is clamped before
// storing.
func (s *Store) SetPrefs(ctx context.Context, p Prefs) (Prefs, error) {
	p.Zoom = ClampZoom(p.Zoom)
	for key, value := range map[string]string{
		"zoom":    strconv.FormatFloat(p.Zoom, 'f', -1, 64),
		"compact": strconv.FormatBool(p.Compact),
	} {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO preferences (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		if err != nil {
			return p, fmt.Errorf("writing preference %s: %w", key, err)
		}
	}
	return p, nil
}
