// Package markers persists user-assigned color tags on document units and
// the reading preferences (zoom scale, compact mode). The rendering layer
// is the only consumer of markers; this core only stores them.
package markers

// PaletteSize is the number of marker colors available before slot
// assignment falls back to round-robin.
const PaletteSize = 8

// Zoom scale bounds; persisted values outside the range are clamped.
const (
	MinZoom     = 0.4
	MaxZoom     = 2.5
	DefaultZoom = 1.0
)

// Marker is a color tag attached to one unit. At most one marker exists per
// uid.
type Marker struct {
	ID         string `json:"id"`
	UID        string `json:"uid"`
	ColorIndex int    `json:"color_index"`
}

// Prefs are the persisted reading preferences. Malformed or missing stored
// values are treated as absent and replaced by defaults, never rejected.
type Prefs struct {
	Zoom    float64 `json:"zoom"`
	Compact bool    `json:"compact"`
}

// DefaultPrefs returns the preferences applied when nothing valid is stored.
func DefaultPrefs() Prefs {
	return Prefs{Zoom: DefaultZoom, Compact: false}
}

// ClampZoom forces z into the valid zoom range.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
