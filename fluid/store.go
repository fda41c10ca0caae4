package fluid

import (
	"errors"
	"fmt"
	"log/slog"
)

// MinDimension is the smallest grid width or height the store allocates.
const MinDimension = 8

// ErrNoSupportedFormat is returned when no storage format in the fallback
// chain is supported.
var ErrNoSupportedFormat = errors.New("fluid: no supported storage format")

// formatChain lists storage formats from most to least preferred.
var formatChain = []Format{FormatFloat32, FormatFloat16}

// FormatSupport reports whether a storage format can back a field.
type FormatSupport interface {
	Supports(Format) bool
}

// FormatList is a FormatSupport backed by an explicit list.
type FormatList []Format

// Supports reports whether f is in the list.
func (l FormatList) Supports(f Format) bool {
	for _, have := range l {
		if have == f {
			return true
		}
	}
	return false
}

// AllFormats supports every format.
var AllFormats = FormatList(formatChain)

// Store owns every grid field of the simulation. All fields share the same
// dimensions at all times.
type Store struct {
	W, H int

	Velocity Pair // 2 components
	Density  Pair
	Pressure Pair

	Divergence *Field
	Debug      *Field // RGBA rendering of the selected debug view
	Dye        *Field // RGBA colorized density

	format  Format
	support FormatSupport
}

// NewStore creates an empty store. Nothing is allocated until Allocate.
func NewStore(support FormatSupport) *Store {
	if support == nil {
		support = AllFormats
	}
	return &Store{support: support}
}

// Allocated reports whether the fields exist.
func (s *Store) Allocated() bool {
	return s.Velocity.allocated()
}

// Format returns the storage format chosen at the last allocation.
func (s *Store) Format() Format {
	return s.format
}

// Allocate sizes every field to w×h, with each dimension clamped to at least
// MinDimension. Asking for the current dimensions is a no-op; otherwise all
// existing fields are released and recreated zeroed, discarding any state.
func (s *Store) Allocate(w, h int) error {
	w = max(w, MinDimension)
	h = max(h, MinDimension)

	if s.W == w && s.H == h && s.Allocated() {
		return nil
	}

	format, err := s.pickFormat()
	if err != nil {
		return fmt.Errorf("allocating %dx%d grid: %w", w, h, err)
	}

	s.Release()

	s.W, s.H = w, h
	s.format = format
	s.Velocity = newPair(w, h, Vector, format)
	s.Density = newPair(w, h, Scalar, format)
	s.Pressure = newPair(w, h, Scalar, format)
	s.Divergence = newField(w, h, Scalar, format)
	s.Debug = newField(w, h, Color, FormatFloat32)
	s.Dye = newField(w, h, Color, FormatFloat32)

	slog.Debug("fluid fields allocated", "width", w, "height", h, "format", format.String())
	return nil
}

// pickFormat walks the fallback chain and returns the first supported format.
func (s *Store) pickFormat() (Format, error) {
	for i, f := range formatChain {
		if s.support.Supports(f) {
			if i > 0 {
				slog.Warn("fluid storage format unavailable, falling back",
					"wanted", formatChain[0].String(), "using", f.String())
			}
			return f, nil
		}
	}
	slog.Error("fluid storage allocation failed", "tried", fmt.Sprint(formatChain))
	return 0, ErrNoSupportedFormat
}

// Release drops every field and resets the recorded dimensions. Safe to call
// repeatedly or before any allocation.
func (s *Store) Release() {
	s.Velocity = Pair{}
	s.Density = Pair{}
	s.Pressure = Pair{}
	s.Divergence = nil
	s.Debug = nil
	s.Dye = nil
	s.W, s.H = 0, 0
}

// Reset zeroes density, velocity, pressure and divergence in place.
func (s *Store) Reset() {
	s.Velocity.Clear()
	s.Density.Clear()
	s.Pressure.Clear()
	if s.Divergence != nil {
		s.Divergence.Clear()
	}
}
