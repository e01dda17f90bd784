package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
)

var (
	// ErrDuplicateID is returned when two entities of a scene share an ID.
	ErrDuplicateID = errors.New("duplicate entity id")
	// ErrNonFinite is returned when a coordinate is NaN or infinite.
	ErrNonFinite = errors.New("non-finite coordinate")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the scene structurally: tags, unique IDs, finite coordinates
// and a boundary of at least three vertices.
func (s Scene) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	seen := make(map[string]bool)
	check := func(id string, pts ...geometry.Point) error {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
		for _, p := range pts {
			if !finite(p.X) || !finite(p.Y) {
				return fmt.Errorf("%w in %s", ErrNonFinite, id)
			}
		}
		return nil
	}
	for _, r := range s.Rooms {
		if err := check(r.ID, r.Vertices...); err != nil {
			return err
		}
	}
	for _, d := range s.Doors {
		if err := check(d.ID, d.Position); err != nil {
			return err
		}
	}
	for _, w := range s.Windows {
		if err := check(w.ID, w.Position); err != nil {
			return err
		}
	}
	for _, f := range s.Furniture {
		if err := check(f.ID, f.Position); err != nil {
			return err
		}
	}
	if err := check("adu_boundary", s.Boundary.Vertices...); err != nil {
		return err
	}
	return nil
}

// Validate checks the lot's coordinate ranges and setbacks.
func (l Lot) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("lot: %w", err)
	}
	return nil
}

// Validate checks the view settings.
func (v ViewSettings) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("view settings: %w", err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
