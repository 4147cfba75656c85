package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitgrid/internal/models"
)

var (
	ErrNoMatch   = errors.New("no match")
	ErrAmbiguous = errors.New("ambiguous reference")
)

// ResolveHabit finds the habit ref points at: an exact id, a unique id
// prefix, or a title compared case-insensitively.
func ResolveHabit(habits []models.Habit, ref string) (models.Habit, error) {
	i, err := resolve(len(habits), ref, func(i int) (string, string) {
		return habits[i].ID, habits[i].Title
	})
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, err)
	}
	return habits[i], nil
}

// ResolveCategory is ResolveHabit for categories, matching on name.
func ResolveCategory(categories []models.Category, ref string) (models.Category, error) {
	i, err := resolve(len(categories), ref, func(i int) (string, string) {
		return categories[i].ID, categories[i].Name
	})
	if err != nil {
		return models.Category{}, fmt.Errorf("category %q: %w", ref, err)
	}
	return categories[i], nil
}

func resolve(n int, ref string, at func(int) (id, name string)) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, ErrNoMatch
	}

	for i := range n {
		if id, _ := at(i); id == ref {
			return i, nil
		}
	}

	// Prefix and name matches are ambiguous if more than one item qualifies.
	for _, match := range []func(id, name string) bool{
		func(id, _ string) bool { return strings.HasPrefix(id, ref) },
		func(_, name string) bool { return strings.EqualFold(name, ref) },
	} {
		found := -1
		for i := range n {
			if !match(at(i)) {
				continue
			}
			if found >= 0 {
				return -1, ErrAmbiguous
			}
			found = i
		}
		if found >= 0 {
			return found, nil
		}
	}
	return -1, ErrNoMatch
}
