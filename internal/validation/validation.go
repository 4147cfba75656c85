package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// ConflictType represents the type of integrity problem found in loaded data
type ConflictType string

const (
	ConflictNoCategories      ConflictType = "no_categories"
	ConflictDuplicateHabitID  ConflictType = "duplicate_habit_id"
	ConflictDuplicateCategory ConflictType = "duplicate_category_id"
	ConflictDanglingCategory  ConflictType = "dangling_category"
	ConflictInvalidFrequency  ConflictType = "invalid_frequency"
	ConflictInvalidWeekday    ConflictType = "invalid_weekday"
	ConflictInvalidCompletion ConflictType = "invalid_completion_date"
	ConflictEmptyTitle        ConflictType = "empty_title"
	ConflictWeeklyWithoutDays ConflictType = "weekly_without_days"
	ConflictInvalidColor      ConflictType = "invalid_color"
)

// Conflict represents a detected problem in habits or categories
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Habit titles or category names involved
	IDs         []string // IDs of the records involved

	// Warning marks conflicts the app tolerates, such as a weekly habit
	// that is never due.
	Warning bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors returns true if any conflict is more than a warning
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if !c.Warning {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		prefix := "-"
		if conflict.Warning {
			prefix = "- (warning)"
		}
		fmt.Fprintf(&b, "%s %s\n", prefix, conflict.Description)
	}
	return b.String()
}

// Validator checks user input before it reaches the store and audits
// state loaded from storage.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match what users see.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// NormalizeHabitInput trims text fields, sorts and deduplicates weekdays,
// and drops weekdays from daily habits.
func NormalizeHabitInput(in models.HabitInput) models.HabitInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.Frequency == models.FrequencyWeekly {
		in.WeekDays = utils.NormalizeWeekdays(in.WeekDays)
	} else {
		in.WeekDays = nil
	}
	return in
}

// NormalizeCategoryInput trims text fields and lowercases the color.
func NormalizeCategoryInput(in models.CategoryInput) models.CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.ToLower(strings.TrimSpace(in.Color))
	return in
}

// HabitInput validates a normalized habit against its struct tags and
// checks that the category exists.
func (v *Validator) HabitInput(in models.HabitInput, categories []models.Category) error {
	if err := v.structErr(in); err != nil {
		return err
	}
	if !hasCategory(categories, in.CategoryID) {
		return fmt.Errorf("categoryId: unknown category %q", in.CategoryID)
	}
	return nil
}

// CategoryInput validates a normalized category.
func (v *Validator) CategoryInput(in models.CategoryInput) error {
	return v.structErr(in)
}

// Field validates a single value against a tag, for form fields that are
// checked as the user types.
func (v *Validator) Field(name string, value any, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(describe(name, verrs[0]))
		}
		return err
	}
	return nil
}

func (v *Validator) structErr(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe.Field(), fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color like #22c55e", field)
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// CheckState audits habits and categories loaded from storage.
func (v *Validator) CheckState(habits []models.Habit, categories []models.Category) ValidationResult {
	var result ValidationResult

	if len(categories) == 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictNoCategories,
			Description: "no categories defined",
		})
	}

	categoryIDs := make(map[string]bool, len(categories))
	for _, c := range categories {
		if categoryIDs[c.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateCategory,
				Description: fmt.Sprintf("category id %q is used more than once", c.ID),
				Items:       []string{c.Name},
				IDs:         []string{c.ID},
			})
		}
		categoryIDs[c.ID] = true

		if v.validate.Var(c.Color, "hexcolor") != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidColor,
				Description: fmt.Sprintf("category %q has invalid color %q", c.Name, c.Color),
				Items:       []string{c.Name},
				IDs:         []string{c.ID},
				Warning:     true,
			})
		}
	}

	habitIDs := make(map[string]bool, len(habits))
	for _, h := range habits {
		add := func(t ConflictType, warning bool, format string, args ...any) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        t,
				Description: fmt.Sprintf(format, args...),
				Items:       []string{h.Title},
				IDs:         []string{h.ID},
				Warning:     warning,
			})
		}

		if habitIDs[h.ID] {
			add(ConflictDuplicateHabitID, false, "habit id %q is used more than once", h.ID)
		}
		habitIDs[h.ID] = true

		if strings.TrimSpace(h.Title) == "" {
			add(ConflictEmptyTitle, false, "habit %s has an empty title", h.ID)
		}
		if !categoryIDs[h.CategoryID] {
			add(ConflictDanglingCategory, false, "habit %q references missing category %q", h.Title, h.CategoryID)
		}
		if !h.Frequency.IsValid() {
			add(ConflictInvalidFrequency, false, "habit %q has unknown frequency %q", h.Title, h.Frequency)
		}
		for _, wd := range h.WeekDays {
			if wd < 0 || wd > 6 {
				add(ConflictInvalidWeekday, false, "habit %q has weekday %d outside 0-6", h.Title, int(wd))
			}
		}
		if h.Frequency == models.FrequencyWeekly && len(h.WeekDays) == 0 {
			add(ConflictWeeklyWithoutDays, true, "weekly habit %q has no weekdays and is never due", h.Title)
		}
		for day := range h.Completions {
			if !utils.IsDateKey(day) {
				add(ConflictInvalidCompletion, false, "habit %q has completion for invalid date %q", h.Title, day)
			}
		}
	}

	return result
}

func hasCategory(categories []models.Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
