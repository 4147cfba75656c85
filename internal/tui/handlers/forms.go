package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tui/state"
	"github.com/julianstephens/habitgrid/internal/validation"
)

var weekdayOptions = []huh.Option[time.Weekday]{
	huh.NewOption("Sunday", time.Sunday),
	huh.NewOption("Monday", time.Monday),
	huh.NewOption("Tuesday", time.Tuesday),
	huh.NewOption("Wednesday", time.Wednesday),
	huh.NewOption("Thursday", time.Thursday),
	huh.NewOption("Friday", time.Friday),
	huh.NewOption("Saturday", time.Saturday),
}

// NewHabitForm creates the add/edit habit form. The weekday group is only
// shown for weekly habits.
func NewHabitForm(fm *state.HabitFormModel, categories []models.Category, v *validation.Validator) *huh.Form {
	options := make([]huh.Option[string], len(categories))
	for i, c := range categories {
		options[i] = huh.NewOption(c.Name, c.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					return v.Field("title", strings.TrimSpace(s), "required,max=120")
				}),
			huh.NewInput().
				Title("Description").
				Description("Optional").
				Value(&fm.Description).
				Validate(func(s string) error {
					return v.Field("description", strings.TrimSpace(s), "max=500")
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&fm.CategoryID),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[time.Weekday]().
				Title("Days").
				Description("Days the habit is due").
				Options(weekdayOptions...).
				Value(&fm.WeekDays).
				Validate(func(days []time.Weekday) error {
					if len(days) == 0 {
						return errors.New("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool {
			return fm.Frequency != models.FrequencyWeekly
		}),
	).WithTheme(huh.ThemeDracula())
}

// NewCategoryForm creates the add/edit category form
func NewCategoryForm(fm *state.CategoryFormModel, v *validation.Validator) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					return v.Field("name", strings.TrimSpace(s), "required,max=60")
				}),
			huh.NewInput().
				Title("Color").
				Description("Hex color, e.g. #8b5cf6").
				Value(&fm.Color).
				Validate(func(s string) error {
					return v.Field("color", strings.TrimSpace(s), "required,hexcolor")
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
