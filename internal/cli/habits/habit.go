package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
	"github.com/julianstephens/habitgrid/internal/validation"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	List   HabitListCmd   `cmd:"" help:"List all habits."`
	Toggle HabitToggleCmd `cmd:"" help:"Mark or unmark a habit as done for a day."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Category    string `short:"c" help:"Category ID, ID prefix or name (default: first category)."`
	Frequency   string `short:"f" help:"How often the habit is due (daily|weekly)." enum:"daily,weekly" default:"daily"`
	Days        string `short:"w" help:"Comma-separated weekdays for weekly habits (e.g. mon,wed,fri)."`
	Description string `short:"d" help:"Optional description."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	categories := ctx.Store.Categories()
	var categoryID string
	if c.Category != "" {
		cat, err := cli.ResolveCategory(categories, c.Category)
		if err != nil {
			return err
		}
		categoryID = cat.ID
	} else if len(categories) > 0 {
		categoryID = categories[0].ID
	}

	in := models.HabitInput{
		Title:       c.Title,
		Description: c.Description,
		CategoryID:  categoryID,
		Frequency:   models.Frequency(c.Frequency),
	}
	if c.Days != "" {
		if in.Frequency != models.FrequencyWeekly {
			return fmt.Errorf("--days only applies to weekly habits")
		}
		days, err := utils.ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		in.WeekDays = days
	}

	in = validation.NormalizeHabitInput(in)
	if err := checkHabit(ctx, in); err != nil {
		return err
	}

	habit := ctx.Store.AddHabit(in)
	ctx.Printf("Added habit: %s (ID: %s)\n", habit.Title, habit.ID)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit ID, ID prefix or title."`
	Title       *string `short:"t" help:"New title."`
	Description *string `short:"d" help:"New description."`
	Category    *string `short:"c" help:"New category (ID, ID prefix or name)."`
	Frequency   *string `short:"f" help:"New frequency (daily|weekly)."`
	Days        *string `short:"w" help:"New comma-separated weekdays for weekly habits."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	habit, err := cli.ResolveHabit(ctx.Store.Habits(), c.Habit)
	if err != nil {
		return err
	}

	var patch models.HabitPatch
	patch.Title = c.Title
	patch.Description = c.Description
	if c.Category != nil {
		cat, err := cli.ResolveCategory(ctx.Store.Categories(), *c.Category)
		if err != nil {
			return err
		}
		patch.CategoryID = &cat.ID
	}
	if c.Frequency != nil {
		f := models.Frequency(strings.ToLower(strings.TrimSpace(*c.Frequency)))
		if !f.IsValid() {
			return fmt.Errorf("invalid frequency: %s (expected daily or weekly)", *c.Frequency)
		}
		patch.Frequency = &f
	}
	if c.Days != nil {
		days, err := utils.ParseWeekdays(*c.Days)
		if err != nil {
			return err
		}
		patch.WeekDays = &days
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update; pass at least one flag")
	}

	// Validate the habit as it will look after the update.
	merged := habit.Clone()
	patch.Apply(&merged)
	in := validation.NormalizeHabitInput(models.HabitInput{
		Title:       merged.Title,
		Description: merged.Description,
		CategoryID:  merged.CategoryID,
		Frequency:   merged.Frequency,
		WeekDays:    merged.WeekDays,
	})
	if err := checkHabit(ctx, in); err != nil {
		return err
	}
	patch = models.HabitPatch{
		Title:       &in.Title,
		Description: &in.Description,
		CategoryID:  &in.CategoryID,
		Frequency:   &in.Frequency,
		WeekDays:    &in.WeekDays,
	}

	ctx.Store.UpdateHabit(habit.ID, patch)
	ctx.Printf("Habit updated: %s\n", in.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID, ID prefix or title."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	habit, err := cli.ResolveHabit(ctx.Store.Habits(), c.Habit)
	if err != nil {
		return err
	}

	ctx.Store.DeleteHabit(habit.ID)
	ctx.Printf("Deleted habit: %s (ID: %s)\n", habit.Title, habit.ID)
	return nil
}

type HabitListCmd struct {
	Category string `short:"c" help:"Only list habits in this category."`
	ShowIDs  bool   `help:"Show habit IDs."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	defer ctx.Close()

	categories := ctx.Store.Categories()
	var filter string
	if c.Category != "" {
		cat, err := cli.ResolveCategory(categories, c.Category)
		if err != nil {
			return err
		}
		filter = cat.ID
	}

	habits := ctx.Store.Habits()
	if filter != "" {
		kept := habits[:0]
		for _, h := range habits {
			if h.CategoryID == filter {
				kept = append(kept, h)
			}
		}
		habits = kept
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	ctx.Println("Habits:")
	for _, h := range habits {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", h.ID)
		}
		category, ok := names[h.CategoryID]
		if !ok {
			category = "uncategorized"
		}
		ctx.Printf("  %s%s - %s [%s]\n", h.Title, idStr, FormatFrequency(h), category)
		if h.Description != "" {
			ctx.Printf("      %s\n", h.Description)
		}
	}
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit ID, ID prefix or title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	habit, err := cli.ResolveHabit(ctx.Store.Habits(), c.Habit)
	if err != nil {
		return err
	}

	day, err := resolveDate(ctx, c.Date)
	if err != nil {
		return err
	}

	ctx.Store.ToggleHabitCompletion(habit.ID, day)
	updated, _ := ctx.Store.Habit(habit.ID)
	if updated.IsCompleted(day) {
		ctx.Printf("Marked habit %q for %s\n", habit.Title, day)
	} else {
		ctx.Printf("Unmarked habit %q for %s\n", habit.Title, day)
	}
	return nil
}

// FormatFrequency renders a habit's schedule, e.g. "weekly on Mon,Thu".
func FormatFrequency(h models.Habit) string {
	if h.Frequency == models.FrequencyWeekly {
		if len(h.WeekDays) == 0 {
			return "weekly (no days)"
		}
		return "weekly on " + utils.FormatWeekdays(h.WeekDays)
	}
	return string(h.Frequency)
}

func checkHabit(ctx *cli.Context, in models.HabitInput) error {
	if err := ctx.Validation().HabitInput(in, ctx.Store.Categories()); err != nil {
		return fmt.Errorf("invalid habit: %w", err)
	}
	if in.Frequency == models.FrequencyWeekly && len(in.WeekDays) == 0 {
		return fmt.Errorf("invalid habit: weekly habits need at least one day (--days)")
	}
	return nil
}

func resolveDate(ctx *cli.Context, date string) (string, error) {
	if date == "" {
		return ctx.Today()
	}
	if !utils.IsDateKey(date) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return date, nil
}
