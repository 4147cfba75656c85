package habits

import (
	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/utils"
)

type TodayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	defer ctx.Close()

	day, err := resolveDate(ctx, c.Date)
	if err != nil {
		return err
	}

	habits := ctx.Store.HabitsForDate(day)
	weekday, _ := utils.WeekdayOf(day)
	ctx.Printf("Habits for %s (%s):\n\n", day, weekday)
	if len(habits) == 0 {
		ctx.Println("No habits due.")
		return nil
	}

	for _, h := range habits {
		status := "[ ]"
		if h.IsCompleted(day) {
			status = "[x]"
		}
		ctx.Printf("%s %s\n", status, h.Title)
	}

	summary := ctx.Store.Summary(day)
	ctx.Printf("\nDone: %d/%d (%d%%)\n", summary.Completed, summary.Due, summary.Rate)
	if summary.Perfect {
		ctx.Println("🎉 Perfect day!")
	}
	return nil
}
