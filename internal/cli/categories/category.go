package categories

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/validation"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a new category."`
	Edit   CategoryEditCmd   `cmd:"" help:"Rename or recolor a category."`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete a category, moving its habits to the first remaining one."`
	List   CategoryListCmd   `cmd:"" help:"List categories."`
}

type CategoryAddCmd struct {
	Name  string `arg:"" help:"Category name."`
	Color string `help:"Hex color, e.g. #8b5cf6 (default: next palette color)."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	color := c.Color
	if color == "" {
		color = NextColor(ctx.Store.Categories())
	}
	in := validation.NormalizeCategoryInput(models.CategoryInput{Name: c.Name, Color: color})
	if err := ctx.Validation().CategoryInput(in); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}

	id := ctx.Store.AddCategory(in)
	ctx.Printf("Added category: %s (ID: %s)\n", in.Name, id)
	return nil
}

type CategoryEditCmd struct {
	Category string  `arg:"" help:"Category ID, ID prefix or name."`
	Name     *string `short:"n" help:"New name."`
	Color    *string `help:"New hex color."`
}

func (c *CategoryEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	cat, err := cli.ResolveCategory(ctx.Store.Categories(), c.Category)
	if err != nil {
		return err
	}

	patch := models.CategoryPatch{Name: c.Name, Color: c.Color}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update; pass --name or --color")
	}

	patch.Apply(&cat)
	in := validation.NormalizeCategoryInput(models.CategoryInput{Name: cat.Name, Color: cat.Color})
	if err := ctx.Validation().CategoryInput(in); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}

	ctx.Store.UpdateCategory(cat.ID, models.CategoryPatch{Name: &in.Name, Color: &in.Color})
	ctx.Printf("Category updated: %s\n", in.Name)
	return nil
}

type CategoryDeleteCmd struct {
	Category string `arg:"" help:"Category ID, ID prefix or name."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	cat, err := cli.ResolveCategory(ctx.Store.Categories(), c.Category)
	if err != nil {
		return err
	}

	moved := 0
	for _, h := range ctx.Store.Habits() {
		if h.CategoryID == cat.ID {
			moved++
		}
	}

	if err := ctx.Store.DeleteCategory(cat.ID); err != nil {
		if errors.Is(err, tracker.ErrLastCategory) {
			return fmt.Errorf("%w: add another category first", err)
		}
		return err
	}

	ctx.Printf("Deleted category: %s\n", cat.Name)
	if moved > 0 {
		fallback := ctx.Store.Categories()[0]
		ctx.Printf("Moved %d habit(s) to %s\n", moved, fallback.Name)
	}
	return nil
}

type CategoryListCmd struct {
	ShowIDs bool `help:"Show category IDs."`
}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	defer ctx.Close()

	counts := make(map[string]int)
	for _, h := range ctx.Store.Habits() {
		counts[h.CategoryID]++
	}

	ctx.Println("Categories:")
	for _, cat := range ctx.Store.Categories() {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", cat.ID)
		}
		ctx.Printf("  %s%s %s - %d habit(s)\n", cat.Name, idStr, cat.Color, counts[cat.ID])
	}
	return nil
}

// NextColor picks the first palette color not already in use, cycling
// through the palette once every color is taken.
func NextColor(categories []models.Category) string {
	used := make(map[string]bool, len(categories))
	for _, cat := range categories {
		used[cat.Color] = true
	}
	for _, color := range constants.CategoryPalette {
		if !used[color] {
			return color
		}
	}
	return constants.CategoryPalette[len(categories)%len(constants.CategoryPalette)]
}
