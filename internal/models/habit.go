package models

import (
	"maps"
	"slices"
	"time"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	default:
		return false
	}
}

// Habit represents a recurring action tracked for completion per calendar date.
type Habit struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"categoryId"`
	Frequency   Frequency       `json:"frequency"`
	WeekDays    []time.Weekday  `json:"weekDays,omitempty"` // only meaningful for weekly habits
	Completions map[string]bool `json:"completions"`        // YYYY-MM-DD -> completed
	CreatedAt   time.Time       `json:"createdAt"`
}

// IsCompleted reports whether the habit is marked done for the given day.
// Days that were never toggled count as not completed.
func (h Habit) IsCompleted(day string) bool {
	return h.Completions[day]
}

// DueOn reports whether the habit is scheduled for the given weekday.
func (h Habit) DueOn(wd time.Weekday) bool {
	switch h.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return slices.Contains(h.WeekDays, wd)
	default:
		return false
	}
}

// Clone returns a deep copy so callers cannot mutate store-owned maps and slices.
func (h Habit) Clone() Habit {
	c := h
	if h.WeekDays != nil {
		c.WeekDays = slices.Clone(h.WeekDays)
	}
	if h.Completions != nil {
		c.Completions = maps.Clone(h.Completions)
	} else {
		c.Completions = map[string]bool{}
	}
	return c
}

// HabitInput carries every caller-supplied habit field. ID, CreatedAt and
// Completions are always generated by the store.
type HabitInput struct {
	Title       string         `json:"title" validate:"required,max=120"`
	Description string         `json:"description,omitempty" validate:"max=500"`
	CategoryID  string         `json:"categoryId" validate:"required"`
	Frequency   Frequency      `json:"frequency" validate:"required,oneof=daily weekly"`
	WeekDays    []time.Weekday `json:"weekDays,omitempty" validate:"omitempty,unique,dive,min=0,max=6"`
}

// HabitPatch holds a partial update. Nil fields are left untouched.
type HabitPatch struct {
	Title       *string
	Description *string
	CategoryID  *string
	Frequency   *Frequency
	WeekDays    *[]time.Weekday
}

// IsEmpty reports whether the patch sets no fields.
func (p HabitPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.CategoryID == nil &&
		p.Frequency == nil && p.WeekDays == nil
}

// Apply merges the set fields into h.
func (p HabitPatch) Apply(h *Habit) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.CategoryID != nil {
		h.CategoryID = *p.CategoryID
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.WeekDays != nil {
		h.WeekDays = slices.Clone(*p.WeekDays)
	}
}
