package models

// Category is a named, colored grouping that habits belong to.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CategoryInput struct {
	Name  string `json:"name" validate:"required,max=60"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// CategoryPatch holds a partial update. Nil fields are left untouched.
type CategoryPatch struct {
	Name  *string
	Color *string
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Color == nil
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}
