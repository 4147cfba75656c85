package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	catcmd "github.com/julianstephens/habitgrid/internal/cli/categories"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tui/components/categories"
	"github.com/julianstephens/habitgrid/internal/tui/state"
)

// HandleCategoryFormState handles the add and edit category states
func HandleCategoryFormState(m *state.Model, msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.FormError = ""
		m.EditingCategoryID = ""
		m.State = constants.StateCategories
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		in := m.CategoryForm.Input()
		if err := m.Validator.CategoryInput(in); err != nil {
			m.FormError = fmt.Sprintf("Invalid category: %v", err)
			m.Form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}

		if m.EditingCategoryID == "" {
			m.Store.AddCategory(in)
		} else if !m.Store.UpdateCategory(m.EditingCategoryID, models.CategoryPatch{Name: &in.Name, Color: &in.Color}) {
			m.FormError = "Category no longer exists"
			m.Form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}

		m.Refresh()
		m.FormError = ""
		m.EditingCategoryID = ""
		m.State = constants.StateCategories
	case huh.StateAborted:
		m.FormError = ""
		m.EditingCategoryID = ""
		m.State = constants.StateCategories
	}
	return tea.Batch(cmds...)
}

// HandleCategoryMessages handles messages from the categories component
func HandleCategoryMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case categories.AddCategoryMsg:
		m.CategoryForm = &state.CategoryFormModel{
			Color: catcmd.NextColor(m.Store.Categories()),
		}
		m.EditingCategoryID = ""
		m.FormError = ""
		m.Form = NewCategoryForm(m.CategoryForm, m.Validator)
		m.State = constants.StateAddCategory
		return true, m.Form.Init()

	case categories.EditCategoryMsg:
		c, ok := m.Store.Category(msg.ID)
		if !ok {
			return true, nil
		}
		m.CategoryForm = &state.CategoryFormModel{Name: c.Name, Color: c.Color}
		m.EditingCategoryID = c.ID
		m.FormError = ""
		m.Form = NewCategoryForm(m.CategoryForm, m.Validator)
		m.State = constants.StateEditCategory
		return true, m.Form.Init()

	case categories.DeleteCategoryMsg:
		m.FormError = ""
		m.CategoryToDeleteID = msg.ID
		m.State = constants.StateConfirmDeleteCategory
		return true, nil
	}
	return false, nil
}
