package update

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/views"
)

const (
	fieldTitle = iota
	fieldDate
	fieldTime
	fieldCategory
	fieldCount
)

var formLabels = []string{"Title", "Date", "Time", "Category"}

// FormState is the add/edit form. EditingID is 0 while adding.
type FormState struct {
	Active    bool
	EditingID int64
	Focus     int
	Err       string
	inputs    []textinput.Model
}

func newFormInputs() []textinput.Model {
	placeholders := []string{"Event title", "YYYY-MM-DD", "HH:MM", "General"}
	limits := []int{200, 10, 8, 40}
	out := make([]textinput.Model, fieldCount)
	for i := range out {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = 40
		out[i] = in
	}
	return out
}

// Values returns the form's current fields.
func (f FormState) Values() model.EventFields {
	if len(f.inputs) != fieldCount {
		return model.EventFields{}
	}
	return model.EventFields{
		Title:    f.inputs[fieldTitle].Value(),
		Date:     f.inputs[fieldDate].Value(),
		Time:     f.inputs[fieldTime].Value(),
		Category: f.inputs[fieldCategory].Value(),
	}
}

func (f *FormState) setValues(v model.EventFields) {
	f.inputs[fieldTitle].SetValue(v.Title)
	f.inputs[fieldDate].SetValue(v.Date)
	f.inputs[fieldTime].SetValue(v.Time)
	f.inputs[fieldCategory].SetValue(v.Category)
}

func (f *FormState) focusField(i int) {
	f.Focus = (i + fieldCount) % fieldCount
	for idx := range f.inputs {
		if idx == f.Focus {
			f.inputs[idx].Focus()
		} else {
			f.inputs[idx].Blur()
		}
	}
}

// openAddForm prefills the selected date, or today when nothing is
// selected.
func (m Model) openAddForm() Model {
	date := m.ViewState.SelectedDate
	if date == "" {
		date = model.ISODate(m.now())
	}
	m.Form = FormState{Active: true, inputs: newFormInputs()}
	m.Form.setValues(model.EventFields{Date: date, Category: string(model.CategoryGeneral)})
	m.Form.focusField(fieldTitle)
	return m
}

func (m Model) openEditForm(id int64) Model {
	ev, ok := m.store.Get(id)
	if !ok {
		return m
	}
	m.Form = FormState{Active: true, EditingID: id, inputs: newFormInputs()}
	m.Form.setValues(ev.Fields())
	m.Form.focusField(fieldTitle)
	return m
}

func (m Model) closeForm() Model {
	m.Form = FormState{}
	return m
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeForm(), nil
	case "tab", "down":
		m.Form.focusField(m.Form.Focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.Form.focusField(m.Form.Focus - 1)
		return m, nil
	case "enter":
		return m.submitForm()
	}
	var cmd tea.Cmd
	m.Form.inputs[m.Form.Focus], cmd = m.Form.inputs[m.Form.Focus].Update(msg)
	return m, cmd
}

func (m Model) submitForm() (Model, tea.Cmd) {
	fields := m.Form.Values()
	if m.Form.EditingID != 0 {
		next, cmd, err := m.updateEvent(m.Form.EditingID, fields)
		var nf *model.NotFoundError
		switch {
		case errors.As(err, &nf):
			return next.closeForm(), nil
		case err != nil:
			return next.formFailed(err)
		}
		return next.closeForm(), cmd
	}
	next, cmd, err := m.addEvent(fields)
	if err != nil {
		return next.formFailed(err)
	}
	return next.closeForm(), cmd
}

func (m Model) formFailed(err error) (Model, tea.Cmd) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		m.Form.Err = ve.Message
		return m.setStatus(ve.Message, true)
	}
	m.Form.Err = err.Error()
	return m.fail(err)
}

func (m Model) renderForm() string {
	inputs := make([]string, 0, len(m.Form.inputs))
	for _, in := range m.Form.inputs {
		inputs = append(inputs, in.View())
	}
	return views.RenderForm(views.FormData{
		Editing: m.Form.EditingID != 0,
		Labels:  formLabels,
		Inputs:  inputs,
		Focus:   m.Form.Focus,
		Error:   m.Form.Err,
	}, m.theme())
}
