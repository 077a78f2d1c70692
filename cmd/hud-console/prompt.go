package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptKind int

const (
	promptEquip promptKind = iota
	promptAcupoint
	promptUseItem
	promptQuantity
	promptMove
	promptStance
	promptGroup
)

var promptStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("205")).
	Padding(0, 1)

type promptKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

var promptKeys = promptKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Cancel:  key.NewBinding(key.WithKeys("esc")),
}

type option struct {
	label string
	value string
}

// picker is a modal choice. Cancelling it changes nothing.
type picker struct {
	kind    promptKind
	title   string
	options []option
	cursor  int
	itemID  string // item a follow-up prompt is about
}

func newPicker(kind promptKind, title string, options []option) *picker {
	return &picker{kind: kind, title: title, options: options}
}

// update moves the cursor. done is true once the user picked (ok) or
// cancelled (!ok).
func (p *picker) update(msg tea.KeyMsg) (choice option, done, ok bool) {
	switch {
	case key.Matches(msg, promptKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, promptKeys.Down):
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case key.Matches(msg, promptKeys.Confirm):
		if len(p.options) == 0 {
			return option{}, true, false
		}
		return p.options[p.cursor], true, true
	case key.Matches(msg, promptKeys.Cancel):
		return option{}, true, false
	}
	return option{}, false, false
}

func (p *picker) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	for i, o := range p.options {
		if i == p.cursor {
			b.WriteString(selectedStyle.Render("> "+o.label) + "\n")
		} else {
			b.WriteString("  " + o.label + "\n")
		}
	}
	b.WriteString(separatorStyle.Render("enter choose · esc cancel"))
	return promptStyle.Render(b.String())
}

// quantityInput edits the stack size of one item.
type quantityInput struct {
	itemID string
	name   string
	input  textinput.Model
}

func newQuantityInput(itemID, name string, current int) *quantityInput {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(current)
	ti.CharLimit = 4
	ti.Width = 6
	ti.Prompt = ":: "
	ti.Focus()
	return &quantityInput{itemID: itemID, name: name, input: ti}
}

// update feeds a key to the input. done is true on enter (ok, with the
// parsed value) or on esc (!ok). An empty entry counts as cancelled.
func (q *quantityInput) update(msg tea.KeyMsg) (n int, done, ok bool, err error) {
	switch {
	case key.Matches(msg, promptKeys.Cancel):
		return 0, true, false, nil
	case key.Matches(msg, promptKeys.Confirm):
		v := strings.TrimSpace(q.input.Value())
		if v == "" {
			return 0, true, false, nil
		}
		parsed, perr := strconv.Atoi(v)
		if perr != nil {
			return 0, true, false, fmt.Errorf("%q is not a number", v)
		}
		return parsed, true, true, nil
	}
	q.input, _ = q.input.Update(msg)
	return 0, false, false, nil
}

func (q *quantityInput) view() string {
	return promptStyle.Render(titleStyle.Render("Quantity of "+q.name) + "\n" + q.input.View() + "\n" +
		separatorStyle.Render("enter save · esc cancel"))
}
