package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/ui"
)

// instanceItem adapts a task instance to bubbles/list.Item.
type instanceItem struct {
	model.TaskInstanceWithDetails
}

func (i instanceItem) FilterValue() string { return i.Task.Title }

func (i instanceItem) pending() bool { return i.Status == model.StatusPending }

func toItems(in []model.TaskInstanceWithDetails) []list.Item {
	out := make([]list.Item, 0, len(in))
	for _, x := range in {
		out = append(out, instanceItem{x})
	}
	return out
}

// counts reports finished (completed or skipped) and pending instances.
func counts(items []list.Item) (done, pending int) {
	for _, it := range items {
		if ii, ok := it.(instanceItem); ok && ii.pending() {
			pending++
		} else {
			done++
		}
	}
	return
}

// Single-line rows drawn with the current theme.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(instanceItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+ui.InstanceLine(it.TaskInstanceWithDetails))
}
