package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// rowItem is a single-line list row.
type rowItem interface {
	list.Item
	Row() string
}

type projectItem struct {
	id   string
	name string
	note string
}

func (i projectItem) FilterValue() string { return i.name }
func (i projectItem) Row() string {
	if i.note == "" {
		return i.name
	}
	return i.name + "  " + styleMuted().Render(i.note)
}

type taskItem struct {
	id      string
	title   string
	status  string
	pending bool
}

func (i taskItem) FilterValue() string { return i.title }
func (i taskItem) Row() string {
	row := i.status + " " + i.title
	if i.pending {
		row += " " + styleMuted().Render(glyphPending())
	}
	return row
}

type commentItem struct {
	id      string
	summary string
	pending bool
}

func (i commentItem) FilterValue() string { return i.summary }
func (i commentItem) Row() string {
	row := glyphComment() + " " + i.summary
	if i.pending {
		row += " " + styleMuted().Render(glyphPending())
	}
	return row
}

// rowDelegate renders one line per item. The cursor row is highlighted only while the
// list has focus, so the inactive panel does not look selected.
type rowDelegate struct {
	active   *bool
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newRowDelegate(active *bool) rowDelegate {
	return rowDelegate{
		active: active,
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	width := m.Width()
	if width < 4 {
		return
	}
	txt := ""
	if r, ok := item.(rowItem); ok {
		txt = r.Row()
	} else {
		txt = fmt.Sprint(item)
	}

	style := d.normal
	if index == m.Index() && (d.active == nil || *d.active) {
		style = d.selected
	}
	fmt.Fprint(w, style.Render(fitLine(txt, width)))
}

func newPanelList(title string, active *bool) list.Model {
	l := list.New(nil, newRowDelegate(active), 0, 0)
	l.Title = title
	// Panels render their own titles and the app renders a global footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.CursorUp.SetKeys("up", "k", "ctrl+p")
	l.KeyMap.CursorDown.SetKeys("down", "j", "ctrl+n")
	// The app owns quitting and back navigation.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}
