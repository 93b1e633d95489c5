// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package wldui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eqforge/eqforge/lib/wld"
)

// keyMap defines the browser's key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		Filter:   key.NewBinding(key.WithKeys("/")),
		Clear:    key.NewBinding(key.WithKeys("esc")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

// Model is the bubbletea model for the fragment browser.
type Model struct {
	doc   *wld.Document
	title string
	theme Theme
	keys  keyMap

	width  int
	height int

	// visible holds the 0-based fragment indices that pass the
	// current filter, in document order.
	visible   []int
	cursor    int
	scroll    int
	filter    textinput.Model
	filtering bool

	detail viewport.Model
}

// NewModel creates a browser over a parsed document. The title is
// shown in the header, usually the document's filename.
func NewModel(doc *wld.Document, title string) Model {
	filter := textinput.New()
	filter.Placeholder = "filter by name or type"
	filter.Prompt = "/"

	model := Model{
		doc:    doc,
		title:  title,
		theme:  DefaultTheme(),
		keys:   defaultKeyMap(),
		filter: filter,
		detail: viewport.New(0, 0),
	}
	model.applyFilter("")
	return model
}

func (m Model) Init() tea.Cmd {
	return nil
}

// applyFilter recomputes the visible fragment set. The query matches
// case-insensitively against fragment names and type names.
func (m *Model) applyFilter(query string) {
	query = strings.ToLower(query)
	m.visible = m.visible[:0]
	for i, frag := range m.doc.Fragments() {
		if query == "" {
			m.visible = append(m.visible, i)
			continue
		}
		name := strings.ToLower(m.doc.Name(frag))
		typeName := strings.ToLower(wld.TypeName(frag.TypeCode()))
		if strings.Contains(name, query) || strings.Contains(typeName, query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
	m.syncDetail()
}

// syncDetail re-renders the detail pane for the fragment under the
// cursor.
func (m *Model) syncDetail() {
	if len(m.visible) == 0 {
		m.detail.SetContent(lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("no fragments match"))
		return
	}
	frag := m.doc.At(m.visible[m.cursor])
	m.detail.SetContent(renderDetail(m.doc, m.visible[m.cursor], frag, m.theme))
	m.detail.GotoTop()
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	rows := m.listHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+rows {
		m.scroll = m.cursor - rows + 1
	}
	m.syncDetail()
}

// listHeight is the number of fragment rows that fit in the list
// pane: total height minus header, column header, filter line, and
// help line.
func (m *Model) listHeight() int {
	return max(1, m.height-4)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = max(0, m.width-m.listWidth()-3)
		m.detail.Height = m.listHeight() + 1
		m.syncDetail()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch {
			case key.Matches(msg, m.keys.Clear):
				m.filtering = false
				m.filter.SetValue("")
				m.filter.Blur()
				m.applyFilter("")
				return m, nil
			case msg.Type == tea.KeyEnter:
				m.filtering = false
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter(m.filter.Value())
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.PageUp):
			m.moveCursor(-m.listHeight())
		case key.Matches(msg, m.keys.PageDown):
			m.moveCursor(m.listHeight())
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Clear):
			m.filter.SetValue("")
			m.applyFilter("")
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// listWidth is the fixed width of the fragment list pane.
func (m *Model) listWidth() int {
	return min(48, m.width/2)
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading"
	}

	header := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true).
		Render(fmt.Sprintf("%s — %d fragments", m.title, m.doc.Len()))

	list := m.renderList()
	detail := m.detail.View()

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.BorderColor).
		BorderLeft(true).
		PaddingLeft(1)
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, border.Render(detail))

	var footer string
	if m.filtering {
		footer = m.filter.View()
	} else {
		footer = lipgloss.NewStyle().Foreground(m.theme.HelpText).
			Render("j/k move   / filter   esc clear   q quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderList() string {
	width := m.listWidth()
	rows := m.listHeight()

	selected := lipgloss.NewStyle().
		Background(m.theme.SelectedBackground).
		Foreground(m.theme.SelectedForeground)
	normal := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	accent := lipgloss.NewStyle().Foreground(m.theme.TypeAccent)

	var b strings.Builder
	end := min(m.scroll+rows, len(m.visible))
	for row := m.scroll; row < end; row++ {
		index := m.visible[row]
		frag := m.doc.At(index)
		name := m.doc.Name(frag)
		if name == "" {
			name = "(unnamed)"
		}
		line := fmt.Sprintf("%4d %-16s %s", index+1,
			wld.TypeName(frag.TypeCode()), name)
		if len(line) > width {
			line = line[:width]
		}
		switch {
		case row == m.cursor:
			b.WriteString(selected.Width(width).Render(line))
		case name == "(unnamed)":
			b.WriteString(normal.Width(width).Render(line))
		default:
			b.WriteString(accent.Width(width).Render(line))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
