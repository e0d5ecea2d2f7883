package cli

import (
	"fmt"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/cli/formatter"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/service"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type exploreKeys struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Search   key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func newExploreKeys() exploreKeys {
	return exploreKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/close")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Collapse, k.Search, k.Quit}
}

func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Expand, k.Clear}}
}

// exploreModel is the interactive WBS explorer. Expansion state lives only
// in the model and is never written to the store.
type exploreModel struct {
	editor   service.WBSEditor
	expanded wbs.ExpandedSet

	rows        []*domain.WBSNode
	hasChildren map[string]bool
	cursor      int

	search    textinput.Model
	searching bool

	keys     exploreKeys
	help     help.Model
	width    int
	quitting bool
}

func newExploreModel(editor service.WBSEditor) *exploreModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "code or name"
	ti.CharLimit = 64

	m := &exploreModel{
		editor:   editor,
		expanded: wbs.NewExpandedSet(),
		search:   ti,
		keys:     newExploreKeys(),
		help:     help.New(),
	}
	m.refresh()
	return m
}

func (m *exploreModel) Init() tea.Cmd { return nil }

// refresh re-derives the visible rows and keeps the cursor on the same node
// when it is still visible.
func (m *exploreModel) refresh() {
	var selected string
	if n := m.selected(); n != nil {
		selected = n.ID
	}

	flat := m.editor.Flat()
	m.hasChildren = make(map[string]bool, len(flat))
	for _, n := range flat {
		if n.ParentID != nil {
			m.hasChildren[*n.ParentID] = true
		}
	}
	m.rows = m.editor.View(domain.FamilyExplorer, "", m.expanded, m.search.Value())

	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, n := range m.rows {
		if n.ID == selected {
			m.cursor = i
			break
		}
	}
}

func (m *exploreModel) selected() *domain.WBSNode {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *exploreModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *exploreModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if n := m.selected(); n != nil && m.hasChildren[n.ID] {
			m.expanded.Toggle(n.Code)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Expand):
		if n := m.selected(); n != nil && m.hasChildren[n.ID] {
			m.expanded.Expand(n.Code)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Collapse):
		m.collapse()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Clear):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refresh()
		}
	}
	return m, nil
}

// collapse closes the selected node, or jumps to its parent when it is
// already closed or a leaf.
func (m *exploreModel) collapse() {
	n := m.selected()
	if n == nil {
		return
	}
	if m.expanded.Has(n.Code) {
		m.expanded.Collapse(n.Code)
		m.refresh()
		return
	}
	if n.ParentID == nil {
		return
	}
	for i, row := range m.rows {
		if row.ID == *n.ParentID {
			m.cursor = i
			return
		}
	}
}

func (m *exploreModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	ws := m.editor.Workspace()
	b.WriteString(formatter.Header("WBS Explorer") + "  " + formatter.Dim(ws.Code+" · "+ws.Name) + "\n\n")

	switch {
	case len(m.rows) == 0 && m.search.Value() != "":
		b.WriteString(formatter.Dim(fmt.Sprintf("No nodes match %q", m.search.Value())) + "\n")
	case len(m.rows) == 0:
		b.WriteString(formatter.Dim("No WBS nodes yet.") + "\n")
	default:
		var expanded wbs.ExpandedSet
		if m.search.Value() == "" {
			expanded = m.expanded
		}
		items := formatter.WBSTreeItems(m.rows, m.editor.Catalog(), expanded, m.hasChildren)
		lines := strings.Split(strings.TrimSuffix(formatter.RenderTree(items), "\n"), "\n")
		for i, line := range lines {
			if i == m.cursor {
				b.WriteString(formatter.StyleCursor.Render("› ") + line + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	if n := m.selected(); n != nil {
		b.WriteString("\n" + formatter.Dim(n.Code+"  level "+fmt.Sprint(n.Depth+1)))
		if n.DefinitionID != nil {
			b.WriteString(formatter.Dim("  BOQ " + formatter.TruncID(*n.DefinitionID)))
		}
		b.WriteString("\n")
	}

	if m.searching || m.search.Value() != "" {
		b.WriteString("\n" + m.search.View() + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
