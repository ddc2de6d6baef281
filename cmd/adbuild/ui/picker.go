package ui

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"adbuild/internal/network"
)

// ErrPickerCanceled is returned when the user quits the picker without confirming.
var ErrPickerCanceled = errors.New("network selection canceled")

type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func defaultPickerKeys() pickerKeyMap {
	return pickerKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all/none")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "build")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// PickerModel is the bubbletea model for choosing networks.
type PickerModel struct {
	ids      []string
	cursor   int
	selected map[int]bool
	keys     pickerKeyMap
	styles   Styles

	confirmed bool
	canceled  bool
}

// NewPicker creates a picker over the catalog.
func NewPicker(catalog *network.Catalog, styles Styles) PickerModel {
	return PickerModel{
		ids:      catalog.IDs(),
		selected: make(map[int]bool),
		keys:     defaultPickerKeys(),
		styles:   styles,
	}
}

func (m PickerModel) Init() tea.Cmd { return nil }

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.canceled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Confirm):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.ids)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.selected = copySelection(m.selected)
		if m.selected[m.cursor] {
			delete(m.selected, m.cursor)
		} else {
			m.selected[m.cursor] = true
		}
	case key.Matches(keyMsg, m.keys.All):
		all := len(m.selected) < len(m.ids)
		m.selected = make(map[int]bool, len(m.ids))
		if all {
			for i := range m.ids {
				m.selected[i] = true
			}
		}
	}
	return m, nil
}

func copySelection(in map[int]bool) map[int]bool {
	out := make(map[int]bool, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m PickerModel) View() string {
	if m.confirmed || m.canceled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Select networks to build"))
	sb.WriteString("\n")

	for i, id := range m.ids {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		box := "[ ]"
		line := fmt.Sprintf("%2d. %s", i+1, id)
		if m.selected[i] {
			box = "[x]"
			line = m.styles.Selected.Render(line)
		}
		fmt.Fprintf(&sb, "%s%s %s\n", cursor, box, line)
	}

	help := []string{}
	for _, b := range []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.All, m.keys.Confirm, m.keys.Quit} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(strings.Join(help, " • ")))
	sb.WriteString("\n")
	return sb.String()
}

// Selection returns the chosen 1-based positions in catalog order, e.g. "2,5".
func (m PickerModel) Selection() string {
	positions := make([]int, 0, len(m.selected))
	for i := range m.selected {
		positions = append(positions, i+1)
	}
	sort.Ints(positions)

	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// Canceled reports whether the user quit without confirming.
func (m PickerModel) Canceled() bool { return m.canceled }

// PickNetworks runs the picker and returns the numeric selection string the
// selection resolver accepts.
func PickNetworks(catalog *network.Catalog, in io.Reader, out io.Writer) (string, error) {
	program := tea.NewProgram(NewPicker(catalog, DefaultStyles()), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(PickerModel)
	if !ok {
		return "", fmt.Errorf("unexpected picker model %T", final)
	}
	if m.Canceled() {
		return "", ErrPickerCanceled
	}
	return m.Selection(), nil
}
