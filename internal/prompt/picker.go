package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	pickerWidth     = 72
	pickerMaxHeight = 18
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Padding(0, 1)
	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ece6a")).
				Bold(true).
				PaddingLeft(1).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("#9ece6a"))
	pickerNormalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0caf5")).
				PaddingLeft(2)
)

// pickerItem is one option in the list.
type pickerItem struct {
	label string
	index int
}

func (i pickerItem) Title() string       { return i.label }
func (i pickerItem) Description() string { return "" }
func (i pickerItem) FilterValue() string { return i.label }

// pickerModel is a filterable single-choice list.
type pickerModel struct {
	list      list.Model
	chosen    int
	cancelled bool
}

func newPickerModel(title string, options []string) pickerModel {
	items := make([]list.Item, len(options))
	for i, label := range options {
		items[i] = pickerItem{label: label, index: i}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = pickerSelectedStyle
	delegate.Styles.NormalTitle = pickerNormalStyle

	height := len(options) + 6
	if height > pickerMaxHeight {
		height = pickerMaxHeight
	}

	l := list.New(items, delegate, pickerWidth, height)
	l.Title = title
	l.Styles.Title = pickerTitleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return pickerModel{list: l, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height
		if height > pickerMaxHeight {
			height = pickerMaxHeight
		}
		m.list.SetSize(msg.Width, height)

	case tea.KeyMsg:
		// While typing a filter, keys belong to the filter input.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(pickerItem); ok {
				m.chosen = item.index
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View()
}

// result reports the chosen option index, or ErrCancelled.
func (m pickerModel) result() (int, error) {
	if m.cancelled || m.chosen < 0 {
		return -1, ErrCancelled
	}
	return m.chosen, nil
}

func runPicker(ctx context.Context, title string, options []string, in io.Reader, out io.Writer) (int, error) {
	p := tea.NewProgram(newPickerModel(title, options),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return -1, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		return -1, fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok {
		return -1, fmt.Errorf("prompt: unexpected model %T", final)
	}
	return m.result()
}
