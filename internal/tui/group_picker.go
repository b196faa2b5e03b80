package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robby/mondaypro/internal/domain"
)

// groupItem wraps a domain.Group for use in bubbles/list.
type groupItem struct {
	group domain.Group
	count int
}

func (i groupItem) FilterValue() string {
	return i.group.Title
}

func (i groupItem) Title() string {
	return i.group.Title
}

func (i groupItem) Description() string {
	return fmt.Sprintf("ID: %s, Items: %d", i.group.ID, i.count)
}

// groupDelegate is a custom item delegate for group items.
type groupDelegate struct{}

func (d groupDelegate) Height() int                             { return 2 }
func (d groupDelegate) Spacing() int                            { return 1 }
func (d groupDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d groupDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(groupItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())
	desc := i.Description()

	swatch := "  "
	if i.group.Color != "" {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(i.group.Color)).Render("■ ")
	}

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> ")+swatch+SelectedItemStyle.Render(str))
		fmt.Fprint(w, "\n    "+NormalItemStyle.Render(desc))
	} else {
		fmt.Fprint(w, "  "+swatch+NormalItemStyle.Render(str))
		fmt.Fprint(w, "\n    "+lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(desc))
	}
}

// GroupPickerModel lists the board groups as move targets for one item.
// It is used when a board has more groups than the 1-9 move keys reach.
type GroupPickerModel struct {
	itemID string
	list   list.Model
	err    error
}

// NewGroupPickerModel creates a picker for moving itemID. counts maps group ID
// to the number of items currently in it.
func NewGroupPickerModel(itemID, itemName string, groups []domain.Group, counts map[string]int) GroupPickerModel {
	items := make([]list.Item, len(groups))
	for i, g := range groups {
		items[i] = groupItem{group: g, count: counts[g.ID]}
	}

	l := list.New(items, groupDelegate{}, 80, 20)
	l.Title = fmt.Sprintf("Move %q to", itemName)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle

	return GroupPickerModel{
		itemID: itemID,
		list:   l,
	}
}

// Init initializes the model.
func (m GroupPickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m GroupPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			return m, func() tea.Msg {
				return QuitMsg{}
			}
		case "q", "esc":
			return m, func() tea.Msg {
				return closePickerMsg{}
			}
		case "enter":
			if item, ok := m.list.SelectedItem().(groupItem); ok {
				itemID := m.itemID
				return m, func() tea.Msg {
					return GroupSelectedMsg{ItemID: itemID, Group: item.group}
				}
			}
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m GroupPickerModel) View() string {
	view := m.list.View()

	if m.err != nil {
		errorMsg := ErrorStyle.Render(fmt.Sprintf("\nError: %v", m.err))
		view += errorMsg
	}

	return view
}
