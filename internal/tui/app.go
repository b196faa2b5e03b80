package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/mondaypro/internal/domain"
	"github.com/robby/mondaypro/internal/store"
)

const (
	boardsPageSize = 100
	maxBoardPages  = 20
	itemsPageSize  = 100
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenBoardPicker
	ScreenBoard
	ScreenGroupPicker
	ScreenDetail
)

// AppModel is the root Bubble Tea model that manages screen transitions.
// It orchestrates the flow from board selection -> group loading -> board view.
type AppModel struct {
	// Dependencies
	client Client
	store  *store.Store
	ctx    context.Context

	// CLI flag (pre-selected board ID)
	boardFlag string

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	err           error
	loadingMsg    string

	boards []domain.Board

	// Cached models to preserve state across screen transitions
	boardModel *BoardModel
}

// NewAppModel creates a new app model. Pass an empty boardFlag to pick the
// board interactively.
func NewAppModel(client Client, store *store.Store, ctx context.Context, boardFlag string) AppModel {
	return AppModel{
		client:        client,
		store:         store,
		ctx:           ctx,
		boardFlag:     boardFlag,
		currentScreen: ScreenLoading,
		loadingMsg:    "Connecting to monday.com...",
	}
}

// Init initializes the app model.
func (m AppModel) Init() tea.Cmd {
	return m.fetchBoards()
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The board and detail views handle ctrl+c themselves
		if msg.String() == "ctrl+c" && m.currentScreen != ScreenBoard && m.currentScreen != ScreenDetail {
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case boardsLoadedMsg:
		m.boards = msg.boards

		if m.boardFlag != "" {
			for _, b := range msg.boards {
				if b.ID == m.boardFlag {
					m.boardFlag = ""
					return m, func() tea.Msg { return BoardSelectedMsg{Board: b} }
				}
			}
			m.err = fmt.Errorf("board %s not found", m.boardFlag)
			return m, nil
		}

		return m.showBoardPicker()

	case BoardSelectedMsg:
		board := msg.Board
		m.store.SetBoard(&board)
		m.loadingMsg = fmt.Sprintf("Loading groups for %s...", board.Name)
		m.currentModel = nil
		m.currentScreen = ScreenLoading
		return m, m.loadGroups(board.ID)

	case groupsLoadedMsg:
		m.store.SetGroups(msg.groups)
		m.currentScreen = ScreenBoard
		boardModel := NewBoardModel(m.store, m.client, m.ctx)
		m.boardModel = &boardModel
		m.currentModel = m.boardModel
		return m, boardModel.Init()

	case switchBoardMsg:
		m.store.Reset()
		m.boardModel = nil
		return m.showBoardPicker()

	case pickGroupMsg:
		item, err := m.store.GetItem(msg.itemID)
		if err != nil {
			return m, nil
		}
		counts := make(map[string]int)
		if columns, err := m.store.GetColumns(); err == nil {
			for groupID, ids := range columns {
				counts[groupID] = len(ids)
			}
		}
		m.currentScreen = ScreenGroupPicker
		picker := NewGroupPickerModel(item.ID, item.Name, m.store.Groups(), counts)
		m.currentModel = picker
		return m, picker.Init()

	case GroupSelectedMsg:
		m.currentScreen = ScreenBoard
		m.currentModel = m.boardModel
		if m.boardModel == nil {
			return m, nil
		}
		return m, tea.Batch(tea.WindowSize(), m.boardModel.moveItemToGroup(msg.ItemID, msg.Group.ID))

	case closePickerMsg:
		m.currentScreen = ScreenBoard
		m.currentModel = m.boardModel
		return m, tea.WindowSize()

	case openDetailMsg:
		m.currentScreen = ScreenDetail
		detailModel := NewDetailModel(msg.item, m.groupTitle(msg.item.GroupID), m.client, m.ctx)
		m.currentModel = detailModel
		return m, detailModel.Init()

	case closeDetailMsg:
		m.currentScreen = ScreenBoard
		m.currentModel = m.boardModel
		// Request window size to ensure proper rendering
		return m, tea.WindowSize()
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		// Keep boardModel in sync when on board screen
		if m.currentScreen == ScreenBoard {
			if bm, ok := m.currentModel.(BoardModel); ok {
				m.boardModel = &bm
			}
		}
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	if m.currentModel != nil {
		return m.currentModel.View()
	}

	return m.loadingMsg + "\n" + HelpStyle.Render("Press Ctrl+C to quit")
}

func (m AppModel) showBoardPicker() (tea.Model, tea.Cmd) {
	if len(m.boards) == 0 {
		m.err = fmt.Errorf("no active boards found")
		return m, nil
	}
	m.currentScreen = ScreenBoardPicker
	picker := NewBoardPickerModel(m.boards)
	m.currentModel = picker
	return m, picker.Init()
}

func (m AppModel) groupTitle(groupID string) string {
	for _, g := range m.store.Groups() {
		if g.ID == groupID {
			return g.Title
		}
	}
	return ""
}

// fetchBoards loads the viewer for "assigned to me" filtering, then every
// active board up to maxBoardPages pages.
func (m AppModel) fetchBoards() tea.Cmd {
	return func() tea.Msg {
		me, err := m.client.Me(m.ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to authenticate: %w", err)}
		}
		m.store.SetViewerID(me.ID)

		var boards []domain.Board
		for page := 1; page <= maxBoardPages; page++ {
			batch, err := m.client.ListBoards(m.ctx, page, boardsPageSize)
			if err != nil {
				return ErrorMsg{Err: fmt.Errorf("failed to list boards: %w", err)}
			}
			boards = append(boards, batch...)
			if len(batch) < boardsPageSize {
				break
			}
		}
		return boardsLoadedMsg{boards: boards}
	}
}

func (m AppModel) loadGroups(boardID string) tea.Cmd {
	return func() tea.Msg {
		groups, err := m.client.GetGroups(m.ctx, boardID)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load groups: %w", err)}
		}
		if len(groups) == 0 {
			return ErrorMsg{Err: fmt.Errorf("board %s has no groups", boardID)}
		}
		return groupsLoadedMsg{groups: groups}
	}
}

// Custom messages for app transitions.
type (
	boardsLoadedMsg struct {
		boards []domain.Board
	}

	groupsLoadedMsg struct {
		groups []domain.Group
	}

	switchBoardMsg struct{}
	closePickerMsg struct{}
	pickGroupMsg   struct{ itemID string }
)
