package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/robby/mondaypro/internal/domain"
	"github.com/robby/mondaypro/internal/store"
)

// Layout constants
const (
	minColumnWidth = 20
	maxColumnWidth = 35
	headerLines    = 1
	pageJumpSize   = 10 // Items jumped by ctrl+d/ctrl+u
)

// Styles for the board view. Width and height are set while rendering.
var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	moveModeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)
)

// openURL is swapped in tests.
var openURL = browser.OpenURL

// BoardModel is the kanban view of one board. Groups are the columns.
type BoardModel struct {
	// Dependencies
	store  *store.Store
	client Client
	ctx    context.Context

	// UI components
	keymap      KeyMap
	help        HelpModel
	spinner     spinner.Model
	filterInput textinput.Model

	// Board state
	columns        []string            // Group IDs in board order
	columnNames    map[string]string   // Group ID -> title
	columnColors   map[string]string   // Group ID -> hex color
	filteredItems  map[string][]string // Group ID -> item IDs
	selectedColumn int
	columnOffset   int            // First visible column index
	selectedItem   map[string]int // Group ID -> selected item index
	scrollOffset   map[string]int // Group ID -> scroll offset

	// View state
	width        int
	height       int
	showHelp     bool
	filterMode   bool
	filterText   string
	filterMyOnly bool
	moveMode     bool
	loading      bool
	loadingMore  bool
	errorToast   string
}

// NewBoardModel creates a new board model
func NewBoardModel(s *store.Store, client Client, ctx context.Context) BoardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Prompt = "/ "

	return BoardModel{
		store:         s,
		client:        client,
		ctx:           ctx,
		keymap:        DefaultKeyMap(),
		help:          NewHelpModel(DefaultKeyMap()),
		spinner:       sp,
		filterInput:   ti,
		columns:       []string{},
		columnNames:   make(map[string]string),
		columnColors:  make(map[string]string),
		filteredItems: make(map[string][]string),
		selectedItem:  make(map[string]int),
		scrollOffset:  make(map[string]int),
		loading:       true,
	}
}

// boardInitMsg triggers initial column build
type boardInitMsg struct{}

// Init builds the columns and starts loading the first page of items.
func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.WindowSize(),
		func() tea.Msg { return boardInitMsg{} },
		m.loadNextPage(""),
	)
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardInitMsg:
		(&m).refresh()
		return m, nil

	case itemsLoadedMsg:
		m.loading = false
		m.loadingMore = false
		(&m).refresh()
		return m, nil

	case itemsErrorMsg:
		m.loading = false
		m.loadingMore = false
		m.errorToast = fmt.Sprintf("Refresh failed: %v", msg.err)
		return m, nil

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadingMore = false
			m.errorToast = fmt.Sprintf("Load failed: %v", msg.err)
			return m, nil
		}

		m.store.UpsertItems(msg.items)
		m.store.SetCursor(msg.nextCursor)
		(&m).refresh()

		if msg.nextCursor != "" {
			m.loadingMore = true
			return m, m.loadNextPage(msg.nextCursor)
		}

		m.loadingMore = false
		return m, nil

	case moveSuccessMsg:
		m.store.CommitMove()
		m.moveMode = false
		(&m).refresh()
		return m, nil

	case moveErrorMsg:
		_ = m.store.RollbackMove()
		m.moveMode = false
		(&m).refresh()
		m.errorToast = fmt.Sprintf("Move failed: %v", msg.err)
		return m, nil

	case moveRejectedMsg:
		m.moveMode = false
		m.errorToast = fmt.Sprintf("Move failed: %v", msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m BoardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.filterMode {
		switch msg.String() {
		case "enter":
			m.filterMode = false
			m.filterText = m.filterInput.Value()
			(&m).applyFilter()
			return m, nil
		case "esc":
			m.filterMode = false
			m.filterInput.SetValue(m.filterText)
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			return m, cmd
		}
	}

	if m.moveMode {
		return m.handleMoveMode(msg)
	}

	m.errorToast = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "/":
		m.filterMode = true
		m.filterInput.Focus()
	case "h", "left":
		if m.selectedColumn > 0 {
			m.selectedColumn--
			(&m).adjustColumnScroll()
		}
	case "l", "right":
		if m.selectedColumn < len(m.columns)-1 {
			m.selectedColumn++
			(&m).adjustColumnScroll()
		}
	case "j", "down":
		(&m).moveItemSelection(1)
	case "k", "up":
		(&m).moveItemSelection(-1)
	case "g":
		(&m).jumpToItem(0)
	case "G":
		(&m).jumpToItem(-1)
	case "ctrl+d":
		(&m).moveItemSelection(pageJumpSize)
	case "ctrl+u":
		(&m).moveItemSelection(-pageJumpSize)
	case "m":
		if m.getSelectedItem() != nil {
			m.moveMode = true
		}
	case "M":
		if item := m.getSelectedItem(); item != nil {
			itemID := item.ID
			return m, func() tea.Msg { return pickGroupMsg{itemID: itemID} }
		}
	case "o":
		if item := m.getSelectedItem(); item != nil && item.URL != "" {
			_ = openURL(item.URL)
		}
	case "r":
		m.loading = true
		return m, m.loadAllItems()
	case "b":
		return m, func() tea.Msg { return switchBoardMsg{} }
	case "a":
		m.filterMyOnly = !m.filterMyOnly
		(&m).applyFilter()
	case "enter":
		if item := m.getSelectedItem(); item != nil {
			return m, func() tea.Msg { return openDetailMsg{item: item} }
		}
	}

	return m, nil
}

// handleMoveMode maps 1-9 to the first nine groups.
func (m BoardModel) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.moveMode = false
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(m.columns) {
			target := m.columns[idx]
			if target == store.UngroupedKey {
				m.moveMode = false
				m.errorToast = "Items cannot be moved out of every group"
				return m, nil
			}
			item := m.getSelectedItem()
			if item == nil {
				return m, nil
			}
			return m, m.moveItemToGroup(item.ID, target)
		}
	}
	return m, nil
}

// View renders the board to fill the terminal.
func (m BoardModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	var sections []string

	sections = append(sections, m.renderHeader(width))
	sections = append(sections, m.renderSecondHeader(width))

	if m.filterMode {
		sections = append(sections, m.filterInput.View())
	}

	if m.moveMode {
		moveBar := moveModeStyle.Render("MOVE") + " Press 1-9 to select group, ESC to cancel"
		sections = append(sections, moveBar)
	}

	boardHeight := height - 2
	if m.filterMode {
		boardHeight--
	}
	if m.moveMode {
		boardHeight--
	}
	if boardHeight < 5 {
		boardHeight = 5
	}

	var mainContent string
	if m.showHelp {
		helpLines := strings.Split(m.help.View(width), "\n")
		if len(helpLines) > boardHeight {
			helpLines = helpLines[:boardHeight]
		}
		mainContent = strings.Join(helpLines, "\n")
	} else if m.loading && len(m.store.GetAllItems()) == 0 {
		loadingMsg := m.spinner.View() + " Loading..."
		mainContent = lipgloss.Place(width, boardHeight, lipgloss.Center, lipgloss.Center, loadingMsg)
	} else if len(m.columns) == 0 {
		emptyMsg := "No groups on this board. Press 'r' to refresh."
		mainContent = lipgloss.Place(width, boardHeight, lipgloss.Center, lipgloss.Center, emptyMsg)
	} else {
		mainContent = m.renderBoard(width, boardHeight)
	}
	sections = append(sections, mainContent)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSecondHeader renders navigation hints and position info
func (m BoardModel) renderSecondHeader(width int) string {
	left := "h/l:group j/k:item m:move M:move to… o:open enter:view b:boards"

	right := ""
	if m.errorToast != "" {
		right = errorStyle.Render(m.errorToast)
	} else if len(m.columns) > 0 {
		colID := m.columns[m.selectedColumn]
		items := m.filteredItems[colID]

		colPos := fmt.Sprintf("group %d/%d", m.selectedColumn+1, len(m.columns))
		if len(items) > 0 {
			right = fmt.Sprintf("%s | item %d/%d", colPos, m.selectedItem[colID]+1, len(items))
		} else {
			right = colPos
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return dimStyle.Render(left) + strings.Repeat(" ", padding) + right
}

// renderHeader renders the board title on the left and status on the right.
func (m BoardModel) renderHeader(width int) string {
	board := m.store.Board()
	if board == nil {
		return ""
	}

	title := fmt.Sprintf("%s #%s", board.Name, board.ID)
	if board.Kind != "" && board.Kind != domain.BoardKindPublic {
		title += fmt.Sprintf(" (%s)", board.Kind)
	}

	var statusParts []string
	if m.loadingMore {
		statusParts = append(statusParts, m.spinner.View()+"loading")
	}

	totalItems := 0
	for _, items := range m.filteredItems {
		totalItems += len(items)
	}
	statusParts = append(statusParts, fmt.Sprintf("%d items", totalItems))

	if m.filterMyOnly {
		statusParts = append(statusParts, "@me")
	}
	if m.filterText != "" {
		statusParts = append(statusParts, fmt.Sprintf("/%s", m.filterText))
	}
	statusParts = append(statusParts, "[a]@me [?]help")

	status := strings.Join(statusParts, " | ")

	padding := width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if padding < 1 {
		padding = 1
	}

	return titleStyle.Render(title) + strings.Repeat(" ", padding) + dimStyle.Render(status)
}

// renderBoard renders the visible group columns, scrolling horizontally when
// they do not all fit.
func (m BoardModel) renderBoard(totalWidth, totalHeight int) string {
	numCols := len(m.columns)
	if numCols == 0 {
		return ""
	}

	// Borders add two lines around the content
	colContentHeight := totalHeight - 2
	if colContentHeight < 3 {
		colContentHeight = 3
	}

	visibleCols := totalWidth / minColumnWidth
	if visibleCols < 1 {
		visibleCols = 1
	}
	if visibleCols > numCols {
		visibleCols = numCols
	}

	colWidth := totalWidth / visibleCols
	if colWidth > maxColumnWidth {
		colWidth = maxColumnWidth
	}
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}

	// Border (2) and padding (2)
	innerWidth := colWidth - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	maxItemLines := colContentHeight - 1
	if maxItemLines < 1 {
		maxItemLines = 1
	}

	startCol := m.columnOffset
	endCol := startCol + visibleCols
	if endCol > numCols {
		endCol = numCols
		startCol = endCol - visibleCols
		if startCol < 0 {
			startCol = 0
		}
	}

	columnViews := make([]string, 0, visibleCols+2)

	if startCol > 0 {
		columnViews = append(columnViews, scrollArrow("◀", colContentHeight+2))
	}

	for i := startCol; i < endCol; i++ {
		colID := m.columns[i]
		columnViews = append(columnViews, m.renderColumn(colID, i == m.selectedColumn, colWidth, colContentHeight, innerWidth, maxItemLines, i+1))
	}

	if endCol < numCols {
		columnViews = append(columnViews, scrollArrow("▶", colContentHeight+2))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

func scrollArrow(arrow string, height int) string {
	return lipgloss.NewStyle().
		Width(2).
		Height(height).
		Foreground(lipgloss.Color("205")).
		Align(lipgloss.Center, lipgloss.Center).
		Render(arrow)
}

// renderColumn renders a single group column. innerHeight excludes the border.
func (m BoardModel) renderColumn(colID string, selected bool, width, innerHeight, innerWidth, maxItemLines, colNum int) string {
	items := m.filteredItems[colID]
	name := m.columnNames[colID]

	headerText := fmt.Sprintf("[%d] %s (%d)", colNum, name, len(items))
	if len(headerText) > innerWidth {
		headerText = headerText[:innerWidth-1] + "…"
	}

	scrollOffset := m.scrollOffset[colID]
	selectedIdx := m.selectedItem[colID]

	itemSlots := maxItemLines - 1
	if itemSlots < 1 {
		itemSlots = 1
	}

	needUpIndicator := scrollOffset > 0
	needDownIndicator := false

	availableSlots := itemSlots
	if needUpIndicator {
		availableSlots--
	}

	endIdx := scrollOffset + availableSlots
	if endIdx > len(items) {
		endIdx = len(items)
	}

	if endIdx < len(items) {
		needDownIndicator = true
		availableSlots--
		endIdx = scrollOffset + availableSlots
		if endIdx > len(items) {
			endIdx = len(items)
		}
	}

	headerStyle := columnHeaderStyle
	if color := m.columnColors[colID]; color != "" {
		headerStyle = headerStyle.Foreground(lipgloss.Color(color))
	}

	lines := []string{headerStyle.Render(headerText)}

	if needUpIndicator {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↑ %d more", scrollOffset)))
	}

	for i := scrollOffset; i < endIdx; i++ {
		item, err := m.store.GetItem(items[i])
		if err != nil {
			continue
		}

		text := m.formatItemText(item, innerWidth-3) // "> " or "  " prefix
		if selected && i == selectedIdx {
			lines = append(lines, selectedItemStyle.Render("> "+text))
		} else {
			lines = append(lines, itemStyle.Render("  "+text))
		}
	}

	remaining := len(items) - endIdx
	if needDownIndicator && remaining > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↓ %d more", remaining)))
	}

	if len(items) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}

	borderColor := lipgloss.Color("240")
	if selected {
		borderColor = lipgloss.Color("205")
	}

	// Height sets the content area; MaxHeight would cut the border off.
	colStyle := lipgloss.NewStyle().
		Width(width-2).
		Height(innerHeight).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)

	return colStyle.Render(strings.Join(lines, "\n"))
}

// formatItemText fits an item name into maxWidth, right-aligning the item's
// status text when it has one.
func (m BoardModel) formatItemText(item *domain.Item, maxWidth int) string {
	name := item.Name
	suffix := statusText(item)

	if suffix == "" {
		if len(name) > maxWidth {
			name = name[:maxWidth-1] + "…"
		}
		return name
	}

	if maxSuffix := maxWidth / 3; len(suffix) > maxSuffix && maxSuffix > 1 {
		suffix = suffix[:maxSuffix-1] + "…"
	}
	suffixLen := lipgloss.Width(suffix)

	availableForName := maxWidth - suffixLen - 1
	if availableForName < 5 {
		availableForName = 5
	}
	if len(name) > availableForName {
		name = name[:availableForName-1] + "…"
	}

	padding := maxWidth - lipgloss.Width(name) - suffixLen
	if padding < 1 {
		padding = 1
	}

	return name + strings.Repeat(" ", padding) + dimStyle.Render(suffix)
}

// statusText returns the text of the item's first non-empty status column.
func statusText(item *domain.Item) string {
	for _, cv := range item.ColumnValues {
		if cv.Type == "status" && cv.Text != "" {
			return cv.Text
		}
	}
	return ""
}

// refresh rebuilds the columns and reapplies the filters.
func (m *BoardModel) refresh() {
	m.rebuildColumns()
	m.applyFilter()
}

// rebuildColumns lays out one column per group, plus an Ungrouped column
// when some items belong to no known group.
func (m *BoardModel) rebuildColumns() {
	groups := m.store.Groups()

	m.columns = make([]string, 0, len(groups)+1)
	m.columnNames = make(map[string]string, len(groups)+1)
	m.columnColors = make(map[string]string, len(groups))

	for _, g := range groups {
		if g.Archived {
			continue
		}
		m.columns = append(m.columns, g.ID)
		m.columnNames[g.ID] = g.Title
		m.columnColors[g.ID] = g.Color
	}

	if len(m.store.GetGroupItemIDs(store.UngroupedKey)) > 0 {
		m.columns = append(m.columns, store.UngroupedKey)
		m.columnNames[store.UngroupedKey] = "Ungrouped"
	}

	if m.selectedColumn >= len(m.columns) {
		m.selectedColumn = 0
	}
}

// applyFilter filters items and buckets them by column.
func (m *BoardModel) applyFilter() {
	storeColumns, err := m.store.GetColumns()
	if err != nil {
		storeColumns = make(map[string][]string)
	}

	m.filteredItems = make(map[string][]string, len(m.columns))
	for _, colID := range m.columns {
		m.filteredItems[colID] = []string{}
	}

	viewerID := m.store.ViewerID()
	needle := strings.ToLower(m.filterText)

	for colID, itemIDs := range storeColumns {
		if _, shown := m.filteredItems[colID]; !shown {
			continue
		}
		filtered := make([]string, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			item, err := m.store.GetItem(itemID)
			if err != nil {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
				continue
			}
			if m.filterMyOnly && viewerID != "" && !store.AssignedTo(item, viewerID) {
				continue
			}
			filtered = append(filtered, itemID)
		}
		m.filteredItems[colID] = filtered
	}

	// Reset scrolling so "↑ N more" is not shown when results fit
	for colID, items := range m.filteredItems {
		m.scrollOffset[colID] = 0
		if m.selectedItem[colID] >= len(items) {
			if len(items) > 0 {
				m.selectedItem[colID] = len(items) - 1
			} else {
				m.selectedItem[colID] = 0
			}
		}
	}
}

// moveItemSelection moves the item selection up or down by delta
func (m *BoardModel) moveItemSelection(delta int) {
	if len(m.columns) == 0 {
		return
	}

	colID := m.columns[m.selectedColumn]
	items := m.filteredItems[colID]
	if len(items) == 0 {
		return
	}

	newIdx := m.selectedItem[colID] + delta
	if newIdx < 0 {
		newIdx = 0
	}
	if newIdx >= len(items) {
		newIdx = len(items) - 1
	}

	m.selectedItem[colID] = newIdx
	m.adjustScroll(colID)
}

// jumpToItem selects the item at idx; -1 selects the last one.
func (m *BoardModel) jumpToItem(idx int) {
	if len(m.columns) == 0 {
		return
	}

	colID := m.columns[m.selectedColumn]
	items := m.filteredItems[colID]
	if len(items) == 0 {
		return
	}

	if idx < 0 || idx >= len(items) {
		idx = len(items) - 1
	}

	m.selectedItem[colID] = idx
	m.adjustScroll(colID)
}

// adjustScroll keeps the selected item visible.
func (m *BoardModel) adjustScroll(colID string) {
	selectedIdx := m.selectedItem[colID]
	scrollOffset := m.scrollOffset[colID]

	contentHeight := m.height - headerLines - 2
	if m.moveMode {
		contentHeight--
	}
	if m.filterMode {
		contentHeight--
	}
	visibleItems := contentHeight - 3 // header and scroll indicators
	if visibleItems < 3 {
		visibleItems = 3
	}

	if selectedIdx < scrollOffset {
		m.scrollOffset[colID] = selectedIdx
	}
	if selectedIdx >= scrollOffset+visibleItems {
		m.scrollOffset[colID] = selectedIdx - visibleItems + 1
	}
}

// adjustColumnScroll keeps the selected column visible.
func (m *BoardModel) adjustColumnScroll() {
	if len(m.columns) == 0 || m.width == 0 {
		return
	}

	visibleCols := m.width / minColumnWidth
	if visibleCols < 1 {
		visibleCols = 1
	}
	if visibleCols > len(m.columns) {
		visibleCols = len(m.columns)
	}

	if m.selectedColumn < m.columnOffset {
		m.columnOffset = m.selectedColumn
	}
	if m.selectedColumn >= m.columnOffset+visibleCols {
		m.columnOffset = m.selectedColumn - visibleCols + 1
	}
}

// getSelectedItem returns the currently selected item
func (m BoardModel) getSelectedItem() *domain.Item {
	if len(m.columns) == 0 {
		return nil
	}

	colID := m.columns[m.selectedColumn]
	items := m.filteredItems[colID]
	if len(items) == 0 {
		return nil
	}

	idx := m.selectedItem[colID]
	if idx >= len(items) {
		idx = 0
	}

	item, err := m.store.GetItem(items[idx])
	if err != nil {
		return nil
	}
	return item
}

// moveItemToGroup moves the item in the store first, then sends the mutation.
// The outcome message commits or rolls back the store move.
func (m BoardModel) moveItemToGroup(itemID, groupID string) tea.Cmd {
	item, err := m.store.GetItem(itemID)
	if err != nil {
		return func() tea.Msg { return moveErrorMsg{err: err} }
	}
	if item.GroupID == groupID {
		return func() tea.Msg { return moveSuccessMsg{} }
	}

	if err := m.store.MoveItem(itemID, groupID); err != nil {
		// Nothing to roll back
		return func() tea.Msg { return moveRejectedMsg{err: err} }
	}

	return func() tea.Msg {
		if err := m.client.MoveItemToGroup(m.ctx, itemID, groupID); err != nil {
			return moveErrorMsg{err: err}
		}
		return moveSuccessMsg{}
	}
}

// loadNextPage fetches one page of items starting at cursor.
func (m BoardModel) loadNextPage(cursor string) tea.Cmd {
	return func() tea.Msg {
		board := m.store.Board()
		if board == nil {
			return pageLoadedMsg{err: store.ErrNoBoard}
		}

		items, nextCursor, err := m.client.GetItems(m.ctx, board.ID, cursor, itemsPageSize)
		if err != nil {
			return pageLoadedMsg{err: err}
		}

		ptrs := make([]*domain.Item, len(items))
		for i := range items {
			ptrs[i] = &items[i]
		}

		return pageLoadedMsg{items: ptrs, nextCursor: nextCursor}
	}
}

// loadAllItems reloads every item of the board before reporting back.
func (m BoardModel) loadAllItems() tea.Cmd {
	return func() tea.Msg {
		board := m.store.Board()
		if board == nil {
			return itemsErrorMsg{err: store.ErrNoBoard}
		}

		var all []*domain.Item
		cursor := ""
		for {
			items, next, err := m.client.GetItems(m.ctx, board.ID, cursor, itemsPageSize)
			if err != nil {
				return itemsErrorMsg{err: err}
			}
			for i := range items {
				all = append(all, &items[i])
			}
			if next == "" {
				break
			}
			cursor = next
		}

		m.store.Clear()
		m.store.UpsertItems(all)
		m.store.SetCursor("")

		return itemsLoadedMsg{}
	}
}

// Message types
type (
	itemsLoadedMsg  struct{}
	itemsErrorMsg   struct{ err error }
	moveSuccessMsg  struct{}
	moveErrorMsg    struct{ err error }
	moveRejectedMsg struct{ err error }
	openDetailMsg   struct{ item *domain.Item }
	pageLoadedMsg   struct {
		items      []*domain.Item
		nextCursor string
		err        error
	}
)
