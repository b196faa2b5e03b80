package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/robby/mondaypro/internal/domain"
)

// Layout constants
const (
	leftPanelRatio = 0.35 // Left panel takes 35% of width
	minLeftWidth   = 30
	maxLeftWidth   = 50
	headerHeight   = 1
	footerHeight   = 1
	borderSize     = 2 // Top + bottom border
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	updateAuthorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	updateTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	updateBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	focusedPanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205"))

	scrollIndicatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)
)

// DetailModel shows one item's columns next to its updates.
type DetailModel struct {
	// Dependencies
	client Client
	ctx    context.Context

	item       *domain.Item
	groupTitle string
	updates    []domain.Update

	// UI components
	spinner  spinner.Model
	composer textarea.Model
	viewport viewport.Model

	// State
	composeMode    bool
	confirmExit    bool // Show "unsaved changes" prompt
	loading        bool
	loadingAction  string
	loadingUpdates bool
	updatesError   string
	errorMsg       string
	successMsg     string

	// View dimensions
	width  int
	height int
}

// NewDetailModel creates a new detail view model
func NewDetailModel(item *domain.Item, groupTitle string, client Client, ctx context.Context) DetailModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Write an update..."
	ta.CharLimit = 65535
	ta.SetHeight(6)
	ta.SetWidth(40) // Will be resized
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle() // No highlight on cursor line
	ta.FocusedStyle.Base = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("228"))
	ta.BlurredStyle.Base = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	vp := viewport.New(40, 10) // Will be resized in WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return DetailModel{
		client:         client,
		ctx:            ctx,
		item:           item,
		groupTitle:     groupTitle,
		spinner:        sp,
		loadingUpdates: true,
		composer:       ta,
		viewport:       vp,
	}
}

// Init starts loading the item's updates.
func (m DetailModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize(), m.loadUpdates())
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case updatePostedMsg:
		m.loading = false
		m.composeMode = false
		m.successMsg = "Update posted!"
		m.composer.Reset()
		m.composer.Blur()
		m.loadingUpdates = true
		return m, m.loadUpdates()

	case updateErrorMsg:
		m.loading = false
		m.errorMsg = fmt.Sprintf("Failed: %v", msg.err)
		return m, nil

	case updatesLoadedMsg:
		m.loadingUpdates = false
		m.updatesError = ""
		m.updates = msg.updates
		m.updateViewportContent()
		return m, nil

	case updatesErrorMsg:
		m.loadingUpdates = false
		m.updatesError = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		// Forward mouse events to viewport when not composing
		if !m.composeMode {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update textarea while composing (for blink, etc.)
	if m.composeMode {
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// resizeComponents calculates and sets component dimensions
func (m *DetailModel) resizeComponents() {
	// Calculate panel widths
	leftWidth := int(float64(m.width) * leftPanelRatio)
	if leftWidth < minLeftWidth {
		leftWidth = minLeftWidth
	}
	if leftWidth > maxLeftWidth {
		leftWidth = maxLeftWidth
	}

	// Right panel gets remaining width minus borders and gap
	rightWidth := m.width - leftWidth - 3 // 3 = gap between panels
	if rightWidth < 30 {
		rightWidth = 30
	}

	// Content height = total - header - footer - borders
	contentHeight := m.height - headerHeight - footerHeight - borderSize
	if contentHeight < 10 {
		contentHeight = 10
	}

	// Set viewport dimensions (account for border in right panel)
	m.viewport.Width = rightWidth - borderSize - 2     // -2 for padding
	m.viewport.Height = contentHeight - borderSize - 8 // Reserve space for the composer

	// Update composer width
	m.composer.SetWidth(rightWidth - borderSize - 4)

	if len(m.updates) > 0 {
		m.updateViewportContent()
	}
}

// handleKeyPress processes keyboard input
func (m DetailModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Confirm exit dialog
	if m.confirmExit {
		switch msg.String() {
		case "y", "Y":
			// Discard and exit
			m.confirmExit = false
			m.composeMode = false
			m.composer.Reset()
			m.composer.Blur()
			return m, func() tea.Msg { return closeDetailMsg{} }
		case "n", "N", "esc":
			// Cancel, keep composing
			m.confirmExit = false
			return m, nil
		case "s", "S":
			// Save and exit
			m.confirmExit = false
			body := strings.TrimSpace(m.composer.Value())
			if body != "" {
				m.loading = true
				m.loadingAction = "Posting..."
				return m, m.postUpdate(body)
			}
			return m, nil
		}
		return m, nil
	}

	// Compose mode - textarea gets all key events except special ones
	if m.composeMode {
		switch msg.String() {
		case "esc":
			// Check if there's unsaved content
			if strings.TrimSpace(m.composer.Value()) != "" {
				m.confirmExit = true
				return m, nil
			}
			m.composeMode = false
			m.composer.Blur()
			return m, nil
		case "ctrl+s":
			body := strings.TrimSpace(m.composer.Value())
			if body != "" {
				m.loading = true
				m.loadingAction = "Posting..."
				return m, m.postUpdate(body)
			}
			return m, nil
		default:
			// Forward ALL other keys to textarea
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Update(msg)
			return m, cmd
		}
	}

	// Normal mode - viewport scrolling
	switch msg.String() {
	case "q", "esc":
		return m, func() tea.Msg { return closeDetailMsg{} }
	case "o":
		if m.item.URL != "" {
			_ = openURL(m.item.URL)
		}
	case "c":
		m.composeMode = true
		m.composer.Focus()
		m.errorMsg = ""
		m.successMsg = ""
		return m, textarea.Blink
	case "r":
		m.loadingUpdates = true
		return m, m.loadUpdates()
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "ctrl+d":
		m.viewport.HalfViewDown()
	case "ctrl+u":
		m.viewport.HalfViewUp()
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	}

	return m, nil
}

// View renders the split-screen detail view
func (m DetailModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	// Calculate panel widths
	leftWidth := int(float64(width) * leftPanelRatio)
	if leftWidth < minLeftWidth {
		leftWidth = minLeftWidth
	}
	if leftWidth > maxLeftWidth {
		leftWidth = maxLeftWidth
	}
	rightWidth := width - leftWidth - 1 // 1 char gap

	// Content height
	contentHeight := height - headerHeight - footerHeight
	if contentHeight < 10 {
		contentHeight = 10
	}

	// === HEADER ===
	header := m.renderHeader(width)

	// === LEFT PANEL: item columns ===
	leftContent := m.renderLeftPanel(leftWidth-borderSize, contentHeight-borderSize)
	leftPanel := panelBorderStyle.
		Width(leftWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(leftContent)

	// === RIGHT PANEL: updates ===
	rightContent := m.renderRightPanel(rightWidth-borderSize, contentHeight-borderSize)
	rightBorder := focusedPanelBorderStyle
	if m.composeMode {
		rightBorder = panelBorderStyle // Unfocus when typing
	}
	rightPanel := rightBorder.
		Width(rightWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(rightContent)

	// Join panels horizontally
	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", rightPanel)

	// === FOOTER ===
	footer := m.renderFooter(width)

	// Join everything vertically
	return lipgloss.JoinVertical(lipgloss.Left, header, panels, footer)
}

// renderHeader renders the top help bar
func (m DetailModel) renderHeader(width int) string {
	if m.confirmExit {
		return warningStyle.Render("Unsaved update! [Y]discard [N]cancel [S]post and exit")
	}

	if m.composeMode {
		return dimStyle.Render("[Ctrl+S]save [ESC]cancel") + "  " +
			updateAuthorStyle.Render("Writing update...")
	}

	var parts []string
	parts = append(parts, "[q]back")
	parts = append(parts, "[o]open")
	parts = append(parts, "[j/k]scroll")
	parts = append(parts, "[g/G]top/bottom")
	parts = append(parts, "[r]reload")
	parts = append(parts, "[c]update")

	help := strings.Join(parts, " ")
	return dimStyle.Render(help)
}

// renderFooter renders the bottom status bar
func (m DetailModel) renderFooter(width int) string {
	var left, right string

	// Left: status messages
	if m.loading {
		left = m.spinner.View() + " " + m.loadingAction
	} else if m.successMsg != "" {
		left = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Render("✓ " + m.successMsg)
	} else if m.errorMsg != "" {
		left = errorStyle.Render("✗ " + m.errorMsg)
	} else if m.composeMode {
		charCount := len(m.composer.Value())
		left = fmt.Sprintf("%d chars", charCount)
	}

	// Right: scroll position
	if len(m.updates) > 0 && !m.composeMode {
		scrollPct := int(m.viewport.ScrollPercent() * 100)
		if m.viewport.AtTop() {
			right = "TOP"
		} else if m.viewport.AtBottom() {
			right = "END"
		} else {
			right = fmt.Sprintf("%d%%", scrollPct)
		}
	}

	// Pad between left and right
	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return dimStyle.Render(left) + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// renderLeftPanel renders the item name, placement and column values.
func (m DetailModel) renderLeftPanel(width, height int) string {
	var b strings.Builder

	b.WriteString(detailLabelStyle.Render(fmt.Sprintf("Item #%s", m.item.ID)))
	b.WriteString("\n\n")

	b.WriteString(detailTitleStyle.Render(wordwrap.String(m.item.Name, width-2)))
	b.WriteString("\n\n")

	if m.groupTitle != "" {
		writeField(&b, "Group: ", detailValueStyle.Render(m.groupTitle))
	}

	if m.item.State != "" {
		stateStyle := detailValueStyle
		switch m.item.State {
		case domain.StateActive:
			stateStyle = stateStyle.Foreground(lipgloss.Color("34"))
		case domain.StateArchived:
			stateStyle = stateStyle.Foreground(lipgloss.Color("228"))
		case domain.StateDeleted:
			stateStyle = stateStyle.Foreground(lipgloss.Color("196"))
		}
		writeField(&b, "State: ", stateStyle.Render(m.item.State))
	}

	if m.item.CreatedAt != "" {
		writeField(&b, "Created: ", detailValueStyle.Render(formatTimeAgo(m.item.CreatedAt)))
	}

	var columns []domain.ColumnValue
	for _, cv := range m.item.ColumnValues {
		if cv.Text != "" {
			columns = append(columns, cv)
		}
	}
	if len(columns) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(detailLabelStyle.Render("Columns:"))
	b.WriteString("\n")

	maxLines := height - strings.Count(b.String(), "\n") - 1
	var lines []string
	for _, cv := range columns {
		title := cv.Title
		if title == "" {
			title = cv.ID
		}
		entry := detailLabelStyle.Render(title+": ") + detailValueStyle.Render(cv.Text)
		lines = append(lines, strings.Split(wordwrap.String(entry, width-2), "\n")...)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = append(lines[:maxLines-1], "...")
	}
	b.WriteString(strings.Join(lines, "\n"))

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(detailLabelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

// renderRightPanel renders the updates panel with viewport
func (m DetailModel) renderRightPanel(width, height int) string {
	var b strings.Builder

	title := "Updates"
	if len(m.updates) > 0 {
		title = fmt.Sprintf("Updates (%d)", len(m.updates))
	}

	scrollHint := ""
	if len(m.updates) > 0 && !m.composeMode && m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			scrollHint = " ↓"
		case m.viewport.AtBottom():
			scrollHint = " ↑"
		default:
			scrollHint = " ↕"
		}
	}

	b.WriteString(detailLabelStyle.Render(title))
	b.WriteString(scrollIndicatorStyle.Render(scrollHint))
	b.WriteString("\n")

	if m.loadingUpdates {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " Loading updates...")
		return b.String()
	}

	if m.updatesError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.updatesError))
		return b.String()
	}

	if m.composeMode {
		b.WriteString("\n")
		b.WriteString(updateAuthorStyle.Render("New Update"))
		b.WriteString("\n\n")
		b.WriteString(m.composer.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Ctrl+S to post • ESC to cancel"))

		if len(m.updates) > 0 {
			b.WriteString("\n\n")
			b.WriteString(detailLabelStyle.Render(fmt.Sprintf("── %d existing updates ──", len(m.updates))))
		}
		return b.String()
	}

	if len(m.updates) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("No updates yet"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Press 'c' to post one"))
		return b.String()
	}

	b.WriteString(m.viewport.View())

	return b.String()
}

// updateViewportContent formats the updates, newest first, for the viewport.
func (m *DetailModel) updateViewportContent() {
	var b strings.Builder
	wrapWidth := m.viewport.Width - 4
	if wrapWidth < 30 {
		wrapWidth = 30
	}

	for i, u := range m.updates {
		if i > 0 {
			b.WriteString("\n\n")
			b.WriteString(dimStyle.Render(strings.Repeat("─", min(20, wrapWidth))))
			b.WriteString("\n\n")
		}

		author := u.Author
		if author == "" {
			author = "(deleted)"
		}

		b.WriteString(updateAuthorStyle.Render(author))
		b.WriteString(" ")
		b.WriteString(updateTimeStyle.Render(formatTimeAgo(u.CreatedAt)))
		if u.UpdatedAt != "" && u.UpdatedAt != u.CreatedAt {
			b.WriteString(updateTimeStyle.Render(" (edited)"))
		}
		b.WriteString("\n")

		b.WriteString(updateBodyStyle.Render(wordwrap.String(u.Body, wrapWidth)))
	}

	m.viewport.SetContent(b.String())
}

func (m DetailModel) postUpdate(body string) tea.Cmd {
	itemID := m.item.ID
	return func() tea.Msg {
		id, err := m.client.CreateUpdate(m.ctx, itemID, body)
		if err != nil {
			return updateErrorMsg{err: err}
		}
		return updatePostedMsg{id: id}
	}
}

func (m DetailModel) loadUpdates() tea.Cmd {
	itemID := m.item.ID
	return func() tea.Msg {
		updates, err := m.client.GetUpdates(m.ctx, itemID)
		if err != nil {
			return updatesErrorMsg{err: err}
		}
		return updatesLoadedMsg{updates: updates}
	}
}

// formatTimeAgo converts ISO8601 timestamp to relative time
func formatTimeAgo(timestamp string) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		if len(timestamp) >= 10 {
			return timestamp[:10]
		}
		return timestamp
	}

	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	case duration < 30*24*time.Hour:
		weeks := int(duration.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	case duration < 365*24*time.Hour:
		months := int(duration.Hours() / 24 / 30)
		if months == 1 {
			return "1mo ago"
		}
		return fmt.Sprintf("%dmo ago", months)
	default:
		years := int(duration.Hours() / 24 / 365)
		if years == 1 {
			return "1y ago"
		}
		return fmt.Sprintf("%dy ago", years)
	}
}

// Message types for detail view
type (
	closeDetailMsg   struct{}
	updatePostedMsg  struct{ id string }
	updateErrorMsg   struct{ err error }
	updatesLoadedMsg struct{ updates []domain.Update }
	updatesErrorMsg  struct{ err error }
)
