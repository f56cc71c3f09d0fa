package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/anisync/internal/models"
)

// HistorySource loads scrobble history records for display.
// Implemented by repositories.ScrobbleHistoryRepository.
type HistorySource interface {
	Recent(userID string, limit int) ([]*models.ScrobbleRecord, error)
}

// historyFetchedMsg carries the result of an asynchronous history load.
type historyFetchedMsg struct {
	records []*models.ScrobbleRecord
	err     error
}

// Model represents the TUI application state.
type Model struct {
	source      HistorySource
	userID      string
	limit       int
	width       int
	height      int
	historyList list.Model
	loaded      bool
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model reading history from the provided source.
// userID filters records to one media server user when non-empty.
func NewModel(source HistorySource, userID string, limit int) *Model {
	delegate := list.NewDefaultDelegate()
	historyList := list.New([]list.Item{}, delegate, 0, 0)
	historyList.Title = "Scrobble History"
	historyList.SetShowHelp(false)

	return &Model{
		source:      source,
		userID:      userID,
		limit:       limit,
		historyList: historyList,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init initializes the TUI by loading scrobble history.
func (m *Model) Init() tea.Cmd {
	return m.fetchHistory()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.historyList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loaded = false
			return m, m.fetchHistory()
		}

	case historyFetchedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil

		items := make([]list.Item, len(msg.records))
		for i, rec := range msg.records {
			items[i] = scrobbleItem{record: rec}
		}
		m.historyList.SetItems(items)
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

// View renders the current state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Failed to load history: %v", m.err)) +
			"\n\n" + m.help.View(m.keys)
	}

	if !m.loaded {
		return styles.title.Render("Loading scrobble history...")
	}

	if len(m.historyList.Items()) == 0 {
		return styles.title.Render("Scrobble History") + "\n" +
			styles.warn.Render("Nothing scrobbled yet.") +
			"\n\n" + m.help.View(m.keys)
	}

	return m.historyList.View() + "\n" + m.help.View(m.keys)
}

// fetchHistory loads records off the UI goroutine.
func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := m.source.Recent(m.userID, m.limit)
		return historyFetchedMsg{records: records, err: err}
	}
}
