package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"finnterm/internal/directory"
	"finnterm/internal/feed"
	"finnterm/internal/market"
)

// Focus marks which region's border is highlighted. Typing always goes
// to the search input; focus is cosmetic.
type Focus int

const (
	FocusInput Focus = iota
	FocusResults
)

// ResultMsg delivers one worker result into the model.
type ResultMsg struct {
	Result feed.Result
}

// Config wires the model's collaborators and initial state.
type Config struct {
	Worker       *feed.Worker
	Markets      *market.Set
	Directory    *directory.Directory
	Cache        *directory.Cache
	ActiveMarket string
	NewsCategory string
}

// Model is the root Bubble Tea model. It is the sole owner of the mode,
// search text, result text, active market, and company directory.
type Model struct {
	worker       *feed.Worker
	markets      *market.Set
	dir          *directory.Directory
	cache        *directory.Cache
	activeMarket string
	newsCategory string

	mode    Mode
	focus   Focus
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	result  string
	pending int
	width   int
	height  int
}

// NewModel creates the root model in symbol-search mode.
func NewModel(cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type to search"
	ti.CharLimit = 64
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		worker:       cfg.Worker,
		markets:      cfg.Markets,
		dir:          cfg.Directory,
		cache:        cfg.Cache,
		activeMarket: cfg.ActiveMarket,
		newsCategory: cfg.NewsCategory,
		mode:         ModeSymbolSearch,
		focus:        FocusInput,
		input:        ti,
		spinner:      s,
		help:         help.New(),
		keys:         defaultKeyMap(),
	}
}

// Init starts the spinner tick and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 6
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ResultMsg:
		return m.applyResult(msg.Result)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes global bindings and forwards the rest to the input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevMode):
		m.switchMode(m.mode.Prev())
		return m, nil

	case key.Matches(msg, m.keys.NextMode):
		m.switchMode(m.mode.Next())
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == FocusInput {
			m.focus = FocusResults
		} else {
			m.focus = FocusInput
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// switchMode transitions to a new mode, clearing the search text and
// the result text so stale output never shows under a new mode's label.
func (m *Model) switchMode(next Mode) {
	m.mode = next
	m.input.Reset()
	m.result = ""
}

// submit runs the current mode's action for the typed text. Network
// modes enqueue a fetch intent and arm an awaiting command; rendering
// never waits for the response. Enqueueing past the queue depth blocks
// until the worker drains a slot.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	switch m.mode {
	case ModeProfile:
		if text == "" {
			return m, nil
		}
		return m.dispatch(feed.Request{Kind: feed.KindProfile, Symbol: text})

	case ModeListing:
		return m.dispatch(feed.Request{Kind: feed.KindListing, Exchange: m.activeMarket})

	case ModeMarketNews:
		return m.dispatch(feed.Request{Kind: feed.KindMarketNews, Category: m.newsCategory})

	case ModeCompanyNews:
		if text == "" {
			return m, nil
		}
		return m.dispatch(feed.Request{Kind: feed.KindCompanyNews, Symbol: text})

	case ModeMarketSelect:
		if text == "" {
			return m, nil
		}
		if !m.markets.Valid(text) {
			m.result = fmt.Sprintf("No market called %s exists", text)
			return m, nil
		}
		m.activeMarket = text
		return m.dispatch(feed.Request{Kind: feed.KindListing, Exchange: text})
	}

	// Symbol search is live; enter does nothing.
	return m, nil
}

// dispatch enqueues a fetch intent and arms one result await.
func (m Model) dispatch(req feed.Request) (tea.Model, tea.Cmd) {
	m.worker.Enqueue(req)
	m.pending++
	return m, awaitResult(m.worker)
}

// awaitResult blocks on the worker's result queue and re-delivers the
// result as a message. One await is armed per enqueued request.
func awaitResult(w *feed.Worker) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Result: <-w.Results()}
	}
}

// applyResult folds a worker result into the model. Errors arrive on
// the same path as successes and render as plain result text.
func (m Model) applyResult(res feed.Result) (tea.Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}

	if res.Err != nil {
		m.result = res.Err.Error()
		return m, nil
	}

	m.result = res.Text
	if res.Directory != nil {
		m.dir = res.Directory
		m.activeMarket = res.Exchange
		if m.cache != nil {
			if err := m.cache.Save(res.Exchange, res.Directory); err != nil {
				m.result += "\n" + err.Error()
			}
		}
	}
	return m, nil
}

// resultText returns what the results pane should show. In symbol-search
// mode with non-empty input it is recomputed on every render as the
// case-insensitive substring filter of the directory.
func (m Model) resultText() string {
	if m.mode == ModeSymbolSearch {
		needle := m.input.Value()
		if needle == "" {
			return mutedText.Render("type a company name to search")
		}
		if filtered := m.dir.Filter(needle); filtered != "" {
			return filtered
		}
		return mutedText.Render("no matching companies")
	}
	return m.result
}

// View renders the three regions: mode strip, search input, results.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := titleStyle.Render("FINNTERM") + mutedText.Render(" market: "+m.activeMarket)
	if m.pending > 0 {
		header += " " + m.spinner.View() + mutedText.Render("fetching")
	}

	boxWidth := m.width - 2
	if boxWidth < 10 {
		boxWidth = 10
	}

	inputStyle := unfocusedBorder()
	resultsStyle := unfocusedBorder()
	if m.focus == FocusInput {
		inputStyle = focusedBorder()
	} else {
		resultsStyle = focusedBorder()
	}

	inputBox := inputStyle.Width(boxWidth).Render("Search for:\n" + m.input.View())

	resultsHeight := m.height - lipgloss.Height(header) - 1 - lipgloss.Height(inputBox) - 3
	if resultsHeight < 3 {
		resultsHeight = 3
	}
	resultsBox := resultsStyle.Width(boxWidth).Height(resultsHeight).
		Render("Results\n" + m.resultText())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		modeStrip(m.mode),
		inputBox,
		resultsBox,
		m.help.View(m.keys),
	)
}
