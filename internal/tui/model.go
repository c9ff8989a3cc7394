package tui

import (
	"context"
	"time"

	"github.com/Veraticus/financas/internal/filter"
	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/money"
	"github.com/Veraticus/financas/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Ledger is what the browser reads and acts through.
type Ledger interface {
	Now() time.Time
	Filtered(ctx context.Context, c filter.Criteria) ([]model.Lancamento, error)
	MarkPaid(ctx context.Context, id string) error
	Unpay(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// State represents the current state of the TUI.
type State int

const (
	StateBrowsing State = iota
	StateSearching
	StateConfirmDelete
)

// Model holds the main TUI state.
type Model struct {
	ctx           context.Context
	ledger        Ledger
	lastError     error
	pendingDelete *model.Lancamento
	theme         themes.Theme
	keymap        KeyMap
	help          help.Model
	search        textinput.Model
	criteria      filter.Criteria
	message       string
	entries       []model.Lancamento
	table         table.Model
	width         int
	height        int
	state         State
	quitting      bool
	ready         bool
}

// Fixed column widths; the description takes what is left.
var fixedColumns = []table.Column{
	{Title: "MÊS", Width: 7},
	{Title: "VENCIMENTO", Width: 10},
	{Title: "PAGAMENTO", Width: 10},
	{Title: "VALOR", Width: 14},
	{Title: "TIPO", Width: 10},
	{Title: "PRIORIDADE", Width: 11},
	{Title: "STATUS", Width: 8},
}

const minDescriptionWidth = 12

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, ledger Ledger, cfg Config) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "descrição, fonte, modo ou observação"
	search.CharLimit = 120

	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	m := Model{
		ctx:      ctx,
		ledger:   ledger,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		search:   search,
		criteria: cfg.Criteria,
		table:    t,
		width:    cfg.Width,
		height:   cfg.Height,
		state:    StateBrowsing,
	}
	m.resize()
	return m
}

// Init loads the first page of entries.
func (m Model) Init() tea.Cmd {
	return m.loadEntries()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case entriesLoadedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.ready = true
		m.table.SetRows(m.rows())
		if m.table.Cursor() >= len(m.entries) {
			m.table.SetCursor(max(0, len(m.entries)-1))
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.lastError = msg.err
			m.message = ""
			return m, nil
		}
		m.lastError = nil
		m.message = msg.message
		return m, m.loadEntries()

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.state {
		case StateSearching:
			return m.updateSearch(msg)
		case StateConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.loadEntries()

	case key.Matches(msg, m.keymap.ToggleOverdue):
		m.criteria.OnlyOverdue = !m.criteria.OnlyOverdue
		return m, m.loadEntries()

	case key.Matches(msg, m.keymap.Search):
		m.state = StateSearching
		m.search.SetValue(m.criteria.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case msg.Type == tea.KeyEsc && m.criteria.Search != "":
		m.criteria.Search = ""
		return m, m.loadEntries()

	case key.Matches(msg, m.keymap.Pay):
		if l, ok := m.selected(); ok {
			return m, m.pay(l)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Unpay):
		if l, ok := m.selected(); ok {
			return m, m.unpay(l)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Delete):
		if l, ok := m.selected(); ok {
			m.pendingDelete = &l
			m.state = StateConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.criteria.Search = m.search.Value()
		m.search.Blur()
		m.state = StateBrowsing
		return m, m.loadEntries()
	case tea.KeyEsc:
		m.search.Blur()
		m.state = StateBrowsing
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// updateConfirm resolves a pending delete. Anything but a confirmation
// cancels it.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := *m.pendingDelete
	m.pendingDelete = nil
	m.state = StateBrowsing

	if key.Matches(msg, m.keymap.Confirm) {
		return m, m.remove(l)
	}
	m.message = "exclusão cancelada"
	return m, nil
}

func (m Model) selected() (model.Lancamento, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return model.Lancamento{}, false
	}
	return m.entries[i], true
}

func (m Model) rows() []table.Row {
	now := m.ledger.Now()
	rows := make([]table.Row, 0, len(m.entries))
	for _, l := range m.entries {
		rows = append(rows, table.Row{
			l.MesRef,
			l.Descricao,
			l.DataVencimento,
			l.DataPagamentoText(),
			money.FormatBRL(l.Valor),
			string(l.Tipo),
			string(l.Prioridade),
			string(model.ComputeStatus(l, now)),
		})
	}
	return rows
}

// resize fits the table to the terminal.
func (m *Model) resize() {
	fixed := 0
	for _, c := range fixedColumns {
		fixed += c.Width + 2
	}
	desc := max(minDescriptionWidth, m.width-fixed-4)

	columns := make([]table.Column, 0, len(fixedColumns)+1)
	columns = append(columns, fixedColumns[0], table.Column{Title: "DESPESA", Width: desc})
	columns = append(columns, fixedColumns[1:]...)
	m.table.SetColumns(columns)

	m.help.Width = m.width
	chrome := 7
	if m.help.ShowAll {
		chrome += len(m.keymap.FullHelp()[0]) - 1
	}
	m.table.SetHeight(max(3, m.height-chrome))
	m.table.SetWidth(fixed + desc + 2)
}
