package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/internal/prefs"
	"github.com/ebirch/plover/internal/source"
	"github.com/ebirch/plover/query"
)

// Options configure the UI runtime.
type Options struct {
	View      *plover.View
	Source    source.Source
	Prefs     prefs.Prefs
	PrefsPath string
}

// frameMsg carries an engine frame into the bubbletea loop.
type frameMsg plover.Frame

// Model is the bubbletea model for the plover browser.
type Model struct {
	view  *plover.View
	src   source.Source
	theme Theme

	themeName string
	prefsPath string

	frames chan plover.Frame

	cache    rowCache
	frame    plover.Frame
	haveData bool
	fetchErr error
	rebuilt  int

	searching bool
	search    textinput.Model

	sortIdx int
	dir     query.Direction

	width  int
	height int
}

// NewModel builds the UI model and wires it to the view's frame stream.
func NewModel(opts Options) *Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/"
	search.CharLimit = 120

	themeName := ThemeByName(opts.Prefs.Theme).Name
	m := &Model{
		view:      opts.View,
		src:       opts.Source,
		theme:     ThemeByName(themeName),
		themeName: themeName,
		prefsPath: opts.PrefsPath,
		frames:    make(chan plover.Frame, 16),
		search:    search,
		sortIdx:   -1,
	}
	// Restore the sort order from the previous session when the stored key
	// still names a sortable field of this source.
	for i, key := range opts.Source.SortKeys {
		if key == opts.Prefs.SortKey {
			m.sortIdx = i
			if opts.Prefs.SortDir == "desc" {
				m.dir = query.Descending
			}
			break
		}
	}
	// The subscriber only forwards; frame handling happens on the
	// bubbletea loop. Dropping when the buffer is full is safe because a
	// Refresh always produces a fresh frame.
	opts.View.Subscribe(func(f plover.Frame) {
		select {
		case m.frames <- f:
		default:
		}
	})
	return m
}

// Run drives the UI until ctx is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	program := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil // clean shutdown via signal
	}
	return err
}

// Init starts the frame pump and the initial load. A restored sort order is
// applied here, which triggers the load itself.
func (m *Model) Init() tea.Cmd {
	if key := m.currentSortKey(); key != "" {
		m.view.SetSort(key, m.dir)
	} else {
		m.view.Refresh()
	}
	return tea.Batch(textinput.Blink, m.nextFrame())
}

func (m *Model) nextFrame() tea.Cmd {
	return func() tea.Msg {
		return frameMsg(<-m.frames)
	}
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.applyFrame(plover.Frame(msg))
		return m, m.nextFrame()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.SetValue("")
		m.search.Blur()
		m.view.SetSearchText("")
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// Every keystroke goes to the engine; the engine's debouncer decides
	// when a query actually runs.
	m.view.SetSearchText(m.search.Value())
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "n", "right":
		m.view.NextPage()
	case "p", "left":
		m.view.PrevPage()
	case "g", "home":
		m.view.FirstPage()
	case "G", "end":
		m.view.LastPage()
	case "s":
		m.cycleSort()
	case "o":
		m.dir = ternaryDir(m.dir == query.Ascending, query.Descending, query.Ascending)
		m.view.SetSort(m.currentSortKey(), m.dir)
		m.savePrefs()
	case "t":
		m.themeName = NextTheme(m.themeName)
		m.theme = ThemeByName(m.themeName)
		m.savePrefs()
	case "r":
		m.view.Refresh()
	}
	return m, nil
}

func (m *Model) cycleSort() {
	if len(m.src.SortKeys) == 0 {
		return
	}
	m.sortIdx = (m.sortIdx + 1) % len(m.src.SortKeys)
	m.view.SetSort(m.currentSortKey(), m.dir)
	m.savePrefs()
}

// savePrefs persists the current cosmetic state. Failures are ignored; the
// session continues either way and the next change retries.
func (m *Model) savePrefs() {
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:   m.themeName,
		SortKey: m.currentSortKey(),
		SortDir: m.dir.String(),
	})
}

func (m *Model) currentSortKey() string {
	if m.sortIdx < 0 || len(m.src.SortKeys) == 0 {
		return ""
	}
	return m.src.SortKeys[m.sortIdx]
}

func ternaryDir(cond bool, a, b query.Direction) query.Direction {
	if cond {
		return a
	}
	return b
}

// applyFrame folds one engine frame into the model. Fetch errors keep the
// previous rows on screen; the header shows the failure and r retries.
func (m *Model) applyFrame(f plover.Frame) {
	m.frame = f
	if f.Err != nil {
		m.fetchErr = f.Err
		return
	}
	m.fetchErr = nil
	m.haveData = true
	m.rebuilt = m.cache.apply(f.Actions, m.renderRow)
}

// View renders the whole screen.
func (m *Model) View() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n")

	if m.fetchErr != nil {
		b.WriteString(styles.DangerText.Render(truncate(fmt.Sprintf("fetch failed: %v", m.fetchErr), max(m.width, 40))))
		b.WriteString(styles.MutedText.Render("  (r to retry)"))
		b.WriteString("\n")
	}

	switch {
	case !m.haveData && m.fetchErr == nil:
		b.WriteString(styles.MutedText.Render("loading..."))
		b.WriteString("\n")
	case len(m.cache.rows) == 0:
		b.WriteString(styles.MutedText.Render("no matching items"))
		b.WriteString("\n")
	default:
		for _, row := range m.cache.rows {
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderFooter(styles))
	return b.String()
}

func (m *Model) renderHeader(styles Styles) string {
	parts := []string{
		styles.Title.Render(" plover "),
		styles.Header.Render(" " + m.src.Name + " "),
		styles.Header.Render(" " + pageLabel(m.frame) + " "),
	}
	if key := m.currentSortKey(); key != "" {
		parts = append(parts, styles.Header.Render(fmt.Sprintf(" sort %s %s ", key, m.dir)))
	}
	if m.searching {
		parts = append(parts, m.search.View())
	} else if text := m.search.Value(); text != "" {
		parts = append(parts, styles.AccentText.Render("/"+text))
	}
	if drops := m.view.StaleDrops(); drops > 0 {
		parts = append(parts, styles.FaintText.Render(fmt.Sprintf("dropped %d", drops)))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderFooter(styles Styles) string {
	help := "/ search · n/p page · g/G first/last · s sort · o order · t theme · r refresh · q quit"
	status := fmt.Sprintf("%d rows, %d rebuilt", len(m.cache.rows), m.rebuilt)
	return styles.FaintText.Render(help) + "  " + styles.MutedText.Render(status)
}
