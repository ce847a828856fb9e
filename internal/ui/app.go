package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/signgen/internal/backend"
	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/logging"
	"github.com/abelbrown/signgen/internal/media"
	"github.com/abelbrown/signgen/internal/notify"
	"github.com/abelbrown/signgen/internal/session"
	"github.com/abelbrown/signgen/internal/ui/configview"
	"github.com/abelbrown/signgen/internal/ui/wordpicker"
	"github.com/abelbrown/signgen/internal/word"
)

// noticeInterval is how often expired notifications are swept.
const noticeInterval = time.Second

// logEntries is how many past notifications the log panel shows.
const logEntries = 8

// Media owns the displayable handles of video payloads. *media.Registry satisfies it.
type Media interface {
	Replace(kind config.Kind, word string, payload []byte) (*media.Handle, error)
	Get(kind config.Kind) (*media.Handle, bool)
	Release(kind config.Kind)
	ReleaseAll()
}

// AppConfig holds the dependencies of App. Every func returns a tea.Cmd and
// may be nil.
type AppConfig struct {
	Config      config.Config
	InitialWord string
	Vocabulary  []string

	Generate       func(t session.GenerateTicket, cfg config.Config) tea.Cmd
	FetchArtifacts func(tickets []session.FetchTicket, cfg config.Config) tea.Cmd
	SaveConfig     func(p config.Partial) tea.Cmd
	LoadRecent     func() tea.Cmd
	CopyLink       func(link string) tea.Cmd

	Media    Media
	Notifier *notify.Center
}

type mode int

const (
	modeMain mode = iota
	modeWords
	modeConfig
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the store or the backend. Network and disk
// work happens in the injected commands and comes back as messages.
type App struct {
	generate       func(t session.GenerateTicket, cfg config.Config) tea.Cmd
	fetchArtifacts func(tickets []session.FetchTicket, cfg config.Config) tea.Cmd
	saveConfig     func(p config.Partial) tea.Cmd
	loadRecent     func() tea.Cmd
	copyLink       func(link string) tea.Cmd

	cfg      config.Config
	selector *word.Selector
	session  *session.Session
	media    Media
	notes    *notify.Center
	genNote  map[uint64]string // generation seq -> notification ID

	vocab  []string
	recent []string

	mode       mode
	showLog    bool
	picker     wordpicker.Model
	configView configview.Model

	spinner  spinner.Model
	progress progress.Model
	width    int
	height   int
	ready    bool
}

// NewAppWithConfig creates an App from cfg.
func NewAppWithConfig(cfg AppConfig) App {
	notes := cfg.Notifier
	if notes == nil {
		notes = notify.NewCenter(notify.DefaultHistory)
	}
	vocab := cfg.Vocabulary
	if vocab == nil {
		vocab = word.Vocabulary
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		generate:       cfg.Generate,
		fetchArtifacts: cfg.FetchArtifacts,
		saveConfig:     cfg.SaveConfig,
		loadRecent:     cfg.LoadRecent,
		copyLink:       cfg.CopyLink,
		cfg:            cfg.Config,
		selector:       word.NewSelector(""),
		session:        session.New(),
		media:          cfg.Media,
		notes:          notes,
		genNote:        make(map[uint64]string),
		vocab:          vocab,
		spinner:        sp,
		progress:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
	}
	if w, changed := a.selector.Select(cfg.InitialWord); changed {
		a.session.SelectWord(w)
	}
	return a
}

// Init loads recent words and starts the background tickers.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, noticeTick()}
	if a.loadRecent != nil {
		cmds = append(cmds, a.loadRecent())
	}
	return tea.Batch(cmds...)
}

func noticeTick() tea.Cmd {
	return tea.Tick(noticeInterval, func(time.Time) tea.Msg { return NoticeTick{} })
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.picker.SetSize(msg.Width, msg.Height)
		a.configView.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		switch a.mode {
		case modeWords:
			return a.updatePicker(msg)
		case modeConfig:
			return a.updateConfigView(msg)
		}
		return a.handleKeyMsg(msg)

	case GenerateDone:
		return a.handleGenerateDone(msg)

	case ArtifactLoaded:
		return a.handleArtifactLoaded(msg)

	case ConfigSaved:
		return a.handleConfigSaved(msg)

	case RecentLoaded:
		if msg.Err != nil {
			logging.Debug("ui: recent words unavailable", "error", msg.Err)
			return a, nil
		}
		a.recent = msg.Words
		if a.mode == modeWords {
			a.picker.SetRecent(a.recentWords())
		}
		return a, nil

	case LinkCopied:
		if msg.Err != nil {
			a.notes.Error("Could not copy link: " + msg.Err.Error())
		} else {
			a.notes.Info("Link copied: " + msg.Link)
		}
		return a, nil

	case wordpicker.Chosen:
		a.mode = modeMain
		return a, a.selectWord(msg.Word)

	case configview.Submitted:
		if msg.Partial.IsEmpty() || a.saveConfig == nil {
			return a, nil
		}
		return a, a.saveConfig(msg.Partial)

	case NoticeTick:
		a.notes.Visible()
		return a, noticeTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	switch a.mode {
	case modeWords:
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		return a, cmd
	case modeConfig:
		var cmd tea.Cmd
		a.configView, cmd = a.configView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKeyMsg processes keyboard input on the main screen.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a.quit()

	case "g", "enter":
		return a.startGenerate()

	case "w", "/":
		a.mode = modeWords
		a.picker = wordpicker.New(a.vocab)
		a.picker.SetSize(a.width, a.height)
		a.picker.SetRecent(a.recentWords())
		cmds := []tea.Cmd{a.picker.Init()}
		if a.loadRecent != nil {
			cmds = append(cmds, a.loadRecent())
		}
		return a, tea.Batch(cmds...)

	case "c":
		a.mode = modeConfig
		a.configView = configview.New(a.cfg)
		a.configView.SetSize(a.width, a.height)
		return a, nil

	case "r":
		var tickets []session.FetchTicket
		for _, k := range a.session.Failed() {
			if t, ok := a.session.Retry(k, a.cfg); ok {
				tickets = append(tickets, t)
			}
		}
		return a, a.fetch(tickets)

	case "b", "backspace":
		w, ok := a.selector.Back()
		if !ok {
			return a, nil
		}
		return a, a.applyWord(w)

	case "y":
		w := a.session.Word()
		if w == "" || a.copyLink == nil {
			return a, nil
		}
		return a, a.copyLink(word.Link(w))

	case "x":
		a.notes.Dismiss()
		return a, nil

	case "n":
		a.showLog = !a.showLog
		return a, nil
	}
	return a, nil
}

func (a App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	if a.picker.IsQuitting() {
		a.mode = modeMain
	}
	return a, cmd
}

func (a App) updateConfigView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.configView, cmd = a.configView.Update(msg)
	if a.configView.IsQuitting() {
		a.configView.ResetQuitting()
		a.mode = modeMain
	}
	return a, cmd
}

func (a App) quit() (tea.Model, tea.Cmd) {
	if a.media != nil {
		a.media.ReleaseAll()
	}
	return a, tea.Quit
}

// selectWord normalizes raw, pushes it onto the history and applies it.
func (a App) selectWord(raw string) tea.Cmd {
	w, changed := a.selector.Select(raw)
	if !changed {
		return nil
	}
	return a.applyWord(w)
}

func (a App) applyWord(w string) tea.Cmd {
	ch := a.session.SelectWord(w)
	if !ch.Changed {
		return nil
	}
	if a.media != nil {
		for _, k := range ch.Released {
			a.media.Release(k)
		}
	}
	logging.Debug("ui: word selected", "word", w, "released", len(ch.Released))
	return nil
}

func (a App) startGenerate() (tea.Model, tea.Cmd) {
	t, err := a.session.BeginGenerate()
	switch {
	case errors.Is(err, session.ErrNoWord):
		a.notes.Info("Select a word first")
		return a, nil
	case errors.Is(err, session.ErrGenerationInFlight):
		a.notes.Info("A generation is already running")
		return a, nil
	case err != nil:
		a.notes.Error(err.Error())
		return a, nil
	}

	// The backend overwrites its outputs, so the displayed videos go now.
	if a.media != nil {
		a.media.ReleaseAll()
	}
	a.genNote[t.Seq] = a.notes.Start(fmt.Sprintf("Generating %q...", t.Word))

	if a.generate == nil {
		return a, nil
	}
	return a, a.generate(t, a.cfg)
}

func (a App) handleGenerateDone(msg GenerateDone) (tea.Model, tea.Cmd) {
	committed := a.session.CompleteGenerate(msg.Ticket, msg.Err)

	id, ok := a.genNote[msg.Ticket.Seq]
	delete(a.genNote, msg.Ticket.Seq)
	text := fmt.Sprintf("Videos for %q generated successfully!", msg.Ticket.Word)
	if msg.Err != nil {
		text = "Failed to generate videos: " + backend.Message(msg.Err)
	}
	switch {
	case !ok && msg.Err != nil:
		a.notes.Error(text)
	case !ok:
		a.notes.Info(text)
	case msg.Err != nil:
		a.notes.Fail(id, text)
	default:
		a.notes.Succeed(id, text)
	}

	if !committed || msg.Err != nil {
		return a, a.loadRecentCmd()
	}
	return a, tea.Batch(a.fetch(a.session.Unlocked(a.cfg)), a.loadRecentCmd())
}

func (a App) handleArtifactLoaded(msg ArtifactLoaded) (tea.Model, tea.Cmd) {
	res := msg.Result
	t := session.FetchTicket{Kind: res.Request.Kind, Word: res.Request.Word, Seq: res.Request.Seq}
	if !a.session.CompleteFetch(t, res) {
		logging.Debug("ui: stale artifact dropped", "kind", t.Kind, "word", t.Word)
		return a, nil
	}

	if res.Err != nil {
		a.notes.Error(loadErrorText(t.Kind))
		return a, nil
	}
	if t.Kind.IsVideo() && a.media != nil {
		if _, err := a.media.Replace(t.Kind, t.Word, res.Video); err != nil {
			logging.Warn("ui: could not create media handle", "kind", t.Kind, "error", err)
			a.notes.Error(loadErrorText(t.Kind))
		}
	}
	return a, nil
}

func (a App) handleConfigSaved(msg ConfigSaved) (tea.Model, tea.Cmd) {
	a.cfg = msg.Config
	if msg.Err != nil {
		a.notes.Error("Settings not saved: " + msg.Err.Error())
	} else {
		a.notes.Info("Settings saved")
	}

	for _, k := range a.session.ApplyConfig(a.cfg) {
		if k.IsVideo() && a.media != nil {
			a.media.Release(k)
		}
	}
	return a, a.fetch(a.session.Unlocked(a.cfg))
}

func (a App) fetch(tickets []session.FetchTicket) tea.Cmd {
	if len(tickets) == 0 || a.fetchArtifacts == nil {
		return nil
	}
	return a.fetchArtifacts(tickets, a.cfg)
}

func (a App) loadRecentCmd() tea.Cmd {
	if a.loadRecent == nil {
		return nil
	}
	return a.loadRecent()
}

func (a App) recentWords() []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range append(a.selector.History(), a.recent...) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func loadErrorText(k config.Kind) string {
	if k == config.KindMetrics {
		return "Error loading performance metrics"
	}
	return fmt.Sprintf("Error loading %s video", k.Label())
}

// Session returns the request state (for testing).
func (a App) Session() *session.Session {
	return a.session
}

// Config returns the active configuration (for testing).
func (a App) Config() config.Config {
	return a.cfg
}

// Notifications returns the visible notifications (for testing).
func (a App) Notifications() []notify.Notification {
	return a.notes.Visible()
}
