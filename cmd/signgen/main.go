// Command signgen is the terminal client for the SignGen sign-language
// video generation backend.
//
// Usage:
//
//	signgen [-word WORD] [signgen://view?word=WORD]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/abelbrown/signgen/internal/backend"
	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/coord"
	"github.com/abelbrown/signgen/internal/fetch"
	"github.com/abelbrown/signgen/internal/logging"
	"github.com/abelbrown/signgen/internal/media"
	"github.com/abelbrown/signgen/internal/notify"
	"github.com/abelbrown/signgen/internal/session"
	"github.com/abelbrown/signgen/internal/store"
	"github.com/abelbrown/signgen/internal/ui"
	"github.com/abelbrown/signgen/internal/word"
)

// recentLimit is how many history rows feed the word picker.
const recentLimit = 20

func homeDir() (string, error) {
	if v := os.Getenv("SIGNGEN_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".signgen"), nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "signgen: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()

	initial := flag.String("word", "", "word to open with")
	flag.Parse()
	if flag.NArg() > 0 {
		w, ok := word.ParseLocator(flag.Arg(0))
		if !ok {
			fatal("not a signgen link: %q", flag.Arg(0))
		}
		*initial = w
	}

	dataDir, err := homeDir()
	if err != nil {
		fatal("%v", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("create data directory: %v", err)
	}

	if err := logging.Init(dataDir, os.Getenv("SIGNGEN_LOG_LEVEL")); err != nil {
		fatal("init logging: %v", err)
	}
	defer logging.Close()

	st, err := store.Open(filepath.Join(dataDir, "signgen.db"))
	if err != nil {
		fatal("open database: %v", err)
	}
	defer st.Close()

	cfgStore := config.NewStore(st)
	cfg := cfgStore.Load()
	logging.Info("signgen starting", "backend", cfg.BaseURL(), "word", *initial)

	client := backend.NewClient()
	fetcher, err := fetch.New(client)
	if err != nil {
		fatal("create fetcher: %v", err)
	}
	registry, err := media.NewRegistry(filepath.Join(dataDir, "media"))
	if err != nil {
		fatal("create media directory: %v", err)
	}
	coordinator := coord.NewCoordinator(client, fetcher, st)

	ctx, cancel := context.WithCancel(context.Background())

	// program is assigned before Run; commands only execute afterwards.
	var program *tea.Program

	app := ui.NewAppWithConfig(ui.AppConfig{
		Config:      cfg,
		InitialWord: *initial,
		Vocabulary:  word.Vocabulary,
		Generate: func(t session.GenerateTicket, cfg config.Config) tea.Cmd {
			return func() tea.Msg {
				err := coordinator.Generate(ctx, t.Word, cfg)
				return ui.GenerateDone{Ticket: t, Err: err}
			}
		},
		FetchArtifacts: func(tickets []session.FetchTicket, cfg config.Config) tea.Cmd {
			reqs := make([]fetch.Request, len(tickets))
			for i, t := range tickets {
				reqs[i] = t.Request(cfg)
			}
			return func() tea.Msg {
				coordinator.Dispatch(ctx, program, reqs)
				return nil
			}
		},
		SaveConfig: func(p config.Partial) tea.Cmd {
			return func() tea.Msg {
				next, err := cfgStore.Apply(p)
				return ui.ConfigSaved{Config: next, Err: err}
			}
		},
		LoadRecent: func() tea.Cmd {
			return func() tea.Msg {
				records, err := st.RecentWords(recentLimit)
				if err != nil {
					return ui.RecentLoaded{Err: err}
				}
				words := make([]string, len(records))
				for i, r := range records {
					words[i] = r.Word
				}
				return ui.RecentLoaded{Words: words}
			}
		},
		CopyLink: func(link string) tea.Cmd {
			return func() tea.Msg {
				return ui.LinkCopied{Link: link, Err: clipboard.WriteAll(link)}
			}
		},
		Media:    registry,
		Notifier: notify.NewCenter(notify.DefaultHistory),
	})

	program = tea.NewProgram(app, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		logging.Error("program exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "signgen: %v\n", err)
	}

	// Graceful shutdown
	cancel()
	coordinator.Wait()
	registry.ReleaseAll()
	logging.Info("signgen stopped")
}
