package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/abelbrown/signgen/internal/backend"
	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/coord"
	"github.com/abelbrown/signgen/internal/fetch"
	"github.com/abelbrown/signgen/internal/metrics"
	"github.com/abelbrown/signgen/internal/session"
	"github.com/abelbrown/signgen/internal/word"
)

func runGenerate() {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	outDir := fs.String("out", ".", "Directory the videos are written to")
	noMetrics := fs.Bool("no-metrics", false, "Skip the performance metrics even when enabled")
	fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: sgctl generate [-out DIR] <word>")
		os.Exit(1)
	}
	w, ok := word.ParseLocator(fs.Arg(0))
	if !ok {
		fatalf("not a word: %q", fs.Arg(0))
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fatalf("failed to create output directory: %v", err)
	}

	st := openDB()
	defer st.Close()
	_, cfg := loadConfig(st)
	if *noMetrics {
		cfg.ShowPerformance = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := backend.NewClient()
	fetcher, err := fetch.New(client)
	if err != nil {
		fatalf("create fetcher: %v", err)
	}
	co := coord.NewCoordinator(client, fetcher, st)

	s := session.New()
	s.SelectWord(w)
	ticket, err := s.BeginGenerate()
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Generating %q via %s ...\n", w, cfg.CreateURL())
	start := time.Now()
	genErr := co.Generate(ctx, ticket.Word, cfg)
	s.CompleteGenerate(ticket, genErr)
	if genErr != nil {
		fatalf("Failed to generate videos: %s", backend.Message(genErr))
	}
	fmt.Printf("Videos for %q generated successfully! (%s)\n\n", w, time.Since(start).Round(time.Millisecond))

	tickets := s.Unlocked(cfg)
	reqs := make([]fetch.Request, len(tickets))
	for i, t := range tickets {
		reqs[i] = t.Request(cfg)
	}

	var (
		mu      sync.Mutex
		results []fetch.Result
	)
	co.FetchAll(ctx, reqs, func(r fetch.Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	})

	failed := 0
	for _, r := range results {
		t := session.FetchTicket{Kind: r.Request.Kind, Word: r.Request.Word, Seq: r.Request.Seq}
		s.CompleteFetch(t, r)
	}
	for _, k := range config.AllKinds {
		a := s.Artifact(k)
		switch a.Status {
		case session.Disabled:
			continue
		case session.Failed:
			failed++
			fmt.Printf("%-8s failed after %d attempts: %s\n", k.Label(), a.Attempts, backend.Message(a.Err))
			continue
		case session.Pending:
			failed++
			fmt.Printf("%-8s interrupted\n", k.Label())
			continue
		}
		if k == config.KindMetrics {
			continue
		}
		path := filepath.Join(*outDir, fmt.Sprintf("%s-%s.mp4", w, k))
		if err := writeVideo(path, results, k); err != nil {
			failed++
			fmt.Printf("%-8s %v\n", k.Label(), err)
			continue
		}
		fmt.Printf("%-8s %s (%d bytes)\n", k.Label(), path, a.Size)
	}

	if a := s.Artifact(config.KindMetrics); a.Status == session.Succeeded {
		fmt.Println()
		printScores(a.Scores)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func writeVideo(path string, results []fetch.Result, k config.Kind) error {
	for _, r := range results {
		if r.Request.Kind == k && r.Err == nil {
			if err := os.WriteFile(path, r.Video, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			return nil
		}
	}
	return fmt.Errorf("no payload")
}

func printScores(s metrics.Scores) {
	status := metrics.Classify(s)
	fmt.Printf("Model Performance: %s\n", status)
	fmt.Printf("  %s\n\n", status.Message())
	fmt.Println("Structure Similarity (SSIM)")
	fmt.Printf("  CVAE Model   %s\n", metrics.Format(s.CVAESSIM))
	fmt.Printf("  Fused Model  %s\n", metrics.Format(s.FusedSSIM))
	fmt.Println("Diversity")
	fmt.Printf("  CGAN Model   %s\n", metrics.Format(s.CGANDiversity))
	fmt.Printf("  Fused Model  %s\n", metrics.Format(s.FusedDiversity))
}
