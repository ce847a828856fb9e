package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/signgen/internal/metrics"
	"github.com/abelbrown/signgen/internal/word"
)

func runClassify() {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	ssim := fs.Float64("ssim", 0, "Fused SSIM score")
	div := fs.Float64("div", 0, "Fused diversity score")
	fs.Parse(os.Args[1:])

	s := metrics.Scores{FusedSSIM: *ssim, FusedDiversity: *div}
	status := metrics.Classify(s)
	fmt.Printf("%s (average %s)\n", status, metrics.Format(s.Average()))
	fmt.Println(status.Message())
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "Number of words to show")
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()

	records, err := st.RecentWords(*limit)
	if err != nil {
		fatalf("failed to read history: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No words generated yet.")
		return
	}

	fmt.Printf("%-20s %-10s %5s  %s\n", "WORD", "STATUS", "RUNS", "LAST USED")
	for _, r := range records {
		fmt.Printf("%-20s %-10s %5d  %s\n", r.Word, r.LastStatus, r.Generations, r.LastUsed.Local().Format("2006-01-02 15:04"))
		if r.LastError != "" {
			fmt.Printf("  %s\n", r.LastError)
		}
	}
}

func runLink() {
	fs := flag.NewFlagSet("link", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	w, ok := word.Normalize(fs.Arg(0))
	if !ok {
		fmt.Fprintln(os.Stderr, "usage: sgctl link <word>")
		os.Exit(1)
	}
	fmt.Println(word.Link(w))
}
