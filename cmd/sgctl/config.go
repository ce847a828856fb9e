package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/signgen/internal/config"
)

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: sgctl config show | set key=value... | reset")
		fmt.Fprintf(os.Stderr, "keys: %v\n", config.Keys)
	}
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()
	cs, cfg := loadConfig(st)

	switch fs.Arg(0) {
	case "", "show":
		printConfig(cfg)

	case "set":
		p, err := config.ParseAssignments(fs.Args()[1:])
		if err != nil {
			fatalf("%v", err)
		}
		if p.IsEmpty() {
			fs.Usage()
			os.Exit(1)
		}
		next, err := cs.Apply(p)
		if errors.Is(err, config.ErrInvalid) {
			fatalf("rejected: %v", err)
		}
		if err != nil {
			fatalf("config not persisted: %v", err)
		}
		printConfig(next)

	case "reset":
		next, err := cs.Reset()
		if err != nil {
			fatalf("reset failed: %v", err)
		}
		printConfig(next)

	default:
		fs.Usage()
		os.Exit(1)
	}
}

func printConfig(c config.Config) {
	fmt.Printf("url:              %s\n", c.URL)
	fmt.Printf("port:             %s\n", c.Port)
	fmt.Printf("createPath:       %s\n", c.CreatePath)
	fmt.Printf("cganPath:         %s\n", c.CGANPath)
	fmt.Printf("cvaePath:         %s\n", c.CVAEPath)
	fmt.Printf("fusedPath:        %s\n", c.FusedPath)
	fmt.Printf("performancePath:  %s\n", c.PerformancePath)
	fmt.Printf("showCgan:         %t\n", c.ShowCGAN)
	fmt.Printf("showCvae:         %t\n", c.ShowCVAE)
	fmt.Printf("showFused:        %t\n", c.ShowFused)
	fmt.Printf("showPerformance:  %t\n", c.ShowPerformance)
	fmt.Println()
	fmt.Printf("create endpoint:  %s\n", c.CreateURL())
	fmt.Printf("fingerprint:      %.12s\n", config.Fingerprint(c))
}
