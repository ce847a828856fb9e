// Command sgctl is the headless CLI for SignGen configuration and scripting.
//
// Usage:
//
//	sgctl                        Show help
//	sgctl config show            Print the endpoint configuration
//	sgctl config set k=v ...     Change configuration fields
//	sgctl config reset           Restore the defaults
//	sgctl generate <word>        Generate and download every enabled artifact
//	sgctl classify -ssim -div    Classify a pair of fused scores
//	sgctl history                Recently generated words
//	sgctl link <word>            Print the share link of a word
package main

import (
	"fmt"
	"os"
)

const usage = `sgctl - SignGen command line

Usage:
  sgctl <command> [flags]

Commands:
  config      show | set key=value... | reset
  generate    Generate videos for a word and write them to disk
  classify    Classify fused SSIM and diversity scores
  history     Recently generated words
  link        Print the share link of a word

Environment:
  SIGNGEN_HOME       Data directory (default: ~/.signgen)
  SIGNGEN_LOG_LEVEL  debug, info, warn or error (default: warn)

Run 'sgctl <command> -h' for command-specific help.
`

func main() {
	loadEnv()

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "config":
		runConfig()
	case "generate":
		runGenerate()
	case "classify":
		runClassify()
	case "history":
		runHistory()
	case "link":
		runLink()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "sgctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
