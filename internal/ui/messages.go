// Package ui provides the Bubble Tea TUI for SignGen.
package ui

import (
	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/fetch"
	"github.com/abelbrown/signgen/internal/session"
)

// GenerateDone is sent when a create call returns.
type GenerateDone struct {
	Ticket session.GenerateTicket
	Err    error
}

// ArtifactLoaded is sent once per artifact fetch (order non-deterministic).
type ArtifactLoaded struct {
	Result fetch.Result
}

// ConfigSaved is sent after a settings change was applied. Config is the
// new in-memory record even when Err reports a failed persist.
type ConfigSaved struct {
	Config config.Config
	Err    error
}

// RecentLoaded is sent with the recently generated words.
type RecentLoaded struct {
	Words []string
	Err   error
}

// LinkCopied is sent after the share link was copied to the clipboard.
type LinkCopied struct {
	Link string
	Err  error
}

// NoticeTick expires old notifications.
type NoticeTick struct{}
