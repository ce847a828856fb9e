// Package config holds the user-editable endpoint settings for the SignGen backend.
//
// The record is a plain value: callers receive a copy from Store and pass it
// explicitly to whatever needs it. Changes go through Store.Apply, which
// overlays a Partial onto the current record and persists the result.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one artifact produced for a word.
type Kind string

const (
	KindCGAN    Kind = "cgan"
	KindCVAE    Kind = "cvae"
	KindFused   Kind = "fused"
	KindMetrics Kind = "metrics"
)

// VideoKinds lists the binary video artifacts in display order.
var VideoKinds = []Kind{KindCGAN, KindCVAE, KindFused}

// AllKinds lists every artifact kind in display order.
var AllKinds = []Kind{KindCGAN, KindCVAE, KindFused, KindMetrics}

// Label returns the display name used in card titles and notifications.
func (k Kind) Label() string {
	switch k {
	case KindCGAN:
		return "CGAN"
	case KindCVAE:
		return "CVAE"
	case KindFused:
		return "Fused"
	case KindMetrics:
		return "Performance"
	}
	return string(k)
}

// IsVideo reports whether the kind is a binary video payload.
func (k Kind) IsVideo() bool {
	return k == KindCGAN || k == KindCVAE || k == KindFused
}

// Config is the persisted endpoint configuration. JSON keys match the
// record stored under StorageKey.
type Config struct {
	URL             string `json:"url"`
	Port            string `json:"port"`
	CreatePath      string `json:"createPath"`
	CGANPath        string `json:"cganPath"`
	CVAEPath        string `json:"cvaePath"`
	FusedPath       string `json:"fusedPath"`
	PerformancePath string `json:"performancePath"`
	ShowCGAN        bool   `json:"showCgan"`
	ShowCVAE        bool   `json:"showCvae"`
	ShowFused       bool   `json:"showFused"`
	ShowPerformance bool   `json:"showPerformance"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		URL:             "http://localhost",
		Port:            "5000",
		CreatePath:      "create-videos",
		CGANPath:        "cgan-video",
		CVAEPath:        "cvae-video",
		FusedPath:       "fuse-video",
		PerformancePath: "",
		ShowCGAN:        true,
		ShowCVAE:        true,
		ShowFused:       true,
		ShowPerformance: false,
	}
}

// BaseURL returns "{url}:{port}".
func (c Config) BaseURL() string {
	return c.URL + ":" + c.Port
}

// Endpoint returns "{url}:{port}/{path}".
func (c Config) Endpoint(path string) string {
	return c.BaseURL() + "/" + path
}

// CreateURL is the endpoint that starts generation.
func (c Config) CreateURL() string {
	return c.Endpoint(c.CreatePath)
}

// PathFor returns the configured resource path of an artifact kind.
func (c Config) PathFor(k Kind) string {
	switch k {
	case KindCGAN:
		return c.CGANPath
	case KindCVAE:
		return c.CVAEPath
	case KindFused:
		return c.FusedPath
	case KindMetrics:
		return c.PerformancePath
	}
	return ""
}

// Shows returns the visibility flag of an artifact kind.
func (c Config) Shows(k Kind) bool {
	switch k {
	case KindCGAN:
		return c.ShowCGAN
	case KindCVAE:
		return c.ShowCVAE
	case KindFused:
		return c.ShowFused
	case KindMetrics:
		return c.ShowPerformance
	}
	return false
}

// Partial is a sparse update. Nil fields are left untouched by Merge.
type Partial struct {
	URL             *string `json:"url,omitempty"`
	Port            *string `json:"port,omitempty"`
	CreatePath      *string `json:"createPath,omitempty"`
	CGANPath        *string `json:"cganPath,omitempty"`
	CVAEPath        *string `json:"cvaePath,omitempty"`
	FusedPath       *string `json:"fusedPath,omitempty"`
	PerformancePath *string `json:"performancePath,omitempty"`
	ShowCGAN        *bool   `json:"showCgan,omitempty"`
	ShowCVAE        *bool   `json:"showCvae,omitempty"`
	ShowFused       *bool   `json:"showFused,omitempty"`
	ShowPerformance *bool   `json:"showPerformance,omitempty"`
}

// Merge overlays p onto c field by field.
func (c Config) Merge(p Partial) Config {
	overlay(&c.URL, p.URL)
	overlay(&c.Port, p.Port)
	overlay(&c.CreatePath, p.CreatePath)
	overlay(&c.CGANPath, p.CGANPath)
	overlay(&c.CVAEPath, p.CVAEPath)
	overlay(&c.FusedPath, p.FusedPath)
	overlay(&c.PerformancePath, p.PerformancePath)
	overlay(&c.ShowCGAN, p.ShowCGAN)
	overlay(&c.ShowCVAE, p.ShowCVAE)
	overlay(&c.ShowFused, p.ShowFused)
	overlay(&c.ShowPerformance, p.ShowPerformance)
	return c
}

func overlay[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// IsEmpty reports whether p sets no field.
func (p Partial) IsEmpty() bool {
	return p == Partial{}
}

// Diff returns the fields of next that differ from prev.
func Diff(prev, next Config) Partial {
	var p Partial
	if prev.URL != next.URL {
		p.URL = &next.URL
	}
	if prev.Port != next.Port {
		p.Port = &next.Port
	}
	if prev.CreatePath != next.CreatePath {
		p.CreatePath = &next.CreatePath
	}
	if prev.CGANPath != next.CGANPath {
		p.CGANPath = &next.CGANPath
	}
	if prev.CVAEPath != next.CVAEPath {
		p.CVAEPath = &next.CVAEPath
	}
	if prev.FusedPath != next.FusedPath {
		p.FusedPath = &next.FusedPath
	}
	if prev.PerformancePath != next.PerformancePath {
		p.PerformancePath = &next.PerformancePath
	}
	if prev.ShowCGAN != next.ShowCGAN {
		p.ShowCGAN = &next.ShowCGAN
	}
	if prev.ShowCVAE != next.ShowCVAE {
		p.ShowCVAE = &next.ShowCVAE
	}
	if prev.ShowFused != next.ShowFused {
		p.ShowFused = &next.ShowFused
	}
	if prev.ShowPerformance != next.ShowPerformance {
		p.ShowPerformance = &next.ShowPerformance
	}
	return p
}

// Keys lists the assignable field names accepted by Partial.Set.
var Keys = []string{
	"url", "port", "createPath", "cganPath", "cvaePath", "fusedPath", "performancePath",
	"showCgan", "showCvae", "showFused", "showPerformance",
}

// Set assigns one field from its textual form. Keys match the JSON record
// and are case-insensitive.
func (p *Partial) Set(key, value string) error {
	str := func(dst **string) error {
		v := value
		*dst = &v
		return nil
	}
	flag := func(dst **bool) error {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: expected true or false, got %q", key, value)
		}
		*dst = &b
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "url":
		return str(&p.URL)
	case "port":
		return str(&p.Port)
	case "createpath":
		return str(&p.CreatePath)
	case "cganpath":
		return str(&p.CGANPath)
	case "cvaepath":
		return str(&p.CVAEPath)
	case "fusedpath":
		return str(&p.FusedPath)
	case "performancepath":
		return str(&p.PerformancePath)
	case "showcgan":
		return flag(&p.ShowCGAN)
	case "showcvae":
		return flag(&p.ShowCVAE)
	case "showfused":
		return flag(&p.ShowFused)
	case "showperformance":
		return flag(&p.ShowPerformance)
	}
	return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
}

// ParseAssignments builds a Partial from "key=value" arguments.
func ParseAssignments(args []string) (Partial, error) {
	var p Partial
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return Partial{}, fmt.Errorf("expected key=value, got %q", arg)
		}
		if err := p.Set(key, value); err != nil {
			return Partial{}, err
		}
	}
	return p, nil
}
