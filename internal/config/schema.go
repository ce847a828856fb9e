package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"
)

// recordSchema accepts older records that lack some fields; Load overlays
// whatever is present onto the defaults. A field of the wrong type, a port
// that is not a number, a url without an http(s) scheme or a path with
// whitespace rejects the whole record.
const recordSchema = `{
	"type": "object",
	"properties": {
		"url":             {"type": "string", "pattern": "^https?://[^\\s/]+$"},
		"port":            {"type": "string", "pattern": "^[0-9]{1,5}$"},
		"createPath":      {"type": "string", "pattern": "^[^\\s]*$"},
		"cganPath":        {"type": "string", "pattern": "^[^\\s]*$"},
		"cvaePath":        {"type": "string", "pattern": "^[^\\s]*$"},
		"fusedPath":       {"type": "string", "pattern": "^[^\\s]*$"},
		"performancePath": {"type": "string", "pattern": "^[^\\s]*$"},
		"showCgan":        {"type": "boolean"},
		"showCvae":        {"type": "boolean"},
		"showFused":       {"type": "boolean"},
		"showPerformance": {"type": "boolean"}
	}
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		schema, schemaErr = compiler.Compile([]byte(recordSchema))
	})
	return schema, schemaErr
}

// ErrInvalid wraps every schema violation.
var ErrInvalid = errors.New("invalid config record")

func validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalid)
	}
	if result := s.ValidateJSON(data); !result.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalid, result.Errors)
	}
	return nil
}

// Validate checks c against the record schema.
func Validate(c Config) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return validate(data)
}

// Decode parses a persisted record. Fields absent from data keep their
// default values; any parse or type error is returned and the caller
// should fall back to Defaults.
func Decode(data []byte) (Config, error) {
	if err := validate(data); err != nil {
		return Config{}, err
	}

	var p Partial
	if err := json.Unmarshal(data, &p); err != nil {
		return Config{}, fmt.Errorf("decode config record: %w", err)
	}
	return Defaults().Merge(p), nil
}

// Encode serializes a record in its persisted shape.
func Encode(c Config) ([]byte, error) {
	return json.Marshal(c)
}

// Fingerprint returns the sha256 of the RFC 8785 canonical form of c.
// Two records with equal fingerprints are field-for-field identical. It
// identifies a record in logs and in sgctl output without printing it.
func Fingerprint(c Config) string {
	raw, err := Encode(c)
	if err != nil {
		return ""
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
