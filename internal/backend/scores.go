package backend

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/abelbrown/signgen/internal/metrics"
)

const scoresSchema = `{
	"type": "object",
	"required": ["CVAE_SSIM", "CGAN_Diversity", "FUSED_SSIM", "FUSED_Diversity"],
	"properties": {
		"CVAE_SSIM":       {"type": "number"},
		"CGAN_Diversity":  {"type": "number"},
		"FUSED_SSIM":      {"type": "number"},
		"FUSED_Diversity": {"type": "number"}
	}
}`

var (
	scoresOnce      sync.Once
	scoresValidator *jsonschema.Schema
	scoresErr       error
)

func decodeScores(raw []byte) (metrics.Scores, error) {
	scoresOnce.Do(func() {
		scoresValidator, scoresErr = jsonschema.NewCompiler().Compile([]byte(scoresSchema))
	})
	if scoresErr != nil {
		return metrics.Scores{}, fmt.Errorf("compile scores schema: %w", scoresErr)
	}

	if !json.Valid(raw) {
		return metrics.Scores{}, fmt.Errorf("metrics payload is not JSON")
	}
	if result := scoresValidator.ValidateJSON(raw); !result.IsValid() {
		return metrics.Scores{}, fmt.Errorf("metrics payload failed validation: %v", result.Errors)
	}

	var s metrics.Scores
	if err := json.Unmarshal(raw, &s); err != nil {
		return metrics.Scores{}, fmt.Errorf("decode metrics: %w", err)
	}
	return s, nil
}
