package predictor

import (
	"bytes"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

const (
	predictionField = "prediction"
	errorField      = "error"
)

// ParsePrediction extracts the prediction from model output. Diagnostic lines
// may precede the result, so the last non-empty line holding a JSON object
// with a numeric prediction wins. A result carrying a non-empty error is the
// model's own failure report and is rejected, even if it holds a prediction.
func ParsePrediction(out []byte) (float64, error) {
	lines := bytes.Split(out, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 || line[0] != '{' || !gjson.ValidBytes(line) {
			continue
		}
		if e := gjson.GetBytes(line, errorField); e.Exists() && e.String() != "" {
			return 0, fmt.Errorf("%w: model reported %q", ErrInvalidOutput, e.String())
		}
		v := gjson.GetBytes(line, predictionField)
		if v.Type != gjson.Number {
			continue
		}
		pred := v.Float()
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			continue
		}
		return pred, nil
	}
	return 0, fmt.Errorf("%w: no JSON object with a numeric %q in %d bytes", ErrInvalidOutput, predictionField, len(out))
}
