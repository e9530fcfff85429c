package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedOutput marks model output that does not match the expected schema.
var ErrMalformedOutput = errors.New("malformed model output")

var outputValidator = validator.New()

// DecodeJSON extracts the JSON object from a model response, unmarshals it
// into v and validates v's struct tags. Code fences and surrounding prose are
// tolerated. Any failure wraps ErrMalformedOutput.
func DecodeJSON(response string, v any) error {
	content := ExtractJSON(response)
	if content == "" {
		return fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	}

	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if err := outputValidator.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// ExtractJSON isolates the outermost JSON object in a response.
func ExtractJSON(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return cleaned[startIdx : endIdx+1]
}
