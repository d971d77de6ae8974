package output

import (
	"encoding/json"

	"github.com/factlens/factlens/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatResult renders a verification result as JSON.
func (f *JSONFormatter) FormatResult(result *core.VerificationResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.marshal(result)
}

// FormatHistory renders a result list as a JSON array.
func (f *JSONFormatter) FormatHistory(results []core.VerificationResult) (string, error) {
	if results == nil {
		results = []core.VerificationResult{}
	}
	return f.marshal(results)
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
