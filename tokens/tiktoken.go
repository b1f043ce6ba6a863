package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used for models tiktoken does not recognize.
const DefaultEncoding = "cl100k_base"

// encoders caches one encoder per model. A nil entry records a failed load so
// offline processes do not retry the BPE download on every call.
var (
	encodersMu sync.Mutex
	encoders   = make(map[string]*tiktoken.Tiktoken)
)

// TiktokenCounter counts tokens with the model's BPE encoding and falls back
// to an EstimatingCounter when the encoding cannot be loaded.
type TiktokenCounter struct {
	model    string
	fallback Counter
}

// NewTiktokenCounter creates a counter for model. Encodings load lazily on
// the first Count call.
func NewTiktokenCounter(model string) *TiktokenCounter {
	return &TiktokenCounter{
		model:    model,
		fallback: NewEstimatingCounter(),
	}
}

// Model returns the model whose encoding is used.
func (c *TiktokenCounter) Model() string {
	return c.model
}

// Count returns the exact token count, or the chars/4 estimate when the
// tokenizer is unavailable.
func (c *TiktokenCounter) Count(text string) (n int) {
	if text == "" {
		return 0
	}
	enc := encoderFor(c.model)
	if enc == nil {
		return c.fallback.Count(text)
	}
	defer func() {
		if recover() != nil {
			n = c.fallback.Count(text)
		}
	}()
	return len(enc.Encode(text, nil, nil))
}

func encoderFor(model string) *tiktoken.Tiktoken {
	encodersMu.Lock()
	defer encodersMu.Unlock()

	if enc, ok := encoders[model]; ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(DefaultEncoding)
	}
	if err != nil {
		enc = nil
	}
	encoders[model] = enc
	return enc
}

// ForModel returns a Counter for model. It is the default factory used by
// components that price requests per model.
func ForModel(model string) Counter {
	return NewTiktokenCounter(model)
}

// EstimatorFactory ignores the model and always estimates. Useful offline
// and in tests.
func EstimatorFactory(string) Counter {
	return NewEstimatingCounter()
}
