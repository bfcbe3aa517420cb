// Package yamlutil is the single entry point to the YAML library, used for
// config files and the config command's output.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds decoded documents; config files are a few KB.
const MaxInputSize = 1 << 20

// Sentinel errors for decoding.
var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// SyntaxError is a decoding failure with the offending source lines.
type SyntaxError struct {
	Detail string // position and excerpt, uncolored
	err    error
}

func (e *SyntaxError) Error() string { return "yamlutil: " + e.Detail }

func (e *SyntaxError) Unwrap() error { return e.err }

// UnmarshalStrict decodes data into v, rejecting unknown fields.
// Fields of v absent from data keep their current value.
func UnmarshalStrict(data []byte, v any) error {
	return unmarshalStrict(data, v, MaxInputSize)
}

func unmarshalStrict(data []byte, v any, limit int) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > limit:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), limit)
	case v == nil:
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return &SyntaxError{Detail: yaml.FormatError(err, false, true), err: err}
	}
	return nil
}

// Marshal encodes v with indented sequences; multi-line strings such as
// image prompts use literal blocks.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v,
		yaml.IndentSequence(true),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
