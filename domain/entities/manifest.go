package entities

import "encoding/json"

// Manifest describes the exported surface of the extension.
type Manifest struct {
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	ABIVersion  int                 `json:"abi_version"`
	Description string              `json:"description,omitempty"`
	Limits      Limits              `json:"limits"`
	Operations  []OperationManifest `json:"operations"`
	// SequenceSchema is the JSON schema of a released-by-caller sequence.
	SequenceSchema json.RawMessage `json:"sequence_schema,omitempty"`
}

// Limits are the input bounds enforced at the boundary.
type Limits struct {
	MaxFactorialInput int64 `json:"max_factorial_input"`
	MaxFibonacciTerms int64 `json:"max_fibonacci_terms"`
}

// OperationManifest describes a single boundary entry point.
type OperationManifest struct {
	Name        string     `json:"name"`
	Symbol      string     `json:"symbol"`
	Description string     `json:"description"`
	Params      []string   `json:"params"`
	Result      string     `json:"result"`
	Release     string     `json:"release,omitempty"`
	Sentinels   []Sentinel `json:"sentinels,omitempty"`
}

// Sentinel documents one reserved return value of a boundary function.
type Sentinel struct {
	Condition string `json:"condition"`
	Value     string `json:"value"`
}

// SequenceLayout mirrors the C numext_sequence struct for schema generation.
type SequenceLayout struct {
	Numbers []int64 `json:"numbers" jsonschema:"description=contiguous int64 values; null when length is 0"`
	Length  int32   `json:"length" jsonschema:"minimum=0,maximum=100"`
}
