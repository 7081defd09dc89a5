package boundary

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/invopop/jsonschema"

	"github.com/reglet-dev/numext"
	"github.com/reglet-dev/numext/domain/entities"
	"github.com/reglet-dev/numext/mathlib"
)

// SymbolPrefix is prepended to every operation name to form its C symbol.
const SymbolPrefix = "numext_"

const releaseSymbol = SymbolPrefix + "free_fibonacci_result"

func op(name, desc, result string, params ...string) entities.OperationManifest {
	return entities.OperationManifest{
		Name:        name,
		Symbol:      SymbolPrefix + name,
		Description: desc,
		Params:      params,
		Result:      result,
	}
}

func withSentinels(m entities.OperationManifest, s ...entities.Sentinel) entities.OperationManifest {
	m.Sentinels = s
	return m
}

var catalog = []entities.OperationManifest{
	op("add", "saturating integer sum", "int64", "a:int64", "b:int64"),
	op("multiply", "floating point product", "float64", "a:float64", "b:float64"),
	withSentinels(
		op("factorial", "n! for n in [0, 20]", "int64", "n:int64"),
		entities.Sentinel{Condition: "n < 0", Value: "-1"},
		entities.Sentinel{Condition: "n > 20", Value: "-2"},
		entities.Sentinel{Condition: "internal error", Value: "-3"},
	),
	func() entities.OperationManifest {
		m := withSentinels(
			op("fibonacci", "first n Fibonacci numbers starting 0, 1", "sequence", "n:int64"),
			entities.Sentinel{Condition: "n < 0 or n > 100", Value: "null sequence"},
		)
		m.Release = releaseSymbol
		return m
	}(),
	op("free_fibonacci_result", "return a sequence obtained from fibonacci", "void", "sequence"),
	op("is_prime", "primality by trial division", "bool", "n:int64"),
	op("gcd", "greatest common divisor of |a| and |b|", "int64", "a:int64", "b:int64"),
	withSentinels(
		op("lcm", "least common multiple of |a| and |b|", "int64", "a:int64", "b:int64"),
		entities.Sentinel{Condition: "a == 0 or b == 0", Value: "0"},
	),
	withSentinels(
		op("power", "base raised to a non-negative exponent", "int64", "base:int64", "exp:int64"),
		entities.Sentinel{Condition: "exp < 0", Value: "-1"},
	),
	op("subtract", "saturating integer difference", "int64", "a:int64", "b:int64"),
	withSentinels(
		op("divide", "integer quotient truncated toward zero", "int64", "a:int64", "b:int64"),
		entities.Sentinel{Condition: "b == 0", Value: "0"},
	),
	withSentinels(
		op("modulo", "integer remainder", "int64", "a:int64", "b:int64"),
		entities.Sentinel{Condition: "b == 0", Value: "0"},
	),
	op("abs", "saturating absolute value", "int64", "n:int64"),
	op("min", "smaller of a and b", "int64", "a:int64", "b:int64"),
	op("max", "larger of a and b", "int64", "a:int64", "b:int64"),
	op("add_float", "floating point sum", "float64", "a:float64", "b:float64"),
	op("subtract_float", "floating point difference", "float64", "a:float64", "b:float64"),
	withSentinels(
		op("divide_float", "floating point quotient", "float64", "a:float64", "b:float64"),
		entities.Sentinel{Condition: "b == 0.0", Value: "0.0"},
	),
	op("abs_float", "floating point absolute value", "float64", "n:float64"),
	op("min_float", "smaller of a and b, ignoring NaN", "float64", "a:float64", "b:float64"),
	op("max_float", "larger of a and b, ignoring NaN", "float64", "a:float64", "b:float64"),
}

// Catalog returns every exported operation in export order.
func Catalog() []entities.OperationManifest {
	out := make([]entities.OperationManifest, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (entities.OperationManifest, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return entities.OperationManifest{}, false
}

// MatchOperations returns the catalog entries whose name matches any of the
// glob patterns. No patterns matches everything.
func MatchOperations(patterns ...string) ([]entities.OperationManifest, error) {
	if len(patterns) == 0 {
		return Catalog(), nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid operation pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	var out []entities.OperationManifest
	for _, m := range catalog {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, m.Name); ok {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

var sequenceSchema = sync.OnceValues(func() (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	return json.Marshal(r.Reflect(&entities.SequenceLayout{}))
})

// Manifest builds the manifest of the operations selected by the
// describe.include patterns of the configuration.
func (b *Boundary) Manifest() (entities.Manifest, error) {
	ops, err := MatchOperations(b.cfg.Describe.Include...)
	if err != nil {
		return entities.Manifest{}, err
	}
	schema, err := sequenceSchema()
	if err != nil {
		return entities.Manifest{}, fmt.Errorf("generating sequence schema: %w", err)
	}
	return entities.Manifest{
		Name:        numext.Name,
		Version:     numext.Version,
		ABIVersion:  numext.ABIVersion,
		Description: "integer and float arithmetic over a C ABI",
		Limits: entities.Limits{
			MaxFactorialInput: mathlib.MaxFactorialInput,
			MaxFibonacciTerms: MaxFibonacciTerms,
		},
		Operations:     ops,
		SequenceSchema: schema,
	}, nil
}

// Describe returns the manifest as JSON. Failures are logged and yield nil.
func (b *Boundary) Describe() []byte {
	return Guard(b, "describe", []byte(nil), func() []byte {
		m, err := b.Manifest()
		if err != nil {
			b.logger.Error("numext: describe failed", "error", err)
			return nil
		}
		data, err := json.Marshal(m)
		if err != nil {
			b.logger.Error("numext: describe failed", "error", err)
			return nil
		}
		return data
	})
}
