package boundary_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/numext"
	"github.com/reglet-dev/numext/boundary"
	"github.com/reglet-dev/numext/config"
	"github.com/reglet-dev/numext/domain/entities"
	"github.com/reglet-dev/numext/internal/abi"
)

func names(ops []entities.OperationManifest) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Name
	}
	return out
}

func TestCatalog(t *testing.T) {
	ops := boundary.Catalog()
	require.Len(t, ops, 21)

	seen := map[string]bool{}
	for _, op := range ops {
		assert.False(t, seen[op.Symbol], "duplicate symbol %s", op.Symbol)
		seen[op.Symbol] = true
		assert.True(t, strings.HasPrefix(op.Symbol, boundary.SymbolPrefix))
		assert.Equal(t, boundary.SymbolPrefix+op.Name, op.Symbol)
		assert.NotEmpty(t, op.Description)
	}

	fib, ok := boundary.Lookup("fibonacci")
	require.True(t, ok)
	assert.Equal(t, "numext_free_fibonacci_result", fib.Release)
	assert.True(t, seen[fib.Release])

	_, ok = boundary.Lookup("sqrt")
	assert.False(t, ok)
}

func TestCatalogIsACopy(t *testing.T) {
	ops := boundary.Catalog()
	ops[0].Name = "changed"
	assert.Equal(t, "add", boundary.Catalog()[0].Name)
}

func TestMatchOperations(t *testing.T) {
	tests := []struct {
		patterns []string
		want     []string
	}{
		{[]string{"fib*"}, []string{"fibonacci"}},
		{[]string{"*_float"}, []string{"add_float", "subtract_float", "divide_float", "abs_float", "min_float", "max_float"}},
		{[]string{"gcd", "lcm"}, []string{"gcd", "lcm"}},
		{[]string{"m{in,ax}"}, []string{"min", "max"}},
		{[]string{"sqrt"}, nil},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.patterns, ","), func(t *testing.T) {
			ops, err := boundary.MatchOperations(tt.patterns...)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, ops)
				return
			}
			assert.Equal(t, tt.want, names(ops))
		})
	}

	all, err := boundary.MatchOperations()
	require.NoError(t, err)
	assert.Len(t, all, len(boundary.Catalog()))

	_, err = boundary.MatchOperations("fib[")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	b := boundary.New(abi.NewLedger(abi.NewHeapAllocator()),
		boundary.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	data := b.Describe()
	require.NotNil(t, data)

	var m entities.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, numext.Name, m.Name)
	assert.Equal(t, numext.Version, m.Version)
	assert.Equal(t, numext.ABIVersion, m.ABIVersion)
	assert.Equal(t, int64(20), m.Limits.MaxFactorialInput)
	assert.Equal(t, int64(boundary.MaxFibonacciTerms), m.Limits.MaxFibonacciTerms)
	assert.Len(t, m.Operations, len(boundary.Catalog()))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(m.SequenceSchema, &schema))
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "numbers")
	assert.Contains(t, props, "length")
}

func TestDescribe_Include(t *testing.T) {
	cfg := config.Default()
	cfg.Describe.Include = []string{"fib*", "free_*"}
	b := boundary.New(abi.NewLedger(abi.NewHeapAllocator()),
		boundary.WithConfig(cfg),
		boundary.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	m, err := b.Manifest()
	require.NoError(t, err)
	assert.Equal(t, []string{"fibonacci", "free_fibonacci_result"}, names(m.Operations))

	cfg.Describe.Include = []string{"["}
	b = boundary.New(abi.NewLedger(abi.NewHeapAllocator()),
		boundary.WithConfig(cfg),
		boundary.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	assert.Nil(t, b.Describe())
}
