package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/numext/boundary"
	"github.com/reglet-dev/numext/config"
	"github.com/reglet-dev/numext/internal/abi"
)

func newNative() *nativeEvaluator {
	return &nativeEvaluator{b: boundary.New(abi.NewLedger(abi.NewHeapAllocator()),
		boundary.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)}
}

func eval(t *testing.T, ev evaluator, name string, args ...string) (string, error) {
	t.Helper()
	op, ok := boundary.Lookup(name)
	require.True(t, ok, "operation %s", name)
	return ev.Eval(context.Background(), op, args)
}

func TestNativeEvaluator(t *testing.T) {
	ev := newNative()
	tests := []struct {
		op   string
		args []string
		want string
	}{
		{"add", []string{"5", "3"}, "8"},
		{"factorial", []string{"5"}, "120"},
		{"factorial", []string{"-1"}, "-1"},
		{"factorial", []string{"25"}, "-2"},
		{"fibonacci", []string{"5"}, "[0, 1, 1, 2, 3]"},
		{"fibonacci", []string{"0"}, "[]"},
		{"fibonacci", []string{"101"}, "[]"},
		{"is_prime", []string{"11"}, "true"},
		{"is_prime", []string{"1"}, "false"},
		{"gcd", []string{"12", "18"}, "6"},
		{"lcm", []string{"12", "18"}, "36"},
		{"power", []string{"2", "10"}, "1024"},
		{"power", []string{"2", "-1"}, "-1"},
		{"divide", []string{"7", "0"}, "0"},
		{"modulo", []string{"7", "0"}, "0"},
		{"abs", []string{"-4"}, "4"},
		{"multiply", []string{"2.5", "4"}, "10"},
		{"divide_float", []string{"1", "0"}, "0"},
		{"abs_float", []string{"-0.5"}, "0.5"},
		{"max_float", []string{"1.5", "2"}, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, err := eval(t, ev, tt.op, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Zero(t, ev.b.Outstanding())
}

func TestNativeEvaluator_BadArguments(t *testing.T) {
	ev := newNative()

	_, err := eval(t, ev, "add", "5")
	assert.ErrorContains(t, err, "takes 2 argument(s)")

	_, err = eval(t, ev, "gcd", "12", "x")
	assert.ErrorContains(t, err, "argument b")

	_, err = eval(t, ev, "free_fibonacci_result", "1")
	assert.ErrorContains(t, err, "cannot be called directly")
}

func TestNativeEvaluator_Describe(t *testing.T) {
	m, err := newNative().Describe(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Operations, len(boundary.Catalog()))
}

func TestPrintOperations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printOperations(&buf, []string{"fib*"}, false))
	assert.Equal(t,
		"fibonacci(n: int64) -> sequence  [n < 0 or n > 100 => null sequence; release with numext_free_fibonacci_result]\n",
		buf.String())

	buf.Reset()
	require.NoError(t, printOperations(&buf, nil, false))
	assert.Equal(t, len(boundary.Catalog()), bytes.Count(buf.Bytes(), []byte("\n")))

	assert.Error(t, printOperations(&buf, []string{"nothing*"}, false))
	assert.Error(t, printOperations(&buf, []string{"fib["}, false))
}

func TestRun(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, run("", "", false, false, false, []string{"lcm", "4", "6"}, &buf))
	assert.Equal(t, "12\n", buf.String())

	buf.Reset()
	require.NoError(t, run("", "", false, true, false, nil, &buf))
	assert.Contains(t, buf.String(), `"abi_version": 1`)

	assert.Error(t, run("", "", false, false, false, []string{"sqrt", "4"}, &buf))
}

func TestRun_ConfigFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "numext.yaml")
	require.NoError(t, os.WriteFile(path, []byte("describe:\n  include: [\"is_prime\"]\n"), 0o600))

	var buf bytes.Buffer
	require.NoError(t, run(path, "", false, true, false, nil, &buf))
	assert.Contains(t, buf.String(), `"name": "is_prime"`)
	assert.NotContains(t, buf.String(), `"name": "fibonacci"`)

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))
	assert.Error(t, run(path, "", false, false, false, []string{"add", "1", "2"}, &buf))
}
