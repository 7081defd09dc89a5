package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero/api"

	"github.com/reglet-dev/numext/boundary"
	"github.com/reglet-dev/numext/domain/entities"
	"github.com/reglet-dev/numext/host"
)

// evaluator runs catalog operations against one of the two boundaries.
type evaluator interface {
	Eval(ctx context.Context, op entities.OperationManifest, args []string) (string, error)
	Describe(ctx context.Context) (entities.Manifest, error)
	Close(ctx context.Context) error
}

type param struct {
	name string
	typ  string
}

func params(op entities.OperationManifest) []param {
	out := make([]param, 0, len(op.Params))
	for _, p := range op.Params {
		name, typ, _ := strings.Cut(p, ":")
		out = append(out, param{name: name, typ: typ})
	}
	return out
}

// callable reports whether the CLI can invoke op directly. The release
// entry point takes a sequence and is driven by fibonacci itself.
func callable(op entities.OperationManifest) bool {
	return op.Result != "void"
}

func parseInts(op entities.OperationManifest, args []string) ([]int64, error) {
	ps := params(op)
	if len(args) != len(ps) {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", op.Name, len(ps), len(args))
	}
	out := make([]int64, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %s: %w", op.Name, ps[i].name, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(op entities.OperationManifest, args []string) ([]float64, error) {
	ps := params(op)
	if len(args) != len(ps) {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", op.Name, len(ps), len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %s: %w", op.Name, ps[i].name, err)
		}
		out[i] = v
	}
	return out, nil
}

func isFloatOp(op entities.OperationManifest) bool {
	return op.Result == "float64"
}

func formatSequence(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// nativeEvaluator calls the boundary in-process.
type nativeEvaluator struct {
	b *boundary.Boundary
}

func (e *nativeEvaluator) Eval(_ context.Context, op entities.OperationManifest, args []string) (string, error) {
	if !callable(op) {
		return "", fmt.Errorf("%s cannot be called directly", op.Name)
	}
	if isFloatOp(op) {
		return e.evalFloat(op, args)
	}

	xs, err := parseInts(op, args)
	if err != nil {
		return "", err
	}
	b := e.b
	switch op.Name {
	case "fibonacci":
		seq := b.Fibonacci(xs[0])
		values := append([]int64(nil), seq.Values()...)
		b.ReleaseFibonacci(seq)
		return formatSequence(values), nil
	case "is_prime":
		return strconv.FormatBool(b.IsPrime(xs[0])), nil
	case "factorial":
		return strconv.FormatInt(b.Factorial(xs[0]), 10), nil
	case "abs":
		return strconv.FormatInt(b.Abs(xs[0]), 10), nil
	}

	fns := map[string]func(x, y int64) int64{
		"add":      b.Add,
		"gcd":      b.GCD,
		"lcm":      b.LCM,
		"power":    b.Power,
		"subtract": b.Subtract,
		"divide":   b.Divide,
		"modulo":   b.Modulo,
		"min":      b.Min,
		"max":      b.Max,
	}
	fn, ok := fns[op.Name]
	if !ok {
		return "", fmt.Errorf("unknown operation %q", op.Name)
	}
	return strconv.FormatInt(fn(xs[0], xs[1]), 10), nil
}

func (e *nativeEvaluator) evalFloat(op entities.OperationManifest, args []string) (string, error) {
	xs, err := parseFloats(op, args)
	if err != nil {
		return "", err
	}
	b := e.b
	if op.Name == "abs_float" {
		return formatFloat(b.AbsFloat(xs[0])), nil
	}
	fns := map[string]func(x, y float64) float64{
		"multiply":       b.Multiply,
		"add_float":      b.AddFloat,
		"subtract_float": b.SubtractFloat,
		"divide_float":   b.DivideFloat,
		"min_float":      b.MinFloat,
		"max_float":      b.MaxFloat,
	}
	fn, ok := fns[op.Name]
	if !ok {
		return "", fmt.Errorf("unknown operation %q", op.Name)
	}
	return formatFloat(fn(xs[0], xs[1])), nil
}

func (e *nativeEvaluator) Describe(context.Context) (entities.Manifest, error) {
	return e.b.Manifest()
}

func (e *nativeEvaluator) Close(context.Context) error {
	e.b.Close()
	return nil
}

// wasmEvaluator calls the exports of a loaded wasm module.
type wasmEvaluator struct {
	rt *host.Runtime
}

func (e *wasmEvaluator) Eval(ctx context.Context, op entities.OperationManifest, args []string) (string, error) {
	if !callable(op) {
		return "", fmt.Errorf("%s cannot be called directly", op.Name)
	}

	if isFloatOp(op) {
		xs, err := parseFloats(op, args)
		if err != nil {
			return "", err
		}
		raw := make([]uint64, len(xs))
		for i, x := range xs {
			raw[i] = api.EncodeF64(x)
		}
		v, err := e.rt.CallScalar(ctx, op.Symbol, raw...)
		if err != nil {
			return "", err
		}
		return formatFloat(api.DecodeF64(v)), nil
	}

	xs, err := parseInts(op, args)
	if err != nil {
		return "", err
	}
	switch op.Name {
	case "fibonacci":
		values, err := e.rt.Fibonacci(ctx, xs[0])
		if err != nil {
			return "", err
		}
		return formatSequence(values), nil
	case "factorial":
		v, err := e.rt.Factorial(ctx, xs[0])
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(v, 10), nil
	case "power":
		v, err := e.rt.Power(ctx, xs[0], xs[1])
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(v, 10), nil
	case "is_prime":
		v, err := e.rt.IsPrime(ctx, xs[0])
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(v), nil
	}

	raw := make([]uint64, len(xs))
	for i, x := range xs {
		raw[i] = api.EncodeI64(x)
	}
	v, err := e.rt.CallScalar(ctx, op.Symbol, raw...)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(v), 10), nil
}

func (e *wasmEvaluator) Describe(ctx context.Context) (entities.Manifest, error) {
	return e.rt.Describe(ctx)
}

func (e *wasmEvaluator) Close(ctx context.Context) error {
	return e.rt.Close(ctx)
}
