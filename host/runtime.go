// Package host loads the numext wasm module with wazero and drives the
// sequence ownership protocol from the caller's side.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/reglet-dev/numext"
	"github.com/reglet-dev/numext/domain/entities"
	"github.com/reglet-dev/numext/internal/abi"
)

// ErrExportNotFound is returned when the module does not export a function.
var ErrExportNotFound = errors.New("export not found")

// Runtime is a loaded numext wasm module. Calls are serialised; a wasm
// instance cannot run two calls at once.
type Runtime struct {
	rt     wazero.Runtime
	mod    api.Module
	logger *zap.Logger
	mu     sync.Mutex
}

// New compiles and instantiates wasm. The module is initialised as a
// reactor: its _initialize export runs once, then exports may be called.
func New(ctx context.Context, wasm []byte, opts ...Option) (*Runtime, error) {
	cfg := defaultRuntimeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}

	rtCfg := wazero.NewRuntimeConfig()
	if cfg.memoryLimitPages > 0 {
		rtCfg = rtCfg.WithMemoryLimitPages(cfg.memoryLimitPages)
	}
	r := &Runtime{
		rt:     wazero.NewRuntimeWithConfig(ctx, rtCfg),
		logger: cfg.logger.With(zap.String("module", cfg.moduleName)),
	}

	if err := r.instantiate(ctx, wasm, cfg); err != nil {
		_ = r.rt.Close(ctx)
		return nil, err
	}
	r.logger.Debug("module ready")
	return r, nil
}

func (r *Runtime) instantiate(ctx context.Context, wasm []byte, cfg runtimeConfig) error {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.rt); err != nil {
		return &numext.ModuleError{Phase: numext.PhaseInstantiate, Export: "wasi_snapshot_preview1", Err: err}
	}

	_, err := r.rt.NewHostModuleBuilder(HostModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.logMessage), []api.ValueType{api.ValueTypeI64}, nil).
		WithParameterNames("message").
		Export("log_message").
		Instantiate(ctx)
	if err != nil {
		return &numext.ModuleError{Phase: numext.PhaseInstantiate, Export: HostModuleName, Err: err}
	}

	compiled, err := r.rt.CompileModule(ctx, wasm)
	if err != nil {
		return &numext.ModuleError{Phase: numext.PhaseCompile, Err: err}
	}

	modCfg := wazero.NewModuleConfig().
		WithName(cfg.moduleName).
		WithStartFunctions("_initialize")
	if cfg.stdout != nil {
		modCfg = modCfg.WithStdout(cfg.stdout)
	}
	if cfg.stderr != nil {
		modCfg = modCfg.WithStderr(cfg.stderr)
	}

	mod, err := r.rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return &numext.ModuleError{Phase: numext.PhaseInstantiate, Err: err}
	}
	r.mod = mod
	return nil
}

// Close releases the module and the wazero runtime.
func (r *Runtime) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}

// Call invokes an exported function with raw wasm values.
func (r *Runtime) Call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callLocked(ctx, export, params...)
}

func (r *Runtime) callLocked(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	fn := r.mod.ExportedFunction(export)
	if fn == nil {
		return nil, &numext.ModuleError{Phase: numext.PhaseCall, Export: export, Err: ErrExportNotFound}
	}
	res, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, &numext.ModuleError{Phase: numext.PhaseCall, Export: export, Err: err}
	}
	return res, nil
}

// CallScalar invokes an export that returns exactly one value. Any other
// result count is a *numext.ModuleError.
func (r *Runtime) CallScalar(ctx context.Context, export string, params ...uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scalarLocked(ctx, export, params...)
}

func (r *Runtime) scalarLocked(ctx context.Context, export string, params ...uint64) (uint64, error) {
	res, err := r.callLocked(ctx, export, params...)
	if err != nil {
		return 0, err
	}
	return singleResult(export, res)
}

func singleResult(export string, res []uint64) (uint64, error) {
	if len(res) != 1 {
		return 0, &numext.ModuleError{Phase: numext.PhaseCall, Export: export, Err: fmt.Errorf("expected 1 result, got %d", len(res))}
	}
	return res[0], nil
}

func (r *Runtime) callI64(ctx context.Context, export string, params ...uint64) (int64, error) {
	v, err := r.CallScalar(ctx, export, params...)
	return int64(v), err
}

// Add returns the saturating sum of a and b.
func (r *Runtime) Add(ctx context.Context, a, b int64) (int64, error) {
	return r.callI64(ctx, "numext_add", api.EncodeI64(a), api.EncodeI64(b))
}

// Multiply returns the float product of a and b.
func (r *Runtime) Multiply(ctx context.Context, a, b float64) (float64, error) {
	v, err := r.CallScalar(ctx, "numext_multiply", api.EncodeF64(a), api.EncodeF64(b))
	if err != nil {
		return 0, err
	}
	return api.DecodeF64(v), nil
}

// Factorial returns n!. Reserved return values are converted to a
// *numext.ComputeError.
func (r *Runtime) Factorial(ctx context.Context, n int64) (int64, error) {
	v, err := r.callI64(ctx, "numext_factorial", api.EncodeI64(n))
	if err != nil {
		return 0, err
	}
	var kind entities.ErrorKind
	switch v {
	case -1:
		kind = entities.NegativeNumber
	case -2:
		kind = entities.Overflow
	case -3:
		kind = entities.InvalidParameter
	default:
		return v, nil
	}
	return 0, &numext.ComputeError{Op: "factorial", Kind: kind, Input: []int64{n}}
}

// Power returns base**exp, or a *numext.ComputeError for a negative exponent.
func (r *Runtime) Power(ctx context.Context, base, exp int64) (int64, error) {
	v, err := r.callI64(ctx, "numext_power", api.EncodeI64(base), api.EncodeI64(exp))
	if err != nil {
		return 0, err
	}
	// -1 is also a legitimate power of -1, so only the exponent decides.
	if exp < 0 {
		return 0, &numext.ComputeError{Op: "power", Kind: entities.InvalidParameter, Input: []int64{base, exp}}
	}
	return v, nil
}

// IsPrime reports whether n is prime.
func (r *Runtime) IsPrime(ctx context.Context, n int64) (bool, error) {
	v, err := r.CallScalar(ctx, "numext_is_prime", api.EncodeI64(n))
	if err != nil {
		return false, err
	}
	return api.DecodeI32(v) != 0, nil
}

func (r *Runtime) GCD(ctx context.Context, a, b int64) (int64, error) {
	return r.callI64(ctx, "numext_gcd", api.EncodeI64(a), api.EncodeI64(b))
}

func (r *Runtime) LCM(ctx context.Context, a, b int64) (int64, error) {
	return r.callI64(ctx, "numext_lcm", api.EncodeI64(a), api.EncodeI64(b))
}

// Outstanding returns the number of sequences the guest has handed out and
// not had released.
func (r *Runtime) Outstanding(ctx context.Context) (int64, error) {
	return r.callI64(ctx, "numext_outstanding")
}

// Fibonacci returns the first n Fibonacci numbers. The guest sequence is
// copied out and released before returning, so the caller never holds guest
// memory. n outside [0, 100] is a *numext.ComputeError.
func (r *Runtime) Fibonacci(ctx context.Context, n int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	packed, err := r.scalarLocked(ctx, "numext_fibonacci", api.EncodeI64(n))
	if err != nil {
		return nil, err
	}
	ptr, length, err := abi.SplitPtrLen(packed)
	if err != nil {
		return nil, &numext.ModuleError{Phase: numext.PhaseMemory, Export: "numext_fibonacci", Err: err}
	}
	if ptr == 0 {
		if n < 0 || n > 100 {
			return nil, &numext.ComputeError{Op: "fibonacci", Kind: entities.InvalidParameter, Input: []int64{n}}
		}
		return []int64{}, nil
	}

	values, readErr := readSequence(r.mod.Memory(), ptr, length)
	// Release even when the copy failed; the guest still owns the allocation.
	if _, err := r.callLocked(ctx, "numext_free_fibonacci_result", api.EncodeU32(ptr), api.EncodeU32(length)); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, &numext.ModuleError{Phase: numext.PhaseMemory, Export: "numext_fibonacci", Err: readErr}
	}
	r.logger.Debug("fibonacci sequence copied and released", zap.Uint32("ptr", ptr), zap.Uint32("length", length))
	return values, nil
}

// Describe returns the manifest published by the module.
func (r *Runtime) Describe(ctx context.Context) (entities.Manifest, error) {
	var m entities.Manifest
	data, err := r.describeBytes(ctx)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decoding manifest: %w", err)
	}
	return m, nil
}

func (r *Runtime) describeBytes(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	packed, err := r.scalarLocked(ctx, "numext_describe")
	if err != nil {
		return nil, err
	}
	ptr, length, err := abi.SplitPtrLen(packed)
	if err != nil {
		return nil, &numext.ModuleError{Phase: numext.PhaseMemory, Export: "numext_describe", Err: err}
	}
	if ptr == 0 {
		return nil, &numext.ModuleError{Phase: numext.PhaseCall, Export: "numext_describe", Err: errors.New("module returned no manifest")}
	}

	data, readErr := readBytes(r.mod.Memory(), ptr, length)
	if _, err := r.callLocked(ctx, "deallocate", api.EncodeU32(ptr), api.EncodeU32(length)); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, &numext.ModuleError{Phase: numext.PhaseMemory, Export: "numext_describe", Err: readErr}
	}
	return data, nil
}
