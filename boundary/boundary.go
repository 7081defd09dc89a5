// Package boundary translates the computation library into the flat,
// sentinel-based surface exported over the C ABI.
//
// Every exported operation runs inside Guard, so a panic never crosses the
// foreign boundary; it is logged and mapped to the operation's fallback
// value. Sequences are handed to the caller through an abi.Ledger and must be
// released exactly once with ReleaseFibonacci.
package boundary

import (
	"errors"
	"log/slog"
	"os"

	"github.com/reglet-dev/numext"
	"github.com/reglet-dev/numext/config"
	"github.com/reglet-dev/numext/internal/abi"
)

// MaxFibonacciTerms is the largest sequence length the boundary will produce.
const MaxFibonacciTerms = 100

// AbortExitCode is the status used by the default fatal handler, matching
// the status of a process terminated by SIGABRT.
const AbortExitCode = 134

// FatalHandler is invoked for ownership violations under the abort release
// policy. It is not expected to return.
type FatalHandler func(err error)

// Boundary owns the ledger, logger and configuration behind the exports.
type Boundary struct {
	ledger  *abi.Ledger
	cfg     config.Config
	logger  *slog.Logger
	fatal   FatalHandler
	onPanic func()
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithConfig sets the configuration. Defaults to config.Default().
func WithConfig(cfg config.Config) Option {
	return func(b *Boundary) {
		b.cfg = cfg
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Boundary) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithFatalHandler replaces the handler called on fatal ownership errors.
func WithFatalHandler(h FatalHandler) Option {
	return func(b *Boundary) {
		if h != nil {
			b.fatal = h
		}
	}
}

// WithPanicHook registers a function run after a panic is recovered.
// The wasm guest uses it to drop byte buffers that were mid-flight.
func WithPanicHook(fn func()) Option {
	return func(b *Boundary) {
		b.onPanic = fn
	}
}

// New returns a Boundary producing sequences through ledger.
func New(ledger *abi.Ledger, opts ...Option) *Boundary {
	b := &Boundary{
		ledger: ledger,
		cfg:    config.Default(),
		logger: slog.Default(),
		fatal:  exitFatal,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration in effect.
func (b *Boundary) Config() config.Config {
	return b.cfg
}

// Outstanding returns the number of sequences not yet released by the caller.
func (b *Boundary) Outstanding() int {
	return b.ledger.Outstanding()
}

// Close frees every sequence still held by the caller and returns how many
// there were. Pointers held by the caller become invalid.
func (b *Boundary) Close() int {
	n := b.ledger.FreeAll()
	if n > 0 {
		b.logger.Warn("numext: freeing unreleased sequences on close", "count", n)
	}
	return n
}

// misuse applies the release policy to an ownership error.
func (b *Boundary) misuse(err error) {
	detail := numext.ToErrorDetail(err)
	b.logger.Error("numext: sequence ownership violated",
		"error", detail.Message,
		"code", detail.Code,
		"policy", b.cfg.ReleasePolicy,
	)

	var ownErr *numext.OwnershipError
	if b.cfg.AbortOnMisuse() && errors.As(err, &ownErr) && ownErr.Fatal() {
		b.fatal(err)
	}
}

func exitFatal(err error) {
	os.Stderr.WriteString("numext: fatal: " + err.Error() + "\n")
	os.Exit(AbortExitCode)
}
