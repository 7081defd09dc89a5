//go:build wasip1

package log

import (
	"log/slog"

	"github.com/reglet-dev/numext/internal/abi"
)

// Implemented by the host module registered in package host.
//
//go:wasmimport numext_host log_message
func host_log_message(messagePacked uint64)

// sendToHost copies data into linear memory for the duration of the host call.
func sendToHost(data []byte) {
	packed := abi.PtrFromBytes(data)
	host_log_message(packed)
	abi.DeallocatePacked(packed)
}

// InstallHostHandler makes a HostHandler at level the default slog logger.
func InstallHostHandler(level slog.Leveler) *slog.Logger {
	logger := slog.New(NewHostHandler(level, sendToHost))
	slog.SetDefault(logger)
	return logger
}
