package host

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reglet-dev/numext/internal/abi"
	numextlog "github.com/reglet-dev/numext/log"
)

// HostModuleName is the import module the guest resolves log_message from.
const HostModuleName = "numext_host"

// logMessage implements numext_host.log_message(packed uint64). The guest
// keeps ownership of the buffer and frees it after the call returns.
func (r *Runtime) logMessage(_ context.Context, mod api.Module, stack []uint64) {
	ptr, length, err := abi.SplitPtrLen(stack[0])
	if err != nil {
		r.logger.Warn("guest log: invalid message pointer", zap.Error(err))
		return
	}
	data, err := readBytes(mod.Memory(), ptr, length)
	if err != nil {
		r.logger.Warn("guest log: unreadable message", zap.Error(err))
		return
	}
	emitGuestLog(r.logger, data)
}

// emitGuestLog re-emits a serialised guest record through logger.
func emitGuestLog(logger *zap.Logger, data []byte) {
	var msg numextlog.LogMessageWire
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("guest log: malformed message", zap.Error(err), zap.ByteString("raw", data))
		return
	}

	ce := logger.Check(zapLevel(msg.SlogLevel()), msg.Message)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, len(msg.Attrs)+1)
	if !msg.Timestamp.IsZero() {
		fields = append(fields, zap.Time("guest_time", msg.Timestamp))
	}
	for _, a := range msg.Attrs {
		fields = append(fields, attrField(a))
	}
	ce.Write(fields...)
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l < slog.LevelInfo:
		return zapcore.DebugLevel
	case l < slog.LevelWarn:
		return zapcore.InfoLevel
	case l < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func attrField(a numextlog.LogAttrWire) zap.Field {
	switch a.Type {
	case "int64":
		if v, err := strconv.ParseInt(a.Value, 10, 64); err == nil {
			return zap.Int64(a.Key, v)
		}
	case "uint64":
		if v, err := strconv.ParseUint(a.Value, 10, 64); err == nil {
			return zap.Uint64(a.Key, v)
		}
	case "bool":
		if v, err := strconv.ParseBool(a.Value); err == nil {
			return zap.Bool(a.Key, v)
		}
	case "float64":
		if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
			return zap.Float64(a.Key, v)
		}
	case "json":
		return zap.Any(a.Key, json.RawMessage(a.Value))
	}
	return zap.String(a.Key, a.Value)
}
