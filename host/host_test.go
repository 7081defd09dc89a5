package host

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reglet-dev/numext"
	numextlog "github.com/reglet-dev/numext/log"
)

type fakeMemory []byte

func (m fakeMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(byteCount)
	if end > uint64(len(m)) {
		return nil, false
	}
	return m[offset:end], true
}

func TestReadSequence(t *testing.T) {
	mem := make(fakeMemory, 64)
	want := []int64{0, 1, -1, 9223372036854775807}
	for i, v := range want {
		binary.LittleEndian.PutUint64(mem[16+i*8:], uint64(v))
	}

	got, err := readSequence(mem, 16, uint32(len(want)))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The result must not alias guest memory.
	mem[16] = 0xff
	assert.Equal(t, int64(0), got[0])
}

func TestReadSequence_Bounds(t *testing.T) {
	mem := make(fakeMemory, 32)

	got, err := readSequence(mem, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = readSequence(mem, 16, 3)
	assert.Error(t, err)

	_, err = readSequence(mem, 0, 1<<30)
	assert.Error(t, err)
}

func TestReadBytes(t *testing.T) {
	mem := fakeMemory(`xx{"name":"numext"}`)
	got, err := readBytes(mem, 2, uint32(len(mem)-2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"numext"}`, string(got))

	_, err = readBytes(mem, 10, 100)
	assert.Error(t, err)
}

func TestEmitGuestLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := json.Marshal(numextlog.LogMessageWire{
		Level:     "WARN",
		Message:   "numext: sequence ownership violated",
		Timestamp: ts,
		Attrs: []numextlog.LogAttrWire{
			{Key: "code", Type: "string", Value: "length_mismatch"},
			{Key: "length", Type: "int64", Value: "9"},
			{Key: "ptr", Type: "uint64", Value: "4096"},
			{Key: "fatal", Type: "bool", Value: "true"},
			{Key: "ratio", Type: "float64", Value: "0.25"},
			{Key: "broken", Type: "int64", Value: "nine"},
		},
	})
	require.NoError(t, err)

	emitGuestLog(zap.New(core), data)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "numext: sequence ownership violated", entry.Message)

	fields := entry.ContextMap()
	guestTime, ok := fields["guest_time"].(time.Time)
	require.True(t, ok)
	assert.True(t, ts.Equal(guestTime))
	assert.Equal(t, "length_mismatch", fields["code"])
	assert.Equal(t, int64(9), fields["length"])
	assert.Equal(t, uint64(4096), fields["ptr"])
	assert.Equal(t, true, fields["fatal"])
	assert.Equal(t, 0.25, fields["ratio"])
	assert.Equal(t, "nine", fields["broken"])
}

func TestEmitGuestLog_Filtered(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	data, _ := json.Marshal(numextlog.LogMessageWire{Level: "DEBUG", Message: "abi: sequence released"})

	emitGuestLog(zap.New(core), data)
	assert.Zero(t, logs.Len())
}

func TestEmitGuestLog_Malformed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	emitGuestLog(zap.New(core), []byte("{not json"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "guest log: malformed message", logs.All()[0].Message)
}

func TestZapLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zapcore.Level
	}{
		{slog.LevelDebug - 4, zapcore.DebugLevel},
		{slog.LevelDebug, zapcore.DebugLevel},
		{slog.LevelInfo, zapcore.InfoLevel},
		{slog.LevelInfo + 2, zapcore.InfoLevel},
		{slog.LevelWarn, zapcore.WarnLevel},
		{slog.LevelError, zapcore.ErrorLevel},
		{slog.LevelError + 4, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, zapLevel(tt.in), "slog level %v", tt.in)
	}
}

func TestSetLogger(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	SetLogger(l)
	assert.Same(t, l, Logger())

	SetLogger(nil)
	assert.NotNil(t, Logger())
	assert.NotSame(t, l, Logger())
}

func TestNew_InvalidModule(t *testing.T) {
	_, err := New(context.Background(), []byte("not wasm"))
	require.Error(t, err)

	var modErr *numext.ModuleError
	require.True(t, errors.As(err, &modErr))
	assert.Equal(t, numext.PhaseCompile, modErr.Phase)
	assert.Equal(t, "module", numext.ToErrorDetail(err).Type)
}

func TestSingleResult(t *testing.T) {
	v, err := singleResult("numext_add", []uint64{42})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	for _, res := range [][]uint64{nil, {1, 2}} {
		_, err := singleResult("numext_add", res)
		var modErr *numext.ModuleError
		require.True(t, errors.As(err, &modErr), "results=%v", res)
		assert.Equal(t, numext.PhaseCall, modErr.Phase)
		assert.Equal(t, "numext_add", modErr.Export)
		assert.Contains(t, err.Error(), "expected 1 result")
	}
}
