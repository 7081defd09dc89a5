package host_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reglet-dev/numext"
	"github.com/reglet-dev/numext/domain/entities"
	"github.com/reglet-dev/numext/host"
)

// RuntimeSuite runs against the module produced by `make wasm`.
type RuntimeSuite struct {
	suite.Suite
	ctx  context.Context
	rt   *host.Runtime
	logs *observer.ObservedLogs
}

func (s *RuntimeSuite) SetupSuite() {
	wasm, err := os.ReadFile(filepath.Join("testdata", "numext.wasm"))
	if err != nil {
		s.T().Skip("testdata/numext.wasm not built; run `make wasm`")
	}

	core, logs := observer.New(zapcore.DebugLevel)
	s.logs = logs
	s.ctx = context.Background()
	s.rt, err = host.New(s.ctx, wasm, host.WithLogger(zap.New(core)))
	s.Require().NoError(err)
}

func (s *RuntimeSuite) TearDownSuite() {
	if s.rt != nil {
		s.NoError(s.rt.Close(s.ctx))
	}
}

func (s *RuntimeSuite) TestScalars() {
	v, err := s.rt.Add(s.ctx, 5, 3)
	s.Require().NoError(err)
	s.Equal(int64(8), v)

	v, err = s.rt.Factorial(s.ctx, 5)
	s.Require().NoError(err)
	s.Equal(int64(120), v)

	v, err = s.rt.GCD(s.ctx, 12, 18)
	s.Require().NoError(err)
	s.Equal(int64(6), v)

	v, err = s.rt.LCM(s.ctx, 12, 18)
	s.Require().NoError(err)
	s.Equal(int64(36), v)

	v, err = s.rt.Power(s.ctx, 2, 10)
	s.Require().NoError(err)
	s.Equal(int64(1024), v)

	v, err = s.rt.Power(s.ctx, -1, 3)
	s.Require().NoError(err)
	s.Equal(int64(-1), v)

	prime, err := s.rt.IsPrime(s.ctx, 11)
	s.Require().NoError(err)
	s.True(prime)

	f, err := s.rt.Multiply(s.ctx, 2.5, 4)
	s.Require().NoError(err)
	s.InDelta(10.0, f, 1e-12)
}

func (s *RuntimeSuite) TestSentinelsBecomeErrors() {
	_, err := s.rt.Factorial(s.ctx, -1)
	s.Require().ErrorIs(err, entities.ErrNegativeNumber)

	_, err = s.rt.Factorial(s.ctx, 25)
	s.Require().ErrorIs(err, entities.ErrOverflow)

	_, err = s.rt.Power(s.ctx, 2, -1)
	var compErr *numext.ComputeError
	s.Require().True(errors.As(err, &compErr))
	s.Equal(entities.InvalidParameter, compErr.Kind)
}

func (s *RuntimeSuite) TestFibonacciReleasesGuestMemory() {
	for _, n := range []int64{0, 1, 5, 50, 100} {
		seq, err := s.rt.Fibonacci(s.ctx, n)
		s.Require().NoError(err)
		s.Len(seq, int(n))
	}
	seq, err := s.rt.Fibonacci(s.ctx, 5)
	s.Require().NoError(err)
	s.Equal([]int64{0, 1, 1, 2, 3}, seq)

	_, err = s.rt.Fibonacci(s.ctx, 101)
	s.Require().ErrorIs(err, entities.ErrInvalidParameter)

	out, err := s.rt.Outstanding(s.ctx)
	s.Require().NoError(err)
	s.Zero(out)
}

func (s *RuntimeSuite) TestRawCall() {
	res, err := s.rt.Call(s.ctx, "numext_divide", 7, 0)
	s.Require().NoError(err)
	s.Equal([]uint64{0}, res)

	_, err = s.rt.Call(s.ctx, "numext_missing")
	s.Require().ErrorIs(err, host.ErrExportNotFound)
}

func (s *RuntimeSuite) TestCallScalar() {
	v, err := s.rt.CallScalar(s.ctx, "numext_add", 2, 3)
	s.Require().NoError(err)
	s.Equal(uint64(5), v)

	_, err = s.rt.CallScalar(s.ctx, "numext_missing")
	s.Require().ErrorIs(err, host.ErrExportNotFound)
}

func (s *RuntimeSuite) TestDescribe() {
	m, err := s.rt.Describe(s.ctx)
	s.Require().NoError(err)
	s.Equal(numext.Name, m.Name)
	s.Equal(numext.ABIVersion, m.ABIVersion)
	s.Equal(int64(100), m.Limits.MaxFibonacciTerms)
	s.NotEmpty(m.Operations)
	s.NotEmpty(m.SequenceSchema)
}

func TestRuntimeSuite(t *testing.T) {
	suite.Run(t, new(RuntimeSuite))
}
