package unmatched

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"orglink/internal/linkage/ports/mocks"
	"orglink/pkg/platform/circuit"
)

// =============================================================================
// Fallback Tracker Test Suite
// =============================================================================
// Justification for unit tests: the switch between shared and local storage
// depends on breaker thresholds that integration tests cannot trigger
// deterministically.

type FallbackSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	primary *mocks.MockUnmatchedTracker
	tracker *FallbackTracker
}

func TestFallbackSuite(t *testing.T) {
	suite.Run(t, new(FallbackSuite))
}

func (s *FallbackSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.primary = mocks.NewMockUnmatchedTracker(s.ctrl)
	s.tracker = NewFallback(s.primary, WithBreaker(
		circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1)),
	))
}

func (s *FallbackSuite) TearDownTest() {
	s.ctrl.Finish()
}

var errRedisDown = errors.New("connection refused")

func (s *FallbackSuite) TestRecord() {
	ctx := context.Background()

	s.Run("healthy primary receives the name", func() {
		s.primary.EXPECT().Record(gomock.Any(), "Bureau X").Return(nil)
		s.NoError(s.tracker.Record(ctx, "Bureau X"))
		s.Equal(circuit.StateClosed, s.tracker.State())
	})

	s.Run("failure below threshold surfaces the error", func() {
		s.primary.EXPECT().Record(gomock.Any(), "Bureau Y").Return(errRedisDown)
		err := s.tracker.Record(ctx, "Bureau Y")
		s.ErrorIs(err, errRedisDown)
	})

	s.Run("failure at threshold diverts to local set", func() {
		s.primary.EXPECT().Record(gomock.Any(), "Bureau Z").Return(errRedisDown)
		s.NoError(s.tracker.Record(ctx, "Bureau Z"))
		s.Equal(circuit.StateOpen, s.tracker.State())

		s.primary.EXPECT().List(gomock.Any()).Return(nil, errRedisDown)
		names, err := s.tracker.List(ctx)
		s.NoError(err)
		s.Equal([]string{"Bureau Z"}, names)
	})
}

func (s *FallbackSuite) TestRecoveryMergesLocalNames() {
	ctx := context.Background()
	s.primary.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errRedisDown).Times(2)
	s.Error(s.tracker.Record(ctx, "Lost"))
	s.NoError(s.tracker.Record(ctx, "Kept Locally"))

	s.primary.EXPECT().List(gomock.Any()).Return([]string{"Shared"}, nil).Times(2)
	names, err := s.tracker.List(ctx)
	s.NoError(err)
	s.Equal([]string{"Kept Locally", "Shared"}, names)
	s.Equal(circuit.StateClosed, s.tracker.State())

	n, err := s.tracker.Count(ctx)
	s.NoError(err)
	s.Equal(int64(2), n)
}

func (s *FallbackSuite) TestCount() {
	s.primary.EXPECT().Count(gomock.Any()).Return(int64(7), nil)
	n, err := s.tracker.Count(context.Background())
	s.NoError(err)
	s.Equal(int64(7), n)
}

func (s *FallbackSuite) TestClear() {
	ctx := context.Background()

	s.Run("failed primary clear keeps local names", func() {
		s.primary.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errRedisDown).Times(2)
		_ = s.tracker.Record(ctx, "a")
		_ = s.tracker.Record(ctx, "b")

		s.primary.EXPECT().Clear(gomock.Any()).Return(errRedisDown)
		s.ErrorIs(s.tracker.Clear(ctx), errRedisDown)

		s.primary.EXPECT().List(gomock.Any()).Return(nil, errRedisDown)
		names, err := s.tracker.List(ctx)
		s.NoError(err)
		s.Equal([]string{"b"}, names)
	})

	s.Run("healthy clear empties both sets", func() {
		s.primary.EXPECT().Clear(gomock.Any()).Return(nil)
		s.NoError(s.tracker.Clear(ctx))

		s.primary.EXPECT().List(gomock.Any()).Return(nil, nil)
		names, err := s.tracker.List(ctx)
		s.NoError(err)
		s.Empty(names)
	})
}
