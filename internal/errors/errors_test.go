package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "location not found",
			expected: "NOT_FOUND: location not found",
		},
		{
			name:     "data loss error",
			code:     errors.CodeDataLoss,
			message:  "record truncated",
			expected: "DATA_LOSS: record truncated",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWithMeta() {
	err := errors.Unavailablef("alias not filled").
		WithMeta("quest", "Bleak Falls Barrow").
		WithMeta("attempts", 5)

	s.Equal("Bleak Falls Barrow", err.Meta["quest"])
	s.Equal(5, err.Meta["attempts"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("short write")
	wrapped := errors.Wrap(baseErr, "failed to write record")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to write record", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
	s.Nil(errors.Wrap(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	base := errors.NotFound("quest missing").WithMeta("form_id", "0x0001A2B3")
	wrapped := errors.Wrapf(base, "failed to parse %s", "Quests/Bandits.json")

	s.True(errors.IsNotFound(wrapped))
	s.Equal("0x0001A2B3", errors.GetMeta(wrapped)["form_id"])
	s.True(errors.Is(wrapped, errors.NotFound("")))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	base := errors.NotFound("record missing").WithMeta("record", "RLOC")
	wrapped := errors.WrapWithCode(base, errors.CodeDataLoss, "save aborted")

	s.True(errors.IsDataLoss(wrapped))
	s.Equal("RLOC", wrapped.Meta["record"])
	s.Nil(errors.WrapWithCode(nil, errors.CodeDataLoss, "nothing"))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Equal(errors.CodeAborted, errors.GetCode(errors.Abortedf("batch %d interrupted", 3)))
}

func (s *ErrorsTestSuite) TestCodeClassification() {
	s.True(errors.CodeUnavailable.Transient())
	s.True(errors.CodeAborted.Transient())
	s.False(errors.CodeNotFound.Transient())
	s.True(errors.CodeFailedPrecondition.Fatal())
	s.False(errors.CodeDataLoss.Fatal())
}

func (s *ErrorsTestSuite) TestTransientAndFatal() {
	s.True(errors.IsTransient(errors.Wrap(errors.Unavailablef("alias empty"), "bind failed")))
	s.False(errors.IsTransient(nil))
	s.False(errors.IsTransient(fmt.Errorf("plain")))
	s.True(errors.IsFatal(errors.FailedPreconditionf("runtime %s", "1.4.15.0")))
	s.False(errors.IsFatal(nil))
}

func (s *ErrorsTestSuite) TestContextErrorsAreCanceled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.True(errors.IsCanceled(ctx.Err()))
	s.True(errors.IsCanceled(fmt.Errorf("sleep: %w", context.DeadlineExceeded)))
	s.Equal(errors.CodeCanceled, errors.Wrap(ctx.Err(), "bind interrupted").Code)
}
