package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/errors"
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
			message:  "draft not found",
			expected: "NOT_FOUND: draft not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid input",
			expected: "INVALID_ARGUMENT: invalid input",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorStringIncludesReason() {
	err := errors.DuplicateLevel("char_1", 3)
	s.Assert().Equal("ALREADY_EXISTS(DUPLICATE_LEVEL): snapshot for level 3 of char_1 already exists", err.Error())
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("draft not found").
		WithMeta("draft_id", "123").
		WithMeta("step", "race")

	s.Assert().Equal("123", err.Meta["draft_id"])
	s.Assert().Equal("race", err.Meta["step"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("database connection failed")
	wrapped := errors.Wrap(baseErr, "failed to load draft")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to load draft", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndReason() {
	baseErr := errors.RulesetNotFound("dnd5e", "9.9")
	wrapped := errors.Wrap(baseErr, "failed to start draft")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal(errors.ReasonRulesetNotFound, wrapped.Reason)
	s.Assert().True(errors.IsRulesetNotFound(wrapped))
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("connection timeout")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeUnavailable, "store unavailable")

	s.Assert().Equal(errors.CodeUnavailable, wrapped.Code)
	s.Assert().Equal("store unavailable", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestDomainConstructors() {
	cause := fmt.Errorf("boom")
	testCases := []struct {
		name   string
		err    *errors.Error
		code   errors.Code
		reason errors.Reason
		check  func(error) bool
	}{
		{"RulesetNotFound", errors.RulesetNotFound("x", "1"), errors.CodeNotFound, errors.ReasonRulesetNotFound, errors.IsRulesetNotFound},
		{"SchemaMismatch", errors.SchemaMismatch("race", cause), errors.CodeInvalidArgument, errors.ReasonSchemaMismatch, errors.IsSchemaMismatch},
		{"NotEligible", errors.NotEligible("c", "not enough xp"), errors.CodeFailedPrecondition, errors.ReasonNotEligible, errors.IsNotEligible},
		{"IncompleteLevelUp", errors.IncompleteLevelUp("c", []string{"hit_points"}), errors.CodeFailedPrecondition, errors.ReasonIncompleteLevelUp, errors.IsIncompleteLevelUp},
		{"DuplicateLevel", errors.DuplicateLevel("c", 2), errors.CodeAlreadyExists, errors.ReasonDuplicateLevel, errors.IsDuplicateLevel},
		{"PersistenceFailure", errors.PersistenceFailure(cause, "write failed"), errors.CodeUnavailable, errors.ReasonPersistenceFailure, errors.IsPersistenceFailure},
		{"InvalidTransition", errors.InvalidTransition("draft %s is finalized", "d"), errors.CodeFailedPrecondition, errors.ReasonInvalidTransition, errors.IsInvalidTransition},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.code, tc.err.Code)
			s.Assert().Equal(tc.reason, tc.err.Reason)
			s.Assert().True(tc.check(tc.err))
			s.Assert().True(tc.check(errors.Wrap(tc.err, "wrapped")))
		})
	}
}

func (s *ErrorsTestSuite) TestFormattedConstructors() {
	err := errors.NotFoundf("draft %s not found", "123")
	s.Assert().Equal(errors.CodeNotFound, err.Code)
	s.Assert().Equal("draft 123 not found", err.Message)

	err2 := errors.InvalidArgumentf("invalid level: %d", 25)
	s.Assert().Equal(errors.CodeInvalidArgument, err2.Code)
	s.Assert().Equal("invalid level: 25", err2.Message)
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.NotFound("test")
	err2 := errors.NotFound("test")
	err3 := errors.InvalidArgument("test")

	s.Assert().True(err1.Is(err2))
	s.Assert().False(err1.Is(err3))

	// a reasoned target only matches the same reason
	s.Assert().True(errors.RulesetNotFound("a", "1").Is(err2))
	s.Assert().False(err1.Is(errors.RulesetNotFound("a", "1")))
}

func (s *ErrorsTestSuite) TestHelperFunctions() {
	notFoundErr := errors.NotFound("test")
	invalidErr := errors.InvalidArgument("test")
	wrappedErr := errors.Wrap(notFoundErr, "wrapped")

	s.Assert().True(errors.IsNotFound(notFoundErr))
	s.Assert().True(errors.IsNotFound(wrappedErr))
	s.Assert().False(errors.IsNotFound(invalidErr))

	s.Assert().True(errors.IsInvalidArgument(invalidErr))
	s.Assert().False(errors.IsInvalidArgument(notFoundErr))
	s.Assert().False(errors.IsSchemaMismatch(invalidErr))
}

func (s *ErrorsTestSuite) TestGetCode() {
	err := errors.NotFound("test")
	wrapped := errors.Wrap(err, "wrapped")

	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(err))
	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMeta() {
	err := errors.NotFound("test").WithMeta("key", "value")
	wrapped := errors.Wrap(err, "wrapped")

	s.Assert().Equal("value", errors.GetMeta(err)["key"])
	s.Assert().Equal("value", errors.GetMeta(wrapped)["key"])
	s.Assert().Nil(errors.GetMeta(fmt.Errorf("standard error")))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	err := errors.NotFound("user friendly message")
	wrapped := errors.Wrap(err, "wrapped message")
	stdErr := fmt.Errorf("standard error")

	s.Assert().Equal("user friendly message", errors.GetMessage(err))
	s.Assert().Equal("wrapped message", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(stdErr))
}
