package errors_test

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	err := errors.New(errors.CodeNotFound, "session not found")
	s.Equal("NOT_FOUND: session not found", err.Error())
	s.Equal(errors.CodeNotFound, err.Code)
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to get session")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to get session", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.AssetLoad("Background", "Mars.png", fs.ErrNotExist)
	wrapped := errors.Wrap(baseErr, "compose failed")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal(errors.KindAssetLoad, errors.KindOf(wrapped))
	s.Equal("Background", errors.GetMeta(wrapped)[errors.MetaCategory])

	// the copy must not alias the original
	wrapped.WithMeta("extra", 1)
	s.NotContains(baseErr.Meta, "extra")
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	wrapped := errors.WrapWithCode(fmt.Errorf("timeout"), errors.CodeUnavailable, "redis unavailable")
	s.Equal(errors.CodeUnavailable, wrapped.Code)
}

func (s *ErrorsTestSuite) TestErrorIs() {
	s.True(errors.NotFound("a").Is(errors.NotFound("b")))
	s.False(errors.NotFound("a").Is(errors.Aborted("a")))
}

func (s *ErrorsTestSuite) TestKinds() {
	testCases := []struct {
		name string
		err  error
		kind errors.Kind
		code errors.Code
	}{
		{"scan missing dir", errors.ScanFailure("/x", fs.ErrNotExist), errors.KindScan, errors.CodeNotFound},
		{"scan permission", errors.ScanFailure("/x", fs.ErrPermission), errors.KindScan, errors.CodeInternal},
		{"write", errors.Write("/x/a.json", fs.ErrPermission), errors.KindWrite, errors.CodeInternal},
		{"asset missing", errors.AssetLoad("Body", "a.png", fs.ErrNotExist), errors.KindAssetLoad, errors.CodeNotFound},
		{"asset corrupt", errors.AssetLoad("Body", "a.png", fmt.Errorf("bad header")), errors.KindAssetLoad, errors.CodeDataLoss},
		{"environment", errors.Environment("no canvas"), errors.KindEnvironment, errors.CodeUnavailable},
		{"precondition", errors.Preconditionf("asset %s", "x"), errors.KindPrecondition, errors.CodeFailedPrecondition},
		{"plain", fmt.Errorf("plain"), errors.KindNone, errors.CodeInternal},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.kind, errors.KindOf(tc.err))
			s.Equal(tc.code, errors.GetCode(tc.err))
		})
	}
}

func (s *ErrorsTestSuite) TestAssetLoadMessageNamesLayer() {
	err := errors.AssetLoad("Background", "Planet Mars.PNG", fs.ErrNotExist)
	s.Contains(err.Error(), "Background/Planet Mars.PNG")
	s.True(errors.IsAssetLoad(err))
	s.True(errors.IsNotFound(err))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	s.Equal("user message", errors.GetMessage(errors.NotFound("user message")))
	s.Equal("standard error", errors.GetMessage(fmt.Errorf("standard error")))
	s.Equal("", errors.GetMessage(nil))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     errors.Code
		expected int
	}{
		{errors.CodeOK, 200},
		{errors.CodeNotFound, 404},
		{errors.CodeInvalidArgument, 400},
		{errors.CodeAborted, 409},
		{errors.CodeFailedPrecondition, 412},
		{errors.CodeUnavailable, 503},
		{errors.CodeDataLoss, 500},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, tc.code.HTTPStatus())
		})
	}
}

func (s *ErrorsTestSuite) TestGRPCConversion() {
	grpcErr := errors.ToGRPCError(errors.Precondition("asset not in category"))
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.FailedPrecondition, st.Code())
	s.Equal("asset not in category", st.Message())

	back := errors.FromGRPCError(status.Error(codes.Aborted, "compose in flight"))
	s.True(errors.IsAborted(back))
	s.Equal("compose in flight", errors.GetMessage(back))

	s.Nil(errors.ToGRPCError(nil))
	s.Equal(codes.Internal, status.Code(errors.ToGRPCError(fmt.Errorf("boom"))))
}
