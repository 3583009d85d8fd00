package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("collection").
		Fieldf("canvas_size", "must be between %d and %d", 1, 4096)

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("validation failed: canvas_size: must be between 1 and 4096; collection: is required",
		errors.GetMessage(err))
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateHelpers() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", "  ", vb)
	errors.ValidateRange("size", 0, 1, 10, vb)
	errors.ValidateEnum("format", "webp", []string{"jpeg", "png"}, vb)

	err := vb.Build()
	s.Require().Error(err)
	msg := errors.GetMessage(err)
	s.Contains(msg, "name: is required")
	s.Contains(msg, "size: must be between 1 and 10")
	s.Contains(msg, "format: must be one of: jpeg, png")

	vb = errors.NewValidationBuilder()
	errors.ValidateRequired("name", "ok", vb)
	errors.ValidateRange("size", 5, 1, 10, vb)
	errors.ValidateEnum("format", "png", []string{"jpeg", "png"}, vb)
	s.NoError(vb.Build())
}
