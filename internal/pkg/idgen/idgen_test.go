package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/pkg/idgen"
)

type IDGenTestSuite struct {
	suite.Suite
}

func TestIDGenSuite(t *testing.T) {
	suite.Run(t, new(IDGenTestSuite))
}

func (s *IDGenTestSuite) TestUUIDWithPrefix() {
	gen := idgen.NewUUID("draft")
	id := gen.Generate()

	s.True(strings.HasPrefix(id, "draft_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "draft_"))
	s.NoError(err)
	s.NotEqual(id, gen.Generate())
}

func (s *IDGenTestSuite) TestUUIDWithoutPrefix() {
	_, err := uuid.Parse(idgen.NewUUID("").Generate())
	s.NoError(err)
}

func (s *IDGenTestSuite) TestSequential() {
	gen := idgen.NewSequential("char")
	s.Equal("char_1", gen.Generate())
	s.Equal("char_2", gen.Generate())

	bare := idgen.NewSequential("")
	s.Equal("1", bare.Generate())
}
