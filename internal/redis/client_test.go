package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/redis"
)

type ClientTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ClientTestSuite) TestNewClientRequiresEndpoint() {
	_, err := redis.NewClient("", nil)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ClientTestSuite) TestConnect() {
	mr := miniredis.RunT(s.T())

	client, err := redis.Connect(s.ctx, mr.Addr(), &redis.Options{DB: 0})
	s.Require().NoError(err)
	defer func() { _ = client.Close() }()

	s.Require().NoError(client.Set(s.ctx, "draft:draft_1", "{}", 0).Err())
	s.True(mr.Exists("draft:draft_1"))
}

func (s *ClientTestSuite) TestConnectUnreachable() {
	mr := miniredis.RunT(s.T())
	addr := mr.Addr()
	mr.Close()

	_, err := redis.Connect(s.ctx, addr, &redis.Options{DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	s.Require().Error(err)
	s.True(errors.IsPersistenceFailure(err))
}
