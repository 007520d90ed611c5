package keylock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/pkg/keylock"
)

type KeyLockTestSuite struct {
	suite.Suite
	locks *keylock.Locks
}

func TestKeyLockSuite(t *testing.T) {
	suite.Run(t, new(KeyLockTestSuite))
}

func (s *KeyLockTestSuite) SetupTest() {
	s.locks = keylock.New()
}

func (s *KeyLockTestSuite) TestSerializesSameKey() {
	ctx := context.Background()
	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := s.locks.Lock(ctx, "char_1")
			if err != nil {
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	s.Equal(1, maxSeen)
	s.Equal(0, s.locks.Len())
}

func (s *KeyLockTestSuite) TestDifferentKeysDoNotBlock() {
	ctx := context.Background()
	unlockA, err := s.locks.Lock(ctx, "a")
	s.Require().NoError(err)
	defer unlockA()

	unlockB, err := s.locks.Lock(ctx, "b")
	s.Require().NoError(err)
	unlockB()
}

func (s *KeyLockTestSuite) TestContextCancelWhileWaiting() {
	unlock, err := s.locks.Lock(context.Background(), "a")
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = s.locks.Lock(ctx, "a")
	s.Require().Error(err)
	s.True(errors.IsCanceled(err))

	unlock()
	s.Equal(0, s.locks.Len())
}

func (s *KeyLockTestSuite) TestUnlockIsIdempotent() {
	unlock, err := s.locks.Lock(context.Background(), "a")
	s.Require().NoError(err)
	unlock()
	unlock()

	unlock, err = s.locks.Lock(context.Background(), "a")
	s.Require().NoError(err)
	unlock()
}
