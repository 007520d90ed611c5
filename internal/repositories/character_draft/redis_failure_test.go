package characterdraft_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	characterdraft "github.com/KirkDiggler/charforge/internal/repositories/character_draft"
	"github.com/KirkDiggler/charforge/internal/testutils"
)

type RedisFailureTestSuite struct {
	suite.Suite
}

func TestRedisFailureSuite(t *testing.T) {
	suite.Run(t, new(RedisFailureTestSuite))
}

func (s *RedisFailureTestSuite) TestStoreDownIsPersistenceFailure() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	repo := characterdraft.NewRedisRepository(client)
	mr.Close()

	_, err := repo.Save(context.Background(), &characterdraft.SaveInput{Draft: &entities.CharacterDraft{ID: "d"}})
	s.Require().Error(err)
	s.True(errors.IsPersistenceFailure(err))

	_, err = repo.Load(context.Background(), &characterdraft.LoadInput{ID: "d"})
	s.Require().Error(err)
	s.True(errors.IsPersistenceFailure(err))
}

func (s *RedisFailureTestSuite) TestKeysLayout() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	repo := characterdraft.NewRedisRepository(client)

	_, err := repo.Save(context.Background(), &characterdraft.SaveInput{Draft: &entities.CharacterDraft{
		ID:             "d",
		CompletedSteps: []entities.Step{entities.StepConcept},
	}})
	s.Require().NoError(err)

	s.True(mr.Exists("draft:d"))
	s.True(mr.Exists("draft:d:step:concept"))

	_, err = repo.SaveRollSession(context.Background(), &characterdraft.SaveRollSessionInput{
		Session: &entities.AbilityRollSession{DraftID: "d"},
	})
	s.Require().NoError(err)
	s.True(mr.Exists("draft:d:rolls"))
}
