package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/fieldops/talktracker/models"
)

// PendingCrewServiceTestSuite is a test suite for the guest approval
// workflow
type PendingCrewServiceTestSuite struct {
	suite.Suite
	env *testEnv
	ctx context.Context
}

// SetupTest sets up the test suite before each test
func (suite *PendingCrewServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.ctx = context.Background()
}

// stageGuest submits a talk with one guest attendee and returns the
// provisional entry it created.
func (suite *PendingCrewServiceTestSuite) stageGuest(name string) *models.PendingCrewMember {
	form := suite.env.validTalkForm(models.CrewSignature{Name: name, IsGuest: true})
	_, err := suite.env.services.Talks.Submit(suite.ctx, form)
	suite.Require().NoError(err)

	entry, ok := suite.env.repos.PendingCrew.Get(models.NormalizeName(name))
	suite.Require().True(ok)
	return entry
}

// TestApprove_UnknownEntry tests approving a missing queue entry
func (suite *PendingCrewServiceTestSuite) TestApprove_UnknownEntry() {
	member, err := suite.env.services.PendingCrew.Approve(suite.ctx, "nobody", "reviewer@example.com")

	assert.Nil(suite.T(), member)
	assert.True(suite.T(), IsRejection(err))
}

// TestApprove_PromotesGuest tests the promotion path
func (suite *PendingCrewServiceTestSuite) TestApprove_PromotesGuest() {
	entry := suite.stageGuest("Bob Smith")
	rosterBefore := len(suite.env.services.Crew.List())

	member, err := suite.env.services.PendingCrew.Approve(suite.ctx, entry.ID, "reviewer@example.com")
	suite.Require().NoError(err)
	suite.Require().NotNil(member)

	assert.Equal(suite.T(), "Bob Smith", member.Name)
	assert.Equal(suite.T(), models.StatusActive, member.Status)

	// The new member's history starts fresh with the reviewer as actor
	suite.Require().Len(member.History, 1)
	assert.Equal(suite.T(), models.ActionCreated, member.History[0].Action)
	assert.Equal(suite.T(), "reviewer@example.com", member.History[0].Actor)

	// Promoted onto the roster, removed from the queue
	assert.Len(suite.T(), suite.env.services.Crew.List(), rosterBefore+1)
	assert.Empty(suite.T(), suite.env.services.PendingCrew.List())
}

// TestApprove_NameAlreadyOnRoster tests clearing an entry another device
// already promoted
func (suite *PendingCrewServiceTestSuite) TestApprove_NameAlreadyOnRoster() {
	entry := suite.stageGuest("Bob Smith")

	// Simulate a concurrent promotion under the same account
	existing, err := suite.env.services.Crew.Create(suite.ctx, "Bob Smith", "other-reviewer@example.com")
	suite.Require().NoError(err)

	rosterBefore := len(suite.env.services.Crew.List())
	member, err := suite.env.services.PendingCrew.Approve(suite.ctx, entry.ID, "reviewer@example.com")
	suite.Require().NoError(err)

	// No duplicate member; the provisional entry is simply cleared
	assert.Equal(suite.T(), existing.ID, member.ID)
	assert.Len(suite.T(), suite.env.services.Crew.List(), rosterBefore)
	assert.Empty(suite.T(), suite.env.services.PendingCrew.List())
}

// TestReject_RemovesEntryOnly tests that rejection never rewrites the talk
func (suite *PendingCrewServiceTestSuite) TestReject_RemovesEntryOnly() {
	entry := suite.stageGuest("Bob Smith")
	rosterBefore := len(suite.env.services.Crew.List())

	err := suite.env.services.PendingCrew.Reject(suite.ctx, entry.ID, "reviewer@example.com")
	suite.Require().NoError(err)

	assert.Empty(suite.T(), suite.env.services.PendingCrew.List())
	assert.Len(suite.T(), suite.env.services.Crew.List(), rosterBefore)

	// The originating talk record keeps its guest signature
	record, ok := suite.env.repos.Talks.Get(entry.Source.TalkID)
	suite.Require().True(ok)
	suite.Require().Len(record.CrewSignatures, 1)
	assert.True(suite.T(), record.CrewSignatures[0].IsGuest)
	assert.Equal(suite.T(), "Bob Smith", record.CrewSignatures[0].Name)

	// Rejecting again finds nothing
	err = suite.env.services.PendingCrew.Reject(suite.ctx, entry.ID, "reviewer@example.com")
	assert.True(suite.T(), IsRejection(err))
}

func TestPendingCrewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PendingCrewServiceTestSuite))
}
