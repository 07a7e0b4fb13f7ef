package authz

import (
	"errors"
	"testing"

	"civicconnect-be/apperrors"
	"civicconnect-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}

func TestAuthorize(t *testing.T) {
	citizenID := newID()
	otherCitizenID := newID()

	admin := models.Principal{ID: newID(), Role: models.RoleAdmin, Name: "Admin"}
	headA := models.Principal{ID: newID(), Role: models.RoleSectorHead, Name: "Head A", Sector: "A"}
	headB := models.Principal{ID: newID(), Role: models.RoleSectorHead, Name: "Head B", Sector: "B"}
	citizen := models.Principal{ID: citizenID, Role: models.RoleCitizen, Name: "Citizen", Sector: "A"}

	issueA := Resource{Sector: "A", Owner: citizenID}
	issueB := Resource{Sector: "B", Owner: otherCitizenID}

	tests := []struct {
		name      string
		principal models.Principal
		action    Action
		resource  Resource
		allowed   bool
		reason    DenyReason
	}{
		{"admin may update any issue", admin, ActionUpdateStatus, issueB, true, ""},
		{"admin may list all issues", admin, ActionListAllIssues, Resource{}, true, ""},
		{"admin may register sector heads", admin, ActionRegisterSectorHead, Resource{Sector: "C"}, true, ""},
		{"admin may broadcast globally", admin, ActionBroadcast, Resource{}, true, ""},

		{"head may update issue in own sector", headA, ActionUpdateStatus, issueA, true, ""},
		{"head may not update issue in other sector", headA, ActionUpdateStatus, issueB, false, ReasonWrongSector},
		{"head may not view issue in other sector", headB, ActionViewIssue, issueA, false, ReasonWrongSector},
		{"head may comment in own sector", headA, ActionAddComment, issueA, true, ""},
		{"head may force close in own sector", headA, ActionForceClose, issueA, true, ""},
		{"head may not force close across sectors", headB, ActionForceClose, issueA, false, ReasonWrongSector},
		{"head may register citizen into own sector", headA, ActionRegisterCitizen, Resource{Sector: "A"}, true, ""},
		{"head may not register citizen into other sector", headA, ActionRegisterCitizen, Resource{Sector: "B"}, false, ReasonWrongSector},
		{"head may not register another head", headA, ActionRegisterSectorHead, Resource{Sector: "A"}, false, ReasonRoleNotPermitted},
		{"head may not list all issues", headA, ActionListAllIssues, Resource{}, false, ReasonRoleNotPermitted},
		{"head may not submit feedback", headA, ActionSubmitFeedback, issueA, false, ReasonRoleNotPermitted},

		{"citizen may view own issue", citizen, ActionViewIssue, issueA, true, ""},
		{"citizen may not view another citizen's issue", citizen, ActionViewIssue, issueB, false, ReasonNotOwner},
		{"citizen may report own issue", citizen, ActionReportIssue, Resource{Owner: citizenID, Sector: "A"}, true, ""},
		{"citizen may submit feedback on own issue", citizen, ActionSubmitFeedback, issueA, true, ""},
		{"citizen may not update status", citizen, ActionUpdateStatus, issueA, false, ReasonRoleNotPermitted},
		{"citizen may not comment", citizen, ActionAddComment, issueA, false, ReasonRoleNotPermitted},
		{"citizen may not broadcast", citizen, ActionBroadcast, issueA, false, ReasonRoleNotPermitted},
		{"citizen may not register citizens", citizen, ActionRegisterCitizen, Resource{Sector: "A"}, false, ReasonRoleNotPermitted},

		{"head may broadcast to own sector", headA, ActionBroadcast, Resource{Sector: "A"}, true, ""},
		{"head may not broadcast to other sector", headA, ActionBroadcast, Resource{Sector: "B"}, false, ReasonWrongSector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.principal, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, tt.reason, decision.Reason)
			}
		})
	}
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	decision := Authorize(models.Principal{}, ActionViewIssue, Resource{Sector: "A"})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotAuthenticated, decision.Reason)

	unknownRole := models.Principal{ID: newID(), Role: "superuser"}
	decision = Authorize(unknownRole, ActionViewIssue, Resource{Sector: "A"})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotAuthenticated, decision.Reason)
}

func TestSectorLabelFromResourceOnlyMatchesStoredSector(t *testing.T) {
	// A caller-supplied sector can never appear here: the resource is
	// built from the stored issue. A head of sector A is denied on a
	// stored sector B issue no matter what the request claimed.
	headA := models.Principal{ID: newID(), Role: models.RoleSectorHead, Name: "Head A", Sector: "A"}
	stored := Resource{Sector: "B", Owner: newID()}

	for _, action := range []Action{ActionViewIssue, ActionUpdateStatus, ActionForceClose, ActionAddComment} {
		decision := Authorize(headA, action, stored)
		require.False(t, decision.Allowed, "action %s", action)
		assert.Equal(t, ReasonWrongSector, decision.Reason)
	}
}

func TestRegisterCitizenRequiresASector(t *testing.T) {
	// A principal without a sector has nowhere to register a citizen
	// into; the empty resource sector is denied, never defaulted.
	sectorless := models.Principal{ID: newID(), Role: models.RoleSectorHead}
	decision := Authorize(sectorless, ActionRegisterCitizen, Resource{Sector: sectorless.Sector})
	require.False(t, decision.Allowed)
	assert.Equal(t, ReasonWrongSector, decision.Reason)
}

func TestDecisionErr(t *testing.T) {
	allowed := Decision{Allowed: true}
	assert.NoError(t, allowed.Err())

	denied := Decision{Reason: ReasonNotOwner}
	err := denied.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthorized))
	assert.Contains(t, err.Error(), string(ReasonNotOwner))
}

func TestResourceBuilders(t *testing.T) {
	owner := newID()
	issue := models.Issue{Citizen: owner, Sector: "7"}
	res := IssueResource(issue)
	assert.Equal(t, "7", res.Sector)
	assert.Equal(t, owner, res.Owner)

	citizen := models.Citizen{ID: owner, Sector: "7"}
	res = CitizenResource(citizen)
	assert.Equal(t, "7", res.Sector)
	assert.Equal(t, owner, res.Owner)
}
