// Package authz is the single authorization evaluator. Every operation
// consults it with an explicit principal and a resource descriptor built
// from stored records; caller-supplied sector or owner labels never reach
// a decision.
package authz

import (
	"fmt"

	"civicconnect-be/apperrors"
	"civicconnect-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action names an operation subject to authorization.
type Action string

const (
	ActionReportIssue        Action = "issue:report"
	ActionViewIssue          Action = "issue:view"
	ActionListOwnIssues      Action = "issue:list-own"
	ActionListSectorIssues   Action = "issue:list-sector"
	ActionListAllIssues      Action = "issue:list-all"
	ActionUpdateStatus       Action = "issue:update-status"
	ActionForceClose         Action = "issue:force-close"
	ActionAddComment         Action = "issue:comment"
	ActionExportIssues       Action = "issue:export"
	ActionSubmitFeedback     Action = "feedback:submit"
	ActionViewSectorRatings  Action = "feedback:sector-ratings"
	ActionViewGlobalRatings  Action = "feedback:global-ratings"
	ActionRegisterCitizen    Action = "citizen:register"
	ActionViewCitizen        Action = "citizen:view"
	ActionListSectorCitizens Action = "citizen:list-sector"
	ActionRegisterSectorHead Action = "sectorhead:register"
	ActionViewSectorSummary  Action = "sector:summary"
	ActionViewSectorReports  Action = "sector:analytics"
	ActionViewGlobalSummary  Action = "admin:summary"
	ActionBroadcast          Action = "broadcast:send"
)

// DenyReason explains a denial. A denial never silently narrows to a
// smaller scope; the caller gets the reason and nothing else.
type DenyReason string

const (
	ReasonNotAuthenticated DenyReason = "NotAuthenticated"
	ReasonRoleNotPermitted DenyReason = "RoleNotPermitted"
	ReasonWrongSector      DenyReason = "WrongSector"
	ReasonNotOwner         DenyReason = "NotOwner"
)

// Resource describes the target of an action using only stored fields.
type Resource struct {
	// Sector the resource belongs to, empty when sector-agnostic.
	Sector string
	// Owner is the owning citizen, zero when ownership does not apply.
	Owner primitive.ObjectID
}

// IssueResource builds the descriptor for an issue from its stored
// sector snapshot and owner reference.
func IssueResource(issue models.Issue) Resource {
	return Resource{Sector: issue.Sector, Owner: issue.Citizen}
}

// CitizenResource builds the descriptor for a citizen record.
func CitizenResource(citizen models.Citizen) Resource {
	return Resource{Sector: citizen.Sector, Owner: citizen.ID}
}

// Decision is the evaluator's verdict.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Err converts a denial into the taxonomy error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", apperrors.ErrNotAuthorized, d.Reason)
}

type scope int

const (
	scopeAny scope = iota
	scopeSector
	scopeOwner
)

// rules maps each action to the non-admin roles allowed to perform it
// and the scope check applied. Admins pass unconditionally before this
// table is consulted. Actions absent for a role deny with
// RoleNotPermitted.
var rules = map[Action]map[models.Role]scope{
	ActionReportIssue:        {models.RoleCitizen: scopeOwner},
	ActionViewIssue:          {models.RoleCitizen: scopeOwner, models.RoleSectorHead: scopeSector},
	ActionListOwnIssues:      {models.RoleCitizen: scopeOwner},
	ActionListSectorIssues:   {models.RoleSectorHead: scopeSector},
	ActionListAllIssues:      {},
	ActionUpdateStatus:       {models.RoleSectorHead: scopeSector},
	ActionForceClose:         {models.RoleSectorHead: scopeSector},
	ActionAddComment:         {models.RoleSectorHead: scopeSector},
	ActionExportIssues:       {},
	ActionSubmitFeedback:     {models.RoleCitizen: scopeOwner},
	ActionViewSectorRatings:  {models.RoleSectorHead: scopeSector},
	ActionViewGlobalRatings:  {},
	ActionRegisterCitizen:    {models.RoleSectorHead: scopeSector},
	ActionViewCitizen:        {models.RoleCitizen: scopeOwner, models.RoleSectorHead: scopeSector},
	ActionListSectorCitizens: {models.RoleSectorHead: scopeSector},
	ActionRegisterSectorHead: {},
	ActionViewSectorSummary:  {models.RoleSectorHead: scopeSector},
	ActionViewSectorReports:  {models.RoleSectorHead: scopeSector},
	ActionViewGlobalSummary:  {},
	ActionBroadcast:          {models.RoleSectorHead: scopeSector},
}

// Authorize evaluates (principal, action, resource). It is stateless and
// deterministic; the only inputs are the resolved principal's own fields
// and the resource descriptor.
func Authorize(p models.Principal, action Action, res Resource) Decision {
	if p.ID.IsZero() || !models.ValidRole(p.Role) {
		return Decision{Reason: ReasonNotAuthenticated}
	}

	// Rule 1: admin may perform any action on any resource.
	if p.Role == models.RoleAdmin {
		return Decision{Allowed: true}
	}

	perRole, known := rules[action]
	if !known {
		return Decision{Reason: ReasonRoleNotPermitted}
	}
	sc, ok := perRole[p.Role]
	if !ok {
		return Decision{Reason: ReasonRoleNotPermitted}
	}

	switch sc {
	case scopeSector:
		if res.Sector == "" || res.Sector != p.Sector {
			return Decision{Reason: ReasonWrongSector}
		}
	case scopeOwner:
		if res.Owner.IsZero() || res.Owner != p.ID {
			return Decision{Reason: ReasonNotOwner}
		}
	}
	return Decision{Allowed: true}
}
