// Package broadcast is the authorization gate for mass messaging. The
// recipient set is always recomputed from stored citizen records; any
// recipient list or sector label supplied by the caller is ignored, so a
// sector head cannot reach another sector no matter what the request
// claims.
package broadcast

import (
	"fmt"

	"civicconnect-be/apperrors"
	"civicconnect-be/models"
)

// Recipients computes the citizens a sender may broadcast to from the
// stored records in citizens. Admins reach every verified citizen;
// sector heads reach only verified citizens whose stored sector matches
// the sender's own stored sector. Citizens whose record lacks an email
// are skipped. Returns apperrors.ErrNoRecipients when nothing remains,
// apperrors.ErrNotAuthorized for any other role.
func Recipients(sender models.Principal, citizens []models.Citizen) ([]models.Citizen, error) {
	switch sender.Role {
	case models.RoleAdmin, models.RoleSectorHead:
	default:
		return nil, fmt.Errorf("%w: role %q cannot broadcast", apperrors.ErrNotAuthorized, sender.Role)
	}

	var recipients []models.Citizen
	for _, citizen := range citizens {
		if !citizen.IsVerified || citizen.Email == "" {
			continue
		}
		if sender.Role == models.RoleSectorHead && citizen.Sector != sender.Sector {
			continue
		}
		recipients = append(recipients, citizen)
	}

	if len(recipients) == 0 {
		return nil, apperrors.ErrNoRecipients
	}
	return recipients, nil
}

// Emails extracts the recipient addresses.
func Emails(recipients []models.Citizen) []string {
	emails := make([]string, 0, len(recipients))
	for _, citizen := range recipients {
		emails = append(emails, citizen.Email)
	}
	return emails
}
