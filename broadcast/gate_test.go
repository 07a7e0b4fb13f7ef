package broadcast

import (
	"testing"

	"civicconnect-be/apperrors"
	"civicconnect-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func verifiedCitizen(sector, email string) models.Citizen {
	return models.Citizen{
		ID:         primitive.NewObjectID(),
		Sector:     sector,
		Email:      email,
		IsVerified: true,
	}
}

func TestRecipientsSectorHeadScopedToOwnSector(t *testing.T) {
	head := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleSectorHead, Sector: "A"}
	citizens := []models.Citizen{
		verifiedCitizen("A", "a1@example.com"),
		verifiedCitizen("B", "b1@example.com"),
		verifiedCitizen("A", "a2@example.com"),
	}

	recipients, err := Recipients(head, citizens)
	require.NoError(t, err)
	require.Len(t, recipients, 2)
	for _, r := range recipients {
		assert.Equal(t, "A", r.Sector)
	}
}

func TestRecipientsAdminReachesAllSectors(t *testing.T) {
	admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	citizens := []models.Citizen{
		verifiedCitizen("A", "a1@example.com"),
		verifiedCitizen("B", "b1@example.com"),
	}

	recipients, err := Recipients(admin, citizens)
	require.NoError(t, err)
	assert.Len(t, recipients, 2)
}

func TestRecipientsSkipsUnverifiedAndMissingEmail(t *testing.T) {
	admin := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	unverified := verifiedCitizen("A", "skip@example.com")
	unverified.IsVerified = false
	noEmail := verifiedCitizen("A", "")

	citizens := []models.Citizen{unverified, noEmail, verifiedCitizen("A", "keep@example.com")}
	recipients, err := Recipients(admin, citizens)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "keep@example.com", recipients[0].Email)
}

func TestRecipientsEmptySetFails(t *testing.T) {
	head := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleSectorHead, Sector: "A"}

	// Nothing stored at all.
	_, err := Recipients(head, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoRecipients)

	// Citizens exist but none survive the sector filter.
	_, err = Recipients(head, []models.Citizen{verifiedCitizen("B", "b@example.com")})
	assert.ErrorIs(t, err, apperrors.ErrNoRecipients)
}

func TestRecipientsRejectsCitizenSender(t *testing.T) {
	citizen := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleCitizen, Sector: "A"}
	_, err := Recipients(citizen, []models.Citizen{verifiedCitizen("A", "a@example.com")})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
}

func TestEmails(t *testing.T) {
	recipients := []models.Citizen{
		verifiedCitizen("A", "first@example.com"),
		verifiedCitizen("A", "second@example.com"),
	}
	assert.Equal(t, []string{"first@example.com", "second@example.com"}, Emails(recipients))
	assert.Empty(t, Emails(nil))
}
