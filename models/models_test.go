package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHouseID(t *testing.T) {
	assert.Equal(t, "5-12", HouseID("5", "12"))
	assert.Equal(t, "North-7B", HouseID("North", "7B"))
}

func TestValidCategory(t *testing.T) {
	for _, category := range Categories {
		assert.True(t, ValidCategory(category), "%s", category)
	}
	assert.False(t, ValidCategory("Parks"))
	assert.False(t, ValidCategory(""))
	// Enum match is exact, not case-folded.
	assert.False(t, ValidCategory("water"))
}

func TestValidStatus(t *testing.T) {
	for _, status := range Statuses {
		assert.True(t, ValidStatus(status), "%s", status)
	}
	assert.False(t, ValidStatus("Reopened"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("in progress"))
}

func TestValidRating(t *testing.T) {
	for r := 1; r <= 5; r++ {
		assert.True(t, ValidRating(r), "rating %d", r)
	}
	assert.False(t, ValidRating(0))
	assert.False(t, ValidRating(6))
	assert.False(t, ValidRating(-1))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@example.com", NormalizeEmail("A@Example.COM"))
	assert.Equal(t, "a@example.com", NormalizeEmail("  a@example.com "))
	// Two casings of the same address collapse to one stored key, so
	// the unique email index catches the duplicate.
	assert.Equal(t, NormalizeEmail("A@x.com"), NormalizeEmail("a@X.COM"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleCitizen))
	assert.True(t, ValidRole(RoleSectorHead))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("moderator"))
	assert.False(t, ValidRole(""))
}

func TestCitizenPasswordRoundTrip(t *testing.T) {
	citizen := Citizen{Password: "s3cret-pass"}
	require.NoError(t, citizen.HashPassword())
	assert.NotEqual(t, "s3cret-pass", citizen.Password)
	assert.True(t, citizen.ComparePassword("s3cret-pass"))
	assert.False(t, citizen.ComparePassword("wrong"))
}

func TestCitizenPrincipal(t *testing.T) {
	id := primitive.NewObjectID()
	citizen := Citizen{ID: id, Name: "Asha", Sector: "3"}
	p := citizen.Principal()
	assert.Equal(t, id, p.ID)
	assert.Equal(t, RoleCitizen, p.Role)
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "3", p.Sector)
}

func TestSectorHeadPrincipal(t *testing.T) {
	id := primitive.NewObjectID()
	head := SectorHead{ID: id, Name: "Ravi", Sector: "3"}
	p := head.Principal()
	assert.Equal(t, id, p.ID)
	assert.Equal(t, RoleSectorHead, p.Role)
	assert.Equal(t, "3", p.Sector)
}

func TestAdminPrincipal(t *testing.T) {
	id := primitive.NewObjectID()
	admin := Admin{ID: id, Name: "Meera"}
	p := admin.Principal()
	assert.Equal(t, id, p.ID)
	assert.Equal(t, RoleAdmin, p.Role)
	assert.Empty(t, p.Sector)
}
