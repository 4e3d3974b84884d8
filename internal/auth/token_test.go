package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueAndParseUserToken(t *testing.T) {
	service := NewService("test-secret", time.Hour)
	userID := primitive.NewObjectID()

	token, err := service.IssueUser(userID, "shopper@example.com")
	require.NoError(t, err)

	claims, err := service.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, "shopper@example.com", claims.Email)

	parsedID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestEnvAdminTokenHasNoUserID(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	token, err := service.IssueEnvAdmin(RoleMainAdmin)
	require.NoError(t, err)

	claims, err := service.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, RoleMainAdmin, claims.Role)
	assert.Equal(t, EnvSubjectPrefix+RoleMainAdmin, claims.Subject)

	_, err = claims.UserID()
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	service := NewService("test-secret", -time.Minute)

	token, err := service.Issue("subject", RoleUser, "")
	require.NoError(t, err)

	_, err = service.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	token, err := issuer.IssueEnvAdmin(RoleStockAdmin)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	service := NewService("test-secret", time.Hour)
	_, err := service.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
