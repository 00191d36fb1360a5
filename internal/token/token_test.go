package token

import (
	"testing"

	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	manager := NewManager("test-secret")
	user := &models.User{ID: 42, Email: "alice@example.com"}

	signed, err := manager.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := manager.Verify(signed)
	require.NoError(t, err)
	require.EqualValues(t, 42, userID)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	signed, err := NewManager("secret-one").Issue(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)

	_, err = NewManager("secret-two").Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, err := NewManager("test-secret").Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
