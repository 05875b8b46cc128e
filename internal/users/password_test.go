package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPassword(hash, "secret"))
	assert.False(t, CheckPassword(hash, "Secret"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestHashesAreSalted(t *testing.T) {
	a, err := HashPassword("secret")
	require.NoError(t, err)
	b, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleCoDesigner))
	assert.True(t, ValidRole(RoleFacilitator))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}
