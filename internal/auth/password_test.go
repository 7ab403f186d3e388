package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("p1")
	assert.NoError(t, err)
	assert.NotEqual(t, "p1", hash)

	ok, err := CheckPassword("p1", hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword("wrong", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	ok, err := CheckPassword("p1", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}
