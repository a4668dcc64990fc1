package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringArrayToggle(t *testing.T) {
	likes := StringArray{}

	likes = likes.Toggle("u1")
	assert.True(t, likes.Contains("u1"))

	likes = likes.Toggle("u2")
	assert.Equal(t, StringArray{"u1", "u2"}, likes)

	// Toggling again removes membership, never duplicates.
	likes = likes.Toggle("u1")
	assert.False(t, likes.Contains("u1"))
	assert.Equal(t, StringArray{"u2"}, likes)

	likes = likes.Toggle("u2")
	assert.Empty(t, likes)
}
