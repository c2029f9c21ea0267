package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	c := Contact{WaID: "919937320320", Name: "Ravi", ProfilePic: "/uploads/a.png"}

	// Empty fields never clobber stored values.
	assert.False(t, c.Merge("", ""))
	assert.Equal(t, "Ravi", c.Name)
	assert.Equal(t, "/uploads/a.png", c.ProfilePic)

	// Same values report no change.
	assert.False(t, c.Merge("Ravi", "/uploads/a.png"))

	// Partial update only touches the provided field.
	assert.True(t, c.Merge("Ravi Kumar", ""))
	assert.Equal(t, "Ravi Kumar", c.Name)
	assert.Equal(t, "/uploads/a.png", c.ProfilePic)

	assert.True(t, c.Merge("", "/uploads/b.png"))
	assert.Equal(t, "Ravi Kumar", c.Name)
	assert.Equal(t, "/uploads/b.png", c.ProfilePic)
}

func TestMergeIntoEmpty(t *testing.T) {
	c := Contact{WaID: "929967673820"}
	assert.True(t, c.Merge("Neha", ""))
	assert.Equal(t, "Neha", c.Name)
	assert.Equal(t, "", c.ProfilePic)
}
