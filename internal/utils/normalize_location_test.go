package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "hostel a - room 101", NormalizeLocation("Hostel A -  Room 101"))
	assert.Equal(t, "hostel a - room 101", NormalizeLocation("  hostel   a - ROOM 101  "))
	assert.Equal(t, "", NormalizeLocation("   "))
	assert.Equal(t, "", NormalizeLocation(""))
}
