package fwversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "2.3.0", Format(230))
	assert.Equal(t, "2.4.1", Format(241))
	assert.Equal(t, "0.0.9", Format(9))
}

func TestAtLeast(t *testing.T) {
	ok, err := AtLeast(230, "2.0.0")
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, ok)

	ok, err = AtLeast(199, "2.0.0")
	if err != nil {
		t.Fatal(err)
	}
	assert.False(t, ok)

	_, err = AtLeast(230, "not a version")
	assert.Error(t, err)
}
