package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidator(t *testing.T) {
	rv := newRequestValidator()

	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, rv.Validate(&announcementRequest{Title: "t", Description: "d"}))
	})

	t.Run("uses json field names", func(t *testing.T) {
		fields := rv.Validate(&announcementRequest{})
		assert.Equal(t, "title is a required field", fields["title"])
		assert.Equal(t, "description is a required field", fields["description"])
	})

	t.Run("length is counted in runes", func(t *testing.T) {
		assert.Nil(t, rv.Validate(&announcementRequest{Title: strings.Repeat("é", 200), Description: "d"}))
		fields := rv.Validate(&announcementRequest{Title: "t", Description: strings.Repeat("x", 2001)})
		assert.Contains(t, fields, "description")
		assert.NotContains(t, fields, "title")
	})
}
