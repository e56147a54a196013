package shared

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner(t *testing.T) {
	got := Banner("otfgen", "head.schema")
	assert.True(t, strings.HasPrefix(got, "// Code generated by"))
	assert.Contains(t, got, "otfgen")
	assert.Contains(t, got, "head.schema")
	assert.Contains(t, got, "DO NOT EDIT")
}
