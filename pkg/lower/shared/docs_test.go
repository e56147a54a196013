package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocCommentEmpty(t *testing.T) {
	assert.Equal(t, "", DocComment("\t", nil))
}

func TestDocCommentMultiline(t *testing.T) {
	got := DocComment("\t", []string{"first line.", "second line."})
	assert.Equal(t, "\t// first line.\n\t// second line.\n", got)
}
