package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoweringErrorMessage(t *testing.T) {
	err := &LoweringError{Item: "Head", Msg: "field 'x': bad shape"}
	assert.Equal(t, "Head: field 'x': bad shape", err.Error())
}
