package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandle(t *testing.T) {
	for _, name := range []string{"top", "bottom", "left", "right"} {
		h, err := ParseHandle(name)
		require.NoError(t, err)
		assert.Equal(t, name, h.String())
	}

	_, err := ParseHandle("center")
	assert.Error(t, err)
	_, err = ParseHandle("")
	assert.Error(t, err)
}
