package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagTitles(t *testing.T) {
	assert.Equal(t, []string{"go", "web", "api"}, ParseTagTitles("go, web ,api"))
	assert.Equal(t, []string{"go"}, ParseTagTitles("go,,  ,go"))
	assert.Nil(t, ParseTagTitles(""))
	assert.Nil(t, ParseTagTitles(" , ,,"))
}

func TestParseTagTitlesKeepsCaseDistinct(t *testing.T) {
	// Case folding, when enabled, happens at lookup time, not at parse time.
	assert.Equal(t, []string{"Go", "go"}, ParseTagTitles("Go, go"))
}

func TestParseTagTitlesPreservesOrder(t *testing.T) {
	assert.Equal(t, []string{"c", "a", "b"}, ParseTagTitles("c,a,b,a,c"))
}
