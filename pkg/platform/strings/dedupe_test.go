package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	got := DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  ", "Foo"})
	assert.Equal(t, []string{"foo", "bar", "Foo"}, got)
}

func TestDedupeAndTrimLower(t *testing.T) {
	got := DedupeAndTrimLower([]string{"  FOO ", "bar", "Foo", ""})
	assert.Equal(t, []string{"foo", "bar"}, got)
}

func TestDedupeAndTrimEmpty(t *testing.T) {
	assert.Empty(t, DedupeAndTrim(nil))
	assert.Empty(t, DedupeAndTrim([]string{" ", ""}))
}
