package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb", Normalize("a\r\nb\r\n"))
	assert.Equal(t, "a\nb", Normalize("a\rb\r"))
}

func TestNormalizeTrailingWhitespace(t *testing.T) {
	assert.Equal(t, "1 2\n3 4", Normalize("1 2   \n3 4\t\n"))
}

func TestNormalizeOuterWhitespace(t *testing.T) {
	assert.Equal(t, "hello", Normalize("\n\n  hello  \n\n"))
	assert.Equal(t, "", Normalize("   \n\t\n"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"a \r\n b \r\n",
		"  x\ty  \n\nz  ",
		"1\n2\n3\n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestComparePreservesInnerDifferences(t *testing.T) {
	assert.True(t, Compare("42\n", "42"))
	assert.True(t, Compare("a b\r\nc d  \n", "a b\nc d"))

	// No numeric tolerance and no case folding.
	assert.False(t, Compare("3.14", "3.140"))
	assert.False(t, Compare("Hello", "hello"))
	assert.False(t, Compare("a  b", "a b"))
}
