package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esparse/diag"
	"github.com/example/esparse/parser"
)

func TestParseCaches(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	first, err := c.Parse("var a = 1", "a.js")
	require.NoError(t, err)
	second, err := c.Parse("var a = 1", "a.js")
	require.NoError(t, err)
	assert.Same(t, first, second)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestFileNameSeparatesEntries(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	a, err := c.Parse("x", "a.js")
	require.NoError(t, err)
	b, err := c.Parse("x", "b.js")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	require.NotNil(t, a.Program.Loc.Source)
	require.NotNil(t, b.Program.Loc.Source)
	assert.Equal(t, "a.js", *a.Program.Loc.Source)
	assert.Equal(t, "b.js", *b.Program.Loc.Source)

	_, errA := c.Parse("x = ", "a.js")
	_, errB := c.Parse("x = ", "b.js")
	var derrA, derrB *diag.Error
	require.ErrorAs(t, errA, &derrA)
	require.ErrorAs(t, errB, &derrB)
	assert.Equal(t, "a.js", derrA.File)
	assert.Equal(t, "b.js", derrB.File)

	hits, misses := c.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(4), misses)
}

func TestOptionsSeparateEntries(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	script, err := c.Parse("x", "")
	require.NoError(t, err)
	module, err := c.Parse("x", "", parser.WithModule())
	require.NoError(t, err)
	assert.NotSame(t, script, module)
	assert.Equal(t, "module", module.Program.SourceType)
	assert.Equal(t, 2, c.Len())
}

func TestErrorsAreCached(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	_, err = c.Parse("a +", "")
	require.Error(t, err)
	_, again := c.Parse("a +", "")
	assert.Same(t, err, again)

	var derr *diag.Error
	require.ErrorAs(t, again, &derr)
	assert.Equal(t, diag.SyntaxError, derr.Kind)
}

func TestEviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)
	for _, src := range []string{"a", "b", "c"} {
		_, err := c.Parse(src, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	_, err = c.Parse("a", "")
	require.NoError(t, err)
	hits, misses := c.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(4), misses)
}

func TestKeyFor(t *testing.T) {
	o := parser.DefaultOptions()
	assert.Equal(t, KeyFor("abc", "a.js", o), KeyFor("abc", "a.js", o))
	assert.NotEqual(t, KeyFor("abc", "a.js", o), KeyFor("abd", "a.js", o))
	assert.NotEqual(t, KeyFor("abc", "a.js", o), KeyFor("abc", "b.js", o))
	o.Comments = true
	assert.NotEqual(t, KeyFor("abc", "a.js", parser.DefaultOptions()), KeyFor("abc", "a.js", o))

	_, err := New(0)
	assert.Error(t, err)
}
