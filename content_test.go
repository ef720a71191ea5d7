package reqlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSelector(t *testing.T) {
	sel := DefaultSelector()
	for _, f := range AllFields {
		assert.True(t, sel.Includes(f), f)
	}
	assert.Empty(t, sel.Excluded())
	assert.Equal(t, Selector{}, sel)
}

func TestExclude(t *testing.T) {
	sel := DefaultSelector().Exclude(map[Field]bool{FieldBody: true})
	assert.False(t, sel.Includes(FieldBody))
	for _, f := range []Field{FieldParams, FieldQuery, FieldHeaders, FieldCookies, FieldIP} {
		assert.True(t, sel.Includes(f), f)
	}
	assert.Equal(t, []Field{FieldBody}, sel.Excluded())

	// the original is not modified
	assert.True(t, DefaultSelector().Includes(FieldBody))
}

func TestExcludeRoundTrip(t *testing.T) {
	sel := DefaultSelector().Exclude(map[Field]bool{FieldBody: true, FieldCookies: true})
	sel = sel.Exclude(map[Field]bool{FieldBody: false})
	assert.True(t, sel.Includes(FieldBody))
	assert.False(t, sel.Includes(FieldCookies))
	assert.Equal(t, []Field{FieldCookies}, sel.Excluded())
}

func TestExcludeKeepsAbsentKeys(t *testing.T) {
	sel := DefaultSelector().Exclude(map[Field]bool{FieldIP: true})
	sel = sel.Exclude(map[Field]bool{FieldHeaders: true})
	assert.Equal(t, []Field{FieldHeaders, FieldIP}, sel.Excluded())

	assert.Equal(t, sel, sel.Exclude(nil))
}

func TestExcludeIgnoresUnknownFields(t *testing.T) {
	sel := DefaultSelector().Exclude(map[Field]bool{"password": true})
	assert.Equal(t, DefaultSelector(), sel)
	assert.False(t, sel.Includes("password"))
}

func TestExcludeNames(t *testing.T) {
	sel, err := DefaultSelector().ExcludeNames(map[string]bool{"query": true, "ip": true})
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldQuery, FieldIP}, sel.Excluded())
}

func TestExcludeNamesUnknown(t *testing.T) {
	start := DefaultSelector().Exclude(map[Field]bool{FieldBody: true})
	sel, err := start.ExcludeNames(map[string]bool{"cookies": true, "session": true})
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Contains(t, err.Error(), `"session"`)
	assert.Equal(t, start, sel)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("headers")
	require.NoError(t, err)
	assert.Equal(t, FieldHeaders, f)

	_, err = ParseField("Headers")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestExclusions(t *testing.T) {
	sel := DefaultSelector().Exclude(map[Field]bool{FieldCookies: true})
	assert.Equal(t, map[string]bool{
		"params":  false,
		"query":   false,
		"body":    false,
		"headers": false,
		"cookies": true,
		"ip":      false,
	}, sel.Exclusions())

	back, err := DefaultSelector().ExcludeNames(sel.Exclusions())
	require.NoError(t, err)
	assert.Equal(t, sel, back)
}
