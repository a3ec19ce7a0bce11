package ucs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildFilter(t *testing.T) {
	filter, err := ChildFilter("DC03")
	require.NoError(t, err)
	assert.Equal(t, `(name, "DC03", type="eq")`, filter.String())

	// Spaces are legal in a filter even though they are not legal in a DN.
	filter, err = ChildFilter("Exchange pool")
	require.NoError(t, err)
	assert.Equal(t, `(name, "Exchange pool", type="eq")`, filter.String())
}

func TestChildFilter_RejectsUnsafeNames(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "empty", value: ""},
		{name: "double quote", value: `DC"03`},
		{name: "backslash", value: `DC\03`},
		{name: "newline", value: "DC\n03"},
		{name: "tab", value: "DC\t03"},
		{name: "NUL", value: "DC\x0003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := ChildFilter(tt.value)
			require.Error(t, err)
			assert.Nil(t, filter)
			assert.True(t, IsInvalidArgument(err))
		})
	}
}

func TestEqFilter_Matches(t *testing.T) {
	pool := &ManagedObject{ClassID: ClassIPPool, Properties: Properties{"name": "DC03"}}

	filter, err := NewEqFilter("name", "DC03")
	require.NoError(t, err)

	assert.True(t, filter.Matches(pool))
	assert.True(t, filter.withClass(ClassIPPool).Matches(pool))
	assert.False(t, filter.withClass(ClassLANConnPolicy).Matches(pool))

	var none *EqFilter
	assert.True(t, none.Matches(pool))
	assert.Nil(t, none.withClass(ClassIPPool))

	_, err = NewEqFilter("", "x")
	assert.True(t, IsInvalidArgument(err))
}
