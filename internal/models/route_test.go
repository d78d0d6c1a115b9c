package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleTextList_Value(t *testing.T) {
	v, err := ExampleTextList{"I ate 2 eggs", "log a banana"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["I ate 2 eggs","log a banana"]`, string(v.([]byte)))

	empty, err := ExampleTextList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), empty)
}

func TestExampleTextList_Scan(t *testing.T) {
	var l ExampleTextList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, ExampleTextList{"a", "b"}, l)

	require.NoError(t, l.Scan(`["c"]`))
	assert.Equal(t, ExampleTextList{"c"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.ErrorContains(t, l.Scan(42), "cannot scan")
}
