package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	ids := map[string]string{
		PrefixNode:    NewNodeID(),
		PrefixProject: NewProjectID(),
		PrefixBatch:   NewBatchID(),
	}
	for prefix, id := range ids {
		assert.True(t, strings.HasPrefix(id, prefix+"_"), id)
		require.NoError(t, Validate(id, prefix))
	}
	assert.NotEqual(t, NewNodeID(), NewNodeID())
}

func TestValidate(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixUser))
	err := Validate(NewNodeID(), PrefixUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected prefix "user"`)
}
