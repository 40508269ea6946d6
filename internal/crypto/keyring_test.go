package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyring_StoreAndFetch(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "")
	k := NewKeyring()

	assert.False(t, k.IsAvailable())
	_, err := k.GetKey()
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, k.SetKey("s3cret"))
	assert.True(t, k.IsAvailable())
	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", key)

	require.NoError(t, k.DeleteKey())
	require.ErrorIs(t, k.DeleteKey(), ErrKeyNotFound)
}

func TestKeyring_EnvOverride(t *testing.T) {
	keyring.MockInit()
	k := NewKeyring()
	require.NoError(t, k.SetKey("from-keyring"))

	t.Setenv(EnvKey, "from-env")
	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestKeyring_RejectsEmpty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, NewKeyring().SetKey(""))
}
