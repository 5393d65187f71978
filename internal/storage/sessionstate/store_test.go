package sessionstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/session"
)

func TestStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "Test Net")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test_net.json"), store.path)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)

	sess := session.New(nil)
	require.NoError(t, sess.Connect(domain.WalletSession{WalletID: domain.WalletKeyfile, Address: "GADDR"}, nil))
	sess.SetDraft(domain.ActionLock, session.Draft{Amount: "12.5"})

	require.NoError(t, store.Save(FromView(sess.View())))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.NotNil(t, loaded.Wallet)
	assert.Equal(t, domain.WalletKeyfile, loaded.Wallet.WalletID)
	assert.Equal(t, "GADDR", loaded.Wallet.Address)
	assert.Equal(t, "12.5", loaded.Drafts[domain.ActionLock].Amount)
	assert.False(t, loaded.SavedAt.IsZero())

	_, err = os.Stat(store.path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "public")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0o600))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestSanitizeScope(t *testing.T) {
	assert.Equal(t, "public", sanitizeScope(" PUBLIC "))
	assert.Equal(t, "a_b", sanitizeScope("a--b"))
	assert.Equal(t, "", sanitizeScope("///"))
}
