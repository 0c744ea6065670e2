package kvstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	badgerkv "github.com/fystack/evm-relayer/pkg/kvstore"
)

func newPendingStore(t *testing.T) *PendingTxStore {
	t.Helper()
	badgerStore, err := badgerkv.NewBadgerStore(t.TempDir(), "test", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = badgerStore.Close() })
	return NewPendingTxStore(badgerStore)
}

func TestPendingTxStore(t *testing.T) {
	store := newPendingStore(t)

	tx := PendingTx{
		ChainID:     80002,
		TxHash:      "0xAB",
		Operation:   "mint",
		Nonce:       7,
		SubmittedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Put(tx))

	got, err := store.Get(80002, "0xab")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mint", got.Operation)
	assert.Equal(t, 0, got.Checks)

	tx.LastError = "not confirmed"
	require.NoError(t, store.Put(tx))
	got, err = store.Get(80002, "0xAB")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Checks)
	assert.Equal(t, "not confirmed", got.LastError)

	missing, err := store.Get(1, "0xab")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPendingTxStore_ListAndResolve(t *testing.T) {
	store := newPendingStore(t)

	require.NoError(t, store.Put(PendingTx{ChainID: 80002, TxHash: "0x02", Nonce: 9}))
	require.NoError(t, store.Put(PendingTx{ChainID: 80002, TxHash: "0x01", Nonce: 8}))
	require.NoError(t, store.Put(PendingTx{ChainID: 137, TxHash: "0x03", Nonce: 1}))

	list, err := store.List(80002)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(8), list[0].Nonce)
	assert.Equal(t, uint64(9), list[1].Nonce)

	require.NoError(t, store.Resolve(80002, "0x01"))
	list, err = store.List(80002)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "0x02", list[0].TxHash)

	assert.Error(t, store.Put(PendingTx{ChainID: 1}))
}
