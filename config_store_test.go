package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore() (*ConfigStore, *memoryStore) {
	store := newMemoryStore()
	return &ConfigStore{store: store}, store
}

func TestGetNotConfigured(t *testing.T) {
	configs, _ := newTestConfigStore()

	_, err := configs.Get(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSetServerKeepsOtherFields(t *testing.T) {
	configs, _ := newTestConfigStore()
	ctx := context.Background()

	_, err := configs.SetAnnouncementChannel(ctx, "42", 1001)
	require.NoError(t, err)

	require.NoError(t, configs.SetServer(ctx, "42", "Acme"))

	cfg, err := configs.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.ServerID)
	assert.Equal(t, "Acme", cfg.ServerName)
	assert.EqualValues(t, 1001, cfg.ChannelID, "identity upsert must not clobber the channel")
}

func TestSetAnnouncementChannel(t *testing.T) {
	configs, _ := newTestConfigStore()
	ctx := context.Background()

	created, err := configs.SetAnnouncementChannel(ctx, "42", 1001)
	require.NoError(t, err)
	assert.True(t, created, "first write creates the document")

	created, err = configs.SetAnnouncementChannel(ctx, "42", 2002)
	require.NoError(t, err)
	assert.False(t, created)

	cfg, err := configs.Get(ctx, "42")
	require.NoError(t, err)
	assert.EqualValues(t, 2002, cfg.ChannelID)
}

func TestReplaceRoleGroupRoundTrip(t *testing.T) {
	configs, store := newTestConfigStore()
	ctx := context.Background()

	require.NoError(t, configs.SetServer(ctx, "42", "Acme"))
	require.NoError(t, configs.ReplaceRoleGroup(ctx, "42", prefixAuthorized, []int64{30, 10, 20}))

	cfg, err := configs.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, []int64{30, 10, 20}, cfg.AuthorizedRoleIDs, "input order survives the numbered keys")

	raw := store.rawDoc(configPath("42"))
	assert.EqualValues(t, 30, raw["id_role_1"])
	assert.EqualValues(t, 10, raw["id_role_2"])
	assert.EqualValues(t, 20, raw["id_role_3"])
}

func TestReplaceRoleGroupKeepsLeftovers(t *testing.T) {
	configs, store := newTestConfigStore()
	ctx := context.Background()

	require.NoError(t, configs.SetServer(ctx, "42", "Acme"))
	require.NoError(t, configs.ReplaceRoleGroup(ctx, "42", prefixTagged, []int64{1, 2, 3}))
	require.NoError(t, configs.ReplaceRoleGroup(ctx, "42", prefixTagged, []int64{9}))

	// A shorter replacement overwrites only the indices it covers;
	// ide_2 and ide_3 survive from the earlier write
	cfg, err := configs.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 2, 3}, cfg.TaggedRoleIDs)

	raw := store.rawDoc(configPath("42"))
	assert.EqualValues(t, 9, raw["ide_1"])
	assert.EqualValues(t, 2, raw["ide_2"])
	assert.EqualValues(t, 3, raw["ide_3"])
}

func TestClearRoleGroup(t *testing.T) {
	configs, store := newTestConfigStore()
	ctx := context.Background()

	require.NoError(t, configs.SetServer(ctx, "42", "Acme"))
	require.NoError(t, configs.ReplaceRoleGroup(ctx, "42", prefixAuthorized, []int64{1, 2}))
	require.NoError(t, configs.ReplaceRoleGroup(ctx, "42", prefixDonor, []int64{7}))

	require.NoError(t, configs.ClearRoleGroup(ctx, "42", prefixDonor))

	raw := store.rawDoc(configPath("42"))
	assert.Empty(t, keysWithPrefix(raw, prefixDonor))
	assert.Len(t, keysWithPrefix(raw, prefixAuthorized), 2, "other groups stay untouched")
	assert.Equal(t, "Acme", raw["server_name"])
}

func TestClearRoleGroupNothingToClear(t *testing.T) {
	configs, _ := newTestConfigStore()
	ctx := context.Background()

	require.NoError(t, configs.SetServer(ctx, "42", "Acme"))

	err := configs.ClearRoleGroup(ctx, "42", prefixTagged)
	assert.ErrorIs(t, err, ErrNothingToClear)
}

func TestClearRoleGroupNotConfigured(t *testing.T) {
	configs, _ := newTestConfigStore()

	err := configs.ClearRoleGroup(context.Background(), "42", prefixTagged)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRoleGroupOrderFromSparseKeys(t *testing.T) {
	configs, store := newTestConfigStore()
	ctx := context.Background()

	// Indices stored out of order and with gaps still read back sorted
	require.NoError(t, store.SetDocument(ctx, configPath("42"), map[string]interface{}{
		"ido_3": int64(300),
		"ido_1": int64(100),
		"ido_7": int64(700),
	}, false))

	cfg, err := configs.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 300, 700}, cfg.DonorRoleIDs)
}
