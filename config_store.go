package main

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Role group field prefixes inside the per-guild config document
const (
	prefixAuthorized = "id_role_"
	prefixTagged     = "ide_"
	prefixDonor      = "ido_"
)

var (
	// ErrNotConfigured means no config document exists for the guild
	ErrNotConfigured = errors.New("server not configured")
	// ErrNothingToClear means the group had no stored fields to remove
	ErrNothingToClear = errors.New("no matching roles configured")
)

// ConfigStore reads and writes the per-guild configuration document
type ConfigStore struct {
	store DocumentStore
}

func configPath(serverID string) string {
	return "servidores/" + serverID + "/configugeneral/main"
}

// Get returns the guild configuration, or ErrNotConfigured
func (c *ConfigStore) Get(ctx context.Context, serverID string) (*ServerConfig, error) {
	fields, err := c.store.GetDocument(ctx, configPath(serverID))
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, ErrNotConfigured
	}

	cfg := &ServerConfig{ServerID: serverID}
	if v, ok := fields["idsv_"].(string); ok {
		cfg.ServerID = v
	}
	if v, ok := fields["server_name"].(string); ok {
		cfg.ServerName = v
	}
	cfg.ChannelID = asInt64(fields["id_canalp"])
	cfg.AuthorizedRoleIDs = roleGroup(fields, prefixAuthorized)
	cfg.TaggedRoleIDs = roleGroup(fields, prefixTagged)
	cfg.DonorRoleIDs = roleGroup(fields, prefixDonor)

	return cfg, nil
}

// SetServer upserts the identity fields of the guild, leaving every
// other configured field as it is
func (c *ConfigStore) SetServer(ctx context.Context, serverID, serverName string) error {
	return c.store.SetDocument(ctx, configPath(serverID), map[string]interface{}{
		"idsv_":       serverID,
		"server_name": serverName,
	}, true)
}

// SetAnnouncementChannel stores the channel publications go to.
// Returns whether the config document had to be created
func (c *ConfigStore) SetAnnouncementChannel(ctx context.Context, serverID string, channelID int64) (bool, error) {
	path := configPath(serverID)

	fields, err := c.store.GetDocument(ctx, path)
	if err != nil {
		return false, err
	}
	if fields == nil {
		return true, c.store.SetDocument(ctx, path, map[string]interface{}{"id_canalp": channelID}, false)
	}

	return false, c.store.UpdateDocument(ctx, path, map[string]interface{}{"id_canalp": channelID})
}

// ReplaceRoleGroup writes the group as prefix1..prefixN, 1-based, in
// the given order. Leftover higher-numbered keys from an earlier,
// longer write are NOT removed; stored documents rely on reading the
// group back as written, so this stays until the data model changes
func (c *ConfigStore) ReplaceRoleGroup(ctx context.Context, serverID, prefix string, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(roleIDs))
	for i, id := range roleIDs {
		fields[prefix+strconv.Itoa(i+1)] = id
	}

	return c.store.UpdateDocument(ctx, configPath(serverID), fields)
}

// ClearRoleGroup removes every stored field of the group. Fields of
// other groups are left untouched
func (c *ConfigStore) ClearRoleGroup(ctx context.Context, serverID, prefix string) error {
	path := configPath(serverID)

	fields, err := c.store.GetDocument(ctx, path)
	if err != nil {
		return err
	}
	if fields == nil {
		return ErrNotConfigured
	}

	updates := make(map[string]interface{})
	for key := range fields {
		if strings.HasPrefix(key, prefix) {
			updates[key] = DeleteField
		}
	}
	if len(updates) == 0 {
		return ErrNothingToClear
	}

	return c.store.UpdateDocument(ctx, path, updates)
}

// roleGroup collects prefixN fields in numeric order
func roleGroup(fields map[string]interface{}, prefix string) []int64 {
	type entry struct {
		index int
		id    int64
	}

	var entries []entry
	for key, value := range fields {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		index, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}

		if id := asInt64(value); id != 0 {
			entries = append(entries, entry{index: index, id: id})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.id)
	}
	if len(ids) == 0 {
		return nil
	}

	return ids
}

// asInt64 widens the integer shapes the store hands back
func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
