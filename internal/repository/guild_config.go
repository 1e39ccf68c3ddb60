package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitsquad/panela/internal/database"
	"github.com/hitsquad/panela/internal/model"
)

// GuildConfigRepository handles guild configuration data access in SurrealDB.
type GuildConfigRepository struct {
	db database.Database
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db database.Database) *GuildConfigRepository {
	return &GuildConfigRepository{db: db}
}

// Get retrieves the configuration for a guild. Returns (nil, nil) when no
// record exists.
func (r *GuildConfigRepository) Get(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	query := `SELECT * FROM guild_config WHERE guild_id = $guild_id LIMIT 1`
	vars := map[string]interface{}{"guild_id": guildID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	cfg, err := parseConfigResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Create creates the configuration record for a guild
func (r *GuildConfigRepository) Create(ctx context.Context, cfg *model.GuildConfig) error {
	query := `
		CREATE guild_config CONTENT {
			guild_id: $guild_id,
			first_lady_role_id: $first_lady_role_id,
			anti_ban_role_id: $anti_ban_role_id,
			capacity_role_id: $capacity_role_id,
			role_limits: $role_limits,
			allowed_roles: $allowed_roles,
			restricted_allowed_roles: $restricted_allowed_roles,
			member_added_by: $member_added_by,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	if err := r.db.Execute(ctx, query, configVars(cfg)); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: config already exists for guild %s", database.ErrDuplicate, cfg.GuildID)
		}
		return err
	}
	return nil
}

// Update applies a partial update to a guild's configuration. Returns
// database.ErrNotFound when no record exists.
func (r *GuildConfigRepository) Update(ctx context.Context, guildID string, update model.GuildConfigUpdate) error {
	cfg, err := r.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("%w: no config for guild %s", database.ErrNotFound, guildID)
	}

	update.Apply(cfg)

	query := `
		UPDATE guild_config SET
			first_lady_role_id = $first_lady_role_id,
			anti_ban_role_id = $anti_ban_role_id,
			capacity_role_id = $capacity_role_id,
			role_limits = $role_limits,
			allowed_roles = $allowed_roles,
			restricted_allowed_roles = $restricted_allowed_roles,
			member_added_by = $member_added_by,
			updated_on = time::now()
		WHERE guild_id = $guild_id
	`

	return r.db.Execute(ctx, query, configVars(cfg))
}

// List retrieves the configurations of all guilds
func (r *GuildConfigRepository) List(ctx context.Context) ([]*model.GuildConfig, error) {
	query := `SELECT * FROM guild_config ORDER BY guild_id`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	items, _ := extractQueryResults(results)
	configs := make([]*model.GuildConfig, 0, len(items))
	for _, item := range items {
		if data, ok := item.(map[string]interface{}); ok {
			configs = append(configs, parseConfigFromData(data))
		}
	}
	return configs, nil
}

// Helper functions

func configVars(cfg *model.GuildConfig) map[string]interface{} {
	return map[string]interface{}{
		"guild_id":                 cfg.GuildID,
		"first_lady_role_id":       cfg.FirstLadyRoleID,
		"anti_ban_role_id":         cfg.AntiBanRoleID,
		"capacity_role_id":         cfg.CapacityRoleID,
		"role_limits":              model.EncodeRoleLimits(cfg.RoleLimits),
		"allowed_roles":            cfg.AllowedRoles,
		"restricted_allowed_roles": cfg.RestrictedAllowedRoles,
		"member_added_by":          model.EncodeAddedBy(cfg.MemberAddedBy),
	}
}

func parseConfigResult(result interface{}) (*model.GuildConfig, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	// Navigate through SurrealDB response structure
	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	return parseConfigFromData(data), nil
}

func parseConfigFromData(data map[string]interface{}) *model.GuildConfig {
	return &model.GuildConfig{
		GuildID:                getString(data, "guild_id"),
		FirstLadyRoleID:        getString(data, "first_lady_role_id"),
		AntiBanRoleID:          getString(data, "anti_ban_role_id"),
		CapacityRoleID:         getString(data, "capacity_role_id"),
		RoleLimits:             model.DecodeRoleLimits(getStringSlice(data, "role_limits")),
		AllowedRoles:           getStringSlice(data, "allowed_roles"),
		RestrictedAllowedRoles: getStringSlice(data, "restricted_allowed_roles"),
		MemberAddedBy:          model.DecodeAddedBy(getStringSlice(data, "member_added_by")),
	}
}
