package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hitsquad/panela/internal/database"
	"github.com/hitsquad/panela/internal/model"
)

// MemoryGuildConfigRepository keeps guild configurations in process memory.
// It honors the same contract as the SurrealDB repository and is the default
// backend for development and tests.
type MemoryGuildConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]*model.GuildConfig
}

// NewMemoryGuildConfigRepository creates an empty in-memory repository
func NewMemoryGuildConfigRepository() *MemoryGuildConfigRepository {
	return &MemoryGuildConfigRepository{
		configs: make(map[string]*model.GuildConfig),
	}
}

// Get retrieves the configuration for a guild. Returns (nil, nil) when no
// record exists.
func (r *MemoryGuildConfigRepository) Get(_ context.Context, guildID string) (*model.GuildConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[guildID]
	if !ok {
		return nil, nil
	}
	return cfg.Clone(), nil
}

// Create creates the configuration record for a guild
func (r *MemoryGuildConfigRepository) Create(_ context.Context, cfg *model.GuildConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[cfg.GuildID]; ok {
		return fmt.Errorf("%w: config already exists for guild %s", database.ErrDuplicate, cfg.GuildID)
	}
	r.configs[cfg.GuildID] = cfg.Clone()
	return nil
}

// Update applies a partial update to a guild's configuration. Returns
// database.ErrNotFound when no record exists.
func (r *MemoryGuildConfigRepository) Update(_ context.Context, guildID string, update model.GuildConfigUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.configs[guildID]
	if !ok {
		return fmt.Errorf("%w: no config for guild %s", database.ErrNotFound, guildID)
	}
	update.Apply(cfg)
	return nil
}

// List retrieves the configurations of all guilds, ordered by guild ID
func (r *MemoryGuildConfigRepository) List(_ context.Context) ([]*model.GuildConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]*model.GuildConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg.Clone())
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].GuildID < configs[j].GuildID
	})
	return configs, nil
}
