package service

import (
	"context"
	"fmt"

	"github.com/hitsquad/panela/internal/model"
)

// GuildConfigRepositoryInterface defines the repository interface
type GuildConfigRepositoryInterface interface {
	Get(ctx context.Context, guildID string) (*model.GuildConfig, error)
	Create(ctx context.Context, cfg *model.GuildConfig) error
	Update(ctx context.Context, guildID string, update model.GuildConfigUpdate) error
	List(ctx context.Context) ([]*model.GuildConfig, error)
}

// GuildConfigService handles guild configuration business logic
type GuildConfigService struct {
	repo GuildConfigRepositoryInterface
	gate GatePolicy
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(repo GuildConfigRepositoryInterface, gate GatePolicy) *GuildConfigService {
	return &GuildConfigService{repo: repo, gate: gate}
}

// Get retrieves a guild's configuration, or nil when none exists.
func (s *GuildConfigService) Get(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	return cfg, nil
}

// BindSlot binds a role to a slot, creating the guild's configuration on
// first use. Rebinding a slot replaces the previous role; existing audit
// entries for the old role are kept untouched.
func (s *GuildConfigService) BindSlot(ctx context.Context, guildID string, slot model.Slot, roleID string) error {
	if !slot.IsValid() {
		return ErrInvalidSlot
	}

	update := model.GuildConfigUpdate{}
	switch slot {
	case model.SlotFirstLady:
		update.FirstLadyRoleID = &roleID
	case model.SlotAntiBan:
		update.AntiBanRoleID = &roleID
	case model.SlotCapacity:
		update.CapacityRoleID = &roleID
	}

	return s.upsert(ctx, guildID, update)
}

// SetLimit sets the capacity of a role. The whole limits map is replaced
// with the merged value so concurrent editors observe last-write-wins per
// command, not per entry.
func (s *GuildConfigService) SetLimit(ctx context.Context, guildID, roleID string, limit int) error {
	if limit < 1 {
		return ErrInvalidLimit
	}

	cfg, err := s.Get(ctx, guildID)
	if err != nil {
		return err
	}

	limits := make(map[string]int)
	if cfg != nil {
		for k, v := range cfg.RoleLimits {
			limits[k] = v
		}
	}
	limits[roleID] = limit

	return s.upsert(ctx, guildID, model.GuildConfigUpdate{RoleLimits: limits})
}

// SetAllowedRoles replaces the invoker allow-list as a whole.
func (s *GuildConfigService) SetAllowedRoles(ctx context.Context, guildID string, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return ErrNoRolesGiven
	}
	return s.upsert(ctx, guildID, model.GuildConfigUpdate{AllowedRoles: roleIDs})
}

// SetRestrictedRoles replaces the recipient eligibility list as a whole.
func (s *GuildConfigService) SetRestrictedRoles(ctx context.Context, guildID string, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return ErrNoRolesGiven
	}
	return s.upsert(ctx, guildID, model.GuildConfigUpdate{RestrictedAllowedRoles: roleIDs})
}

// Overview reports the audit-recorded holders of every bound slot. The owner
// and administrators see all holders; anyone else sees only memberships they
// granted themselves. The result is derived purely from the audit trail, not
// from live platform membership.
func (s *GuildConfigService) Overview(ctx context.Context, guildID, viewerID string, viewerIsAdmin bool) (*model.MembersOverview, error) {
	cfg, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrConfigMissing
	}

	inviterFilter := viewerID
	if viewerIsAdmin || (s.gate.OwnerID != "" && viewerID == s.gate.OwnerID) {
		inviterFilter = ""
	}

	overview := &model.MembersOverview{GuildID: guildID}
	for _, slot := range model.Slots() {
		roleID, ok := cfg.RoleForSlot(slot)
		if !ok {
			continue
		}
		overview.Slots = append(overview.Slots, model.SlotMembers{
			Slot:    slot,
			RoleID:  roleID,
			Members: HoldersAddedBy(cfg, roleID, inviterFilter),
			Limit:   EffectiveLimit(cfg, roleID),
		})
	}
	return overview, nil
}

// upsert applies the update, creating the config record on first use.
func (s *GuildConfigService) upsert(ctx context.Context, guildID string, update model.GuildConfigUpdate) error {
	cfg, err := s.Get(ctx, guildID)
	if err != nil {
		return err
	}

	if cfg == nil {
		cfg = &model.GuildConfig{GuildID: guildID}
		update.Apply(cfg)
		if err := s.repo.Create(ctx, cfg); err != nil {
			return fmt.Errorf("%w: %v", ErrPlatform, err)
		}
		return nil
	}

	if err := s.repo.Update(ctx, guildID, update); err != nil {
		return fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	return nil
}
