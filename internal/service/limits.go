package service

import (
	"sort"

	"github.com/hitsquad/panela/internal/model"
)

// EffectiveLimit resolves the capacity for a role. Roles without a configured
// limit fall back to model.DefaultRoleLimit.
func EffectiveLimit(cfg *model.GuildConfig, roleID string) int {
	if limit, ok := cfg.RoleLimits[roleID]; ok {
		return limit
	}
	return model.DefaultRoleLimit
}

// HoldersAddedBy returns the audit-recorded holders of a role, sorted by
// member ID. When inviterID is non-empty only memberships granted by that
// inviter are returned.
func HoldersAddedBy(cfg *model.GuildConfig, roleID, inviterID string) []string {
	members := cfg.MemberAddedBy[roleID]
	if len(members) == 0 {
		return nil
	}
	holders := make([]string, 0, len(members))
	for memberID, inv := range members {
		if inviterID != "" && inv != inviterID {
			continue
		}
		holders = append(holders, memberID)
	}
	sort.Strings(holders)
	return holders
}

// grantCount counts audit-recorded memberships for a role. In per-inviter
// mode only the invoker's own grants count against the limit.
func grantCount(cfg *model.GuildConfig, roleID, inviterID string, perInviter bool) int {
	members := cfg.MemberAddedBy[roleID]
	if !perInviter {
		return len(members)
	}
	count := 0
	for _, inv := range members {
		if inv == inviterID {
			count++
		}
	}
	return count
}
