package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/hitsquad/panela/internal/jobs"
	"github.com/hitsquad/panela/internal/service"
)

// GuildRoleManager adapts the gateway API to the service layer. It satisfies
// both the assignment engine's RoleManager contract and the role guard's
// sanitizer contract.
type GuildRoleManager struct {
	session session
	botID   string
}

var (
	_ service.RoleManager = (*GuildRoleManager)(nil)
	_ jobs.RoleSanitizer  = (*GuildRoleManager)(nil)
)

// NewGuildRoleManager creates a role manager acting as the given bot user.
func NewGuildRoleManager(s session, botID string) *GuildRoleManager {
	return &GuildRoleManager{session: s, botID: botID}
}

// RoleExists reports whether the role is still present in the guild.
func (g *GuildRoleManager) RoleExists(ctx context.Context, guildID, roleID string) (bool, error) {
	role, err := g.findRole(ctx, guildID, roleID)
	if err != nil {
		return false, err
	}
	return role != nil, nil
}

// MemberHasRole reports whether the member currently holds the role.
func (g *GuildRoleManager) MemberHasRole(ctx context.Context, guildID, memberID, roleID string) (bool, error) {
	roles, err := g.MemberRoles(ctx, guildID, memberID)
	if err != nil {
		return false, err
	}
	for _, id := range roles {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

// MemberRoles returns the IDs of the roles the member holds.
func (g *GuildRoleManager) MemberRoles(ctx context.Context, guildID, memberID string) ([]string, error) {
	member, err := g.session.GuildMember(guildID, memberID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch member %s: %w", memberID, err)
	}
	return member.Roles, nil
}

// IsAdministrator reports whether the member owns the guild or holds a role
// with the administrator permission.
func (g *GuildRoleManager) IsAdministrator(ctx context.Context, guildID, memberID string) (bool, error) {
	guild, err := g.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}
	if guild.OwnerID == memberID {
		return true, nil
	}

	memberRoles, err := g.MemberRoles(ctx, guildID, memberID)
	if err != nil {
		return false, err
	}
	roles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("fetch roles: %w", err)
	}

	held := make(map[string]bool, len(memberRoles))
	for _, id := range memberRoles {
		held[id] = true
	}
	for _, role := range roles {
		if held[role.ID] && role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true, nil
		}
	}
	return false, nil
}

// CanManageRole reports whether the bot can grant and revoke the role: it
// needs the manage-roles permission and a higher position than the role, and
// integration-managed roles are never assignable.
func (g *GuildRoleManager) CanManageRole(ctx context.Context, guildID, roleID string) (bool, error) {
	roles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("fetch roles: %w", err)
	}

	var target *discordgo.Role
	for _, role := range roles {
		if role.ID == roleID {
			target = role
			break
		}
	}
	if target == nil || target.Managed {
		return false, nil
	}

	botMember, err := g.session.GuildMember(guildID, g.botID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("fetch bot member: %w", err)
	}

	held := make(map[string]bool, len(botMember.Roles))
	for _, id := range botMember.Roles {
		held[id] = true
	}

	var perms int64
	topPosition := -1
	for _, role := range roles {
		if !held[role.ID] {
			continue
		}
		perms |= role.Permissions
		if role.Position > topPosition {
			topPosition = role.Position
		}
	}

	if perms&discordgo.PermissionAdministrator == 0 && perms&discordgo.PermissionManageRoles == 0 {
		return false, nil
	}
	return topPosition > target.Position, nil
}

// AddRole grants the role, recording the reason in the guild audit log.
func (g *GuildRoleManager) AddRole(ctx context.Context, guildID, memberID, roleID, reason string) error {
	err := g.session.GuildMemberRoleAdd(guildID, memberID, roleID,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	if err != nil {
		return fmt.Errorf("add role %s to %s: %w", roleID, memberID, err)
	}
	return nil
}

// RemoveRole revokes the role, recording the reason in the guild audit log.
func (g *GuildRoleManager) RemoveRole(ctx context.Context, guildID, memberID, roleID, reason string) error {
	err := g.session.GuildMemberRoleRemove(guildID, memberID, roleID,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	if err != nil {
		return fmt.Errorf("remove role %s from %s: %w", roleID, memberID, err)
	}
	return nil
}

// EnsureRoleSafe strips permission bits and mentionability from the role if
// either has drifted. A role that no longer exists is left alone.
func (g *GuildRoleManager) EnsureRoleSafe(ctx context.Context, guildID, roleID string) error {
	role, err := g.findRole(ctx, guildID, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return nil
	}
	if role.Permissions == 0 && !role.Mentionable {
		return nil
	}

	perms := int64(0)
	mentionable := false
	_, err = g.session.GuildRoleEdit(guildID, roleID, &discordgo.RoleParams{
		Permissions: &perms,
		Mentionable: &mentionable,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason("panela: protected role sanitized"))
	if err != nil {
		return fmt.Errorf("sanitize role %s: %w", roleID, err)
	}
	return nil
}

func (g *GuildRoleManager) findRole(ctx context.Context, guildID, roleID string) (*discordgo.Role, error) {
	roles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch roles: %w", err)
	}
	for _, role := range roles {
		if role.ID == roleID {
			return role, nil
		}
	}
	return nil, nil
}
