package service

import (
	"context"
	"fmt"

	"github.com/hitsquad/panela/internal/model"
)

// RoleManager defines the platform operations the assignment engine needs.
// Implementations talk to the chat platform; errors they return are treated
// as platform failures, not rule violations.
type RoleManager interface {
	RoleExists(ctx context.Context, guildID, roleID string) (bool, error)
	MemberHasRole(ctx context.Context, guildID, memberID, roleID string) (bool, error)
	MemberRoles(ctx context.Context, guildID, memberID string) ([]string, error)
	IsAdministrator(ctx context.Context, guildID, memberID string) (bool, error)
	CanManageRole(ctx context.Context, guildID, roleID string) (bool, error)
	AddRole(ctx context.Context, guildID, memberID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, memberID, roleID, reason string) error
}

// AssignmentService toggles slot role membership. A toggle grants the slot's
// role when the target does not hold it and revokes it when they do, after a
// fixed chain of guards:
//
//  1. the guild has a configuration
//  2. the slot has a role bound
//  3. the invoker passes the permission gate
//  4. the role still exists on the platform
//  5. for restricted grants, the recipient holds a required role
//  6. for grants, the role has free capacity
//  7. the bot can manage the role
//  8. for revokes, the invoker owns the recorded grant
//
// The capacity check and the audit write run under a per (guild, role) lock
// with the config re-read, so concurrent toggles cannot overshoot the limit.
type AssignmentService struct {
	repo             GuildConfigRepositoryInterface
	roles            RoleManager
	gate             GatePolicy
	perInviterLimits bool
	locks            *keyedMutex
}

// NewAssignmentService creates a new assignment service. With
// perInviterLimits set, role limits cap each inviter's own grants instead of
// the role's total membership.
func NewAssignmentService(repo GuildConfigRepositoryInterface, roles RoleManager, gate GatePolicy, perInviterLimits bool) *AssignmentService {
	return &AssignmentService{
		repo:             repo,
		roles:            roles,
		gate:             gate,
		perInviterLimits: perInviterLimits,
		locks:            newKeyedMutex(),
	}
}

// Toggle flips the target's membership in the slot's role on behalf of the
// invoker and returns what happened.
func (s *AssignmentService) Toggle(ctx context.Context, guildID string, slot model.Slot, invokerID, targetID string) (*model.Outcome, error) {
	cfg, err := s.getConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}

	roleID, ok := cfg.RoleForSlot(slot)
	if !ok {
		return nil, ErrSlotNotConfigured
	}

	if err := s.checkInvoker(ctx, cfg, guildID, invokerID); err != nil {
		return nil, err
	}

	exists, err := s.roles.RoleExists(ctx, guildID, roleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	if !exists {
		return nil, ErrRoleNotFound
	}

	hasRole, err := s.roles.MemberHasRole(ctx, guildID, targetID, roleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
	}

	if !hasRole && slot == model.SlotCapacity && len(cfg.RestrictedAllowedRoles) > 0 {
		targetRoles, err := s.roles.MemberRoles(ctx, guildID, targetID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
		}
		if !hasAnyRole(targetRoles, cfg.RestrictedAllowedRoles) {
			return nil, ErrRecipientNotEligible
		}
	}

	unlock := s.locks.Lock(guildID + "/" + roleID)
	defer unlock()

	// Re-read under the lock. Capacity and the audit trail may have moved
	// since the guards above ran.
	cfg, err = s.getConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if !hasRole {
		return s.grant(ctx, cfg, guildID, slot, roleID, invokerID, targetID)
	}
	return s.revoke(ctx, cfg, guildID, slot, roleID, invokerID, targetID)
}

func (s *AssignmentService) grant(ctx context.Context, cfg *model.GuildConfig, guildID string, slot model.Slot, roleID, invokerID, targetID string) (*model.Outcome, error) {
	if grantCount(cfg, roleID, invokerID, s.perInviterLimits) >= EffectiveLimit(cfg, roleID) {
		return nil, ErrCapacityExceeded
	}

	if err := s.checkManageable(ctx, guildID, roleID); err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("panela: granted by %s", invokerID)
	if err := s.roles.AddRole(ctx, guildID, targetID, roleID, reason); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
	}

	cfg.RecordGrant(roleID, targetID, invokerID)
	if err := s.repo.Update(ctx, guildID, model.GuildConfigUpdate{MemberAddedBy: cfg.MemberAddedBy}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
	}

	return &model.Outcome{
		Action:   model.ActionGranted,
		GuildID:  guildID,
		Slot:     slot,
		RoleID:   roleID,
		MemberID: targetID,
		Invoker:  invokerID,
	}, nil
}

func (s *AssignmentService) revoke(ctx context.Context, cfg *model.GuildConfig, guildID string, slot model.Slot, roleID, invokerID, targetID string) (*model.Outcome, error) {
	if err := s.checkManageable(ctx, guildID, roleID); err != nil {
		return nil, err
	}

	inviter, recorded := cfg.GrantedBy(roleID, targetID)
	if recorded && inviter != invokerID && invokerID != s.gate.OwnerID {
		return nil, ErrNotGrantOwner
	}

	reason := fmt.Sprintf("panela: revoked by %s", invokerID)
	if err := s.roles.RemoveRole(ctx, guildID, targetID, roleID, reason); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
	}

	if recorded {
		cfg.ClearGrant(roleID, targetID)
		if err := s.repo.Update(ctx, guildID, model.GuildConfigUpdate{MemberAddedBy: cfg.MemberAddedBy}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
		}
	}

	return &model.Outcome{
		Action:   model.ActionRevoked,
		GuildID:  guildID,
		Slot:     slot,
		RoleID:   roleID,
		MemberID: targetID,
		Invoker:  invokerID,
	}, nil
}

func (s *AssignmentService) getConfig(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	if cfg == nil {
		return nil, ErrConfigMissing
	}
	return cfg, nil
}

func (s *AssignmentService) checkInvoker(ctx context.Context, cfg *model.GuildConfig, guildID, invokerID string) error {
	isAdmin, err := s.roles.IsAdministrator(ctx, guildID, invokerID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	invokerRoles, err := s.roles.MemberRoles(ctx, guildID, invokerID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	if !s.gate.CanInvoke(cfg, invokerID, invokerRoles, isAdmin) {
		return ErrNotAuthorized
	}
	return nil
}

func (s *AssignmentService) checkManageable(ctx context.Context, guildID, roleID string) error {
	manageable, err := s.roles.CanManageRole(ctx, guildID, roleID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	if !manageable {
		return ErrInsufficientPrivilege
	}
	return nil
}
