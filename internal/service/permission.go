package service

import (
	"github.com/hitsquad/panela/internal/model"
)

// GatePolicy decides who may invoke assignment operations.
type GatePolicy struct {
	// OwnerID is the identity that always passes the gate, independent of
	// guild configuration. Empty disables the owner shortcut.
	OwnerID string
}

// CanInvoke reports whether the invoker passes the permission gate. The
// checks run in a fixed order and the first success wins: owner identity,
// administrator permission, then membership in an allow-listed role. The
// config is never mutated.
func (p GatePolicy) CanInvoke(cfg *model.GuildConfig, invokerID string, invokerRoles []string, isAdmin bool) bool {
	if p.OwnerID != "" && invokerID == p.OwnerID {
		return true
	}
	if isAdmin {
		return true
	}
	return hasAnyRole(invokerRoles, cfg.AllowedRoles)
}

// hasAnyRole reports whether held and wanted intersect.
func hasAnyRole(held, wanted []string) bool {
	if len(held) == 0 || len(wanted) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(wanted))
	for _, id := range wanted {
		set[id] = struct{}{}
	}
	for _, id := range held {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
