package model

// Slot is a named purpose a guild role can be bound to.
type Slot string

const (
	SlotFirstLady Slot = "first-lady"
	SlotAntiBan   Slot = "anti-ban"
	SlotCapacity  Slot = "capacity"
)

// Slots returns all slots in menu order.
func Slots() []Slot {
	return []Slot{SlotFirstLady, SlotAntiBan, SlotCapacity}
}

// IsValid returns true if the slot is one of the known slots.
func (s Slot) IsValid() bool {
	switch s {
	case SlotFirstLady, SlotAntiBan, SlotCapacity:
		return true
	default:
		return false
	}
}

// DefaultRoleLimit is the capacity applied to roles without a configured limit.
const DefaultRoleLimit = 5

// GuildConfig is the per-guild configuration record. GuildID uniquely
// identifies at most one record.
type GuildConfig struct {
	GuildID string `json:"guild_id"`

	// Slot bindings. An empty value means the slot is unconfigured.
	FirstLadyRoleID string `json:"first_lady_role_id,omitempty"`
	AntiBanRoleID   string `json:"anti_ban_role_id,omitempty"`
	CapacityRoleID  string `json:"capacity_role_id,omitempty"`

	// RoleLimits maps a role ID to its capacity. Roles without an entry use
	// DefaultRoleLimit.
	RoleLimits map[string]int `json:"role_limits,omitempty"`

	// AllowedRoles lists role IDs whose holders may invoke assignment
	// operations. Empty means only the owner identity.
	AllowedRoles []string `json:"allowed_roles,omitempty"`

	// RestrictedAllowedRoles lists role IDs a target member must hold before
	// the capacity slot's role may be granted to them. Empty disables the
	// recipient check.
	RestrictedAllowedRoles []string `json:"restricted_allowed_roles,omitempty"`

	// MemberAddedBy records, per role ID, which inviter granted each member.
	// Entries exist exactly for memberships granted through the engine.
	MemberAddedBy map[string]map[string]string `json:"member_added_by,omitempty"`
}

// GuildConfigUpdate carries a partial update of a GuildConfig. Nil fields are
// left untouched; non-nil map/slice fields replace the stored value as a
// whole, never deep-merged.
type GuildConfigUpdate struct {
	FirstLadyRoleID        *string
	AntiBanRoleID          *string
	CapacityRoleID         *string
	RoleLimits             map[string]int
	AllowedRoles           []string
	RestrictedAllowedRoles []string
	MemberAddedBy          map[string]map[string]string
}

// Apply merges the update into cfg. Map and slice fields are deep-copied so
// the config does not alias the update's storage.
func (u GuildConfigUpdate) Apply(cfg *GuildConfig) {
	if u.FirstLadyRoleID != nil {
		cfg.FirstLadyRoleID = *u.FirstLadyRoleID
	}
	if u.AntiBanRoleID != nil {
		cfg.AntiBanRoleID = *u.AntiBanRoleID
	}
	if u.CapacityRoleID != nil {
		cfg.CapacityRoleID = *u.CapacityRoleID
	}
	if u.RoleLimits != nil {
		limits := make(map[string]int, len(u.RoleLimits))
		for k, v := range u.RoleLimits {
			limits[k] = v
		}
		cfg.RoleLimits = limits
	}
	if u.AllowedRoles != nil {
		cfg.AllowedRoles = append([]string(nil), u.AllowedRoles...)
	}
	if u.RestrictedAllowedRoles != nil {
		cfg.RestrictedAllowedRoles = append([]string(nil), u.RestrictedAllowedRoles...)
	}
	if u.MemberAddedBy != nil {
		addedBy := make(map[string]map[string]string, len(u.MemberAddedBy))
		for roleID, members := range u.MemberAddedBy {
			inner := make(map[string]string, len(members))
			for memberID, inviterID := range members {
				inner[memberID] = inviterID
			}
			addedBy[roleID] = inner
		}
		cfg.MemberAddedBy = addedBy
	}
}

// RoleForSlot resolves a slot to its bound role ID.
func (c *GuildConfig) RoleForSlot(slot Slot) (string, bool) {
	var id string
	switch slot {
	case SlotFirstLady:
		id = c.FirstLadyRoleID
	case SlotAntiBan:
		id = c.AntiBanRoleID
	case SlotCapacity:
		id = c.CapacityRoleID
	}
	return id, id != ""
}

// GrantedBy returns the inviter who granted roleID to memberID through the
// engine, if recorded.
func (c *GuildConfig) GrantedBy(roleID, memberID string) (string, bool) {
	members, ok := c.MemberAddedBy[roleID]
	if !ok {
		return "", false
	}
	inviter, ok := members[memberID]
	return inviter, ok
}

// RecordGrant inserts an audit entry for a grant.
func (c *GuildConfig) RecordGrant(roleID, memberID, inviterID string) {
	if c.MemberAddedBy == nil {
		c.MemberAddedBy = make(map[string]map[string]string)
	}
	if c.MemberAddedBy[roleID] == nil {
		c.MemberAddedBy[roleID] = make(map[string]string)
	}
	c.MemberAddedBy[roleID][memberID] = inviterID
}

// ClearGrant removes the audit entry for a membership, if present.
func (c *GuildConfig) ClearGrant(roleID, memberID string) {
	members, ok := c.MemberAddedBy[roleID]
	if !ok {
		return
	}
	delete(members, memberID)
	if len(members) == 0 {
		delete(c.MemberAddedBy, roleID)
	}
}

// Clone returns a deep copy of the config.
func (c *GuildConfig) Clone() *GuildConfig {
	out := *c
	if c.RoleLimits != nil {
		out.RoleLimits = make(map[string]int, len(c.RoleLimits))
		for k, v := range c.RoleLimits {
			out.RoleLimits[k] = v
		}
	}
	out.AllowedRoles = append([]string(nil), c.AllowedRoles...)
	out.RestrictedAllowedRoles = append([]string(nil), c.RestrictedAllowedRoles...)
	if c.MemberAddedBy != nil {
		out.MemberAddedBy = make(map[string]map[string]string, len(c.MemberAddedBy))
		for roleID, members := range c.MemberAddedBy {
			inner := make(map[string]string, len(members))
			for memberID, inviterID := range members {
				inner[memberID] = inviterID
			}
			out.MemberAddedBy[roleID] = inner
		}
	}
	return &out
}
