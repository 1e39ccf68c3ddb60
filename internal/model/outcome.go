package model

// ToggleAction is the action a successful toggle performed.
type ToggleAction string

const (
	ActionGranted ToggleAction = "granted"
	ActionRevoked ToggleAction = "revoked"
)

// Outcome describes a completed toggle for the presentation layer to render.
type Outcome struct {
	Action   ToggleAction `json:"action"`
	GuildID  string       `json:"guild_id"`
	Slot     Slot         `json:"slot"`
	RoleID   string       `json:"role_id"`
	MemberID string       `json:"member_id"`
	Invoker  string       `json:"invoker"`
}

// SlotMembers is one slot's holders as recorded in the audit trail.
type SlotMembers struct {
	Slot    Slot     `json:"slot"`
	RoleID  string   `json:"role_id"`
	Members []string `json:"members"`
	Limit   int      `json:"limit"`
}

// MembersOverview groups audit-recorded holders by slot with their limits.
type MembersOverview struct {
	GuildID string        `json:"guild_id"`
	Slots   []SlotMembers `json:"slots"`
}
