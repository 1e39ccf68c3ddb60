package service

import (
	"testing"

	"github.com/hitsquad/panela/internal/model"
)

func TestGatePolicy_CanInvoke(t *testing.T) {
	t.Parallel()

	cfg := &model.GuildConfig{
		GuildID:      "guild-1",
		AllowedRoles: []string{"role-mod"},
	}
	gate := GatePolicy{OwnerID: "owner-1"}

	cases := []struct {
		name    string
		invoker string
		roles   []string
		isAdmin bool
		want    bool
	}{
		{"owner with nothing else", "owner-1", nil, false, true},
		{"admin without allowed role", "user-1", nil, true, true},
		{"allowed role holder", "user-1", []string{"role-mod"}, false, true},
		{"plain member", "user-1", []string{"role-other"}, false, false},
		{"no roles at all", "user-1", nil, false, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := gate.CanInvoke(cfg, tc.invoker, tc.roles, tc.isAdmin); got != tc.want {
				t.Errorf("CanInvoke = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGatePolicy_GrowingAllowListNeverRevokesAccess(t *testing.T) {
	t.Parallel()

	gate := GatePolicy{OwnerID: "owner-1"}
	roles := []string{"role-mod"}

	cfg := &model.GuildConfig{GuildID: "guild-1", AllowedRoles: []string{"role-mod"}}
	if !gate.CanInvoke(cfg, "user-1", roles, false) {
		t.Fatal("expected access with matching allow-list")
	}

	// Adding more entries must not take access away from anyone who had it.
	cfg.AllowedRoles = append(cfg.AllowedRoles, "role-extra", "role-more")
	if !gate.CanInvoke(cfg, "user-1", roles, false) {
		t.Error("access lost after growing the allow-list")
	}
	if !gate.CanInvoke(cfg, "owner-1", nil, false) {
		t.Error("owner access lost after growing the allow-list")
	}
	if !gate.CanInvoke(cfg, "user-2", nil, true) {
		t.Error("admin access lost after growing the allow-list")
	}
}

func TestGatePolicy_EmptyOwnerDisablesShortcut(t *testing.T) {
	t.Parallel()

	cfg := &model.GuildConfig{GuildID: "guild-1"}
	gate := GatePolicy{}

	if gate.CanInvoke(cfg, "", nil, false) {
		t.Error("empty invoker must not match an unset owner ID")
	}
}
