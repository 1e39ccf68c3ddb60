package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type mockSession struct {
	guildFunc       func(guildID string) (*discordgo.Guild, error)
	guildRolesFunc  func(guildID string) ([]*discordgo.Role, error)
	guildMemberFunc func(guildID, userID string) (*discordgo.Member, error)
	roleAddFunc     func(guildID, userID, roleID string) error
	roleRemoveFunc  func(guildID, userID, roleID string) error
	roleEditFunc    func(guildID, roleID string, data *discordgo.RoleParams) (*discordgo.Role, error)
	msgSendFunc     func(channelID, content string) (*discordgo.Message, error)
	msgDeleteFunc   func(channelID, messageID string) error
}

func (m *mockSession) Guild(guildID string, _ ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if m.guildFunc != nil {
		return m.guildFunc(guildID)
	}
	return &discordgo.Guild{ID: guildID}, nil
}

func (m *mockSession) GuildRoles(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	if m.guildRolesFunc != nil {
		return m.guildRolesFunc(guildID)
	}
	return nil, nil
}

func (m *mockSession) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	if m.guildMemberFunc != nil {
		return m.guildMemberFunc(guildID, userID)
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}}, nil
}

func (m *mockSession) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	if m.roleAddFunc != nil {
		return m.roleAddFunc(guildID, userID, roleID)
	}
	return nil
}

func (m *mockSession) GuildMemberRoleRemove(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	if m.roleRemoveFunc != nil {
		return m.roleRemoveFunc(guildID, userID, roleID)
	}
	return nil
}

func (m *mockSession) GuildRoleEdit(guildID, roleID string, data *discordgo.RoleParams, _ ...discordgo.RequestOption) (*discordgo.Role, error) {
	if m.roleEditFunc != nil {
		return m.roleEditFunc(guildID, roleID, data)
	}
	return nil, nil
}

func (m *mockSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.msgSendFunc != nil {
		return m.msgSendFunc(channelID, content)
	}
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (m *mockSession) ChannelMessageSendComplex(channelID string, _ *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (m *mockSession) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	if m.msgDeleteFunc != nil {
		return m.msgDeleteFunc(channelID, messageID)
	}
	return nil
}

func (m *mockSession) InteractionRespond(_ *discordgo.Interaction, _ *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	return nil
}

func TestCanManageRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newManager := func(roles []*discordgo.Role, botRoles []string) *GuildRoleManager {
		s := &mockSession{
			guildRolesFunc: func(string) ([]*discordgo.Role, error) {
				return roles, nil
			},
			guildMemberFunc: func(guildID, userID string) (*discordgo.Member, error) {
				return &discordgo.Member{User: &discordgo.User{ID: userID}, Roles: botRoles}, nil
			},
		}
		return NewGuildRoleManager(s, "bot-1")
	}

	botRole := &discordgo.Role{ID: "bot-role", Position: 5, Permissions: discordgo.PermissionManageRoles}

	t.Run("bot above role with manage permission", func(t *testing.T) {
		t.Parallel()
		mgr := newManager([]*discordgo.Role{botRole, {ID: "role-1", Position: 2}}, []string{"bot-role"})
		ok, err := mgr.CanManageRole(ctx, "guild-1", "role-1")
		if err != nil || !ok {
			t.Errorf("expected manageable, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("role above bot", func(t *testing.T) {
		t.Parallel()
		mgr := newManager([]*discordgo.Role{botRole, {ID: "role-1", Position: 7}}, []string{"bot-role"})
		ok, err := mgr.CanManageRole(ctx, "guild-1", "role-1")
		if err != nil || ok {
			t.Errorf("expected not manageable, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("integration managed role", func(t *testing.T) {
		t.Parallel()
		mgr := newManager([]*discordgo.Role{botRole, {ID: "role-1", Position: 2, Managed: true}}, []string{"bot-role"})
		ok, err := mgr.CanManageRole(ctx, "guild-1", "role-1")
		if err != nil || ok {
			t.Errorf("expected not manageable, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("bot without manage permission", func(t *testing.T) {
		t.Parallel()
		weak := &discordgo.Role{ID: "bot-role", Position: 5}
		mgr := newManager([]*discordgo.Role{weak, {ID: "role-1", Position: 2}}, []string{"bot-role"})
		ok, err := mgr.CanManageRole(ctx, "guild-1", "role-1")
		if err != nil || ok {
			t.Errorf("expected not manageable, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("missing role", func(t *testing.T) {
		t.Parallel()
		mgr := newManager([]*discordgo.Role{botRole}, []string{"bot-role"})
		ok, err := mgr.CanManageRole(ctx, "guild-1", "role-gone")
		if err != nil || ok {
			t.Errorf("expected not manageable, got ok=%v err=%v", ok, err)
		}
	})
}

func TestIsAdministrator(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := &mockSession{
		guildFunc: func(guildID string) (*discordgo.Guild, error) {
			return &discordgo.Guild{ID: guildID, OwnerID: "owner-1"}, nil
		},
		guildRolesFunc: func(string) ([]*discordgo.Role, error) {
			return []*discordgo.Role{
				{ID: "role-admin", Permissions: discordgo.PermissionAdministrator},
				{ID: "role-plain"},
			}, nil
		},
		guildMemberFunc: func(guildID, userID string) (*discordgo.Member, error) {
			member := &discordgo.Member{User: &discordgo.User{ID: userID}}
			if userID == "admin-1" {
				member.Roles = []string{"role-admin"}
			} else {
				member.Roles = []string{"role-plain"}
			}
			return member, nil
		},
	}
	mgr := NewGuildRoleManager(s, "bot-1")

	cases := []struct {
		userID string
		want   bool
	}{
		{"owner-1", true},
		{"admin-1", true},
		{"pleb-1", false},
	}
	for _, tc := range cases {
		got, err := mgr.IsAdministrator(ctx, "guild-1", tc.userID)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tc.userID, err)
		}
		if got != tc.want {
			t.Errorf("IsAdministrator(%s) = %v, want %v", tc.userID, got, tc.want)
		}
	}
}

func TestEnsureRoleSafe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("drifted role is stripped", func(t *testing.T) {
		t.Parallel()

		var edited *discordgo.RoleParams
		s := &mockSession{
			guildRolesFunc: func(string) ([]*discordgo.Role, error) {
				return []*discordgo.Role{
					{ID: "role-1", Permissions: discordgo.PermissionBanMembers, Mentionable: true},
				}, nil
			},
			roleEditFunc: func(guildID, roleID string, data *discordgo.RoleParams) (*discordgo.Role, error) {
				edited = data
				return &discordgo.Role{ID: roleID}, nil
			},
		}
		mgr := NewGuildRoleManager(s, "bot-1")

		if err := mgr.EnsureRoleSafe(ctx, "guild-1", "role-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if edited == nil {
			t.Fatal("expected a role edit")
		}
		if edited.Permissions == nil || *edited.Permissions != 0 {
			t.Error("permissions not zeroed")
		}
		if edited.Mentionable == nil || *edited.Mentionable {
			t.Error("mentionability not cleared")
		}
	})

	t.Run("safe role is left alone", func(t *testing.T) {
		t.Parallel()

		s := &mockSession{
			guildRolesFunc: func(string) ([]*discordgo.Role, error) {
				return []*discordgo.Role{{ID: "role-1"}}, nil
			},
			roleEditFunc: func(guildID, roleID string, data *discordgo.RoleParams) (*discordgo.Role, error) {
				t.Error("safe role must not be edited")
				return nil, nil
			},
		}
		mgr := NewGuildRoleManager(s, "bot-1")

		if err := mgr.EnsureRoleSafe(ctx, "guild-1", "role-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("deleted role is skipped", func(t *testing.T) {
		t.Parallel()

		s := &mockSession{}
		mgr := NewGuildRoleManager(s, "bot-1")

		if err := mgr.EnsureRoleSafe(ctx, "guild-1", "role-gone"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
