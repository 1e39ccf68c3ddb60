package discord

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/hitsquad/panela/internal/model"
	"github.com/hitsquad/panela/internal/service"
)

var roleMentionPattern = regexp.MustCompile(`<@&(\d+)>`)

// commandTimeout bounds the platform round trips behind one command.
const commandTimeout = 15 * time.Second

// HandlerConfig wires a Handler's collaborators and settings.
type HandlerConfig struct {
	Session        session
	Logger         *slog.Logger
	Prefix         string
	ReplyTTL       time.Duration
	MentionTimeout time.Duration
	Gate           service.GatePolicy
	Assignments    *service.AssignmentService
	Configs        *service.GuildConfigService
	Roles          *GuildRoleManager
	ProtectedSlots []model.Slot
}

// Handler routes gateway events to the services.
type Handler struct {
	session     session
	log         *slog.Logger
	prefix      string
	replyTTL    time.Duration
	gate        service.GatePolicy
	assignments *service.AssignmentService
	configs     *service.GuildConfigService
	roles       *GuildRoleManager
	menus       *menuRegistry
	collector   *MentionCollector
	protected   map[model.Slot]bool
}

// NewHandler creates the event handler.
func NewHandler(cfg HandlerConfig) *Handler {
	protected := make(map[model.Slot]bool, len(cfg.ProtectedSlots))
	for _, slot := range cfg.ProtectedSlots {
		protected[slot] = true
	}
	return &Handler{
		session:     cfg.Session,
		log:         cfg.Logger,
		prefix:      strings.ToLower(cfg.Prefix),
		replyTTL:    cfg.ReplyTTL,
		gate:        cfg.Gate,
		assignments: cfg.Assignments,
		configs:     cfg.Configs,
		roles:       cfg.Roles,
		menus:       newMenuRegistry(),
		collector:   NewMentionCollector(cfg.MentionTimeout),
		protected:   protected,
	}
}

// HandleMessageCreate processes guild messages: pending target mentions
// first, then the prefix command and its sub-verbs.
func (h *Handler) HandleMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	if h.tryClaimMention(m) {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(strings.ToLower(content), h.prefix) {
		return
	}
	rest := strings.TrimSpace(content[len(h.prefix):])
	fields := strings.Fields(strings.ToLower(rest))

	switch {
	case len(fields) == 0:
		h.handleMenu(m)
	case fields[0] == "config":
		h.handleConfig(m, content)
	case fields[0] == "limit":
		h.handleLimit(m, rest)
	case fields[0] == "allow":
		h.handleAllow(m, content, false)
	case len(fields) >= 2 && fields[0] == "capacity" && fields[1] == "allow":
		h.handleAllow(m, content, true)
	default:
		h.reply(m.ChannelID, "Comando desconhecido. Use hit!panela, hit!panela config, hit!panela limit, hit!panela allow ou hit!panela capacity allow.")
	}
}

// tryClaimMention resolves an armed target pick. Messages that do not
// mention exactly one other user leave the pick armed.
func (h *Handler) tryClaimMention(m *discordgo.MessageCreate) bool {
	if len(m.Mentions) != 1 || m.Mentions[0].ID == m.Author.ID {
		return false
	}

	slot, ok := h.collector.Claim(m.GuildID, m.Author.ID)
	if !ok {
		return false
	}
	target := m.Mentions[0]

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	outcome, err := h.assignments.Toggle(ctx, m.GuildID, slot, m.Author.ID, target.ID)
	if err != nil {
		h.log.Warn("toggle rejected",
			"guild", m.GuildID, "slot", slot, "invoker", m.Author.ID, "target", target.ID, "error", err)
		h.reply(m.ChannelID, replyFor(err))
		return true
	}

	h.log.Info("toggle applied",
		"guild", m.GuildID, "slot", slot, "action", outcome.Action, "invoker", m.Author.ID, "target", target.ID)

	if h.protected[slot] {
		go h.reassertProtectedRole(m.GuildID, outcome.RoleID)
	}

	if outcome.Action == model.ActionGranted {
		h.reply(m.ChannelID, fmt.Sprintf("Cargo <@&%s> adicionado para <@%s>!", outcome.RoleID, target.ID))
	} else {
		h.reply(m.ChannelID, fmt.Sprintf("Cargo <@&%s> removido de <@%s>!", outcome.RoleID, target.ID))
	}
	return true
}

// reassertProtectedRole re-applies the safe role shape right after a toggle
// touched a protected slot, instead of waiting for the next guard sweep.
func (h *Handler) reassertProtectedRole(guildID, roleID string) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := h.roles.EnsureRoleSafe(ctx, guildID, roleID); err != nil {
		h.log.Warn("failed to re-assert protected role", "guild", guildID, "role", roleID, "error", err)
	}
}

func (h *Handler) handleMenu(m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cfg, err := h.configs.Get(ctx, m.GuildID)
	if err != nil {
		h.log.Error("failed to load config", "guild", m.GuildID, "error", err)
		h.reply(m.ChannelID, replyFor(err))
		return
	}
	if cfg == nil {
		h.reply(m.ChannelID, "Use hit!panela config primeiro para configurar os cargos!")
		return
	}

	if err := h.sendMenu(m.GuildID, m.ChannelID, m.Author.ID); err != nil {
		h.log.Error("failed to send menu", "guild", m.GuildID, "error", err)
		h.reply(m.ChannelID, "Não foi possível enviar a mensagem no canal. Verifique as permissões do bot.")
	}
}

// handleConfig binds all three slots from an ordered role mention list.
func (h *Handler) handleConfig(m *discordgo.MessageCreate, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if !h.requireManager(ctx, m) {
		return
	}

	roleIDs := parseRoleMentions(content)
	if len(roleIDs) != 3 {
		h.reply(m.ChannelID, "Use: hit!panela config @primeira-dama @antiban @4un\nCertifique-se de mencionar exatamente 3 cargos!")
		return
	}

	bindings := []struct {
		slot   model.Slot
		roleID string
	}{
		{model.SlotFirstLady, roleIDs[0]},
		{model.SlotAntiBan, roleIDs[1]},
		{model.SlotCapacity, roleIDs[2]},
	}
	for _, b := range bindings {
		if err := h.configs.BindSlot(ctx, m.GuildID, b.slot, b.roleID); err != nil {
			h.log.Error("failed to bind slot", "guild", m.GuildID, "slot", b.slot, "error", err)
			h.reply(m.ChannelID, replyFor(err))
			return
		}
	}

	h.reply(m.ChannelID, fmt.Sprintf(
		"Configuração salva com sucesso!\nCargos configurados:\n- Primeira Dama: <@&%s>\n- Antiban: <@&%s>\n- 4un: <@&%s>",
		roleIDs[0], roleIDs[1], roleIDs[2]))
}

// handleLimit sets a role's capacity: limit <slot> <@cargo> <número>.
func (h *Handler) handleLimit(m *discordgo.MessageCreate, rest string) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if !h.requireManager(ctx, m) {
		return
	}

	usage := "Use: hit!panela limit <primeira-dama|antiban|4un> @cargo <número>"
	fields := strings.Fields(rest)
	if len(fields) != 4 {
		h.reply(m.ChannelID, usage)
		return
	}

	if _, ok := parseSlotName(fields[1]); !ok {
		h.reply(m.ChannelID, usage)
		return
	}
	roleIDs := parseRoleMentions(fields[2])
	if len(roleIDs) != 1 {
		h.reply(m.ChannelID, usage)
		return
	}
	limit, err := strconv.Atoi(fields[3])
	if err != nil {
		h.reply(m.ChannelID, usage)
		return
	}

	if err := h.configs.SetLimit(ctx, m.GuildID, roleIDs[0], limit); err != nil {
		h.reply(m.ChannelID, replyFor(err))
		return
	}
	h.reply(m.ChannelID, fmt.Sprintf("Limite de <@&%s> definido para %d!", roleIDs[0], limit))
}

// handleAllow replaces the invoker allow-list, or with restricted set, the
// roles a member must hold before receiving the capacity slot's role.
func (h *Handler) handleAllow(m *discordgo.MessageCreate, content string, restricted bool) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if !h.requireManager(ctx, m) {
		return
	}

	roleIDs := parseRoleMentions(content)
	var err error
	if restricted {
		err = h.configs.SetRestrictedRoles(ctx, m.GuildID, roleIDs)
	} else {
		err = h.configs.SetAllowedRoles(ctx, m.GuildID, roleIDs)
	}
	if err != nil {
		h.reply(m.ChannelID, replyFor(err))
		return
	}

	if restricted {
		h.reply(m.ChannelID, "Cargos exigidos para receber 4un atualizados!")
	} else {
		h.reply(m.ChannelID, "Cargos autorizados a usar a panela atualizados!")
	}
}

// requireManager gates configuration commands to the owner identity and
// guild administrators.
func (h *Handler) requireManager(ctx context.Context, m *discordgo.MessageCreate) bool {
	if h.gate.OwnerID != "" && m.Author.ID == h.gate.OwnerID {
		return true
	}
	isAdmin, err := h.roles.IsAdministrator(ctx, m.GuildID, m.Author.ID)
	if err != nil {
		h.log.Error("failed to check permissions", "guild", m.GuildID, "user", m.Author.ID, "error", err)
		h.reply(m.ChannelID, replyFor(err))
		return false
	}
	if !isAdmin {
		h.reply(m.ChannelID, "Você precisa ser administrador para usar este comando!")
		return false
	}
	return true
}

// parseRoleMentions extracts role IDs in the order they were written.
// Message.MentionRoles carries no ordering guarantee, so the raw content is
// scanned instead.
func parseRoleMentions(content string) []string {
	matches := roleMentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match[1])
	}
	return ids
}

// parseSlotName maps a command-surface slot name to its slot.
func parseSlotName(name string) (model.Slot, bool) {
	switch strings.ToLower(name) {
	case "primeira-dama", string(model.SlotFirstLady):
		return model.SlotFirstLady, true
	case "antiban", string(model.SlotAntiBan):
		return model.SlotAntiBan, true
	case "4un", string(model.SlotCapacity):
		return model.SlotCapacity, true
	default:
		return "", false
	}
}

// slotLabel is the user-facing name of a slot.
func slotLabel(slot model.Slot) string {
	switch slot {
	case model.SlotFirstLady:
		return "Primeira Dama"
	case model.SlotAntiBan:
		return "Antiban"
	case model.SlotCapacity:
		return "4un"
	default:
		return string(slot)
	}
}
