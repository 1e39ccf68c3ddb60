package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/hitsquad/panela/internal/model"
)

// HandleInteractionCreate processes menu button presses.
func (h *Handler) HandleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return
	}

	base, token, ok := strings.Cut(i.MessageComponentData().CustomID, ":")
	if !ok {
		return
	}
	menu, found := h.menus.get(token)
	if !found || menu.guildID != i.GuildID {
		h.respondEphemeral(i.Interaction, "Este menu expirou. Use hit!panela para abrir um novo.")
		return
	}
	userID := i.Member.User.ID

	switch base {
	case buttonFirstLady:
		h.armPick(i, model.SlotFirstLady)
	case buttonAntiBan:
		h.armPick(i, model.SlotAntiBan)
	case buttonCapacity:
		h.armPick(i, model.SlotCapacity)
	case buttonViewMembers:
		h.showMembers(i, userID)
	case buttonClose:
		h.closeMenu(i, menu, userID)
	}
}

// armPick starts a target pick for the pressing user and tells them what to
// do next. The toggle itself runs when the mention arrives.
func (h *Handler) armPick(i *discordgo.InteractionCreate, slot model.Slot) {
	guildID := i.GuildID
	channelID := i.ChannelID
	invokerID := i.Member.User.ID

	h.collector.Arm(guildID, invokerID, slot, func() {
		h.reply(channelID, fmt.Sprintf("<@%s> Tempo esgotado para escolher o membro de %s!", invokerID, slotLabel(slot)))
	})

	h.respondEphemeral(i.Interaction, fmt.Sprintf(
		"Mencione o membro que deve receber ou perder o cargo %s em até %d segundos.",
		slotLabel(slot), int(h.collector.timeout/time.Second)))
}

// showMembers renders the audit-recorded holders per slot. Administrators
// and the owner see everyone; other users see only members they added.
func (h *Handler) showMembers(i *discordgo.InteractionCreate, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	isAdmin, err := h.roles.IsAdministrator(ctx, i.GuildID, userID)
	if err != nil {
		h.log.Error("failed to check permissions", "guild", i.GuildID, "user", userID, "error", err)
		isAdmin = false
	}

	overview, err := h.configs.Overview(ctx, i.GuildID, userID, isAdmin)
	if err != nil {
		h.respondEphemeral(i.Interaction, replyFor(err))
		return
	}

	var sb strings.Builder
	for _, slot := range overview.Slots {
		fmt.Fprintf(&sb, "**%s** <@&%s> (%d/%d)\n", slotLabel(slot.Slot), slot.RoleID, len(slot.Members), slot.Limit)
		if len(slot.Members) == 0 {
			sb.WriteString("— sem membros —\n")
			continue
		}
		for _, memberID := range slot.Members {
			fmt.Fprintf(&sb, "<@%s>\n", memberID)
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("Nenhum slot configurado.")
	}

	h.respondEmbedEphemeral(i.Interaction, &discordgo.MessageEmbed{
		Title:       "Membros da Panela",
		Description: sb.String(),
		Color:       0x2F3136,
	})
}

// closeMenu deletes the menu message. Only the user who opened the menu or
// the owner identity may close it.
func (h *Handler) closeMenu(i *discordgo.InteractionCreate, menu *menuSession, userID string) {
	if userID != menu.invokerID && (h.gate.OwnerID == "" || userID != h.gate.OwnerID) {
		h.respondEphemeral(i.Interaction, "Apenas quem abriu o menu pode fechá-lo!")
		return
	}

	h.ackUpdate(i.Interaction)
	if err := h.session.ChannelMessageDelete(menu.channelID, menu.messageID); err != nil {
		h.log.Error("failed to delete menu", "channel", menu.channelID, "error", err)
		return
	}
	h.menus.remove(menu.token)
}
