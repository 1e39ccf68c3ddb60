package discord

import (
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/hitsquad/panela/internal/service"
)

// replyFor maps a service error to the user-facing reply. Unknown errors get
// the generic message; details stay in the logs.
func replyFor(err error) string {
	switch {
	case errors.Is(err, service.ErrConfigMissing):
		return "Use hit!panela config primeiro para configurar os cargos!"
	case errors.Is(err, service.ErrSlotNotConfigured):
		return "Este slot não tem cargo configurado!"
	case errors.Is(err, service.ErrNotAuthorized):
		return "Você não tem permissão para usar a panela!"
	case errors.Is(err, service.ErrRoleNotFound):
		return "Cargo não encontrado!"
	case errors.Is(err, service.ErrRecipientNotEligible):
		return "Este membro não possui os cargos necessários!"
	case errors.Is(err, service.ErrCapacityExceeded):
		return "Limite de membros atingido para este cargo!"
	case errors.Is(err, service.ErrInsufficientPrivilege):
		return "Não consigo gerenciar este cargo. Verifique as permissões do bot."
	case errors.Is(err, service.ErrNotGrantOwner):
		return "Apenas quem adicionou este membro pode removê-lo!"
	case errors.Is(err, service.ErrInvalidSlot):
		return "Slot inválido!"
	case errors.Is(err, service.ErrInvalidLimit):
		return "O limite deve ser pelo menos 1!"
	case errors.Is(err, service.ErrNoRolesGiven):
		return "Mencione pelo menos um cargo!"
	default:
		return "Ocorreu um erro ao processar o comando. Por favor, tente novamente."
	}
}

// reply sends a short-lived message to the channel. Replies are deleted after
// the configured TTL to keep command channels readable.
func (h *Handler) reply(channelID, content string) {
	msg, err := h.session.ChannelMessageSend(channelID, content)
	if err != nil {
		h.log.Error("failed to send reply", "channel", channelID, "error", err)
		return
	}
	if h.replyTTL <= 0 {
		return
	}
	time.AfterFunc(h.replyTTL, func() {
		if err := h.session.ChannelMessageDelete(channelID, msg.ID); err != nil {
			h.log.Debug("failed to delete expired reply", "channel", channelID, "error", err)
		}
	})
}

// respondEphemeral answers an interaction with a message only the pressing
// user can see.
func (h *Handler) respondEphemeral(i *discordgo.Interaction, content string) {
	err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.log.Error("failed to respond to interaction", "error", err)
	}
}

// respondEmbedEphemeral answers an interaction with an embed only the
// pressing user can see.
func (h *Handler) respondEmbedEphemeral(i *discordgo.Interaction, embed *discordgo.MessageEmbed) {
	err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.log.Error("failed to respond to interaction", "error", err)
	}
}

// ackUpdate acknowledges a component interaction without posting anything.
func (h *Handler) ackUpdate(i *discordgo.Interaction) {
	err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		h.log.Debug("failed to acknowledge interaction", "error", err)
	}
}
