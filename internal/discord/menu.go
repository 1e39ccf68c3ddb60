package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Button custom IDs. Each rendered menu appends its session token, so a
// press can be traced back to the menu and the user who opened it.
const (
	buttonFirstLady   = "first-lady-slot"
	buttonAntiBan     = "anti-ban-slot"
	buttonCapacity    = "capacity-slot"
	buttonViewMembers = "view-members"
	buttonClose       = "close"
)

// menuSession is one rendered menu message.
type menuSession struct {
	token     string
	guildID   string
	channelID string
	messageID string
	invokerID string
}

// menuRegistry tracks open menus by session token.
type menuRegistry struct {
	mu    sync.Mutex
	menus map[string]*menuSession
}

func newMenuRegistry() *menuRegistry {
	return &menuRegistry{menus: make(map[string]*menuSession)}
}

func (r *menuRegistry) add(m *menuSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[m.token] = m
}

func (r *menuRegistry) get(token string) (*menuSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[token]
	return m, ok
}

func (r *menuRegistry) remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.menus, token)
}

// sendMenu renders the control menu into the channel and registers its
// session.
func (h *Handler) sendMenu(guildID, channelID, invokerID string) error {
	token := uuid.NewString()

	embed := &discordgo.MessageEmbed{
		Title: "🎮 Controle do sistema de panela",
		Color: 0x2F3136,
	}
	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Primeira Dama",
				Style:    discordgo.PrimaryButton,
				CustomID: buttonFirstLady + ":" + token,
			},
			discordgo.Button{
				Label:    "Antiban",
				Style:    discordgo.PrimaryButton,
				CustomID: buttonAntiBan + ":" + token,
			},
			discordgo.Button{
				Label:    "4un",
				Style:    discordgo.PrimaryButton,
				CustomID: buttonCapacity + ":" + token,
			},
			discordgo.Button{
				Label:    "Ver Membros",
				Style:    discordgo.SecondaryButton,
				CustomID: buttonViewMembers + ":" + token,
			},
			discordgo.Button{
				Label:    "Fechar",
				Style:    discordgo.DangerButton,
				CustomID: buttonClose + ":" + token,
			},
		},
	}

	msg, err := h.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{row},
	})
	if err != nil {
		return err
	}

	h.menus.add(&menuSession{
		token:     token,
		guildID:   guildID,
		channelID: channelID,
		messageID: msg.ID,
		invokerID: invokerID,
	})
	return nil
}
