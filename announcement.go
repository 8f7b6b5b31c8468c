package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrNoChannel means no announcement channel is configured
	ErrNoChannel = errors.New("no announcement channel configured")
	// ErrInvalidChannel means the configured channel doesn't resolve
	ErrInvalidChannel = errors.New("configured channel does not exist")
	// ErrImageFetch means the announcement image couldn't be downloaded
	ErrImageFetch = errors.New("image download failed")
)

// Shown when a project has no synopsis stored
const synopsisPlaceholder = "Sin sinopsis disponible"

// composeAnnouncement builds the chapter announcement in its fixed
// line order. Deterministic given its inputs; the tagged and donor
// mention lines drop out when the matching group is empty
func composeAnnouncement(cfg *ServerConfig, project *Project, chapter, secondaryLink string) string {
	var b strings.Builder

	if len(cfg.TaggedRoleIDs) > 0 {
		b.WriteString(":mega:| " + roleMentions(cfg.TaggedRoleIDs) + "\n")
	}

	b.WriteString(":loudspeaker: Buenas, nuevo capítulo de **" + project.Title + "** :rotating_light:\n")
	b.WriteString("# :newspaper2: Capítulo " + chapter + "\n")
	b.WriteString("# :link: [Link de Ikigai](<" + project.Link + ">)\n")

	if link := strings.TrimSpace(secondaryLink); link != "" {
		b.WriteString(":link: [Link de TMO](<" + link + ">)\n")
	}

	b.WriteString(":newspaper2: Gracias a todo el staff por el trabajo realizado :hearts:\n")

	if len(cfg.DonorRoleIDs) > 0 {
		b.WriteString(":newspaper2: Gracias a " + roleMentions(cfg.DonorRoleIDs) + " por apoyar el proyecto :hearts:\n")
	}

	synopsis := project.Synopsis
	if synopsis == "" {
		synopsis = synopsisPlaceholder
	}
	b.WriteString("⊳Sinopsis:\n```" + synopsis + "```\n")

	return b.String()
}

func roleMentions(roleIDs []int64) string {
	mentions := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		mentions[i] = "<@&" + strconv.FormatInt(id, 10) + ">"
	}

	return strings.Join(mentions, " ")
}

// publishAnnouncement looks the project up, composes the announcement
// and sends it to the configured channel with the image attached
func publishAnnouncement(ctx context.Context, s *discordgo.Session, serverID, title, chapter, secondaryLink, imageURL string) error {
	cfg, err := configs.Get(ctx, serverID)
	if err != nil {
		return err
	}

	project, err := projects.FindByTitle(ctx, serverID, title)
	if err != nil {
		return err
	}

	if cfg.ChannelID == 0 {
		return ErrNoChannel
	}

	channelID := strconv.FormatInt(cfg.ChannelID, 10)
	if !channelExists(s, serverID, channelID) {
		return ErrInvalidChannel
	}

	return sendWithImage(ctx, s, channelID, composeAnnouncement(cfg, project, chapter, secondaryLink), imageURL)
}

// channelExists resolves the channel through the session state, with a
// REST fallback, and checks it belongs to the guild
func channelExists(s *discordgo.Session, guildID, channelID string) bool {
	if channel, err := s.State.Channel(channelID); err == nil {
		return channel.GuildID == guildID
	}

	channel, err := s.Channel(channelID)

	return err == nil && channel.GuildID == guildID
}

// sendWithImage downloads the image to a temp file and attaches it to
// the message. The file is closed and removed on every path, so
// repeated publications don't leak descriptors
func sendWithImage(ctx context.Context, s *discordgo.Session, channelID, message, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageFetch, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: estado %d", ErrImageFetch, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "publicacion-*.png")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err = io.Copy(tmp, resp.Body); err != nil {
		return fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	if _, err = tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}

	_, err = s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: message,
		Files:   []*discordgo.File{{Name: "imagen.png", Reader: tmp}},
	})

	return err
}
