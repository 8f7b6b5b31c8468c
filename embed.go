package main

import "github.com/bwmarrin/discordgo"

// Embed response colors
const (
	colorInfo    = 0x3498DB
	colorSuccess = 0x2ECC71
	colorError   = 0xE74C3C
)

// Embed is a fluent builder around discordgo.MessageEmbed
type Embed struct {
	*discordgo.MessageEmbed
}

func NewEmbed() *Embed {
	return &Embed{&discordgo.MessageEmbed{}}
}

func (e *Embed) SetTitle(name string) *Embed {
	e.Title = name
	return e
}

func (e *Embed) SetDescription(description string) *Embed {
	e.Description = description
	return e
}

func (e *Embed) AddField(name, value string) *Embed {
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
		Name:  name,
		Value: value,
	})

	return e
}

func (e *Embed) SetFooter(text string) *Embed {
	e.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return e
}

func (e *Embed) SetColor(color int) *Embed {
	e.Color = color
	return e
}
