package main

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/lit"
)

// Modal custom IDs
const (
	modalAddProject     = "modal_agregarproyecto"
	modalUpdateProject  = "modal_actualizarproyecto"
	modalPublishChapter = "modal_generarmensaje"
)

var (
	// Commands
	commands = []*discordgo.ApplicationCommand{
		{
			Name:        "agregarproyecto",
			Description: "Abre un formulario para agregar un proyecto.",
		},
		{
			Name:        "actualizarproyecto",
			Description: "Abre un formulario para actualizar un proyecto.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "titulo",
					Description:  "Título del proyecto",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "generarmensaje",
			Description: "Abre un formulario para generar un mensaje.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "titulo",
					Description:  "Título del proyecto",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}

	// Handler: opens the matching modal
	commandHandlers = map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"agregarproyecto": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			openModal(s, i, modalAddProject, "Agregar Proyecto", []discordgo.MessageComponent{
				textInputRow("titulo", "Título del Proyecto", "Ingrese el título", "", discordgo.TextInputShort, true),
				textInputRow("link", "Link de Ikigai", "Ingrese el link de Ikigai", "", discordgo.TextInputShort, true),
				textInputRow("sinopsis", "Sinopsis", "Ingrese una breve sinopsis", "", discordgo.TextInputParagraph, false),
			})
		},
		"actualizarproyecto": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			openModal(s, i, modalUpdateProject, "Actualizar Proyecto", []discordgo.MessageComponent{
				textInputRow("titulo", "Nombre del Proyecto", "Proyecto seleccionado", selectedTitle(i), discordgo.TextInputShort, true),
				textInputRow("titulo_nuevo", "Nuevo Nombre del Proyecto", "Ingrese el nuevo nombre del proyecto", "", discordgo.TextInputShort, true),
				textInputRow("sinopsis", "Sinopsis Actualizada", "Ingrese la nueva sinopsis (opcional)", "", discordgo.TextInputParagraph, false),
			})
		},
		"generarmensaje": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			openModal(s, i, modalPublishChapter, "Generar Mensaje", []discordgo.MessageComponent{
				textInputRow("titulo", "Título del Proyecto", "Ingrese el título del proyecto", selectedTitle(i), discordgo.TextInputShort, true),
				textInputRow("capitulo", "Capítulo", "Ingrese el capítulo", "", discordgo.TextInputShort, true),
				textInputRow("tmo", "Link de TMO", "Ingrese el link de TMO", "", discordgo.TextInputShort, false),
				textInputRow("imagen", "URL de la Imagen", "Ingrese la URL de la imagen", "", discordgo.TextInputShort, true),
			})
		},
	}

	// Handler for submitted modals, keyed by custom ID
	modalHandlers = map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		modalAddProject:     addProjectSubmit,
		modalUpdateProject:  updateProjectSubmit,
		modalPublishChapter: publishChapterSubmit,
	}
)

// Routes interactions to command, autocomplete and modal handlers
func interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := commandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		suggestProjectTitles(s, i)
	case discordgo.InteractionModalSubmit:
		if h, ok := modalHandlers[i.ModalSubmitData().CustomID]; ok {
			h(s, i)
		}
	}
}

// Autocompletes the titulo option from the guild's stored projects
func suggestProjectTitles(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var current string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "titulo" && opt.Focused {
			current = opt.StringValue()
		}
	}

	titles, err := projects.SuggestTitles(context.Background(), i.GuildID, current)
	if err != nil {
		lit.Error("Error suggesting titles, %s", err)
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(titles))
	for _, title := range titles {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: title, Value: title})
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		lit.Error("InteractionRespond failed: %s", err)
	}
}

func addProjectSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	title, link, synopsis := modalValue(data, 0), modalValue(data, 1), modalValue(data, 2)

	if _, err := projects.Add(context.Background(), i.GuildID, title, link, synopsis); err != nil {
		replyErrorInteraction(s, i, "Error al Agregar Proyecto", err)
		return
	}

	if synopsis == "" {
		synopsis = defaultSynopsis
	}
	sendEmbedInteraction(s, NewEmbed().SetTitle("Proyecto Agregado").
		SetDescription("**Título:** "+title+"\n**Link:** "+link+"\n**Sinopsis:** "+synopsis).
		SetColor(colorSuccess).MessageEmbed, i.Interaction)
}

func updateProjectSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	currentTitle, newTitle, synopsis := modalValue(data, 0), modalValue(data, 1), modalValue(data, 2)

	ctx := context.Background()

	project, err := projects.FindByTitle(ctx, i.GuildID, currentTitle)
	if err != nil {
		replyErrorInteraction(s, i, "Error al Actualizar Proyecto", err)
		return
	}

	if err = projects.Rename(ctx, i.GuildID, project.ID, newTitle, synopsis); err != nil {
		replyErrorInteraction(s, i, "Error al Actualizar Proyecto", err)
		return
	}

	if synopsis == "" {
		synopsis = "Sin cambios"
	}
	sendEmbedInteraction(s, NewEmbed().SetTitle("Proyecto Actualizado").
		SetDescription("**Nombre anterior:** "+currentTitle+"\n**Nuevo Nombre:** "+newTitle+"\n**Sinopsis:** "+synopsis).
		SetColor(colorSuccess).MessageEmbed, i.Interaction)
}

func publishChapterSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	title, chapter := modalValue(data, 0), modalValue(data, 1)
	secondaryLink, imageURL := modalValue(data, 2), modalValue(data, 3)

	err := publishAnnouncement(context.Background(), s, i.GuildID, title, chapter, secondaryLink, imageURL)
	if err != nil {
		replyErrorInteraction(s, i, "Error al Generar Mensaje", err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: "¡Mensaje publicado!", Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		lit.Error("InteractionRespond failed: %s", err)
	}
}

func openModal(s *discordgo.Session, i *discordgo.InteractionCreate, customID, title string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID,
			Title:      title,
			Components: components,
		},
	})
	if err != nil {
		lit.Error("Can't open modal, %s", err)
	}
}

func textInputRow(customID, label, placeholder, value string, style discordgo.TextInputStyle, required bool) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.TextInput{
			CustomID:    customID,
			Label:       label,
			Placeholder: placeholder,
			Value:       value,
			Style:       style,
			Required:    required,
		},
	}}
}

// selectedTitle pulls the titulo option out of the triggering command
func selectedTitle(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "titulo" {
			return opt.StringValue()
		}
	}

	return ""
}

// modalValue reads the text input of the index-th row of a submitted
// modal, tolerating missing rows
func modalValue(data discordgo.ModalSubmitInteractionData, index int) string {
	if index >= len(data.Components) {
		return ""
	}

	row, ok := data.Components[index].(*discordgo.ActionsRow)
	if !ok || len(row.Components) == 0 {
		return ""
	}

	input, ok := row.Components[0].(*discordgo.TextInput)
	if !ok {
		return ""
	}

	return input.Value
}
