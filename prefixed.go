package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/lit"
)

const commandPrefix = "$manager "

var prefixHandlers = map[string]func(s *discordgo.Session, m *discordgo.MessageCreate, args []string){
	"ayuda":                  ayuda,
	"server":                 configureServer,
	"canal_publicaciones":    setAnnouncementChannel,
	"rolesautorizados":       setAuthorizedRoles,
	"resetearroles":          clearAuthorizedRoles,
	"rolesetiquetar":         setTaggedRoles,
	"eliminarrolesetiquetar": clearTaggedRoles,
	"rolesdona":              setDonorRoles,
	"eliminarrolesdona":      clearDonorRoles,
	"actualizar_dominio":     updateDomain,
}

// Routes guild messages: pending confirmation replies first, then
// prefixed admin commands
func messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	if gate.Resolve(m.Author.ID, m.ChannelID, m.Content) {
		return
	}

	if !strings.HasPrefix(m.Content, commandPrefix) {
		return
	}

	args := strings.Fields(strings.TrimPrefix(m.Content, commandPrefix))
	if len(args) == 0 {
		return
	}

	if h, ok := prefixHandlers[args[0]]; ok {
		h(s, m, args[1:])
	}
}

func ayuda(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	embed := NewEmbed().SetTitle("Comandos de Configuración").SetDescription(
		"**$manager server <id> <nombre>** - Configura el servidor.\n" +
			"**$manager canal_publicaciones <ID del canal>** - Configura el canal de publicaciones.\n" +
			"**$manager rolesautorizados <IDs de roles>** - Configura roles autorizados.\n" +
			"**$manager resetearroles** - Elimina todos los roles autorizados.\n" +
			"**$manager rolesetiquetar <IDs de roles>** - Configura roles para publicaciones.\n" +
			"**$manager eliminarrolesetiquetar** - Elimina roles configurados para publicaciones.\n" +
			"**$manager rolesdona <IDs de roles>** - Configura roles de donadores.\n" +
			"**$manager eliminarrolesdona** - Elimina roles configurados como donadores.\n" +
			"**$manager actualizar_dominio <nuevo dominio>** - Cambia el dominio de todos los proyectos.").
		SetFooter("Usa estos comandos para configurar tu servidor.").SetColor(colorInfo).MessageEmbed

	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	if err != nil {
		lit.Error("Error sending message, %s", err)
	}
}

func configureServer(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		sendEmbed(s, m.ChannelID, "Error", "Uso: `$manager server <id> <nombre>`.", colorError)
		return
	}

	serverID, serverName := args[0], strings.Join(args[1:], " ")

	if err := configs.SetServer(context.Background(), serverID, serverName); err != nil {
		replyError(s, m.ChannelID, "Error al Configurar el Servidor", err)
		return
	}

	sendEmbed(s, m.ChannelID, "Servidor Configurado",
		"Servidor configurado correctamente:\n**Nombre:** "+serverName+"\n**ID:** "+serverID, colorSuccess)
}

func setAnnouncementChannel(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) != 1 {
		sendEmbed(s, m.ChannelID, "Error", "Uso: `$manager canal_publicaciones <ID del canal>`.", colorError)
		return
	}

	channelID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		sendEmbed(s, m.ChannelID, "Error", "El ID del canal debe ser numérico.", colorError)
		return
	}

	created, err := configs.SetAnnouncementChannel(context.Background(), m.GuildID, channelID)
	if err != nil {
		replyError(s, m.ChannelID, "Error al Configurar el Canal", err)
		return
	}

	description := "Canal de publicaciones configurado: `" + args[0] + "`."
	if created {
		description = "Canal de publicaciones configurado: `" + args[0] + "` (Nuevo documento creado)."
	}
	sendEmbed(s, m.ChannelID, "Canal Configurado", description, colorSuccess)
}

func setAuthorizedRoles(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	roleIDs, ok := parseRoleIDs(s, m, args)
	if !ok {
		return
	}

	if err := configs.ReplaceRoleGroup(context.Background(), m.GuildID, prefixAuthorized, roleIDs); err != nil {
		replyError(s, m.ChannelID, "Error al Configurar Roles", err)
		return
	}

	sendEmbed(s, m.ChannelID, "Roles Configurados",
		"Roles autorizados agregados: "+strings.Join(args, ", ")+".", colorSuccess)
}

func setTaggedRoles(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	roleIDs, ok := parseRoleIDs(s, m, args)
	if !ok {
		return
	}

	if err := configs.ReplaceRoleGroup(context.Background(), m.GuildID, prefixTagged, roleIDs); err != nil {
		replyError(s, m.ChannelID, "Error al Configurar Roles", err)
		return
	}

	sendEmbed(s, m.ChannelID, "Roles Configurados",
		"Roles configurados correctamente:\n**ID(s):** "+strings.Join(args, ", ")+
			"\n**Nombre(s):** "+strings.Join(resolveRoleNames(s, m.GuildID, roleIDs), ", ")+".", colorSuccess)
}

func setDonorRoles(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	roleIDs, ok := parseRoleIDs(s, m, args)
	if !ok {
		return
	}

	if err := configs.ReplaceRoleGroup(context.Background(), m.GuildID, prefixDonor, roleIDs); err != nil {
		replyError(s, m.ChannelID, "Error al Configurar Roles", err)
		return
	}

	sendEmbed(s, m.ChannelID, "Roles Configurados",
		"Los roles se han configurado correctamente.\nIDs de roles: "+strings.Join(args, ", ")+
			"\nRoles: "+strings.Join(resolveRoleNames(s, m.GuildID, roleIDs), ", ")+".", colorSuccess)
}

func clearAuthorizedRoles(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	clearRoles(s, m, prefixAuthorized,
		"¿Deseas eliminar los roles de autoridad agregados? Escribe `si` o `no` (30 segundos para responder).",
		"Los roles de autoridad han sido eliminados correctamente.")
}

func clearTaggedRoles(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	clearRoles(s, m, prefixTagged,
		"¿Deseas eliminar los roles etiquetados configurados? Escribe `si` o `no` (30 segundos para responder).",
		"Los roles etiquetados han sido eliminados correctamente.")
}

func clearDonorRoles(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) {
	clearRoles(s, m, prefixDonor,
		"¿Deseas eliminar los roles de donadores configurados? Escribe `si` o `no` (30 segundos para responder).",
		"Los roles de donadores han sido eliminados correctamente.")
}

// clearRoles asks for confirmation before wiping a role group
func clearRoles(s *discordgo.Session, m *discordgo.MessageCreate, prefix, prompt, success string) {
	sendEmbed(s, m.ChannelID, "Confirmación de Eliminación", prompt, colorInfo)

	switch gate.Await(m.Author.ID, m.ChannelID) {
	case Confirmed:
		if err := configs.ClearRoleGroup(context.Background(), m.GuildID, prefix); err != nil {
			replyError(s, m.ChannelID, "Error al Eliminar Roles", err)
			return
		}
		sendEmbed(s, m.ChannelID, "Roles Eliminados", success, colorSuccess)
	case Declined:
		sendEmbed(s, m.ChannelID, "Operación Cancelada", "No se han eliminado los roles.", colorInfo)
	case Invalid:
		sendEmbed(s, m.ChannelID, "Respuesta Inválida", "Por favor responde con `si` o `no`.", colorError)
	case TimedOut:
		sendEmbed(s, m.ChannelID, "Tiempo Excedido", "No respondiste a tiempo, los roles no se han eliminado.", colorError)
	}
}

func updateDomain(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) != 1 {
		sendEmbed(s, m.ChannelID, "Error", "Uso: `$manager actualizar_dominio <nuevo dominio>`.", colorError)
		return
	}

	count, err := projects.RewriteDomain(context.Background(), m.GuildID, args[0])
	if err != nil {
		replyError(s, m.ChannelID, "Error al Actualizar Dominio", err)
		return
	}

	sendEmbed(s, m.ChannelID, "Dominio Actualizado",
		"El dominio ha sido actualizado a `"+args[0]+"` en "+strconv.Itoa(count)+" proyectos.", colorSuccess)
}

func parseRoleIDs(s *discordgo.Session, m *discordgo.MessageCreate, args []string) ([]int64, bool) {
	if len(args) == 0 {
		sendEmbed(s, m.ChannelID, "Error", "Debes indicar al menos un ID de rol.", colorError)
		return nil, false
	}

	roleIDs := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			sendEmbed(s, m.ChannelID, "Error", "El ID de rol `"+arg+"` no es numérico.", colorError)
			return nil, false
		}

		roleIDs = append(roleIDs, id)
	}

	return roleIDs, true
}

// resolveRoleNames looks role names up in the session state, falling
// back to the REST API for guilds the state hasn't cached yet
func resolveRoleNames(s *discordgo.Session, guildID string, roleIDs []int64) []string {
	names := make([]string, 0, len(roleIDs))

	var fetched []*discordgo.Role
	for _, id := range roleIDs {
		roleID := strconv.FormatInt(id, 10)

		if role, err := s.State.Role(guildID, roleID); err == nil {
			names = append(names, role.Name)
			continue
		}

		if fetched == nil {
			var err error
			if fetched, err = s.GuildRoles(guildID); err != nil {
				lit.Error("Error fetching roles, %s", err)
				fetched = []*discordgo.Role{}
			}
		}

		for _, role := range fetched {
			if role.ID == roleID {
				names = append(names, role.Name)
				break
			}
		}
	}

	return names
}
