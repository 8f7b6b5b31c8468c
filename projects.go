package main

import (
	"context"
	"errors"
	"strings"
)

// ErrProjectNotFound means no project matched the given title
var ErrProjectNotFound = errors.New("project not found")

// Stored when a project is added without a synopsis
const defaultSynopsis = "Sin sinopsis"

// Suggestion lists are capped to what a command option can display
const maxSuggestions = 25

// ProjectStore reads and writes the per-guild project collection
type ProjectStore struct {
	store DocumentStore
}

func projectsPath(serverID string) string {
	return "servidores/" + serverID + "/proyectos"
}

// Add stores a new project and returns its generated id
func (p *ProjectStore) Add(ctx context.Context, serverID, title, link, synopsis string) (string, error) {
	if strings.TrimSpace(synopsis) == "" {
		synopsis = defaultSynopsis
	}

	return p.store.AddDocument(ctx, projectsPath(serverID), map[string]interface{}{
		"titulo":      title,
		"link_ikigai": link,
		"sinopsis":    synopsis,
	})
}

// FindByTitle returns the first project whose title matches exactly.
// Titles are not unique in the store, so later duplicates are ignored
func (p *ProjectStore) FindByTitle(ctx context.Context, serverID, title string) (*Project, error) {
	docs, err := p.store.StreamCollection(ctx, projectsPath(serverID))
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if stored, _ := doc.Fields["titulo"].(string); stored == title {
			return projectFromDoc(doc), nil
		}
	}

	return nil, ErrProjectNotFound
}

// SuggestTitles returns up to 25 titles containing filter, compared
// case-insensitively, in store order
func (p *ProjectStore) SuggestTitles(ctx context.Context, serverID, filter string) ([]string, error) {
	docs, err := p.store.StreamCollection(ctx, projectsPath(serverID))
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(filter)

	var titles []string
	for _, doc := range docs {
		title, _ := doc.Fields["titulo"].(string)
		if title == "" || !strings.Contains(strings.ToLower(title), lower) {
			continue
		}

		titles = append(titles, title)
		if len(titles) == maxSuggestions {
			break
		}
	}

	return titles, nil
}

// Rename retitles a project. The synopsis is replaced only when a
// non-blank one is supplied, never cleared
func (p *ProjectStore) Rename(ctx context.Context, serverID, projectID, newTitle, newSynopsis string) error {
	fields := map[string]interface{}{"titulo": newTitle}
	if s := strings.TrimSpace(newSynopsis); s != "" {
		fields["sinopsis"] = s
	}

	return p.store.UpdateDocument(ctx, projectsPath(serverID)+"/"+projectID, fields)
}

// RewriteDomain swaps the link domain of every project that has a
// link, returning how many were rewritten. Projects without the link
// field are skipped
func (p *ProjectStore) RewriteDomain(ctx context.Context, serverID, newDomain string) (int, error) {
	path := projectsPath(serverID)

	docs, err := p.store.StreamCollection(ctx, path)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, doc := range docs {
		link, ok := doc.Fields["link_ikigai"].(string)
		if !ok {
			continue
		}

		err = p.store.UpdateDocument(ctx, path+"/"+doc.ID, map[string]interface{}{
			"link_ikigai": rewriteLink(link, newDomain),
		})
		if err != nil {
			return count, err
		}

		count++
	}

	return count, nil
}

func projectFromDoc(doc StoredDoc) *Project {
	project := &Project{ID: doc.ID}
	project.Title, _ = doc.Fields["titulo"].(string)
	project.Synopsis, _ = doc.Fields["sinopsis"].(string)
	project.Link, _ = doc.Fields["link_ikigai"].(string)

	return project
}
