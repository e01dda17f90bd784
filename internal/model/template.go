package model

import (
	"time"
)

// PlanTemplate is a reusable starting layout: rooms, openings, furniture
// and boundary, without lot placement.
type PlanTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Scene       Scene  `json:"scene"`
}

// NewPlanTemplate captures a deep copy of scene under the given name.
func NewPlanTemplate(name, description string, scene Scene) PlanTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return PlanTemplate{
		ID:          newID(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Scene:       scene.Clone(),
	}
}

// ToScene returns a new scene from the template. Every entity gets a fresh
// ID so it is independent of the template.
func (t PlanTemplate) ToScene() Scene {
	s := t.Scene.Clone()
	for i := range s.Rooms {
		s.Rooms[i].ID = newID()
	}
	for i := range s.Doors {
		s.Doors[i].ID = newID()
	}
	for i := range s.Windows {
		s.Windows[i].ID = newID()
	}
	for i := range s.Furniture {
		s.Furniture[i].ID = newID()
	}
	s.Recompute()
	return s
}

// TemplateStore holds a collection of plan templates.
type TemplateStore struct {
	Templates []PlanTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []PlanTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t PlanTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *PlanTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
