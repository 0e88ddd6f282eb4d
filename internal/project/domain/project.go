// Package domain holds the project aggregate: a project owns its groups,
// groups own columns and columns own tasks. Nested entities have no identity
// outside their parent and are addressed by id within the parent's slice.
package domain

import (
	"slices"
	"time"
)

type Project struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Members     []string  `json:"members" bson:"members"`
	CreatedBy   string    `json:"createdBy" bson:"createdBy"`
	Groups      []Group   `json:"groups" bson:"groups"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
	Version     int64     `json:"version" bson:"version"`
}

type Group struct {
	ID        string     `json:"_id" bson:"_id"`
	Name      string     `json:"name" bson:"name"`
	CreatedBy string     `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
	Columns   []Column   `json:"columns" bson:"columns"`
	Settings  []Setting  `json:"settings" bson:"settings"`
	Logs      []LogEntry `json:"logs" bson:"logs"`
}

// Setting is an opaque key/value pair such as a background colour.
type Setting struct {
	Key   string `json:"key" bson:"key"`
	Value string `json:"value" bson:"value"`
}

type LogEntry struct {
	Action string    `json:"action" bson:"action"`
	By     string    `json:"by" bson:"by"`
	Date   time.Time `json:"date" bson:"date"`
}

type Column struct {
	ID    string `json:"_id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Tasks []Task `json:"tasks" bson:"tasks"`
}

type Task struct {
	ID          string    `json:"_id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	AssignedTo  *string   `json:"assignedTo" bson:"assignedTo"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

const (
	ActionGroupCreated  = "group created"
	ActionColumnCreated = "column created"
	ActionColumnDeleted = "column deleted"
	ActionTaskCreated   = "task created"
	ActionTaskDeleted   = "task deleted"
)

// NewProject builds a project whose creator is its only member.
func NewProject(id, name, description, creator string, createdAt, now time.Time) Project {
	return Project{
		ID:          id,
		Name:        name,
		Description: description,
		Members:     []string{creator},
		CreatedBy:   creator,
		Groups:      []Group{},
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
}

// IsMember is the only authorization check; CreatedBy grants nothing by itself.
func (p *Project) IsMember(userID string) bool {
	return slices.Contains(p.Members, userID)
}

// Group returns a pointer into p.Groups, valid until the slice is modified.
func (p *Project) Group(id string) (*Group, bool) {
	for i := range p.Groups {
		if p.Groups[i].ID == id {
			return &p.Groups[i], true
		}
	}
	return nil, false
}

func (p *Project) AddGroup(g Group) {
	p.Groups = append(p.Groups, g)
}

// RemoveGroup drops every group with id. Removing an absent id changes nothing.
func (p *Project) RemoveGroup(id string) bool {
	before := len(p.Groups)
	p.Groups = slices.DeleteFunc(p.Groups, func(g Group) bool { return g.ID == id })
	return len(p.Groups) != before
}

func (p *Project) Touch(now time.Time) {
	p.UpdatedAt = now
}

// Clone returns a deep copy so callers may mutate it without aliasing.
func (p Project) Clone() Project {
	c := p
	c.Members = slices.Clone(p.Members)
	if p.Groups != nil {
		c.Groups = make([]Group, len(p.Groups))
		for i, g := range p.Groups {
			c.Groups[i] = g.clone()
		}
	}
	return c
}

func (g *Group) Column(id string) (*Column, bool) {
	for i := range g.Columns {
		if g.Columns[i].ID == id {
			return &g.Columns[i], true
		}
	}
	return nil, false
}

func (g *Group) AddColumn(c Column) {
	g.Columns = append(g.Columns, c)
}

func (g *Group) RemoveColumn(id string) bool {
	before := len(g.Columns)
	g.Columns = slices.DeleteFunc(g.Columns, func(c Column) bool { return c.ID == id })
	return len(g.Columns) != before
}

// Log appends to the action log. Entries are never rewritten or removed.
func (g *Group) Log(action, by string, at time.Time) {
	g.Logs = append(g.Logs, LogEntry{Action: action, By: by, Date: at})
}

func (g *Group) Touch(now time.Time) {
	g.UpdatedAt = now
}

func (g Group) clone() Group {
	c := g
	c.Settings = slices.Clone(g.Settings)
	c.Logs = slices.Clone(g.Logs)
	if g.Columns != nil {
		c.Columns = make([]Column, len(g.Columns))
		for i, col := range g.Columns {
			c.Columns[i] = col.clone()
		}
	}
	return c
}

func (c *Column) AddTask(t Task) {
	c.Tasks = append(c.Tasks, t)
}

func (c *Column) RemoveTask(id string) bool {
	before := len(c.Tasks)
	c.Tasks = slices.DeleteFunc(c.Tasks, func(t Task) bool { return t.ID == id })
	return len(c.Tasks) != before
}

func (c Column) clone() Column {
	out := c
	if c.Tasks != nil {
		out.Tasks = make([]Task, len(c.Tasks))
		for i, t := range c.Tasks {
			out.Tasks[i] = t
			if t.AssignedTo != nil {
				a := *t.AssignedTo
				out.Tasks[i].AssignedTo = &a
			}
		}
	}
	return out
}
