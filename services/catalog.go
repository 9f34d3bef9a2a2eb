package services

import (
	"fmt"

	"office-booking/internal/status"
	"office-booking/models"
)

// DeskFamily is one cluster of mutually adjacent desks, in catalog order.
type DeskFamily struct {
	Key   string
	Desks []*models.Resource
}

// Catalog holds the known users and resources. Enumeration order is
// insertion order, so family search during allocation is repeatable
// within a run.
type Catalog struct {
	users     map[string]*models.User
	resources map[string]*models.Resource
	order     []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		users:     make(map[string]*models.User),
		resources: make(map[string]*models.Resource),
	}
}

func (c *Catalog) AddUser(user *models.User) {
	c.users[user.ID] = user
}

func (c *Catalog) RemoveUser(id string) {
	delete(c.users, id)
}

func (c *Catalog) User(id string) (*models.User, error) {
	user, ok := c.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, status.ErrNotFound)
	}
	return user, nil
}

func (c *Catalog) Users() []*models.User {
	users := make([]*models.User, 0, len(c.users))
	for _, user := range c.users {
		users = append(users, user)
	}
	return users
}

func (c *Catalog) AddResource(resource *models.Resource) {
	if _, exists := c.resources[resource.ID]; !exists {
		c.order = append(c.order, resource.ID)
	}
	c.resources[resource.ID] = resource
}

func (c *Catalog) RemoveResource(id string) {
	if _, exists := c.resources[id]; !exists {
		return
	}
	delete(c.resources, id)
	for i, rid := range c.order {
		if rid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Catalog) Resource(id string) (*models.Resource, error) {
	resource, ok := c.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, status.ErrNotFound)
	}
	return resource, nil
}

// Desks returns every desk in insertion order.
func (c *Catalog) Desks() []*models.Resource {
	var desks []*models.Resource
	for _, id := range c.order {
		if r := c.resources[id]; r.Kind == models.ResourceDesk {
			desks = append(desks, r)
		}
	}
	return desks
}

// Rooms returns every room in insertion order.
func (c *Catalog) Rooms() []*models.Resource {
	var rooms []*models.Resource
	for _, id := range c.order {
		if r := c.resources[id]; r.Kind == models.ResourceRoom {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// DeskFamilies groups desks by family key. Families appear in the order
// their first member was added; desks without a family key are excluded.
func (c *Catalog) DeskFamilies() []DeskFamily {
	byKey := make(map[string]int)
	var families []DeskFamily

	for _, id := range c.order {
		r := c.resources[id]
		if r.Kind != models.ResourceDesk || r.DeskFamily == "" {
			continue
		}
		idx, seen := byKey[r.DeskFamily]
		if !seen {
			idx = len(families)
			byKey[r.DeskFamily] = idx
			families = append(families, DeskFamily{Key: r.DeskFamily})
		}
		families[idx].Desks = append(families[idx].Desks, r)
	}
	return families
}
