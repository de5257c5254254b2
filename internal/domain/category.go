package domain

import (
	"sort"

	"github.com/google/uuid"
)

// MenuCategory is owned by a Menu. Items are keyed by id and never point
// back at their category.
type MenuCategory struct {
	id           uuid.UUID
	name         LocalizedText
	icon         string
	isArchived   bool
	displayOrder int
	items        map[uuid.UUID]*MenuItem
}

func newMenuCategory(name LocalizedText, icon string, order int) (*MenuCategory, error) {
	if err := validateCategoryFields(name, icon, order); err != nil {
		return nil, err
	}
	return &MenuCategory{
		id:           uuid.New(),
		name:         name,
		icon:         icon,
		displayOrder: order,
		items:        make(map[uuid.UUID]*MenuItem),
	}, nil
}

func validateCategoryFields(name LocalizedText, icon string, order int) error {
	if name.IsZero() {
		return newValidation("name_required", "category name is required")
	}
	if order < 0 {
		return newValidation("negative_display_order", "display order must not be negative")
	}
	if err := validate.Var(icon, "max=256"); err != nil {
		return newValidation("invalid_icon", "icon must be at most %d characters", MaxIconSize)
	}
	return nil
}

func (c *MenuCategory) ID() uuid.UUID       { return c.id }
func (c *MenuCategory) Name() LocalizedText { return c.name }
func (c *MenuCategory) Icon() string        { return c.icon }
func (c *MenuCategory) IsArchived() bool    { return c.isArchived }
func (c *MenuCategory) DisplayOrder() int   { return c.displayOrder }
func (c *MenuCategory) ItemCount() int      { return len(c.items) }

// Items returns the items sorted by display order.
func (c *MenuCategory) Items() []*MenuItem {
	out := make([]*MenuItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].displayOrder < out[j].displayOrder })
	return out
}

func (c *MenuCategory) Item(id uuid.UUID) (*MenuItem, error) {
	it, ok := c.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return it, nil
}

func (c *MenuCategory) ensureActive() error {
	if c.isArchived {
		return ErrCategoryArchived
	}
	return nil
}

func (c *MenuCategory) nextItemOrder() int {
	next := 0
	for _, it := range c.items {
		if it.displayOrder >= next {
			next = it.displayOrder + 1
		}
	}
	return next
}

func (c *MenuCategory) addItem(in NewItem) (*MenuItem, error) {
	if err := c.ensureActive(); err != nil {
		return nil, err
	}
	item, err := newMenuItem(in, c.nextItemOrder())
	if err != nil {
		return nil, err
	}
	c.items[item.id] = item
	return item, nil
}

func (c *MenuCategory) removeItem(id uuid.UUID) error {
	if err := c.ensureActive(); err != nil {
		return err
	}
	if _, ok := c.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(c.items, id)
	return nil
}

// activeItem finds an item for mutation, applying the archived gate first.
func (c *MenuCategory) activeItem(id uuid.UUID) (*MenuItem, error) {
	if err := c.ensureActive(); err != nil {
		return nil, err
	}
	return c.Item(id)
}

func (c *MenuCategory) reorderItems(ids []uuid.UUID) error {
	if err := c.ensureActive(); err != nil {
		return err
	}
	if err := checkPermutation(ids, len(c.items), func(id uuid.UUID) bool {
		_, ok := c.items[id]
		return ok
	}, ErrItemNotFound); err != nil {
		return err
	}
	for pos, id := range ids {
		c.items[id].displayOrder = pos
	}
	return nil
}

// checkPermutation verifies ids names every existing sibling exactly once.
func checkPermutation(ids []uuid.UUID, size int, exists func(uuid.UUID) bool, notFound error) error {
	if len(ids) != size {
		return newConflict(CodeInvalidReorder, "reorder needs exactly %d ids, got %d", size, len(ids))
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if !exists(id) {
			return notFound
		}
		if _, dup := seen[id]; dup {
			return newConflict(CodeInvalidReorder, "id %s appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
