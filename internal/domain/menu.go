package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

var nowFunc = func() time.Time { return time.Now().UTC() }

// Menu is the aggregate root of a tenant's catalog. Categories and items are
// reachable only through it, and every mutation goes through its methods.
type Menu struct {
	id               uuid.UUID
	tenantID         uuid.UUID
	name             LocalizedText
	description      LocalizedText
	isDefault        bool
	isArchived       bool
	publishedVersion int
	createdAt        time.Time
	updatedAt        time.Time
	revision         int64
	categories       map[uuid.UUID]*MenuCategory
}

func NewMenu(tenantID uuid.UUID, name, description LocalizedText) (*Menu, []Event, error) {
	if tenantID == uuid.Nil {
		return nil, nil, newValidation("tenant_required", "tenant id is required")
	}
	if name.IsZero() {
		return nil, nil, newValidation("name_required", "menu name is required")
	}
	now := nowFunc()
	m := &Menu{
		id:          uuid.New(),
		tenantID:    tenantID,
		name:        name,
		description: description,
		createdAt:   now,
		updatedAt:   now,
		categories:  make(map[uuid.UUID]*MenuCategory),
	}
	return m, []Event{m.event(EventMenuCreated)}, nil
}

func (m *Menu) ID() uuid.UUID              { return m.id }
func (m *Menu) TenantID() uuid.UUID        { return m.tenantID }
func (m *Menu) Name() LocalizedText        { return m.name }
func (m *Menu) Description() LocalizedText { return m.description }
func (m *Menu) IsDefault() bool            { return m.isDefault }
func (m *Menu) IsArchived() bool           { return m.isArchived }
func (m *Menu) PublishedVersion() int      { return m.publishedVersion }
func (m *Menu) CreatedAt() time.Time       { return m.createdAt }
func (m *Menu) UpdatedAt() time.Time       { return m.updatedAt }

// Revision is the persistence revision used for optimistic concurrency.
func (m *Menu) Revision() int64 { return m.revision }

// SetRevision is called by repositories after a successful write.
func (m *Menu) SetRevision(rev int64) { m.revision = rev }

// Categories returns the non-archived categories sorted by display order.
func (m *Menu) Categories() []*MenuCategory {
	out := make([]*MenuCategory, 0, len(m.categories))
	for _, c := range m.AllCategories() {
		if !c.isArchived {
			out = append(out, c)
		}
	}
	return out
}

// AllCategories includes archived categories, sorted by display order.
func (m *Menu) AllCategories() []*MenuCategory {
	out := make([]*MenuCategory, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].displayOrder < out[j].displayOrder })
	return out
}

func (m *Menu) Category(id uuid.UUID) (*MenuCategory, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (m *Menu) ensureActive() error {
	if m.isArchived {
		return ErrMenuArchived
	}
	return nil
}

func (m *Menu) touch() {
	m.updatedAt = nowFunc()
}

func (m *Menu) Rename(name, description LocalizedText) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	if name.IsZero() {
		return nil, newValidation("name_required", "menu name is required")
	}
	m.name = name
	m.description = description
	m.touch()
	return []Event{m.event(EventMenuUpdated)}, nil
}

func (m *Menu) SetDefault(isDefault bool) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	if m.isDefault == isDefault {
		return nil, nil
	}
	m.isDefault = isDefault
	m.touch()
	return []Event{m.event(EventMenuUpdated)}, nil
}

// Archive is idempotent. An archived menu rejects content changes until
// Restore.
func (m *Menu) Archive() []Event {
	if m.isArchived {
		return nil
	}
	m.isArchived = true
	m.touch()
	return []Event{m.event(EventMenuArchived)}
}

func (m *Menu) Restore() []Event {
	if !m.isArchived {
		return nil
	}
	m.isArchived = false
	m.touch()
	return []Event{m.event(EventMenuRestored)}
}

func (m *Menu) orderTaken(order int, except uuid.UUID) bool {
	for id, c := range m.categories {
		if id != except && c.displayOrder == order {
			return true
		}
	}
	return false
}

func (m *Menu) nextCategoryOrder() int {
	next := 0
	for _, c := range m.categories {
		if c.displayOrder >= next {
			next = c.displayOrder + 1
		}
	}
	return next
}

// AddCategory appends a category. A nil order means max+1, or 0 for an empty
// menu.
func (m *Menu) AddCategory(name LocalizedText, icon string, order *int) (*MenuCategory, []Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, nil, err
	}
	pos := m.nextCategoryOrder()
	if order != nil {
		pos = *order
	}
	c, err := newMenuCategory(name, icon, pos)
	if err != nil {
		return nil, nil, err
	}
	if m.orderTaken(pos, uuid.Nil) {
		return nil, nil, newConflict(CodeDuplicateOrder, "display order %d is already used by another category", pos)
	}
	m.categories[c.id] = c
	m.touch()

	ev := m.event(EventCategoryAdded)
	ev.CategoryID = c.id
	return c, []Event{ev}, nil
}

func (m *Menu) UpdateCategory(id uuid.UUID, name LocalizedText, order int, icon string) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	c, err := m.Category(id)
	if err != nil {
		return nil, err
	}
	if err := c.ensureActive(); err != nil {
		return nil, err
	}
	if err := validateCategoryFields(name, icon, order); err != nil {
		return nil, err
	}
	if m.orderTaken(order, id) {
		return nil, newConflict(CodeDuplicateOrder, "display order %d is already used by another category", order)
	}
	c.name = name
	c.icon = icon
	c.displayOrder = order
	m.touch()

	ev := m.event(EventCategoryUpdated)
	ev.CategoryID = id
	return []Event{ev}, nil
}

func (m *Menu) ArchiveCategory(id uuid.UUID) ([]Event, error) {
	return m.setCategoryArchived(id, true, EventCategoryArchived)
}

func (m *Menu) RestoreCategory(id uuid.UUID) ([]Event, error) {
	return m.setCategoryArchived(id, false, EventCategoryRestored)
}

func (m *Menu) setCategoryArchived(id uuid.UUID, archived bool, t EventType) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	c, err := m.Category(id)
	if err != nil {
		return nil, err
	}
	if c.isArchived == archived {
		return nil, nil
	}
	c.isArchived = archived
	m.touch()

	ev := m.event(t)
	ev.CategoryID = id
	return []Event{ev}, nil
}

func (m *Menu) RemoveCategory(id uuid.UUID) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	if _, err := m.Category(id); err != nil {
		return nil, err
	}
	delete(m.categories, id)
	m.touch()

	ev := m.event(EventCategoryRemoved)
	ev.CategoryID = id
	return []Event{ev}, nil
}

// ReorderCategories assigns display order i to ids[i]. ids must be a
// permutation of every category, archived ones included.
func (m *Menu) ReorderCategories(ids []uuid.UUID) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	if err := checkPermutation(ids, len(m.categories), func(id uuid.UUID) bool {
		_, ok := m.categories[id]
		return ok
	}, ErrCategoryNotFound); err != nil {
		return nil, err
	}
	for pos, id := range ids {
		m.categories[id].displayOrder = pos
	}
	m.touch()

	ev := m.event(EventCategoriesReordered)
	ev.Order = append([]uuid.UUID(nil), ids...)
	return []Event{ev}, nil
}

// PublishNextVersion bumps the published version. Building and storing the
// snapshot is the caller's job.
func (m *Menu) PublishNextVersion() (int, []Event, error) {
	if err := m.ensureActive(); err != nil {
		return 0, nil, err
	}
	m.publishedVersion++
	m.touch()

	ev := m.event(EventMenuPublished)
	ev.Version = m.publishedVersion
	return m.publishedVersion, []Event{ev}, nil
}
