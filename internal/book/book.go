// Package book implements the in-memory contact store.
//
// An AddressBook holds the working set of contacts keyed by UID, tracks the
// contacts removed since the last save and flushes everything to a
// store.Repository in one transaction on Save. Sorted views are produced on
// read. All methods are safe for concurrent use.
package book

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/inovacc/addressbook/internal/flatfile"
	"github.com/inovacc/addressbook/internal/logging"
	"github.com/inovacc/addressbook/internal/model"
	"github.com/inovacc/addressbook/internal/store"
)

// AddressBook is the working set of contacts.
type AddressBook struct {
	mu      sync.RWMutex
	repo    store.Repository
	log     *slog.Logger
	entries map[string]*model.Entry
	removed map[string]*model.Entry
	dirty   bool
}

// New returns an empty book backed by repo. Call Load to fill it.
func New(repo store.Repository, log *slog.Logger) *AddressBook {
	return &AddressBook{
		repo:    repo,
		log:     logging.Component(log, "book"),
		entries: make(map[string]*model.Entry),
		removed: make(map[string]*model.Entry),
	}
}

func invalidNil(subject string) error {
	return model.NewValidationError(subject, "entry", "is required")
}

// Add validates entry and inserts a trimmed copy of it. An empty UID is filled
// in on both the stored copy and entry. A contact whose deletion has already
// been saved comes back as a new contact.
func (b *AddressBook) Add(entry *model.Entry) error {
	if entry == nil {
		return invalidNil("contact")
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if entry.UID == "" {
		entry.UID = uuid.NewString()
	}

	if _, ok := b.entries[entry.UID]; ok {
		return &model.ConflictError{Kind: "contact", Key: entry.UID}
	}

	stored := entry.Clone()
	stored.Normalize()

	if old, pending := b.removed[entry.UID]; pending {
		// re-adding a removed contact cancels its pending deletion
		stored.ID = old.ID
		stored.Address.ID = old.Address.ID

		delete(b.removed, entry.UID)
	} else {
		// its row is gone or was never ours, so it is stored as a new one
		stored.ID = 0
		stored.Address.ID = 0
	}

	b.entries[entry.UID] = stored
	b.dirty = true

	return nil
}

// Find returns, in sorted order, every contact whose last name starts with
// prefix. Matching is case-sensitive; an empty prefix matches nothing.
func (b *AddressBook) Find(prefix string) []*model.Entry {
	if prefix == "" {
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*model.Entry

	for _, e := range b.entries {
		if strings.HasPrefix(e.LastName, prefix) {
			out = append(out, e.Clone())
		}
	}

	slices.SortFunc(out, model.Compare)

	return out
}

// Remove drops the contact with entry's UID. Persisted contacts are deleted
// from the backing store on the next Save.
func (b *AddressBook) Remove(entry *model.Entry) error {
	if entry == nil {
		return invalidNil("contact")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.entries[entry.UID]
	if !ok {
		return &model.NotFoundError{Kind: "contact", Key: entry.Name()}
	}

	delete(b.entries, entry.UID)

	if cur.Persisted() {
		b.removed[cur.UID] = cur
	}

	b.dirty = true

	return nil
}

// Update replaces the contact that has entry's UID.
func (b *AddressBook) Update(entry *model.Entry) error {
	if entry == nil {
		return invalidNil("contact")
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.entries[entry.UID]
	if !ok {
		return &model.NotFoundError{Kind: "contact", Key: entry.Name()}
	}

	next := entry.Clone()
	next.Normalize()
	// identity belongs to the book, not the caller
	next.ID = cur.ID
	next.Address.ID = cur.Address.ID

	b.entries[entry.UID] = next
	b.dirty = true

	return nil
}

// Get returns a copy of the contact with the given UID.
func (b *AddressBook) Get(uid string) (*model.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[uid]
	if !ok {
		return nil, &model.NotFoundError{Kind: "contact", Key: uid}
	}

	return e.Clone(), nil
}

// GetByID returns a copy of the persisted contact with the given ID.
func (b *AddressBook) GetByID(id int64) (*model.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if id != 0 {
		for _, e := range b.entries {
			if e.ID == id {
				return e.Clone(), nil
			}
		}
	}

	return nil, &model.NotFoundError{Kind: "contact", Key: strconv.FormatInt(id, 10)}
}

// Len returns the number of contacts.
func (b *AddressBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries)
}

// Contacts returns copies of all contacts in sorted order.
func (b *AddressBook) Contacts() []*model.Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.sortedLocked()
}

func (b *AddressBook) sortedLocked() []*model.Entry {
	out := make([]*model.Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.Clone())
	}

	slices.SortFunc(out, model.Compare)

	return out
}

// Dirty reports whether the book has changes that Save has not written.
func (b *AddressBook) Dirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.dirty
}

// Load replaces the working set with the contents of the backing store and
// forgets pending removals.
func (b *AddressBook) Load(ctx context.Context) error {
	list, err := b.repo.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("loading contacts: %w", err)
	}

	entries := make(map[string]*model.Entry, len(list))

	for _, e := range list {
		if e.UID == "" {
			e.UID = uuid.NewString()
		}

		entries[e.UID] = e
	}

	b.mu.Lock()
	b.entries = entries
	b.removed = make(map[string]*model.Entry)
	b.dirty = false
	b.mu.Unlock()

	b.log.Debug("loaded", "contacts", len(entries))

	return nil
}

// LoadFromFile merges the contacts in a contact file into the book and
// returns how many were added. Nothing is added when the file is invalid.
func (b *AddressBook) LoadFromFile(path string, opts flatfile.Options) (int, error) {
	parsed, err := flatfile.ReadFile(path, opts)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range parsed {
		e.UID = uuid.NewString()
		b.entries[e.UID] = e
	}

	if len(parsed) > 0 {
		b.dirty = true
	}

	b.log.Debug("imported", "path", path, "contacts", len(parsed))

	return len(parsed), nil
}

// StoreToFile writes every contact, in sorted order, to path.
func (b *AddressBook) StoreToFile(path string, opts flatfile.Options) error {
	return flatfile.WriteFile(path, b.Contacts(), opts)
}

// Save writes the working set to the backing store in one transaction:
// removed contacts are deleted, new ones inserted and the rest updated. On
// failure neither the store nor the book changes.
func (b *AddressBook) Save(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var changes model.ChangeSet

	for _, e := range b.removed {
		changes.Deleted = append(changes.Deleted, e.Clone())
	}

	for _, e := range b.entries {
		if e.Persisted() {
			changes.Updated = append(changes.Updated, e.Clone())
		} else {
			changes.Created = append(changes.Created, e.Clone())
		}
	}

	if err := b.repo.Sync(ctx, changes); err != nil {
		return fmt.Errorf("saving contacts: %w", err)
	}

	for _, c := range changes.Created {
		if e, ok := b.entries[c.UID]; ok {
			e.ID = c.ID
			e.Address.ID = c.Address.ID
		}
	}

	b.removed = make(map[string]*model.Entry)
	b.dirty = false

	b.log.Info("saved",
		"created", len(changes.Created),
		"updated", len(changes.Updated),
		"deleted", len(changes.Deleted))

	return nil
}
