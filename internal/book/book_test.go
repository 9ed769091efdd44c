package book

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/inovacc/addressbook/internal/config"
	"github.com/inovacc/addressbook/internal/flatfile"
	"github.com/inovacc/addressbook/internal/model"
	"github.com/inovacc/addressbook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) store.Repository {
	t.Helper()

	repo, err := store.Open(context.Background(), config.Database{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "book.db"),
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func setupTestBook(t *testing.T) (*AddressBook, store.Repository) {
	t.Helper()

	repo := setupTestRepo(t)

	return New(repo, nil), repo
}

func person(first, last string) *model.Entry {
	return &model.Entry{
		FirstName: first,
		LastName:  last,
		Email:     "x@example.com",
		Phone:     "555-0000",
		Address:   model.Address{Street: "1 Elm", City: "Springfield", State: "IL", Zip: "62701"},
	}
}

// failingSync wraps a repository and fails every Sync.
type failingSync struct {
	store.Repository
}

var errInjected = errors.New("injected failure")

func (f failingSync) Sync(context.Context, model.ChangeSet) error {
	return errInjected
}

func TestAdd(t *testing.T) {
	b, _ := setupTestBook(t)

	for i := range 5 {
		require.NoError(t, b.Add(person("First", fmt.Sprintf("Last%d", i))))
	}

	assert.Equal(t, 5, b.Len())
	assert.True(t, b.Dirty())
}

func TestAdd_AssignsUID(t *testing.T) {
	b, _ := setupTestBook(t)

	e := person("Ada", "Lovelace")
	require.NoError(t, b.Add(e))
	require.NotEmpty(t, e.UID)

	got, err := b.Get(e.UID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestAdd_Errors(t *testing.T) {
	b, _ := setupTestBook(t)

	assert.ErrorIs(t, b.Add(nil), model.ErrValidation)
	assert.ErrorIs(t, b.Add(&model.Entry{Email: "a@b.c"}), model.ErrValidation)

	e := person("A", "B")
	require.NoError(t, b.Add(e))
	assert.ErrorIs(t, b.Add(e), model.ErrConflict)
	assert.Equal(t, 1, b.Len())
}

func TestAdd_SameNameKeepsBoth(t *testing.T) {
	b, _ := setupTestBook(t)

	require.NoError(t, b.Add(person("John", "Smith")))
	require.NoError(t, b.Add(person("John", "Smith")))

	assert.Equal(t, 2, b.Len())
}

func TestAdd_StoresCopy(t *testing.T) {
	b, _ := setupTestBook(t)

	e := person("Ada", "Lovelace")
	require.NoError(t, b.Add(e))

	e.FirstName = "Changed"

	got, err := b.Get(e.UID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestFind(t *testing.T) {
	b, _ := setupTestBook(t)

	for _, n := range [][2]string{
		{"Zoe", "Smith"}, {"Adam", "Smithers"}, {"Bea", "Smith"}, {"Carl", "Jones"}, {"Dan", "smith"},
	} {
		require.NoError(t, b.Add(person(n[0], n[1])))
	}

	got := b.Find("Smith")
	require.Len(t, got, 3)
	assert.Equal(t, "Bea", got[0].FirstName)
	assert.Equal(t, "Zoe", got[1].FirstName)
	assert.Equal(t, "Smithers", got[2].LastName)

	assert.Empty(t, b.Find("Nobody"))
	assert.Empty(t, b.Find(""))
}

func TestContacts_Sorted(t *testing.T) {
	b, _ := setupTestBook(t)

	for _, n := range [][2]string{{"B", "Beta"}, {"A", "Alpha"}, {"Z", "Alpha"}, {"C", "Gamma"}} {
		require.NoError(t, b.Add(person(n[0], n[1])))
	}

	got := b.Contacts()
	require.Len(t, got, 4)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].SortKey(), got[i].SortKey())
	}

	assert.Equal(t, "AlphaA", got[0].SortKey())
}

func TestRemove(t *testing.T) {
	b, _ := setupTestBook(t)

	a := person("John", "Smith")
	c := person("John", "Smith")
	require.NoError(t, b.Add(a))
	require.NoError(t, b.Add(c))

	require.NoError(t, b.Remove(a))
	assert.Equal(t, 1, b.Len())

	_, err := b.Get(c.UID)
	require.NoError(t, err)

	_, err = b.Get(a.UID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, b.Remove(a), model.ErrNotFound)
	assert.ErrorIs(t, b.Remove(nil), model.ErrValidation)
}

func TestUpdate(t *testing.T) {
	b, _ := setupTestBook(t)

	e := person("Ada", "Lovelace")
	require.NoError(t, b.Add(e))

	edit := e.Clone()
	edit.Email = "ada@analytical.engine"
	edit.ID = 42
	require.NoError(t, b.Update(edit))

	got, err := b.Get(e.UID)
	require.NoError(t, err)
	assert.Equal(t, "ada@analytical.engine", got.Email)
	assert.Zero(t, got.ID)

	bad := e.Clone()
	bad.FirstName, bad.LastName = "", ""
	assert.ErrorIs(t, b.Update(bad), model.ErrValidation)

	assert.ErrorIs(t, b.Update(person("Not", "There")), model.ErrNotFound)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	b, repo := setupTestBook(t)

	a := person("Ada", "Lovelace")
	g := person("Grace", "Hopper")
	require.NoError(t, b.Add(a))
	require.NoError(t, b.Add(g))
	require.NoError(t, b.Save(ctx))
	assert.False(t, b.Dirty())

	saved, err := b.Get(a.UID)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	// a second book sees the saved state
	other := New(repo, nil)
	require.NoError(t, other.Load(ctx))
	assert.Equal(t, 2, other.Len())

	byID, err := other.GetByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, a.UID, byID.UID)

	// remove, edit and add, then save again
	require.NoError(t, b.Remove(g))

	edit := saved.Clone()
	edit.Phone = "999"
	require.NoError(t, b.Update(edit))
	require.NoError(t, b.Add(person("Alan", "Turing")))
	require.NoError(t, b.Save(ctx))

	require.NoError(t, other.Load(ctx))
	require.Equal(t, 2, other.Len())

	got, err := other.GetByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "999", got.Phone)
	assert.Empty(t, other.Find("Hopper"))
}

func TestSave_RemoveUnsavedIsNoop(t *testing.T) {
	ctx := context.Background()
	b, repo := setupTestBook(t)

	e := person("Temp", "Entry")
	require.NoError(t, b.Add(e))
	require.NoError(t, b.Remove(e))
	require.NoError(t, b.Save(ctx))

	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_ReAddAfterRemove(t *testing.T) {
	ctx := context.Background()
	b, repo := setupTestBook(t)

	e := person("Boomerang", "Back")
	require.NoError(t, b.Add(e))
	require.NoError(t, b.Save(ctx))

	saved, err := b.Get(e.UID)
	require.NoError(t, err)

	require.NoError(t, b.Remove(saved))
	require.NoError(t, b.Add(saved))
	require.NoError(t, b.Save(ctx))

	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, saved.ID, entries[0].ID)
}

func TestSave_ReAddAfterSavedRemove(t *testing.T) {
	ctx := context.Background()
	b, repo := setupTestBook(t)

	e := person("Boomerang", "Back")
	require.NoError(t, b.Add(e))
	require.NoError(t, b.Save(ctx))

	saved, err := b.Get(e.UID)
	require.NoError(t, err)

	require.NoError(t, b.Remove(saved))
	require.NoError(t, b.Save(ctx))

	require.NoError(t, b.Add(saved))

	got, err := b.Get(saved.UID)
	require.NoError(t, err)
	assert.False(t, got.Persisted())

	require.NoError(t, b.Save(ctx))
	require.NoError(t, b.Save(ctx))

	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Boomerang Back", entries[0].Name())
	assert.NotEqual(t, saved.ID, entries[0].ID)
	assert.False(t, b.Dirty())
}

func TestAdd_TrimsFields(t *testing.T) {
	b, _ := setupTestBook(t)

	e := person("  Ada ", "Lovelace\t")
	e.Address.City = " London "
	require.NoError(t, b.Add(e))

	got, err := b.Get(e.UID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, "London", got.Address.City)

	got.Phone = " 555-0199 "
	require.NoError(t, b.Update(got))

	got, err = b.Get(e.UID)
	require.NoError(t, err)
	assert.Equal(t, "555-0199", got.Phone)
}

func TestSave_AtomicOnInjectedFailure(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	b := New(failingSync{repo}, nil)
	e := person("Ada", "Lovelace")
	require.NoError(t, b.Add(e))

	err := b.Save(ctx)
	require.ErrorIs(t, err, errInjected)

	got, err := b.Get(e.UID)
	require.NoError(t, err)
	assert.Zero(t, got.ID)
	assert.True(t, b.Dirty())

	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_AtomicWhenStoreFailsMidway(t *testing.T) {
	ctx := context.Background()
	b, repo := setupTestBook(t)

	gone := person("Gone", "Elsewhere")
	keep := person("Keep", "Around")
	require.NoError(t, b.Add(gone))
	require.NoError(t, b.Add(keep))
	require.NoError(t, b.Save(ctx))

	stale, err := b.Get(gone.UID)
	require.NoError(t, err)

	// deleted behind the book's back, so the update step of the next save fails
	require.NoError(t, repo.DeleteEntry(ctx, stale))

	keptCopy, err := b.Get(keep.UID)
	require.NoError(t, err)
	require.NoError(t, b.Remove(keptCopy))

	fresh := person("Fresh", "Face")
	require.NoError(t, b.Add(fresh))

	err = b.Save(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)

	// book unchanged
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Dirty())

	f, err := b.Get(fresh.UID)
	require.NoError(t, err)
	assert.Zero(t, f.ID)

	// store unchanged: the removal of keep and the insert of fresh rolled back
	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.UID, entries[0].UID)
}

func TestLoad_ClearsPendingRemovals(t *testing.T) {
	ctx := context.Background()
	b, repo := setupTestBook(t)

	e := person("Stay", "Put")
	require.NoError(t, b.Add(e))
	require.NoError(t, b.Save(ctx))

	saved, err := b.Get(e.UID)
	require.NoError(t, err)
	require.NoError(t, b.Remove(saved))

	require.NoError(t, b.Load(ctx))
	assert.Equal(t, 1, b.Len())
	assert.False(t, b.Dirty())

	require.NoError(t, b.Save(ctx))

	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileRoundTrip(t *testing.T) {
	b, _ := setupTestBook(t)

	for i := range 4 {
		require.NoError(t, b.Add(person(fmt.Sprintf("F%d", i), fmt.Sprintf("L%d", i))))
	}

	path := filepath.Join(t.TempDir(), "contacts.txt")
	require.NoError(t, b.StoreToFile(path, flatfile.Options{}))

	other, _ := setupTestBook(t)
	n, err := other.LoadFromFile(path, flatfile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	want := b.Contacts()
	got := other.Contacts()
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].FirstName, got[i].FirstName)
		assert.Equal(t, want[i].LastName, got[i].LastName)
		assert.Equal(t, want[i].Address.Street, got[i].Address.Street)
		assert.Equal(t, want[i].Address.Zip, got[i].Address.Zip)
		assert.Equal(t, want[i].Email, got[i].Email)
		assert.Equal(t, want[i].Phone, got[i].Phone)
		assert.NotEqual(t, want[i].UID, got[i].UID)
	}
}

func TestFileRoundTrip_TrailingEmptyFields(t *testing.T) {
	b, _ := setupTestBook(t)

	require.NoError(t, b.Add(person("Ada", "Lovelace")))
	require.NoError(t, b.Add(&model.Entry{FirstName: "Zed", LastName: "Zulu"}))
	require.NoError(t, b.Add(&model.Entry{FirstName: " Yan ", LastName: "Yu", Email: "yan@example.com"}))

	path := filepath.Join(t.TempDir(), "contacts.txt")
	require.NoError(t, b.StoreToFile(path, flatfile.Options{}))

	other, _ := setupTestBook(t)
	n, err := other.LoadFromFile(path, flatfile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want := b.Contacts()
	got := other.Contacts()
	require.Len(t, got, len(want))

	for i := range want {
		w, g := want[i], got[i]
		g.UID, g.ID, g.Address.ID = w.UID, w.ID, w.Address.ID
		assert.Equal(t, w, g)
	}
}

func TestLoadFromFile_Merges(t *testing.T) {
	b, _ := setupTestBook(t)
	require.NoError(t, b.Add(person("Already", "Here")))

	path := filepath.Join(t.TempDir(), "one.txt")
	require.NoError(t, flatfile.WriteFile(path, []*model.Entry{person("Already", "Here")}, flatfile.Options{}))

	n, err := b.LoadFromFile(path, flatfile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, b.Len())
}

func TestLoadFromFile_Errors(t *testing.T) {
	b, _ := setupTestBook(t)

	_, err := b.LoadFromFile(filepath.Join(t.TempDir(), "missing.txt"), flatfile.Options{})
	assert.ErrorIs(t, err, model.ErrIO)
	assert.Zero(t, b.Len())
	assert.False(t, b.Dirty())
}

func TestNotes(t *testing.T) {
	ctx := context.Background()
	b, _ := setupTestBook(t)

	e := person("Ada", "Lovelace")
	require.NoError(t, b.Add(e))

	_, err := b.AddNote(ctx, e, "too early")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = b.AddNote(ctx, person("Not", "Added"), "nope")
	assert.ErrorIs(t, err, model.ErrValidation)

	notes, err := b.NotesFor(ctx, e)
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.NoError(t, b.Save(ctx))

	n1, err := b.AddNote(ctx, e, "first")
	require.NoError(t, err)
	assert.NotZero(t, n1.ID)

	_, err = b.AddNote(ctx, e, "Second thought")
	require.NoError(t, err)

	notes, err = b.NotesFor(ctx, e)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Content)

	// unsaved rename shows up in search results
	saved, err := b.Get(e.UID)
	require.NoError(t, err)
	saved.FirstName = "Augusta"
	require.NoError(t, b.Update(saved))

	hits, err := b.SearchNotes(ctx, "THOUGHT")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Augusta Lovelace", hits[0].EntryName)

	all, err := b.SearchNotes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestConcurrentAccess(t *testing.T) {
	b, _ := setupTestBook(t)

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = b.Add(person("P", fmt.Sprintf("Name%02d", i)))
			_ = b.Contacts()
			_ = b.Find("Name")
		}()
	}

	wg.Wait()
	assert.Equal(t, 20, b.Len())
}
