package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(first, last string) *Entry {
	return &Entry{
		FirstName: first,
		LastName:  last,
		Email:     "s@s.com",
		Phone:     "916-555-5159",
		Address: Address{
			Street: "123 Fake St",
			City:   "Lathrop",
			State:  "CA",
			Zip:    "95330",
		},
	}
}

func TestEntry_SortKey(t *testing.T) {
	e := newEntry("Steven", "Magana-Zook")

	if got := e.SortKey(); got != "Magana-ZookSteven" {
		t.Errorf("SortKey() = %q, want %q", got, "Magana-ZookSteven")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    *Entry
		b    *Entry
		want int
	}{
		{
			name: "last name decides",
			a:    newEntry("Zed", "Adams"),
			b:    newEntry("Amy", "Baker"),
			want: -1,
		},
		{
			name: "first name breaks last name tie",
			a:    newEntry("Steven", "Magana-Zook"),
			b:    newEntry("Lisedt", "Magana-Zook"),
			want: 1,
		},
		{
			name: "case sensitive",
			a:    newEntry("a", "smith"),
			b:    newEntry("a", "Smith"),
			want: 1,
		},
		{
			name: "identical names ordered by id",
			a:    &Entry{ID: 2, FirstName: "John", LastName: "Smith"},
			b:    &Entry{ID: 7, FirstName: "John", LastName: "Smith"},
			want: -1,
		},
		{
			name: "identical names and ids ordered by uid",
			a:    &Entry{UID: "b", FirstName: "John", LastName: "Smith"},
			b:    &Entry{UID: "a", FirstName: "John", LastName: "Smith"},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
			assert.Equal(t, -got, Compare(tt.b, tt.a), "Compare must be antisymmetric")
		})
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(e *Entry)
		wantFields []string
	}{
		{
			name:   "valid",
			mutate: func(e *Entry) {},
		},
		{
			name:   "last name only",
			mutate: func(e *Entry) { e.FirstName = "" },
		},
		{
			name:   "empty email allowed",
			mutate: func(e *Entry) { e.Email = "" },
		},
		{
			name: "no name",
			mutate: func(e *Entry) {
				e.FirstName = " "
				e.LastName = ""
			},
			wantFields: []string{"name"},
		},
		{
			name:       "bad email",
			mutate:     func(e *Entry) { e.Email = "not-an-email" },
			wantFields: []string{"email"},
		},
		{
			name: "line breaks",
			mutate: func(e *Entry) {
				e.Address.Street = "1 Main\nApt 2"
				e.Phone = "555\r\n"
			},
			wantFields: []string{"street", "phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEntry("Steven", "Magana-Zook")
			tt.mutate(e)

			err := e.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.wantFields {
				assert.True(t, verr.Has(f), "missing field %s in %v", f, verr)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
		})
	}
}

func TestEntry_Clone(t *testing.T) {
	e := newEntry("Steven", "Magana-Zook")
	e.Notes = []Note{{ID: 1, Content: "hello"}}

	c := e.Clone()
	c.FirstName = "Other"
	c.Address.City = "Elsewhere"
	c.Notes[0].Content = "changed"

	assert.Equal(t, "Steven", e.FirstName)
	assert.Equal(t, "Lathrop", e.Address.City)
	assert.Equal(t, "hello", e.Notes[0].Content)

	var nilEntry *Entry
	assert.Nil(t, nilEntry.Clone())
}

func TestEntry_String(t *testing.T) {
	e := newEntry("Steven", "Magana-Zook")

	want := "Steven Magana-Zook\n123 Fake St Lathrop, CA 95330\ns@s.com\n916-555-5159"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTruncateNote(t *testing.T) {
	short := "call back on monday"
	assert.Equal(t, short, TruncateNote(short))

	long := strings.Repeat("ñ", MaxNoteLength+25)
	got := TruncateNote(long)
	assert.Equal(t, MaxNoteLength, len([]rune(got)))

	n := NewNote(4, long)
	assert.Equal(t, int64(4), n.EntryID)
	assert.Equal(t, MaxNoteLength, len([]rune(n.Content)))
	assert.False(t, n.CreatedAt.IsZero())
}

func TestSortNotes(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	notes := []Note{
		{ID: 3, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, CreatedAt: base},
		{ID: 1, CreatedAt: base},
	}

	SortNotes(notes)

	assert.Equal(t, []int64{1, 2, 3}, []int64{notes[0].ID, notes[1].ID, notes[2].ID})
	assert.Equal(t, "2024-03-01: ", notes[0].String())
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", &NotFoundError{Kind: "contact", Key: "7"}, ErrNotFound},
		{"validation", NewValidationError("contact", "name", "required"), ErrValidation},
		{"conflict", &ConflictError{Kind: "contact", Key: "uid"}, ErrConflict},
		{"io", &IOError{Op: "open", Path: "/x", Err: cause}, ErrIO},
		{"connectivity", &ConnectivityError{Backend: "postgres", Err: cause}, ErrConnectivity},
	}

	sentinels := []error{ErrNotFound, ErrValidation, ErrConflict, ErrIO, ErrConnectivity}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range sentinels {
				assert.Equal(t, s == tt.sentinel, errors.Is(tt.err, s), "errors.Is(%v, %v)", tt.err, s)
			}
			assert.NotEmpty(t, tt.err.Error())
		})
	}

	assert.True(t, errors.Is(&IOError{Op: "read", Path: "p", Err: cause}, cause))
	assert.True(t, errors.Is(&ConnectivityError{Backend: "bolt", Err: cause}, cause))
}

func TestEntry_Normalize(t *testing.T) {
	e := newEntry(" Steven\t", "Magana-Zook ")
	e.Address.Zip = " 95330"
	e.Email = "s@s.com "

	e.Normalize()

	assert.Equal(t, "Steven", e.FirstName)
	assert.Equal(t, "Magana-Zook", e.LastName)
	assert.Equal(t, "95330", e.Address.Zip)
	assert.Equal(t, "s@s.com", e.Email)
	assert.Equal(t, "123 Fake St", e.Address.Street)
}
