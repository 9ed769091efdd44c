package model

// ChangeSet is the work one Save hands to the backing store. Created entries
// receive their IDs in place once the change set has been committed.
type ChangeSet struct {
	Deleted []*Entry
	Created []*Entry
	Updated []*Entry
}

// Empty reports whether there is nothing to write.
func (c ChangeSet) Empty() bool {
	return len(c.Deleted) == 0 && len(c.Created) == 0 && len(c.Updated) == 0
}

// Size is the total number of entries touched.
func (c ChangeSet) Size() int {
	return len(c.Deleted) + len(c.Created) + len(c.Updated)
}
