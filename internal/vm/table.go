package vm

import "github.com/funvibe/loxvm/internal/config"

// entry is one slot of a Table. An empty slot has Key == nil. A tombstone
// (a deleted slot, kept so linear probing can still traverse it) has
// Key == nil and Value == BoolValue(true); an occupied slot has a non-nil
// Key.
type entry struct {
	Key   *ObjString
	Value Value
}

// Table is the open-addressing hash table used for both the globals
// environment (key -> Value) and the string interning pool (key only,
// values unused). Collisions are resolved by linear probing; Count tracks
// occupied *and* tombstoned slots, which is the known, accepted limitation
// the data model calls out: the real property needed is "probes terminate,"
// and tombstones must count against load to bound probe length.
type Table struct {
	entries []entry
	count   int
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{}
}

// Count returns the number of occupied-or-tombstoned slots.
func (t *Table) Count() int { return t.count }

// findEntry probes from hash mod capacity, linear-probing until it finds an
// occupied slot with the same key handle, or the first empty slot (keeping
// track of the first tombstone seen along the way so inserts can reuse it).
func findEntry(entries []entry, key *ObjString) *entry {
	capacity := len(entries)
	index := key.Hash % uint32(capacity)
	var tombstone *entry

	for {
		e := &entries[index]
		if e.Key == nil {
			if e.Value.IsNil() {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		} else if e.Key == key {
			return e
		}
		index = (index + 1) % uint32(capacity)
	}
}

func (t *Table) adjustCapacity(capacity int) {
	fresh := make([]entry, capacity)
	for i := range fresh {
		fresh[i].Value = NilValue()
	}

	newCount := 0
	for i := range t.entries {
		old := &t.entries[i]
		if old.Key == nil {
			continue
		}
		dst := findEntry(fresh, old.Key)
		dst.Key = old.Key
		dst.Value = old.Value
		newCount++
	}

	t.entries = fresh
	t.count = newCount
}

func (t *Table) grow() {
	capacity := config.TableInitialCapacity
	if len(t.entries) > 0 {
		capacity = len(t.entries) * 2
	}
	t.adjustCapacity(capacity)
}

// Get looks up key, returning (value, true) on a hit.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return Value{}, false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return Value{}, false
	}
	return e.Value, true
}

// Set inserts or updates key -> value, growing the table first if doing so
// would push the load factor past config.TableMaxLoad. Returns true if key
// was not already present.
func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*config.TableMaxLoad {
		t.grow()
	}

	e := findEntry(t.entries, key)
	isNew := e.Key == nil
	if isNew && e.Value.IsNil() {
		t.count++
	}

	e.Key = key
	e.Value = value
	return isNew
}

// Delete converts an occupied slot into a tombstone. Count is not
// decremented: tombstones must keep counting against load so probe chains
// stay bounded.
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = BoolValue(true)
	return true
}

// FindString locates an existing interned string with the given contents
// without allocating a new ObjString, comparing hash, length, and bytes.
// Used by the string-construction path to enforce interning.
func (t *Table) FindString(chars string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	index := hash % capacity

	for {
		e := &t.entries[index]
		if e.Key == nil {
			if e.Value.IsNil() {
				return nil
			}
		} else if e.Key.Hash == hash && e.Key.Chars == chars {
			return e.Key
		}
		index = (index + 1) % capacity
	}
}
