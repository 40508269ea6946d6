package domain

import (
	"fmt"
	"iter"
	"slices"
)

// Page is a bounded run of consecutive directory entries in insertion order.
type Page []*Record

// Directory maps contact names to records and remembers insertion order.
//
// AddRecord overwrites an existing entry with the same name; keeping names
// unique is up to the caller.
type Directory struct {
	order   []string
	records map[string]*Record
}

// NewDirectory returns an empty directory
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// Clone returns a deep copy. Records in the copy can be changed without
// affecting d.
func (d *Directory) Clone() *Directory {
	c := &Directory{
		order:   slices.Clone(d.order),
		records: make(map[string]*Record, len(d.records)),
	}
	for k, r := range d.records {
		c.records[k] = r.Clone()
	}
	return c
}

// AddRecord inserts r under its name. An existing record with that name is
// replaced in place and keeps its position.
func (d *Directory) AddRecord(r *Record) {
	key := r.Name().Value()
	if _, ok := d.records[key]; !ok {
		d.order = append(d.order, key)
	}
	d.records[key] = r
}

// Remove deletes the record stored under name
func (d *Directory) Remove(name string) error {
	if _, ok := d.records[name]; !ok {
		return fmt.Errorf("%w: %q", ErrRecordNotFound, name)
	}
	delete(d.records, name)
	d.order = slices.DeleteFunc(d.order, func(k string) bool { return k == name })
	return nil
}

// Get returns the record stored under name
func (d *Directory) Get(name string) (*Record, error) {
	r, ok := d.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRecordNotFound, name)
	}
	return r, nil
}

// Has reports whether a record is stored under name
func (d *Directory) Has(name string) bool {
	_, ok := d.records[name]
	return ok
}

// Len returns the number of records
func (d *Directory) Len() int {
	return len(d.order)
}

// Names returns the keys in insertion order
func (d *Directory) Names() []string {
	return slices.Clone(d.order)
}

// At returns the record at a 1-based position, as used by numbered menus
func (d *Directory) At(index int) (*Record, error) {
	if index < 1 || index > len(d.order) {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrSelectionOutOfRange, index, len(d.order))
	}
	return d.records[d.order[index-1]], nil
}

// All yields (name, record) pairs in insertion order
func (d *Directory) All() iter.Seq2[string, *Record] {
	return func(yield func(string, *Record) bool) {
		for _, k := range d.order {
			if !yield(k, d.records[k]) {
				return
			}
		}
	}
}

// Records returns the records in insertion order
func (d *Directory) Records() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, r := range d.All() {
		out = append(out, r)
	}
	return out
}

// Paginate returns a sequence of pages holding up to size records each.
// Each call to the returned sequence starts again from the first record.
// The last page may be short; an empty directory yields no pages.
func (d *Directory) Paginate(size int) (iter.Seq[Page], error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, size)
	}
	return func(yield func(Page) bool) {
		for start := 0; start < len(d.order); start += size {
			end := min(start+size, len(d.order))
			page := make(Page, 0, end-start)
			for _, k := range d.order[start:end] {
				page = append(page, d.records[k])
			}
			if !yield(page) {
				return
			}
		}
	}, nil
}
