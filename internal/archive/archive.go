package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"curator/internal/events"
	"curator/internal/metadata"
	"curator/internal/scan"
	"curator/internal/textutil"
)

// Item is the capability every archive variant exposes to reporting code.
type Item interface {
	Describe() string
	SizeKB() float64
}

// NewItemID returns a short prefixed identifier like FILE-1b4e28ba.
func NewItemID(prefix string) string {
	hexID := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + hexID[:8]
}

// DisplayTitle renders a raw name for headings.
func DisplayTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Untitled"
	}
	return cases.Title(language.Und).String(value)
}

// Record is one archived file with provenance. Its metadata snapshot is
// taken at construction and never refreshed.
type Record struct {
	ID       string
	Author   string
	Tags     []string
	Snapshot metadata.Snapshot
	AddedAt  time.Time
}

// NewRecord snapshots the file at path. The file must exist at call time;
// missing paths report scan.ErrNotFound. Tags are normalized to lowercase
// slugs; blank tags are dropped.
func NewRecord(extractor metadata.Extractor, path, author string, tags ...string) (*Record, error) {
	snap, err := extractor.Extract(path)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:       NewItemID("FILE"),
		Author:   strings.TrimSpace(author),
		Tags:     normalizeTags(tags),
		Snapshot: snap,
		AddedAt:  time.Now(),
	}, nil
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		out = append(out, textutil.SanitizeToken(tag))
	}
	return out
}

// Describe implements Item.
func (r *Record) Describe() string {
	author := r.Author
	if author == "" {
		author = "unknown"
	}
	return fmt.Sprintf("%s: %s by %s (%s)", r.ID, r.Snapshot.Name, author, metadata.FormatSize(r.Snapshot.SizeBytes))
}

// SizeKB implements Item.
func (r *Record) SizeKB() float64 {
	return float64(r.Snapshot.SizeBytes) / 1024
}

// AllowedFormat reports whether the record's extension appears in allowed.
// An empty allow list admits everything.
func (r *Record) AllowedFormat(allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := strings.TrimPrefix(r.Snapshot.Extension, ".")
	for _, entry := range allowed {
		if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(entry), "."), ext) {
			return true
		}
	}
	return false
}

// Collection groups records under a shared name.
type Collection struct {
	ID        string
	Name      string
	CreatedAt time.Time
	records   []*Record
	events    events.Sink
}

// NewCollection creates an empty collection. The name must be non-empty; a
// nil sink degrades to the noop sink.
func NewCollection(name string, sink events.Sink) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, scan.Wrap(scan.ErrInvalidArgument, "new collection", "name is empty", nil)
	}
	if sink == nil {
		sink = events.Nop()
	}
	return &Collection{
		ID:        NewItemID("COL"),
		Name:      name,
		CreatedAt: time.Now(),
		events:    sink,
	}, nil
}

// Add appends a record to the collection.
func (c *Collection) Add(ctx context.Context, record *Record) error {
	if record == nil {
		return scan.Wrap(scan.ErrInvalidArgument, "add record", "nil record", nil)
	}
	c.records = append(c.records, record)
	c.events.ItemAdded(ctx, c.Name, record.Snapshot.Name)
	return nil
}

// Remove drops the record with the given ID and reports whether it was
// present.
func (c *Collection) Remove(id string) bool {
	for i, record := range c.records {
		if record.ID == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return true
		}
	}
	return false
}

// Records returns a copy of the collection's contents in insertion order.
func (c *Collection) Records() []*Record {
	out := make([]*Record, len(c.records))
	copy(out, c.records)
	return out
}

// ByAuthor returns the records attributed to author, matched
// case-insensitively.
func (c *Collection) ByAuthor(author string) []*Record {
	var out []*Record
	for _, record := range c.records {
		if strings.EqualFold(record.Author, strings.TrimSpace(author)) {
			out = append(out, record)
		}
	}
	return out
}

// Len reports the number of records held.
func (c *Collection) Len() int { return len(c.records) }

// Describe implements Item.
func (c *Collection) Describe() string {
	return fmt.Sprintf("%s: collection %q with %d items", c.ID, c.Name, len(c.records))
}

// SizeKB implements Item by summing the member records.
func (c *Collection) SizeKB() float64 {
	var total float64
	for _, record := range c.records {
		total += record.SizeKB()
	}
	return total
}

// User owns collections.
type User struct {
	ID          string
	Name        string
	Role        string
	collections []*Collection
}

// NewUser creates a user with a fresh identifier. Name must be non-empty;
// an empty role defaults to "member".
func NewUser(name, role string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, scan.Wrap(scan.ErrInvalidArgument, "new user", "name is empty", nil)
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = "member"
	}
	return &User{ID: uuid.NewString(), Name: name, Role: role}, nil
}

// AddCollection attaches a collection to the user.
func (u *User) AddCollection(collection *Collection) error {
	if collection == nil {
		return scan.Wrap(scan.ErrInvalidArgument, "add collection", "nil collection", nil)
	}
	u.collections = append(u.collections, collection)
	return nil
}

// RemoveCollection drops the collection with the given ID and reports
// whether it was present.
func (u *User) RemoveCollection(id string) bool {
	for i, collection := range u.collections {
		if collection.ID == id {
			u.collections = append(u.collections[:i], u.collections[i+1:]...)
			return true
		}
	}
	return false
}

// Collections returns a copy of the user's collections.
func (u *User) Collections() []*Collection {
	out := make([]*Collection, len(u.collections))
	copy(out, u.collections)
	return out
}
