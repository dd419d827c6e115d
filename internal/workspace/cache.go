package workspace

import (
	"sort"
	"time"

	"planboard/internal/model"
)

type ResourceType string

const (
	ResourceTasks    ResourceType = "task"
	ResourceComments ResourceType = "comment"
)

// Key identifies one cached collection. Invalidation is always by key, so an edit in one
// project never disturbs another project's lists.
type Key struct {
	Resource  ResourceType
	ProjectID string
}

func TaskKey(projectID string) Key    { return Key{Resource: ResourceTasks, ProjectID: projectID} }
func CommentKey(projectID string) Key { return Key{Resource: ResourceComments, ProjectID: projectID} }

func (k Key) String() string { return string(k.Resource) + ":" + k.ProjectID }

// Collection is a fetched list the cache can index by id.
type Collection interface {
	IDs() []string
	// Detail returns the selectable form of the entity with the given id.
	Detail(id string) (SelectedItem, bool)
}

type TaskList []model.Task

func (l TaskList) IDs() []string {
	out := make([]string, 0, len(l))
	for _, t := range l {
		out = append(out, t.ID)
	}
	return out
}

func (l TaskList) Detail(id string) (SelectedItem, bool) {
	for _, t := range l {
		if t.ID == id {
			return TaskDetailFrom(t), true
		}
	}
	return nil, false
}

type CommentList []model.Comment

func (l CommentList) IDs() []string {
	out := make([]string, 0, len(l))
	for _, c := range l {
		out = append(out, c.ID)
	}
	return out
}

func (l CommentList) Detail(id string) (SelectedItem, bool) {
	for _, c := range l {
		if c.ID == id {
			return CommentDetailFrom(c), true
		}
	}
	return nil, false
}

type Entry struct {
	Key       Key
	Items     Collection
	Stale     bool
	FetchedAt time.Time

	ids map[string]struct{}
}

func (e Entry) Has(id string) bool {
	_, ok := e.ids[id]
	return ok
}

func (e Entry) Tasks() TaskList {
	l, _ := e.Items.(TaskList)
	return l
}

func (e Entry) Comments() CommentList {
	l, _ := e.Items.(CommentList)
	return l
}

// Cache holds the last fetched collection per key and the consumers watching each key.
type Cache struct {
	entries map[Key]*Entry
	subs    map[Key]map[int]func(Key)
	nextSub int
	now     func() time.Time

	// gens counts invalidations per key. A fetch started under an older generation
	// carries data from before a mutation and must not be written.
	gens map[Key]uint64
}

func NewCache() *Cache {
	return &Cache{
		entries: map[Key]*Entry{},
		subs:    map[Key]map[int]func(Key){},
		gens:    map[Key]uint64{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Read never fetches.
func (c *Cache) Read(key Key) (Entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// NeedsFetch reports whether a consumer of key should load it (missing or stale).
func (c *Cache) NeedsFetch(key Key) bool {
	e, ok := c.entries[key]
	return !ok || e.Stale
}

// Write replaces the collection for key and clears staleness.
func (c *Cache) Write(key Key, items Collection) {
	ids := map[string]struct{}{}
	if items != nil {
		for _, id := range items.IDs() {
			ids[id] = struct{}{}
		}
	}
	c.entries[key] = &Entry{
		Key:       key,
		Items:     items,
		FetchedAt: c.now(),
		ids:       ids,
	}
}

// Invalidate marks key stale and notifies its subscribers, in subscription order. It does
// not fetch; that is up to the subscribers. Reports whether a cached entry was marked.
func (c *Cache) Invalidate(key Key) bool {
	c.gens[key]++
	marked := false
	if e, ok := c.entries[key]; ok {
		e.Stale = true
		marked = true
	}

	subs := c.subs[key]
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Key), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, subs[id])
	}
	// Callbacks may unsubscribe; iterate over the snapshot.
	for _, fn := range fns {
		fn(key)
	}
	return marked
}

// Subscribe registers fn for invalidations of key. The returned func unregisters it and
// is safe to call more than once; consumers call it when they unmount.
func (c *Cache) Subscribe(key Key, fn func(Key)) func() {
	if fn == nil {
		return func() {}
	}
	c.nextSub++
	id := c.nextSub
	if c.subs[key] == nil {
		c.subs[key] = map[int]func(Key){}
	}
	c.subs[key][id] = fn
	return func() {
		subs := c.subs[key]
		if subs == nil {
			return
		}
		delete(subs, id)
		if len(subs) == 0 {
			delete(c.subs, key)
		}
	}
}

// Generation is the number of times key has been invalidated.
func (c *Cache) Generation(key Key) uint64 { return c.gens[key] }

// WriteAt writes items fetched under generation gen. Results from before the latest
// invalidation are refused and the entry keeps its stale flag.
func (c *Cache) WriteAt(key Key, gen uint64, items Collection) bool {
	if gen < c.gens[key] {
		return false
	}
	c.Write(key, items)
	return true
}

func (c *Cache) Subscribers(key Key) int { return len(c.subs[key]) }
