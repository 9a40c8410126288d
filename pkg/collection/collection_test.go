package collection_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/herd/pkg/collection"
	"github.com/aretw0/herd/pkg/core"
	"github.com/aretw0/herd/pkg/observable"
)

type User struct {
	ID    int    `json:"id"`
	UUID  string `json:"uuid,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func newRecords(t *testing.T, opts ...collection.Option[core.Record]) *collection.Collection[core.Record] {
	t.Helper()
	c, err := collection.New[core.Record](opts...)
	require.NoError(t, err)
	return c
}

func newUsers(t *testing.T, opts ...collection.Option[*User]) *collection.Collection[*User] {
	t.Helper()
	c, err := collection.New[*User](opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsValueTypes(t *testing.T) {
	_, err := collection.New[User]()
	assert.ErrorIs(t, err, core.ErrUnsupportedItem)

	_, err = collection.New[string]()
	assert.ErrorIs(t, err, core.ErrUnsupportedItem)
}

func TestSet_CreatesThenUpdatesInPlace(t *testing.T) {
	c := newRecords(t, collection.WithIDAttribute[core.Record]("uuid"))

	first, err := c.Set(core.Record{"uuid": "a1", "name": "Al"})
	require.NoError(t, err)
	assert.Equal(t, core.Record{"uuid": "a1", "name": "Al"}, first)
	assert.Equal(t, 1, c.Len())

	second, err := c.Set(core.Record{"uuid": "a1", "name": "Albert"})
	require.NoError(t, err)
	assert.True(t, core.Identical(first, second), "update must return the existing reference")
	assert.Equal(t, "Albert", first["name"])
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get("a1")
	require.True(t, ok)
	assert.True(t, core.Identical(first, got))
}

func TestSet_DefaultCreateKeepsRecordIdentity(t *testing.T) {
	c := newRecords(t)
	rec := core.Record{"id": 1}

	item, err := c.Set(rec)
	require.NoError(t, err)
	assert.True(t, core.Identical(rec, item), "default create uses the record itself")
}

func TestSet_BatchMergesDuplicates(t *testing.T) {
	c := newRecords(t)

	items, err := c.SetMany([]core.Record{{"id": 1}, {"id": 2}, {"id": 1, "name": "x"}})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, 2, c.Len())
	assert.True(t, core.Identical(items[0], items[2]))

	one, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "x", one["name"])
}

func TestSet_NormalizesIdentifiers(t *testing.T) {
	c := newRecords(t)

	_, err := c.Set(core.Record{"id": 7, "v": "int"})
	require.NoError(t, err)
	_, err = c.Set(core.Record{"id": "7", "v": "string"})
	require.NoError(t, err)
	_, err = c.Set(core.Record{"id": 7.0, "v": "float"})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	item, ok := c.Get("7")
	require.True(t, ok)
	assert.Equal(t, "float", item["v"])
}

func TestSet_MissingIdentifierIsDropped(t *testing.T) {
	c := newRecords(t)

	item, err := c.Set(core.Record{"name": "anonymous"})
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Equal(t, 0, c.Len())

	item, err = c.Set(nil)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestSet_NullIdentifierFails(t *testing.T) {
	c := newRecords(t)

	_, err := c.Set(core.Record{"id": nil})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidID))
	assert.EqualError(t, err, "null is not a valid ID")
	assert.Equal(t, 0, c.Len())

	var invalid *core.InvalidIDError
	assert.ErrorAs(t, err, &invalid)
}

func TestSetMany_StopsAtFirstFailureWithoutRollback(t *testing.T) {
	c := newRecords(t)

	items, err := c.SetMany([]core.Record{{"id": 1}, {"id": nil}, {"id": 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidID)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, c.Len(), "earlier records stay applied")

	_, ok := c.Get(3)
	assert.False(t, ok)
}

func TestSet_StructItems(t *testing.T) {
	c := newUsers(t)

	alice, err := c.Set(core.Record{"id": 1, "name": "Alice", "email": "alice@example.com"})
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, &User{ID: 1, Name: "Alice", Email: "alice@example.com"}, alice)

	again, err := c.Set(core.Record{"id": 1, "name": "Alicia"})
	require.NoError(t, err)
	assert.Same(t, alice, again)
	assert.Equal(t, "Alicia", alice.Name)
	assert.Equal(t, "alice@example.com", alice.Email, "fields absent from the record are kept")
}

func TestSet_CallLevelOverrides(t *testing.T) {
	c := newUsers(t, collection.WithIDAttribute[*User]("uuid"))

	created := 0
	countingCreate := func(rec core.Record, cfg collection.Config[*User]) (*User, error) {
		created++
		name, _ := rec["name"].(string)
		return &User{UUID: rec[cfg.IDAttribute].(string), Name: name}, nil
	}

	u, err := c.Set(core.Record{"uuid": "u-1", "name": "Una"}, collection.WithCreate(countingCreate))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, "u-1", u.UUID)

	// The call-level override is not retained.
	_, err = c.Set(core.Record{"uuid": "u-2", "name": "Dos"})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, "uuid", c.Config().IDAttribute)
}

func TestSet_CallLevelIDAttributeDrivesLookup(t *testing.T) {
	c := newUsers(t)
	orig, err := c.Set(core.Record{"id": 1, "uuid": "u-1", "name": "Una"})
	require.NoError(t, err)

	// Matched through the call-level attribute, not the collection's "id".
	got, err := c.Set(core.Record{"uuid": "u-1", "name": "Uma"}, collection.WithIDAttribute[*User]("uuid"))
	require.NoError(t, err)
	assert.Same(t, orig, got)
	assert.Equal(t, "Uma", orig.Name)
	assert.Equal(t, 1, c.Len())

	// Without the override the same record carries no "id" and is dropped.
	dropped, err := c.Set(core.Record{"uuid": "u-1", "name": "Ula"})
	require.NoError(t, err)
	assert.Nil(t, dropped)
	assert.Equal(t, "Uma", orig.Name)
}

func TestSetGetRemove_TimeAndUUIDIdentifiers(t *testing.T) {
	c := newRecords(t)

	id := uuid.New()
	byUUID, err := c.Set(core.Record{"id": id, "kind": "uuid"})
	require.NoError(t, err)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	byTime, err := c.Set(core.Record{"id": at, "kind": "time"})
	require.NoError(t, err)

	got, ok := c.Get(id.String())
	require.True(t, ok, "a uuid matches its string form")
	assert.True(t, core.Identical(byUUID, got))

	local := at.In(time.FixedZone("UTC+2", 2*60*60))
	got, ok = c.Get(local)
	require.True(t, ok, "the same instant in another zone is the same identifier")
	assert.True(t, core.Identical(byTime, got))

	updated, err := c.Set(core.Record{"id": local, "seen": true})
	require.NoError(t, err)
	assert.True(t, core.Identical(byTime, updated))
	assert.Equal(t, 2, c.Len())

	c.Remove(local)
	_, ok = c.Get(at)
	assert.False(t, ok)

	c.Remove(id)
	assert.Zero(t, c.Len())
}

func TestSet_UpdateReturnValueIsIgnored(t *testing.T) {
	replace := func(existing *User, rec core.Record, _ collection.Config[*User]) (*User, error) {
		existing.Name = rec["name"].(string)
		return &User{ID: -1, Name: "impostor"}, nil
	}
	c := newUsers(t, collection.WithUpdate(replace))

	orig, err := c.Set(core.Record{"id": 5, "name": "Eve"})
	require.NoError(t, err)

	got, err := c.Set(core.Record{"id": 5, "name": "Evelyn"})
	require.NoError(t, err)
	assert.Same(t, orig, got)
	assert.Equal(t, "Evelyn", orig.Name)
	assert.Equal(t, 1, c.Len())
}

func TestSet_PolicyErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	c := newUsers(t, collection.WithCreate(func(core.Record, collection.Config[*User]) (*User, error) {
		return nil, boom
	}))

	_, err := c.Set(core.Record{"id": 1})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestWithConfig_PartialOverlay(t *testing.T) {
	c := newRecords(t, collection.WithConfig(collection.Config[core.Record]{IDAttribute: "key"}))

	cfg := c.Config()
	assert.Equal(t, "key", cfg.IDAttribute)
	assert.NotNil(t, cfg.Create, "missing fields fall back to defaults")
	assert.NotNil(t, cfg.Update)
	assert.NotNil(t, cfg.GetDataID)
	assert.NotNil(t, cfg.GetModelID)

	_, err := c.Set(core.Record{"key": "k1"})
	require.NoError(t, err)
	_, ok := c.Get("k1")
	assert.True(t, ok)
}

func TestGet(t *testing.T) {
	c := newRecords(t)
	_, err := c.SetMany([]core.Record{{"id": "a"}, {"id": "b"}})
	require.NoError(t, err)

	a, _ := c.Get("a")
	b, _ := c.Get("b")

	assert.Equal(t, []core.Record{b, nil, a}, c.GetMany("b", "zzz", "a"), "positional, input order")

	_, ok := c.Get(nil)
	assert.False(t, ok)
}

func TestGet_SkipsItemsWithoutIdentifier(t *testing.T) {
	c := newRecords(t)
	c.Add(core.Record{"id": ""}, core.Record{"name": "no id"}, core.Record{"id": 0})

	_, ok := c.Get("")
	assert.False(t, ok)
	_, ok = c.Get(0)
	assert.False(t, ok)
}

func TestAdd_IsIdempotentByReference(t *testing.T) {
	c := newUsers(t)
	u := &User{ID: 1}

	c.Add(u).Add(u)
	assert.Equal(t, 1, c.Len())

	c.Add(u, u)
	assert.Equal(t, 1, c.Len())

	twin := &User{ID: 1}
	c.Add(twin)
	assert.Equal(t, 2, c.Len(), "add compares references, not identifiers")
	assert.Equal(t, []*User{u, twin}, c.Values())
}

func TestRemove(t *testing.T) {
	c := newUsers(t)
	a := &User{ID: 1, Name: "a"}
	b := &User{ID: 2, Name: "b"}
	c.Add(a, b)

	c.Remove(1)
	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Remove(b)
	_, ok = c.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	assert.Same(t, c, c.Remove("missing").Remove(&User{ID: 9}).Remove(struct{}{}))
}

func TestClear(t *testing.T) {
	c := newRecords(t)
	_, err := c.SetMany([]core.Record{{"id": 1}, {"id": 2}})
	require.NoError(t, err)

	assert.Same(t, c, c.Clear())
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Values())
}

func TestQueries(t *testing.T) {
	c := newUsers(t)
	_, err := c.SetMany([]core.Record{
		{"id": 1, "name": "ana"},
		{"id": 2, "name": "bob"},
		{"id": 3, "name": "bea"},
	})
	require.NoError(t, err)

	names := collection.Map(c, func(u *User, _ int) string { return u.Name })
	assert.Equal(t, []string{"ana", "bob", "bea"}, names)

	bs := c.Filter(func(u *User, _ int) bool { return u.Name[0] == 'b' })
	assert.Len(t, bs, 2)

	found, ok := c.Find(func(u *User, _ int) bool { return u.ID > 1 })
	require.True(t, ok)
	assert.Equal(t, "bob", found.Name)

	assert.True(t, c.Some(func(u *User, i int) bool { return i == 2 }))
	assert.False(t, c.Some(func(u *User, _ int) bool { return u.ID > 3 }))

	last := c.Slice(-1, c.Len())
	require.Len(t, last, 1)
	assert.Equal(t, 3, last[0].ID)

	var visited []int
	c.Each(func(u *User, i int) { visited = append(visited, i) })
	assert.Equal(t, []int{0, 1, 2}, visited)
}

func TestNotifications(t *testing.T) {
	c := newRecords(t)
	var changes []observable.Change[core.Record]
	stop := c.Subscribe(func(ch observable.Change[core.Record]) { changes = append(changes, ch) })
	defer stop()

	_, err := c.SetMany([]core.Record{{"id": 1}, {"id": 2}, {"id": 1, "x": true}})
	require.NoError(t, err)
	require.Len(t, changes, 1, "one notification per batch")
	assert.Len(t, changes[0].Added, 2)
	assert.Len(t, changes[0].Updated, 1)

	c.Remove("nope")
	c.Add()
	assert.Len(t, changes, 1, "no-ops do not notify")

	err = c.Transact(func() error {
		c.Remove(1)
		c.Clear()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.True(t, changes[1].Cleared)
	assert.Len(t, changes[1].Removed, 2)
}

func TestState(t *testing.T) {
	c := newUsers(t, collection.WithIDAttribute[*User]("uuid"))
	c.Add(&User{UUID: "x"})
	stop := c.Subscribe(func(observable.Change[*User]) {})
	defer stop()

	state, ok := c.State().(collection.CollectionState)
	require.True(t, ok)
	assert.Equal(t, "*collection_test.User", state.ItemType)
	assert.Equal(t, 1, state.Length)
	assert.Equal(t, "uuid", state.IDAttribute)
	assert.Equal(t, 1, state.Subscribers)
	assert.Equal(t, "collection", c.ComponentType())
}
