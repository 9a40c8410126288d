package herd_test

import (
	"fmt"
	"log"

	"github.com/aretw0/herd"
)

// Example_basic demonstrates create-then-update reconciliation on records.
func Example_basic() {
	people, err := herd.NewRecords(herd.WithIDAttribute[herd.Record]("uuid"))
	if err != nil {
		log.Fatal(err)
	}

	first, _ := people.Set(herd.Record{"uuid": "a1", "name": "Al"})
	second, _ := people.Set(herd.Record{"uuid": "a1", "name": "Albert"})

	fmt.Println(first["name"], second["name"], people.Len())
	// Output:
	// Albert Albert 1
}

// ExampleNew demonstrates a typed collection with batch reconciliation.
func ExampleNew() {
	type Task struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}

	tasks, err := herd.New[*Task]()
	if err != nil {
		log.Fatal(err)
	}

	_, err = tasks.SetMany([]herd.Record{
		{"id": 1, "title": "write"},
		{"id": 2, "title": "review"},
		{"id": 1, "done": true},
	})
	if err != nil {
		log.Fatal(err)
	}

	titles := herd.Map(tasks, func(t *Task, _ int) string {
		return fmt.Sprintf("%d:%s:%t", t.ID, t.Title, t.Done)
	})
	fmt.Println(titles)
	// Output:
	// [1:write:true 2:review:false]
}

// ExampleNewRecords demonstrates change notifications.
func ExampleNewRecords() {
	c, err := herd.NewRecords()
	if err != nil {
		log.Fatal(err)
	}

	stop := c.Subscribe(func(ch herd.Change[herd.Record]) {
		fmt.Printf("added=%d updated=%d removed=%d\n", len(ch.Added), len(ch.Updated), len(ch.Removed))
	})
	defer stop()

	_, _ = c.SetMany([]herd.Record{{"id": 1}, {"id": 1, "x": 2}})
	c.Remove(1)
	// Output:
	// added=1 updated=1 removed=0
	// added=0 updated=0 removed=1
}
