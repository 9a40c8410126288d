package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/herd/internal/platform"
	"github.com/aretw0/herd/pkg/collection"
	"github.com/aretw0/herd/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of records to generate")
	files := flag.Int("files", 10, "Number of files the records are spread over")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "herd_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d records in %d files under %s...\n", *count, *files, benchDir)
	startGen := time.Now()
	batches := make([][]core.Record, *files)
	for i := 0; i < *count; i++ {
		rec := core.Record{"id": i, "title": fmt.Sprintf("Record %d", i), "tags": []string{"benchmark", "test"}}
		batches[i%*files] = append(batches[i%*files], rec)
	}
	for i, batch := range batches {
		data, err := json.Marshal(batch)
		if err != nil {
			panic(err)
		}
		if err := os.WriteFile(filepath.Join(benchDir, fmt.Sprintf("batch_%d.json", i)), data, 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	src, err := platform.NewSource(benchDir, platform.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	// Run 1: every record is new.
	fmt.Println("Running Load (Run 1 - Create)...")
	start := time.Now()
	if err := src.Load(context.TODO()); err != nil {
		panic(err)
	}
	create := time.Since(start)
	fmt.Printf("Run 1 Result: %v (Items: %d)\n", create, src.Collection().Len())

	// Run 2: every record matches an existing item.
	fmt.Println("Running Load (Run 2 - Update)...")
	start = time.Now()
	if err := src.Load(context.TODO()); err != nil {
		panic(err)
	}
	update := time.Since(start)
	fmt.Printf("Run 2 Result: %v (Items: %d)\n", update, src.Collection().Len())

	// Lookups are linear, so this is the quadratic worst case.
	fmt.Println("Running Get for every identifier...")
	start = time.Now()
	c := src.Collection()
	hits := 0
	for i := 0; i < *count; i++ {
		if _, ok := c.Get(i); ok {
			hits++
		}
	}
	lookup := time.Since(start)
	fmt.Printf("Lookup Result: %v (Hits: %d)\n", lookup, hits)

	typed := benchTyped(*count)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d records):\n", *count)
	fmt.Printf("  Create: %v\n", create)
	fmt.Printf("  Update: %v\n", update)
	fmt.Printf("  Lookup: %v\n", lookup)
	fmt.Printf("  Typed:  %v\n", typed)
	fmt.Printf("--------------------------------------------------\n")
}

type item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// benchTyped measures struct decoding through the default Create/Update policies.
func benchTyped(count int) time.Duration {
	c, err := collection.New[*item]()
	if err != nil {
		panic(err)
	}
	recs := make([]core.Record, count)
	for i := range recs {
		recs[i] = core.Record{"id": i, "title": fmt.Sprintf("Item %d", i)}
	}
	start := time.Now()
	if _, err := c.SetMany(recs); err != nil {
		panic(err)
	}
	if _, err := c.SetMany(recs); err != nil {
		panic(err)
	}
	return time.Since(start)
}
