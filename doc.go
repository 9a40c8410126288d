// Package herd is the entry point of the herd library.
//
// herd keeps an ordered, observable collection of typed items and reconciles
// raw records against it: every record is matched to an item by identifier and
// either updates that item in place or becomes a new one.
//
// Philosophy:
//
// Items keep their identity. An update never swaps the item for a new value,
// so references held elsewhere (a view model, a cache, another collection)
// always see the latest data.
//
// Features:
//
//   - **Upsert by identifier**: `Set` creates or updates, keyed by a configurable attribute.
//   - **Canonical identifiers**: strings, numbers, times and Stringers compare by string form.
//   - **Layered configuration**: built-in defaults, collection options and per-call options.
//   - **Observable**: `Subscribe` for change sets, `Watch` for an event stream, `Transact` for batching.
//   - **File sources**: the `herd` CLI reconciles JSON, YAML, CSV and Markdown files.
//
// Usage:
//
//	users, err := herd.New[*User](herd.WithIDAttribute[*User]("uuid"))
//
//	// Create, then update the same item in place
//	alice, err := users.Set(herd.Record{"uuid": "a1", "name": "Al"})
//	_, err = users.Set(herd.Record{"uuid": "a1", "name": "Albert"})
package herd
