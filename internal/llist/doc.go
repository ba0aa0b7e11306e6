// Package llist provides an index-ordered singly linked list guarded by a
// single reader-writer lock.
//
// Any number of goroutines may call the read operations (Find, View, Count,
// NextIndex, Show, Range, Keys, Values) at the same time. Mutations
// (InsertOrReplace, Remove, Replace, Clear) hold the lock exclusively and
// exclude all readers and other writers for their duration. Every operation
// releases the lock on every return path.
//
// # Basic Usage
//
//	l, err := llist.New(llist.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = l.InsertOrReplace(3, "x")
//	_ = l.InsertOrReplace(1, "y")
//
//	if v, ok := l.Find(1); ok {
//	    fmt.Println(v) // y
//	}
//	next, _ := l.NextIndex(1) // 3
//
// # Payload Ownership
//
// The list owns the payloads it holds. Remove and Replace hand the detached
// payload back to the caller. When the list drops a payload itself
// (InsertOrReplace on an existing index, Clear, FromJSON) and the payload
// implements Releaser, Release is called after the lock is dropped, so a
// Release method may call back into the list. Re-inserting the value already
// stored at an index does not release it.
//
// Find returns the stored value; for payloads with reference semantics use
// View, which runs a callback while the shared lock is still held.
//
// # Serialization
//
// List implements the gods containers.JSONSerializer and JSONDeserializer
// interfaces. ToJSON writes the nodes in ascending order as
// [{"index":1,"data":"y"}, ...]; FromJSON replaces the whole list.
//
// # Bounded Lists
//
// Config.MaxLen caps the number of nodes. InsertOrReplace returns ErrFull
// instead of linking a new node past the cap; replacing an existing index
// always succeeds.
package llist
