package internal

import (
	"sync"
	"testing"
)

func TestInsertGetRemove(t *testing.T) {
	r := CreateConnectionRegistry(ConnectionRegistryParams{ShardCount: 4})

	id := r.GetNewClientId()
	h := CreateConnectionHandle(id, 4)
	if err := r.Insert(id, h); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, has := r.Get(id)
	if !has || got != h {
		t.Fatalf("expected inserted handle back")
	}

	if err := r.Insert(id, CreateConnectionHandle(id, 4)); err == nil {
		t.Fatalf("expected duplicate insert to fail")
	} else if _, ok := err.(*DuplicateClientIdError); !ok {
		t.Fatalf("expected DuplicateClientIdError, got %T", err)
	}

	removed, has := r.Remove(id)
	if !has || removed != h {
		t.Fatalf("expected Remove to return the handle")
	}
	if !h.IsShutdown() {
		t.Fatalf("expected removal to shut the handle down")
	}
	if _, has := r.Get(id); has {
		t.Fatalf("expected miss after remove")
	}
	if _, has := r.Remove(id); has {
		t.Fatalf("expected second remove to miss")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestMaxConnections(t *testing.T) {
	r := CreateConnectionRegistry(ConnectionRegistryParams{MaxConnections: 2})

	for i := 0; i < 2; i++ {
		id := r.GetNewClientId()
		if err := r.Insert(id, CreateConnectionHandle(id, 1)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	id := r.GetNewClientId()
	if err := r.Insert(id, CreateConnectionHandle(id, 1)); err == nil {
		t.Fatalf("expected TooManyClientsError")
	} else if _, ok := err.(*TooManyClientsError); !ok {
		t.Fatalf("expected TooManyClientsError, got %T", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 connections, got %d", r.Len())
	}
}

func TestRemoveIfOnlyRemovesMatchingHandle(t *testing.T) {
	r := CreateConnectionRegistry(ConnectionRegistryParams{})
	stale := CreateConnectionHandle(5, 1)
	current := CreateConnectionHandle(5, 1)
	if err := r.Insert(5, current); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if r.RemoveIf(5, stale) {
		t.Fatalf("stale handle should not remove the current entry")
	}
	if !r.RemoveIf(5, current) {
		t.Fatalf("expected current handle to be removed")
	}
}

func TestConcurrentInsertGetRemove(t *testing.T) {
	r := CreateConnectionRegistry(ConnectionRegistryParams{ShardCount: 8})

	wg := sync.WaitGroup{}
	errs := make(chan string, 64)
	for worker := 0; worker < 16; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := r.GetNewClientId()
				h := CreateConnectionHandle(id, 1)
				if err := r.Insert(id, h); err != nil {
					errs <- err.Error()
					return
				}
				got, has := r.Get(id)
				if !has || got != h {
					errs <- "lookup after insert did not return the inserted handle"
					return
				}
				_ = r.SnapshotShard(r.ShardFor(id))
				if i%2 == 0 {
					if _, has := r.Remove(id); !has {
						errs <- "remove after insert missed"
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Fatal(e)
	}

	if r.Len() != 16*250 {
		t.Fatalf("expected %d live connections, got %d", 16*250, r.Len())
	}
	if len(r.Snapshot()) != r.Len() {
		t.Fatalf("snapshot size %d does not match Len %d", len(r.Snapshot()), r.Len())
	}
}
