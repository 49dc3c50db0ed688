package internal

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type DuplicateClientIdError struct {
	Id uint64
}

func (e *DuplicateClientIdError) Error() string {
	return fmt.Sprintf("Attempted to create client with duplicate ID %d", e.Id)
}

type MissingClientIdError struct {
	Id uint64
}

func (e *MissingClientIdError) Error() string {
	return fmt.Sprintf("Missing client with id=%d", e.Id)
}

type TooManyClientsError struct{}

func (e *TooManyClientsError) Error() string {
	return "Too many clients are connected - cannot create new client"
}

type registryShard struct {
	mut_connections sync.RWMutex
	connections     map[uint64]*ConnectionHandle
}

// ConnectionRegistry maps client ids to handles. Entries are spread across
// shards so lookups only ever contend with writers on the same shard.
type ConnectionRegistry struct {
	MaxConnections int

	nextClientId atomic.Uint64
	count        atomic.Int64

	shards []*registryShard
}

type ConnectionRegistryParams struct {
	MaxConnections int
	ShardCount     int
}

func CreateConnectionRegistry(params ConnectionRegistryParams) *ConnectionRegistry {
	shardCount := params.ShardCount
	if shardCount <= 0 {
		shardCount = 8
	}

	shards := make([]*registryShard, shardCount)
	for i := range shards {
		shards[i] = &registryShard{
			mut_connections: sync.RWMutex{},
			connections:     make(map[uint64]*ConnectionHandle),
		}
	}

	return &ConnectionRegistry{
		MaxConnections: params.MaxConnections,
		shards:         shards,
	}
}

// GetNewClientId never returns 0, and never returns the same id twice.
func (r *ConnectionRegistry) GetNewClientId() uint64 {
	return r.nextClientId.Add(1)
}

func (r *ConnectionRegistry) ShardCount() int {
	return len(r.shards)
}

func (r *ConnectionRegistry) ShardFor(clientId uint64) int {
	return int(clientId % uint64(len(r.shards)))
}

func (r *ConnectionRegistry) shard(clientId uint64) *registryShard {
	return r.shards[r.ShardFor(clientId)]
}

func (r *ConnectionRegistry) Insert(clientId uint64, handle *ConnectionHandle) error {
	shard := r.shard(clientId)
	shard.mut_connections.Lock()
	defer shard.mut_connections.Unlock()

	if _, has := shard.connections[clientId]; has {
		return &DuplicateClientIdError{Id: clientId}
	}

	if n := r.count.Add(1); r.MaxConnections > 0 && n > int64(r.MaxConnections) {
		r.count.Add(-1)
		return &TooManyClientsError{}
	}

	shard.connections[clientId] = handle
	return nil
}

func (r *ConnectionRegistry) Get(clientId uint64) (*ConnectionHandle, bool) {
	shard := r.shard(clientId)
	shard.mut_connections.RLock()
	defer shard.mut_connections.RUnlock()

	handle, has := shard.connections[clientId]
	return handle, has
}

// Remove deletes the entry and shuts its handle down.
func (r *ConnectionRegistry) Remove(clientId uint64) (*ConnectionHandle, bool) {
	handle, has := func() (*ConnectionHandle, bool) {
		shard := r.shard(clientId)
		shard.mut_connections.Lock()
		defer shard.mut_connections.Unlock()

		handle, has := shard.connections[clientId]
		if has {
			delete(shard.connections, clientId)
			r.count.Add(-1)
		}
		return handle, has
	}()

	if has {
		handle.Shutdown()
	}
	return handle, has
}

// RemoveIf removes the entry only while it still refers to handle.
func (r *ConnectionRegistry) RemoveIf(clientId uint64, handle *ConnectionHandle) bool {
	removed := func() bool {
		shard := r.shard(clientId)
		shard.mut_connections.Lock()
		defer shard.mut_connections.Unlock()

		if existing, has := shard.connections[clientId]; !has || existing != handle {
			return false
		}
		delete(shard.connections, clientId)
		r.count.Add(-1)
		return true
	}()

	if removed {
		handle.Shutdown()
	}
	return removed
}

func (r *ConnectionRegistry) Len() int {
	return int(r.count.Load())
}

// SnapshotShard copies the handles of one shard so callers can fan out
// without holding the shard lock.
func (r *ConnectionRegistry) SnapshotShard(shardIdx int) []*ConnectionHandle {
	shard := r.shards[shardIdx]
	shard.mut_connections.RLock()
	defer shard.mut_connections.RUnlock()

	handles := make([]*ConnectionHandle, 0, len(shard.connections))
	for _, handle := range shard.connections {
		handles = append(handles, handle)
	}
	return handles
}

func (r *ConnectionRegistry) Snapshot() []*ConnectionHandle {
	handles := []*ConnectionHandle{}
	for i := range r.shards {
		handles = append(handles, r.SnapshotShard(i)...)
	}
	return handles
}
