package proxy

import (
	"sort"
	"sync"

	"github.com/sessamekesh/spanreed-game-proxy/internal"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	servertoproxy "github.com/sessamekesh/spanreed-game-proxy/pkg/message/server_to_proxy"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/metrics"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type instructionKind uint8

const (
	instructionUnicast instructionKind = iota
	instructionBroadcastGlobal
	instructionBroadcastLocal
	instructionSetReceiveBroadcasts
	instructionSetRegion
	instructionShutdown
)

func (k instructionKind) String() string {
	switch k {
	case instructionUnicast:
		return "unicast"
	case instructionBroadcastGlobal:
		return "broadcast_global"
	case instructionBroadcastLocal:
		return "broadcast_local"
	case instructionSetReceiveBroadcasts:
		return "set_receive_broadcasts"
	case instructionSetRegion:
		return "set_region"
	case instructionShutdown:
		return "shutdown"
	}
	return "unknown"
}

// instruction is one staged backend command. Targeted kinds use stream,
// broadcasts use exclude. Id 0 is never handed out, so it means "nobody".
type instruction struct {
	kind  instructionKind
	order uint32

	stream  uint64
	exclude uint64
	region  internal.RegionKey

	// Opaque client bytes, already framed by the backend. Shared read-only
	// by every recipient.
	data []byte
}

func (ins *instruction) targeted() bool {
	return ins.kind != instructionBroadcastGlobal && ins.kind != instructionBroadcastLocal
}

type EgressDispatcherParams struct {
	Registry   *internal.ConnectionRegistry
	Serializer servertoproxy.ServerToProxyMessageSerializer

	LocalBroadcastRadius int32

	// Staged instructions beyond this force a flush even without a Flush
	// message from the backend.
	MaxStagedInstructions int

	// Batches queued per worker before HandleMessage blocks.
	WorkerQueueLength int

	Logger  *zap.Logger
	Metrics *metrics.ProxyMetrics
}

// EgressDispatcher turns backend messages into client deliveries. Messages
// are staged for the current tick and released on Flush, stably sorted by
// their ordering token. Worker i owns registry shard i and applies batches
// in the order they were released, so per connection delivery follows the
// backend's order across ticks.
//
// HandleMessage, Drain, Start and Stop must be called from one goroutine.
// While no workers are running (before Start, after Stop) released batches
// are applied on the calling goroutine.
type EgressDispatcher struct {
	registry   *internal.ConnectionRegistry
	serializer servertoproxy.ServerToProxyMessageSerializer
	radius     int32
	maxStaged  int
	queueLen   int

	log     *zap.Logger
	metrics *metrics.ProxyMetrics

	staged    []instruction
	tickOrder uint32

	workerQueues []chan []instruction
	pending      sync.WaitGroup
	workers      sync.WaitGroup
}

func CreateEgressDispatcher(params EgressDispatcherParams) *EgressDispatcher {
	log := params.Logger
	if log == nil {
		log = zap.Must(zap.NewDevelopment())
	}

	radius := params.LocalBroadcastRadius
	if radius <= 0 {
		radius = internal.DefaultLocalBroadcastRadius
	}
	maxStaged := params.MaxStagedInstructions
	if maxStaged <= 0 {
		maxStaged = 16384
	}
	queueLen := params.WorkerQueueLength
	if queueLen <= 0 {
		queueLen = 64
	}
	m := params.Metrics
	if m == nil {
		m = metrics.CreateProxyMetrics(nil)
	}

	return &EgressDispatcher{
		registry:   params.Registry,
		serializer: params.Serializer,
		radius:     radius,
		maxStaged:  maxStaged,
		queueLen:   queueLen,

		log:     log.With(zap.String("handler", "EgressDispatcher")),
		metrics: m,

		staged: []instruction{},
	}
}

func (d *EgressDispatcher) Start() {
	if d.workerQueues != nil {
		return
	}

	shardCount := d.registry.ShardCount()
	d.workerQueues = make([]chan []instruction, shardCount)
	for i := 0; i < shardCount; i++ {
		queue := make(chan []instruction, d.queueLen)
		d.workerQueues[i] = queue

		d.workers.Add(1)
		go func(shardIdx int) {
			defer d.workers.Done()
			for batch := range queue {
				d.applyBatch(shardIdx, batch)
				d.pending.Done()
			}
		}(i)
	}
}

// Stop releases anything still staged, then waits for the workers to finish.
func (d *EgressDispatcher) Stop() {
	d.flush()
	if d.workerQueues == nil {
		return
	}
	for _, queue := range d.workerQueues {
		close(queue)
	}
	d.workers.Wait()
	d.workerQueues = nil
}

// Drain blocks until every released batch has been applied.
func (d *EgressDispatcher) Drain() {
	d.pending.Wait()
}

// HandleMessage decodes one backend envelope and stages or applies it.
func (d *EgressDispatcher) HandleMessage(raw []byte) error {
	msg, err := d.serializer.Parse(raw)
	if err != nil {
		return err
	}

	d.metrics.EgressMessagesTotal.WithLabelValues(msg.MessageType.String()).Inc()

	switch msg.MessageType {
	case servertoproxy.ServerToProxyMessageType_UpdatePlayerChunkPositions:
		// Parse guarantees both lists have the same length.
		update := msg.UpdatePlayerChunkPositions
		for i, stream := range update.Streams {
			d.stage(instruction{
				kind:   instructionSetRegion,
				order:  d.tickOrder,
				stream: stream,
				region: internal.RegionKey{X: update.Positions[i].X, Z: update.Positions[i].Z},
			})
		}
	case servertoproxy.ServerToProxyMessageType_SetReceiveBroadcasts:
		d.stage(instruction{
			kind:   instructionSetReceiveBroadcasts,
			order:  d.tickOrder,
			stream: msg.SetReceiveBroadcasts.Stream,
		})
	case servertoproxy.ServerToProxyMessageType_BroadcastGlobal:
		b := msg.BroadcastGlobal
		d.tickOrder = b.Order
		d.stage(instruction{
			kind:    instructionBroadcastGlobal,
			order:   b.Order,
			exclude: b.Exclude,
			data:    copyPayload(b.Data),
		})
	case servertoproxy.ServerToProxyMessageType_BroadcastLocal:
		b := msg.BroadcastLocal
		d.tickOrder = b.Order
		d.stage(instruction{
			kind:    instructionBroadcastLocal,
			order:   b.Order,
			exclude: b.Exclude,
			region:  internal.RegionKey{X: b.Center.X, Z: b.Center.Z},
			data:    copyPayload(b.Data),
		})
	case servertoproxy.ServerToProxyMessageType_Unicast:
		u := msg.Unicast
		d.tickOrder = u.Order
		d.stage(instruction{
			kind:   instructionUnicast,
			order:  u.Order,
			stream: u.Stream,
			data:   copyPayload(u.Data),
		})
	case servertoproxy.ServerToProxyMessageType_Shutdown:
		d.stage(instruction{
			kind:   instructionShutdown,
			order:  d.tickOrder,
			stream: msg.Shutdown.Stream,
		})
	case servertoproxy.ServerToProxyMessageType_Flush:
		d.flush()
	default:
		return &errors.InvalidEnumValue{
			EnumName: "ServerToProxyMessageType",
			IntValue: uint8(msg.MessageType),
		}
	}

	return nil
}

// copyPayload detaches payload from the envelope so the staged instruction
// does not pin the frame's fragment.
func copyPayload(payload []byte) []byte {
	return append([]byte(nil), payload...)
}

func (d *EgressDispatcher) stage(ins instruction) {
	d.staged = append(d.staged, ins)
	if len(d.staged) >= d.maxStaged {
		d.log.Warn("Too many staged instructions without a Flush, flushing early",
			zap.Int("staged", len(d.staged)))
		d.flush()
	}
}

func (d *EgressDispatcher) flush() {
	staged := d.staged
	d.staged = make([]instruction, 0, len(staged))
	d.tickOrder = 0

	if len(staged) == 0 {
		return
	}

	sort.SliceStable(staged, func(i, j int) bool {
		return staged[i].order < staged[j].order
	})

	batches := make([][]instruction, d.registry.ShardCount())
	for _, ins := range staged {
		if ins.targeted() {
			shardIdx := d.registry.ShardFor(ins.stream)
			batches[shardIdx] = append(batches[shardIdx], ins)
			continue
		}
		for shardIdx := range batches {
			batches[shardIdx] = append(batches[shardIdx], ins)
		}
	}

	for shardIdx, batch := range batches {
		if len(batch) == 0 {
			continue
		}
		if d.workerQueues == nil {
			d.applyBatch(shardIdx, batch)
			continue
		}
		d.pending.Add(1)
		d.workerQueues[shardIdx] <- batch
	}
}

func (d *EgressDispatcher) applyBatch(shardIdx int, batch []instruction) {
	var snapshot []*internal.ConnectionHandle
	snapshotTaken := false

	var errs error
	for i := range batch {
		ins := &batch[i]

		if ins.targeted() {
			handle, has := d.registry.Get(ins.stream)
			if !has {
				d.metrics.RegistryMissesTotal.WithLabelValues(ins.kind.String()).Inc()
				d.log.Debug("Instruction for unknown connection",
					zap.Stringer("kind", ins.kind),
					zap.Uint64("clientId", ins.stream))
				continue
			}

			switch ins.kind {
			case instructionUnicast:
				errs = multierr.Append(errs, d.deliver(handle, ins))
			case instructionSetReceiveBroadcasts:
				handle.EnableReceiveBroadcasts()
			case instructionSetRegion:
				handle.SetRegion(ins.region)
			case instructionShutdown:
				handle.ShutdownWithCause(internal.CauseOther("shut down by server"))
				d.registry.RemoveIf(ins.stream, handle)
			}
			continue
		}

		if !snapshotTaken {
			snapshot = d.registry.SnapshotShard(shardIdx)
			snapshotTaken = true
		}
		for _, handle := range snapshot {
			if handle.Id() == ins.exclude || !handle.CanReceiveBroadcasts() {
				continue
			}
			if ins.kind == instructionBroadcastLocal {
				region, known := handle.Region()
				if !known || !region.IsWithinRadius(ins.region, d.radius) {
					continue
				}
			}
			errs = multierr.Append(errs, d.deliver(handle, ins))
		}
	}

	if errs != nil {
		evicted := multierr.Errors(errs)
		d.log.Warn("Evicted connections that could not keep up",
			zap.Int("shard", shardIdx),
			zap.Int("count", len(evicted)),
			zap.Error(errs))
	}
}

// deliver enqueues the instruction payload on one connection. Only overflow
// is reported: a handle that is already closed is on its way out anyway.
func (d *EgressDispatcher) deliver(handle *internal.ConnectionHandle, ins *instruction) error {
	err := handle.Send(ins.data)
	if err == nil {
		d.metrics.DeliveriesTotal.WithLabelValues(ins.kind.String()).Inc()
		return nil
	}

	if _, full := err.(*internal.QueueFullError); full {
		d.registry.RemoveIf(handle.Id(), handle)
		d.metrics.EvictionsTotal.Inc()
		return err
	}
	return nil
}
