package ecs

// World owns the entity pool, the set of registered component stores and a
// deferred destruction queue. Destruction requested mid-tick only takes effect
// at FlushDestroyQueue, so systems running later in the same tick still see a
// consistent world.
type World struct {
	pool         *EntityPool
	stores       []Removable
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		stores:       make([]Removable, 0, 8),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}, 64),
	}
}

// Register adds a component store so destroyed entities are removed from it.
func (w *World) Register(store Removable) {
	w.stores = append(w.stores, store)
}

func (w *World) CreateEntity() EntityID { return w.pool.Create() }

func (w *World) Alive(id EntityID) bool { return w.pool.Alive(id) }

// Live returns the number of entities alive, including ones queued for
// destruction but not yet flushed.
func (w *World) Live() int { return w.pool.Live() }

// MarkForDestruction queues id for removal at the next flush. Marking the same
// entity twice in one tick queues it once.
func (w *World) MarkForDestruction(id EntityID) {
	if _, dup := w.queued[id]; dup {
		return
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// Doomed reports whether id is waiting in the destroy queue.
func (w *World) Doomed(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// FlushDestroyQueue destroys all queued entities and strips their components.
// It returns how many entities were actually destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if !w.pool.Destroy(id) {
			continue
		}
		for _, s := range w.stores {
			s.Remove(id)
		}
		n++
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	return n
}
