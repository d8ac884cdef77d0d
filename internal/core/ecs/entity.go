package ecs

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
// Index 0 is never handed out, so the zero EntityID means "no entity".
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityManager allocates entity ids with generational indices and a free list.
// It owns identity only: destroying an id does not touch any component list.
type EntityManager struct {
	generations []uint32
	alive       []bool
	freeList    []uint32
	nextIndex   uint32
	live        int

	tracking bool
	created  []EntityID // ids handed out since Track
}

func NewEntityManager() *EntityManager {
	return &EntityManager{
		generations: make([]uint32, 1, 256),
		alive:       make([]bool, 1, 256),
		freeList:    make([]uint32, 0, 64),
		nextIndex:   1,
	}
}

// Create returns a fresh id, reusing the most recently freed index if any.
func (m *EntityManager) Create() EntityID {
	m.live++
	var id EntityID
	if len(m.freeList) > 0 {
		idx := m.freeList[len(m.freeList)-1]
		m.freeList = m.freeList[:len(m.freeList)-1]
		m.alive[idx] = true
		id = NewEntityID(idx, m.generations[idx])
	} else {
		idx := m.nextIndex
		m.nextIndex++
		m.generations = append(m.generations, 0)
		m.alive = append(m.alive, true)
		id = NewEntityID(idx, 0)
	}
	if m.tracking {
		m.created = append(m.created, id)
	}
	return id
}

// Track starts recording the ids Create hands out, dropping any earlier record.
func (m *EntityManager) Track() {
	m.tracking = true
	m.created = m.created[:0]
}

// Commit stops recording and keeps every id created since Track.
func (m *EntityManager) Commit() {
	m.tracking = false
	m.created = m.created[:0]
}

// Rollback stops recording and destroys the ids created since Track that
// are still alive, newest first. It returns the destroyed ids.
func (m *EntityManager) Rollback() []EntityID {
	m.tracking = false
	var out []EntityID
	for i := len(m.created) - 1; i >= 0; i-- {
		if m.Destroy(m.created[i]) {
			out = append(out, m.created[i])
		}
	}
	m.created = m.created[:0]
	return out
}

func (m *EntityManager) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || idx >= m.nextIndex {
		return false
	}
	return m.alive[idx] && m.generations[idx] == id.Generation()
}

// Destroy marks id free for reuse. Unknown or stale ids are ignored and
// reported as false.
func (m *EntityManager) Destroy(id EntityID) bool {
	if !m.Alive(id) {
		return false
	}
	idx := id.Index()
	m.generations[idx]++
	m.alive[idx] = false
	m.freeList = append(m.freeList, idx)
	m.live--
	return true
}

// Len returns the number of live entities.
func (m *EntityManager) Len() int { return m.live }
