package ecs

// Each2 iterates over entities that have both component A and B.
// It walks the smaller list and probes the larger one.
func Each2[A, B any](la *ComponentList[A], lb *ComponentList[B], fn func(EntityID, *A, *B)) {
	if la.Len() <= lb.Len() {
		for i := range la.data {
			id := la.entities[i]
			if j, ok := lb.slot(id); ok {
				fn(id, &la.data[i], &lb.data[j])
			}
		}
		return
	}
	for j := range lb.data {
		id := lb.entities[j]
		if i, ok := la.slot(id); ok {
			fn(id, &la.data[i], &lb.data[j])
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](la *ComponentList[A], lb *ComponentList[B], lc *ComponentList[C], fn func(EntityID, *A, *B, *C)) {
	Each2(la, lb, func(id EntityID, a *A, b *B) {
		if k, ok := lc.slot(id); ok {
			fn(id, a, b, &lc.data[k])
		}
	})
}
