package mesh

import "fmt"

// arenaKey is a slot index paired with a generation counter. Generations
// start at 1, so the zero key never refers to a live element and the
// zero value of every ID type can serve as "no reference".
type arenaKey struct {
	idx uint32
	gen uint32
}

func (k arenaKey) isZero() bool { return k.gen == 0 }

// VertexID identifies a vertex. The zero value is a null reference.
type VertexID struct{ k arenaKey }

// HalfedgeID identifies a halfedge. The zero value is a null reference.
type HalfedgeID struct{ k arenaKey }

// FaceID identifies a face. The zero value is a null reference.
type FaceID struct{ k arenaKey }

// IsZero reports whether the ID is a null reference.
func (id VertexID) IsZero() bool { return id.k.isZero() }

// IsZero reports whether the ID is a null reference.
func (id HalfedgeID) IsZero() bool { return id.k.isZero() }

// IsZero reports whether the ID is a null reference.
func (id FaceID) IsZero() bool { return id.k.isZero() }

func (id VertexID) String() string {
	if id.IsZero() {
		return "v(nil)"
	}
	return fmt.Sprintf("v%d.%d", id.k.idx, id.k.gen)
}

func (id HalfedgeID) String() string {
	if id.IsZero() {
		return "h(nil)"
	}
	return fmt.Sprintf("h%d.%d", id.k.idx, id.k.gen)
}

func (id FaceID) String() string {
	if id.IsZero() {
		return "f(nil)"
	}
	return fmt.Sprintf("f%d.%d", id.k.idx, id.k.gen)
}

// slot holds one element. A removed slot keeps its generation until the
// index is reused, at which point the generation is bumped so stale keys
// can never resolve again.
type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// arena is a generational slot allocator. Keys handed out for removed
// elements fail lookup, either because the slot is dead or because its
// generation has moved on.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// insert stores v and returns its key. Freed slots are reused before the
// backing slice grows.
func (a *arena[T]) insert(v T) arenaKey {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.gen++
		s.live = true
		a.count++
		return arenaKey{idx: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{value: v, gen: 1, live: true})
	a.count++
	return arenaKey{idx: uint32(len(a.slots) - 1), gen: 1}
}

// get returns a pointer into the arena, valid until the next insert.
func (a *arena[T]) get(k arenaKey) (*T, bool) {
	if k.isZero() || int(k.idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[k.idx]
	if !s.live || s.gen != k.gen {
		return nil, false
	}
	return &s.value, true
}

// contains reports whether k refers to a live element.
func (a *arena[T]) contains(k arenaKey) bool {
	_, ok := a.get(k)
	return ok
}

// remove frees the slot referenced by k. Removing an already-removed or
// stale key is a no-op.
func (a *arena[T]) remove(k arenaKey) bool {
	if _, ok := a.get(k); !ok {
		return false
	}
	s := &a.slots[k.idx]
	var zero T
	s.value = zero
	s.live = false
	a.free = append(a.free, k.idx)
	a.count--
	return true
}

// keys returns the keys of all live elements in slot order.
func (a *arena[T]) keys() []arenaKey {
	out := make([]arenaKey, 0, a.count)
	for i := range a.slots {
		if a.slots[i].live {
			out = append(out, arenaKey{idx: uint32(i), gen: a.slots[i].gen})
		}
	}
	return out
}
