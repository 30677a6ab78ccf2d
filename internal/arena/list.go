package arena

// List is a doubly linked recency list over arena slots, bounded by two
// sentinel slots: head side is most recent, tail side is least recent.
// All operations are O(1) index splices.
type List[K comparable, V any] struct {
	a    *Arena[K, V]
	head Handle // sentinel
	tail Handle // sentinel
	n    int
}

// NewList allocates the sentinels for a new empty list in a.
func NewList[K comparable, V any](a *Arena[K, V]) *List[K, V] {
	var zk K
	var zv V
	head := a.Alloc(zk, zv)
	tail := a.Alloc(zk, zv)
	a.slots[head].next = tail
	a.slots[tail].prev = head
	return &List[K, V]{a: a, head: head, tail: tail}
}

// Len returns the number of entries between the sentinels.
func (l *List[K, V]) Len() int { return l.n }

// PushFront links a detached entry right after the head sentinel.
func (l *List[K, V]) PushFront(h Handle) {
	s := l.a.slots
	first := s[l.head].next
	s[h].prev = l.head
	s[h].next = first
	s[first].prev = h
	s[l.head].next = h
	l.n++
}

// Remove unlinks h from the list; the slot stays allocated.
func (l *List[K, V]) Remove(h Handle) {
	s := l.a.slots
	p, nx := s[h].prev, s[h].next
	s[p].next = nx
	s[nx].prev = p
	s[h].prev, s[h].next = Nil, Nil
	l.n--
}

// MoveToFront promotes h to most recent.
func (l *List[K, V]) MoveToFront(h Handle) {
	if l.a.slots[l.head].next == h {
		return
	}
	l.Remove(h)
	l.PushFront(h)
}

// Front returns the most recent entry.
func (l *List[K, V]) Front() (Handle, bool) {
	if l.n == 0 {
		return Nil, false
	}
	return l.a.slots[l.head].next, true
}

// Back returns the least recent entry.
func (l *List[K, V]) Back() (Handle, bool) {
	if l.n == 0 {
		return Nil, false
	}
	return l.a.slots[l.tail].prev, true
}

// Next returns the entry after h toward the tail.
func (l *List[K, V]) Next(h Handle) (Handle, bool) {
	nx := l.a.slots[h].next
	if nx == l.tail {
		return Nil, false
	}
	return nx, true
}

// Prev returns the entry before h toward the head.
func (l *List[K, V]) Prev(h Handle) (Handle, bool) {
	p := l.a.slots[h].prev
	if p == l.head {
		return Nil, false
	}
	return p, true
}

// Release frees the sentinels. The list must be empty.
func (l *List[K, V]) Release() {
	if l.n != 0 {
		panic("arena: release of non-empty list")
	}
	l.a.Free(l.head)
	l.a.Free(l.tail)
	l.head, l.tail = Nil, Nil
}
