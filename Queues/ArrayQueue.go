package Queues

// ring holds sz items starting at head; the slot after the last item is
// (head+sz)%len(content).
type ring[T any] struct {
	sz, head uint
	content  []T
}

// MakeArrayQueue returns an empty ArrayQueue with room for initCap items.
func MakeArrayQueue[T any](initCap uint) ArrayQueue[T] {
	return &ring[T]{content: make([]T, initCap)}
}

func (u *ring[T]) Empty() bool {
	return u.sz == 0
}

func (u *ring[T]) Size() uint {
	return u.sz
}

// resize moves the items to a new buffer of length newLen, newLen>=sz.
// Time: O(sz)
func (u *ring[T]) resize(newLen uint) {
	nc := make([]T, newLen)
	if n := uint(len(u.content)); n > 0 {
		if end := u.head + u.sz; end <= n {
			copy(nc, u.content[u.head:end])
		} else {
			copy(nc, u.content[u.head:])
			copy(nc[n-u.head:], u.content[:end-n])
		}
	}
	u.content, u.head = nc, 0
}

func (u *ring[T]) Shrink() {
	u.resize(u.sz | 1)
}

func (u *ring[T]) Clear() {
	clear(u.content)
	u.head, u.sz = 0, 0
}

// Push appends item, growing the buffer by half when it is full.
// Time: amortized O(1)
func (u *ring[T]) Push(item T) {
	if n := uint(len(u.content)); u.sz == n {
		u.resize(max(n*3/2, n+1))
	}
	u.content[(u.head+u.sz)%uint(len(u.content))] = item
	u.sz++
}

func (u *ring[T]) Pop() (T, error) {
	if u.Empty() {
		return *new(T), &EmptyQueueError{}
	}
	t := u.content[u.head]
	u.content[u.head] = *new(T)
	u.head = (u.head + 1) % uint(len(u.content))
	u.sz--
	return t, nil
}

func (u *ring[T]) Peek() T {
	if u.Empty() {
		return *new(T)
	}
	return u.content[u.head]
}
