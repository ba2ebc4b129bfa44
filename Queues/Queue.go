package Queues

// Queue is a FIFO container. Pop on an empty Queue returns an *EmptyQueueError.
type Queue[T any] interface {
	Push(item T)
	Pop() (T, error)
	Peek() T
	Empty() bool
}

// ArrayQueue is a Queue backed by a growable ring buffer.
type ArrayQueue[T any] interface {
	Queue[T]
	//Shrink the buffer to the smallest size holding the current items.
	Shrink()
	//Clear drops every item but keeps the buffer.
	Clear()
	Size() uint
}

type EmptyQueueError struct {
}

func (e *EmptyQueueError) Error() string {
	return "Queue is Empty: cannot Pop."
}
