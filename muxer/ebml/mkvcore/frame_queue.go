package mkvcore

// queuedFrame is a held back frame with its arrival order.
type queuedFrame struct {
	frame *Frame
	seq   uint64
}

// frameHeap orders held back frames by timestamp, then track number, then arrival.
type frameHeap []queuedFrame

func (h frameHeap) Len() int { return len(h) }

func (h frameHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.frame.timestamp != b.frame.timestamp {
		return a.frame.timestamp < b.frame.timestamp
	}
	if a.frame.trackNumber != b.frame.trackNumber {
		return a.frame.trackNumber < b.frame.trackNumber
	}
	return a.seq < b.seq
}

func (h frameHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frameHeap) Push(x any) {
	*h = append(*h, x.(queuedFrame))
}

func (h *frameHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
