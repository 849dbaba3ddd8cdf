package history

// StateCount reports how many entry states b retains.
func (b *Browser) StateCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.states)
}
