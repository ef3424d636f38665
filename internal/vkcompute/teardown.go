package vkcompute

// releaseList records destroy callbacks in creation order so that teardown
// can walk them back in reverse.
type releaseList struct {
	entries []release
}

type release struct {
	name string
	fn   func()
}

func (l *releaseList) push(name string, fn func()) {
	l.entries = append(l.entries, release{name: name, fn: fn})
}

func (l *releaseList) len() int {
	return len(l.entries)
}

// releaseAll runs every callback, newest first, and empties the list. It
// returns the names in the order they were released.
func (l *releaseList) releaseAll() []string {
	released := make([]string, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		entry.fn()
		released = append(released, entry.name)
	}
	l.entries = nil
	return released
}
