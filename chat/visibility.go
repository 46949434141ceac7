package chat

import (
	"context"
	"sync"
)

// WatchForeground marks the active conversation read each time the
// events channel fires (initial mount, conversation switch, window
// regaining visibility). The returned stop function tears the
// subscription down; it is safe to call more than once.
func (m *Manager) WatchForeground(events <-chan struct{}) (stop func()) {
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				m.MarkAllAsRead(context.Background())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
