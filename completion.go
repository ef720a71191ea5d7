package reqlog

import "sync"

// completion is a one-shot notification that the response of an exchange
// has been sent. The subscriber runs at most once, on the goroutine that
// fires first.
type completion struct {
	mu    sync.Mutex
	fired bool
	fn    func()
}

// subscribe registers the only subscriber. If the notification has already
// fired, fn runs immediately.
func (c *completion) subscribe(fn func()) {
	c.mu.Lock()
	if c.fn != nil {
		c.mu.Unlock()
		panic("completion already has a subscriber")
	}
	c.fn = fn
	fired := c.fired
	c.mu.Unlock()

	if fired {
		fn()
	}
}

// fire runs the subscriber unless fire has been called before
func (c *completion) fire() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	fn := c.fn
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}
