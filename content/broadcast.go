package content

import (
	"context"
	"sync"
)

// broadcaster fans a post snapshot out to every live subscriber. Slow
// subscribers only ever see the latest snapshot.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan []Post]struct{}
}

func (b *broadcaster) subscribe(ctx context.Context) <-chan []Post {
	ch := make(chan []Post, 1)
	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[chan []Post]struct{})
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

func (b *broadcaster) publish(posts []Post) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- posts
	}
}
