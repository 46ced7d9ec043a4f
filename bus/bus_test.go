package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToCurrentSubscribers(t *testing.T) {
	b := New(nil)
	var got []Signal
	sub := b.Subscribe(func(s Signal) { got = append(got, s) })

	b.Publish(OpenMenu{Query: ""})
	b.Publish(SearchQuery{Query: "head"})
	b.Publish(CloseMenu{})

	require.Len(t, got, 3)
	assert.Equal(t, OpenMenu{}, got[0])
	assert.Equal(t, SearchQuery{Query: "head"}, got[1])
	assert.Equal(t, CloseMenu{}, got[2])

	sub.Unsubscribe()
	b.Publish(CloseMenu{})
	assert.Len(t, got, 3)
}

func TestOnFiltersByType(t *testing.T) {
	b := New(nil)
	var queries []string
	var updates int
	On(b, func(s SearchQuery) { queries = append(queries, s.Query) })
	On(b, func(ToolbarUpdate) { updates++ })

	b.Publish(SearchQuery{Query: "a"})
	b.Publish(OpenMenu{Query: "b"})
	b.Publish(ToolbarUpdate{Selection: &SelectionSnapshot{Anchor: 1, Head: 4, Settled: true}})

	assert.Equal(t, []string{"a"}, queries)
	assert.Equal(t, 1, updates)
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	b := New(nil)
	b.Publish(OpenMenu{})
	called := false
	b.Subscribe(func(Signal) { called = true })
	assert.False(t, called)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New(nil)
	sub := b.Subscribe(func(Signal) {})
	b.Subscribe(func(Signal) {})
	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 1, b.Len())

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Unsubscribe)
}

func TestHandlerMayUnsubscribeOthersDuringDelivery(t *testing.T) {
	b := New(nil)
	var second *Subscription
	calls := 0
	b.Subscribe(func(Signal) { second.Unsubscribe() })
	second = b.Subscribe(func(Signal) { calls++ })

	b.Publish(CloseMenu{})
	assert.Equal(t, 0, calls)
}

func TestHandlerMayPublish(t *testing.T) {
	b := New(nil)
	var kinds []string
	On(b, func(OpenMenu) { b.Publish(SearchQuery{}) })
	b.Subscribe(func(s Signal) { kinds = append(kinds, s.Kind()) })

	b.Publish(OpenMenu{})
	assert.Equal(t, []string{"search-query", "open-menu"}, kinds)
}

func TestGroupReleasesAll(t *testing.T) {
	b := New(nil)
	var g Group
	g.Add(b.Subscribe(func(Signal) {}))
	g.Add(On(b, func(CloseMenu) {}))
	b.Subscribe(func(Signal) {})
	require.Equal(t, 3, b.Len())

	g.Release()
	assert.Equal(t, 1, b.Len())
	g.Release()
	assert.Equal(t, 1, b.Len())
}

func TestConcurrentPublish(t *testing.T) {
	b := New(nil)
	var mu sync.Mutex
	count := 0
	b.Subscribe(func(Signal) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(CloseMenu{})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, count)
}
