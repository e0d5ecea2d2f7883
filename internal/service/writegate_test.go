package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteGate_SerializesSameKey(t *testing.T) {
	g := newWriteGate()
	first := g.acquire("node:a")

	acquired := make(chan struct{})
	go func() {
		second := g.acquire("node:a")
		close(acquired)
		second.release()
	}()

	select {
	case <-acquired:
		t.Fatal("second writer entered while first held the key")
	case <-time.After(50 * time.Millisecond):
	}

	first.release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second writer never entered")
	}
}

func TestWriteGate_DifferentKeysDoNotBlock(t *testing.T) {
	g := newWriteGate()
	a := g.acquire("node:a")
	defer a.release()

	done := make(chan struct{})
	go func() {
		b := g.acquire("node:b")
		b.release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent key blocked")
	}
}

func TestWriteGate_InvalidateMarksTicketsStale(t *testing.T) {
	g := newWriteGate()

	tk := g.acquire("node:a")
	assert.True(t, tk.current())
	g.invalidate()
	assert.False(t, tk.current())
	tk.release()

	tk = g.acquire("node:a")
	assert.True(t, tk.current(), "tickets taken after invalidate are current")
	g.invalidateKey("node:a")
	assert.False(t, tk.current())
	tk.release()
}

func TestWriteGate_ReleasedKeysAreDropped(t *testing.T) {
	g := newWriteGate()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.acquire("node:a").release()
		}()
	}
	wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Empty(t, g.keys)
}
