package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactStateString(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "DISCOVERED", Discovered.String())
	assert.Equal(t, "COMPILED", Compiled.String())
	assert.Equal(t, "LINKED", Linked.String())
	assert.Equal(t, "ERRORED", Errored.String())
}

func TestTrackerSetAndGet(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Unknown, tr.Get("a.cpp"))

	tr.Set("a.cpp", Discovered)
	assert.Equal(t, Discovered, tr.Get("a.cpp"))

	tr.Set("a.cpp", Compiled)
	assert.Equal(t, Compiled, tr.Get("a.cpp"))

	tr.Set("b.cpp", Errored)
	assert.Equal(t, 1, tr.CountIn(Compiled))
	assert.Equal(t, 1, tr.CountIn(Errored))
}

func TestTrackerConcurrentSetIsRaceFree(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Set(string(rune('a'+i%26)), Compiled)
		}(i)
	}
	wg.Wait()
	assert.True(t, tr.CountIn(Compiled) > 0)
}
