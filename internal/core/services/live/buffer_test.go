package live

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_EvictsOldestBeyondCapacity(t *testing.T) {
	b := NewBuffer(3)

	b.Append(1, -50)
	b.Append(2, -55)
	b.Append(3, -60)
	b.Append(4, -65)

	counters, rssis := b.Snapshot()
	assert.Equal(t, []int{2, 3, 4}, counters)
	assert.Equal(t, []int{-55, -60, -65}, rssis)
	assert.Equal(t, 3, b.Len())
}

func TestBuffer_SnapshotReturnsIndependentCopies(t *testing.T) {
	b := NewBuffer(10)
	b.Append(1, -50)

	counters, rssis := b.Snapshot()
	counters[0] = 99
	rssis[0] = 99
	b.Append(2, -60)

	counters2, rssis2 := b.Snapshot()
	assert.Equal(t, []int{1, 2}, counters2)
	assert.Equal(t, []int{-50, -60}, rssis2)
}

func TestBuffer_ConcurrentAppendAndSnapshot(t *testing.T) {
	b := NewBuffer(100)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.Append(i, -50-i%40)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			counters, rssis := b.Snapshot()
			assert.Equal(t, len(counters), len(rssis))
			assert.LessOrEqual(t, len(counters), 100)
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, b.Len())
}
