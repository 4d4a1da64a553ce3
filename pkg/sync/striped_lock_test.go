package sync

import (
	"fmt"
	base "sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripedLock_HappyPath(t *testing.T) {
	workerCount := 64
	operationCount := 2000

	l := NewStripedLock(4)

	var workerWg base.WaitGroup
	startChan := make(chan struct{})
	data := make([]int, workerCount)

	for i := 0; i < workerCount; i++ {
		workerWg.Add(1)

		go func(workerID int) {
			defer workerWg.Done()

			<-startChan

			key := []byte(fmt.Sprintf("donor%d", workerID))
			var opWg base.WaitGroup
			for j := 0; j < operationCount; j++ {
				opWg.Add(1)

				go func() {
					defer opWg.Done()

					unlock := l.Lock(key)
					data[workerID]++
					unlock()
				}()
			}
			opWg.Wait()
		}(i)
	}

	close(startChan)
	workerWg.Wait()

	for _, val := range data {
		assert.EqualValues(t, operationCount, val)
	}
}

func TestStripedLock_SameKeySameLock(t *testing.T) {
	l := NewStripedLock(16)
	assert.Same(t, l.Get([]byte("a")), l.Get([]byte("a")))
}

func TestStripedLock_ZeroStripes(t *testing.T) {
	l := NewStripedLock(0)
	unlock := l.Lock([]byte("a"))
	unlock()
}
