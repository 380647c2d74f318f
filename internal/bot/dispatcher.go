package bot

import (
	"context"
	"errors"
	"sync"
)

// ErrDispatcherClosed — задача пришла после Close.
var ErrDispatcherClosed = errors.New("диспетчер остановлен")

// Dispatcher раскладывает задачи по шардам: задачи одной сессии выполняются
// строго по очереди в порядке поступления, разные сессии — параллельно.
type Dispatcher struct {
	shards []chan func()
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher запускает workers горутин с очередью queue на каждую.
func NewDispatcher(workers, queue int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	d := &Dispatcher{shards: make([]chan func(), workers)}
	for i := range d.shards {
		ch := make(chan func(), queue)
		d.shards[i] = ch
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for job := range ch {
				job()
			}
		}()
	}
	return d
}

func (d *Dispatcher) shard(id int64) chan func() {
	if id < 0 {
		id = -id
	}
	return d.shards[id%int64(len(d.shards))]
}

// Submit ставит задачу в очередь сессии. Блокируется, пока очередь полна.
func (d *Dispatcher) Submit(ctx context.Context, sessionID int64, job func()) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.shard(sessionID) <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close перестаёт принимать задачи и ждёт выполнения уже поставленных.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.shards {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
