package fluid

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum row count to fan a pass out to workers.
// Below this, running inline is faster than the channel round trips.
const parallelThreshold = 32

// rowChunk is a half-open row range handed to a worker.
type rowChunk struct {
	lo, hi int
	fn     func(lo, hi int)
}

// Pool runs per-row passes on persistent worker goroutines. For returns only
// once every chunk has finished, so consecutive passes are separated by a
// barrier. A Pool is driven from one goroutine at a time.
type Pool struct {
	numWorkers int

	workChan chan rowChunk  // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

// NewPool creates a pool with the given worker count (<=0 means GOMAXPROCS).
// Workers start lazily on the first parallel pass.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.numWorkers
}

func (p *Pool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan rowChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them. Idempotent.
func (p *Pool) Stop() {
	if p == nil || !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.lo, chunk.hi)
			p.doneChan <- struct{}{}
		}
	}
}

// For calls fn over [0,n) split into contiguous row ranges and blocks until
// all of them complete.
func (p *Pool) For(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.numWorkers < 2 || n < parallelThreshold {
		fn(0, n)
		return
	}

	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		lo := w * chunkSize
		hi := min(lo+chunkSize, n)
		if lo >= hi {
			continue
		}
		p.workChan <- rowChunk{lo: lo, hi: hi, fn: fn}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
