package bot

import "sync"

// pool runs download jobs on a fixed number of workers so one user's long
// download cannot stall handling of other updates. Jobs are never
// cancelled once started; the queue blocks submitters when every worker is
// busy and the backlog is full.
type pool struct {
	jobs    chan func()
	workers sync.WaitGroup
	pending sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func newPool(workers int) *pool {
	p := &pool{jobs: make(chan func(), workers*4)}
	for i := 0; i < workers; i++ {
		p.workers.Add(1)
		go func() {
			defer p.workers.Done()
			for job := range p.jobs {
				job()
				p.pending.Done()
			}
		}()
	}
	return p
}

// submit queues a job; returns false after close.
func (p *pool) submit(job func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.pending.Add(1)
	p.jobs <- job
	return true
}

// flush blocks until every queued job has finished.
func (p *pool) flush() {
	p.pending.Wait()
}

// close stops accepting jobs and waits for in-flight ones.
func (p *pool) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	p.workers.Wait()
}
