/*
 * Copyright 2026 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package pool provides the worker pool used to wait for the pending results of async records.
//
// Note: This file is inspired by:
// Valyala, A. (2023) workerpool.go (Version 1.48.0)
// [Source code]. https://github.com/valyala/fasthttp/blob/master/workerpool.go
package pool

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

var (
	// ErrNoIdleWorkers all workers are busy and MaxWorkersCount is reached
	ErrNoIdleWorkers = errors.New("no idle workers")
	// ErrStopped the pool is not running
	ErrStopped = errors.New("worker pool is stopped")
)

// WorkerPool serves submitted functions using a pool of workers in FILO order:
// the most recently idle worker serves the next function, which keeps CPU caches hot.
// Workers idle for longer than MaxIdleWorkerDuration are stopped.
//
//	wp := &WorkerPool{MaxWorkersCount: 100}
//	wp.Start()
//	defer wp.Stop()
//	err := wp.Submit(func() { ... })
type WorkerPool struct {
	// MaxWorkersCount is the maximum number of concurrently running workers.
	MaxWorkersCount int
	// MaxIdleWorkerDuration defaults to 10 seconds.
	MaxIdleWorkerDuration time.Duration

	lock         sync.Mutex
	workersCount int
	running      bool
	ready        []*worker
	stopCh       chan struct{}
	workerPool   sync.Pool
}

type worker struct {
	lastUseTime time.Time
	ch          chan func()
}

// workerChanCap is 0 on a single CPU so that Submit hands over to the worker immediately.
var workerChanCap = func() int {
	if runtime.GOMAXPROCS(0) == 1 {
		return 0
	}
	return 1
}()

// Start starts the idle worker cleaner. Calling Start on a running pool is a no-op.
func (wp *WorkerPool) Start() {
	wp.lock.Lock()
	defer wp.lock.Unlock()
	if wp.running {
		return
	}
	wp.running = true
	wp.stopCh = make(chan struct{})
	wp.workerPool.New = func() interface{} {
		return &worker{ch: make(chan func(), workerChanCap)}
	}
	go wp.cleaner(wp.stopCh)
}

// Stop stops idle workers; busy workers exit after their current function.
func (wp *WorkerPool) Stop() {
	wp.lock.Lock()
	defer wp.lock.Unlock()
	if !wp.running {
		return
	}
	wp.running = false
	close(wp.stopCh)
	for i, w := range wp.ready {
		w.ch <- nil
		wp.ready[i] = nil
	}
	wp.ready = wp.ready[:0]
}

// Release stops the pool.
func (wp *WorkerPool) Release() {
	wp.Stop()
}

// Submit runs fn on an idle or new worker.
// It fails with ErrNoIdleWorkers when MaxWorkersCount workers are busy.
func (wp *WorkerPool) Submit(fn func()) error {
	w, err := wp.acquire()
	if err != nil {
		return err
	}
	w.ch <- fn
	return nil
}

func (wp *WorkerPool) idleDuration() time.Duration {
	if wp.MaxIdleWorkerDuration <= 0 {
		return 10 * time.Second
	}
	return wp.MaxIdleWorkerDuration
}

func (wp *WorkerPool) cleaner(stopCh chan struct{}) {
	ticker := time.NewTicker(wp.idleDuration())
	defer ticker.Stop()
	var expired []*worker
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			expired = wp.expire(expired[:0])
		}
	}
}

// expire stops the workers idle for too long. ready is ordered by lastUseTime,
// so the expired workers form a prefix of it.
func (wp *WorkerPool) expire(scratch []*worker) []*worker {
	critical := time.Now().Add(-wp.idleDuration())

	wp.lock.Lock()
	n := 0
	for n < len(wp.ready) && wp.ready[n].lastUseTime.Before(critical) {
		n++
	}
	scratch = append(scratch, wp.ready[:n]...)
	m := copy(wp.ready, wp.ready[n:])
	for i := m; i < len(wp.ready); i++ {
		wp.ready[i] = nil
	}
	wp.ready = wp.ready[:m]
	wp.lock.Unlock()

	for i, w := range scratch {
		w.ch <- nil
		scratch[i] = nil
	}
	return scratch
}

func (wp *WorkerPool) acquire() (*worker, error) {
	wp.lock.Lock()
	if !wp.running {
		wp.lock.Unlock()
		return nil, ErrStopped
	}
	if n := len(wp.ready) - 1; n >= 0 {
		w := wp.ready[n]
		wp.ready[n] = nil
		wp.ready = wp.ready[:n]
		wp.lock.Unlock()
		return w, nil
	}
	if wp.MaxWorkersCount > 0 && wp.workersCount >= wp.MaxWorkersCount {
		wp.lock.Unlock()
		return nil, ErrNoIdleWorkers
	}
	wp.workersCount++
	wp.lock.Unlock()

	w := wp.workerPool.Get().(*worker)
	go func() {
		wp.serve(w)
		wp.workerPool.Put(w)
	}()
	return w, nil
}

// park puts w back on the ready stack; it returns false when the pool stopped.
func (wp *WorkerPool) park(w *worker) bool {
	w.lastUseTime = time.Now()
	wp.lock.Lock()
	defer wp.lock.Unlock()
	if !wp.running {
		return false
	}
	wp.ready = append(wp.ready, w)
	return true
}

func (wp *WorkerPool) serve(w *worker) {
	for fn := range w.ch {
		if fn == nil {
			break
		}
		fn()
		if !wp.park(w) {
			break
		}
	}
	wp.lock.Lock()
	wp.workersCount--
	wp.lock.Unlock()
}
