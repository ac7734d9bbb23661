// ABOUTME: Background worker goroutine that runs collection cycles
// ABOUTME: Blocks on a condition variable until a request or shutdown

package concurrent

// Worker runs collection cycles on a dedicated goroutine. It sleeps on the
// collector's condition variable until RequestCollection signals it or
// Shutdown is flagged.
type Worker struct {
	gc   *Collector
	done chan struct{}
}

// StartWorker spawns the background worker for gc.
func StartWorker(gc *Collector) *Worker {
	w := &Worker{gc: gc, done: make(chan struct{})}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer close(w.done)
	gc := w.gc

	for {
		gc.reqMu.Lock()
		// Shutdown is re-checked inside the wait loop so a signal sent
		// before the first Wait is never missed.
		for !gc.down.Load() && gc.Phase() == Idle {
			gc.req.Wait()
		}
		gc.reqMu.Unlock()

		if gc.down.Load() {
			return
		}

		gc.CollectSync()
	}
}

// Stop shuts the collector down and waits for the worker goroutine to
// exit. A collection already in progress runs to completion first.
func (w *Worker) Stop() {
	w.gc.Shutdown()
	<-w.done
}
