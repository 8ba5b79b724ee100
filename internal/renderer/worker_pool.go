package renderer

import (
	"runtime"
	"sync"
)

// RowTask asks a worker to trace one output row
type RowTask struct {
	Row int
}

// RowResult contains the result from tracing a row
type RowResult struct {
	Row    int
	Worker int
	Stats  rowStats
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	wg          sync.WaitGroup
}

// Worker traces the rows it takes from the task queue
type Worker struct {
	ID          int
	tracer      *tracer
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// newWorkerPool creates a pool of numWorkers workers sharing tr.
// numWorkers <= 0 uses runtime.NumCPU().
func newWorkerPool(tr *tracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	rows := tr.view.height
	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, rows),   // Buffer for every row
		resultQueue: make(chan RowResult, rows), // Buffer for every result
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			tracer:      tr,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue and waits for the workers to drain it.
// Buffered results stay readable through GetResult.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a row for rendering
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Each row is a disjoint slice of the frame
		stats := w.tracer.traceRow(task.Row)
		w.resultQueue <- RowResult{
			Row:    task.Row,
			Worker: w.ID,
			Stats:  stats,
		}
	}
}
