package bloodwork

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WorkerPool processes batches of lab report PDFs in parallel.
type WorkerPool struct {
	ctx            context.Context
	cancel         context.CancelFunc
	extractor      *Extractor
	tasks          chan Task
	results        chan TaskResult
	progressChan   chan ProgressUpdate
	wg             sync.WaitGroup
	numWorkers     int
	totalTasks     int
	completedTasks int
	mu             sync.RWMutex
}

// Task is a single report to process.
type Task struct {
	ID       string
	Filename string
}

// TaskResult pairs a task with its extraction outcome.
type TaskResult struct {
	Error  error
	Result *ExtractionResult
	Task   Task
}

// ProgressUpdate provides progress information.
type ProgressUpdate struct {
	TaskID      string
	Filename    string
	Status      TaskStatus
	Message     string
	Completed   int
	Total       int
	ElapsedTime time.Duration
}

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// NewWorkerPool creates a pool sharing one extractor across workers.
func NewWorkerPool(extractor *Extractor, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 4
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		ctx:          ctx,
		cancel:       cancel,
		extractor:    extractor,
		numWorkers:   numWorkers,
		tasks:        make(chan Task, numWorkers*2),
		results:      make(chan TaskResult, numWorkers*2),
		progressChan: make(chan ProgressUpdate, 100),
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}

			wp.processTask(workerID, task)
		}
	}
}

func (wp *WorkerPool) processTask(workerID int, task Task) {
	start := time.Now()

	wp.sendProgress(ProgressUpdate{
		TaskID:   task.ID,
		Filename: task.Filename,
		Status:   TaskStatusProcessing,
		Message:  fmt.Sprintf("Worker %d started processing", workerID),
	})

	result, err := wp.extractor.ExtractFromFile(task.Filename)
	elapsed := time.Since(start)

	wp.mu.Lock()
	wp.completedTasks++
	completed := wp.completedTasks
	total := wp.totalTasks
	wp.mu.Unlock()

	status := TaskStatusCompleted
	message := fmt.Sprintf("Worker %d completed in %v", workerID, elapsed)

	if err != nil {
		status = TaskStatusFailed
		message = fmt.Sprintf("Worker %d failed: %v", workerID, err)
	}

	wp.sendProgress(ProgressUpdate{
		TaskID:      task.ID,
		Filename:    task.Filename,
		Status:      status,
		Completed:   completed,
		Total:       total,
		ElapsedTime: elapsed,
		Message:     message,
	})

	wp.results <- TaskResult{
		Task:   task,
		Result: result,
		Error:  err,
	}
}

// sendProgress drops the update when the channel is full rather than
// blocking a worker.
func (wp *WorkerPool) sendProgress(update ProgressUpdate) {
	select {
	case wp.progressChan <- update:
	default:
	}
}

// SubmitTask queues a task for processing.
func (wp *WorkerPool) SubmitTask(task Task) {
	wp.mu.Lock()
	wp.totalTasks++
	wp.mu.Unlock()

	wp.sendProgress(ProgressUpdate{
		TaskID:   task.ID,
		Filename: task.Filename,
		Status:   TaskStatusPending,
		Message:  "Task queued for processing",
	})

	select {
	case wp.tasks <- task:
	case <-wp.ctx.Done():
	}
}

// SubmitBatch submits multiple tasks at once.
func (wp *WorkerPool) SubmitBatch(tasks []Task) {
	for _, task := range tasks {
		wp.SubmitTask(task)
	}
}

// Results returns the results channel for reading results.
func (wp *WorkerPool) Results() <-chan TaskResult {
	return wp.results
}

// Progress returns the progress channel for reading progress updates.
func (wp *WorkerPool) Progress() <-chan ProgressUpdate {
	return wp.progressChan
}

// Wait waits for all submitted tasks to complete and closes the pool.
func (wp *WorkerPool) Wait() {
	close(wp.tasks)
	wp.wg.Wait()
	close(wp.results)
	close(wp.progressChan)
}

// Shutdown cancels outstanding work and waits for cleanup.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

// Stats returns current processing statistics.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return WorkerPoolStats{
		TotalTasks:     wp.totalTasks,
		CompletedTasks: wp.completedTasks,
		PendingTasks:   wp.totalTasks - wp.completedTasks,
		NumWorkers:     wp.numWorkers,
	}
}

// WorkerPoolStats provides statistics about the worker pool.
type WorkerPoolStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	NumWorkers     int `json:"num_workers"`
}

// ProgressTracker aggregates progress updates for a batch.
type ProgressTracker struct {
	startTime    time.Time
	taskStatuses map[string]TaskStatus
	mu           sync.RWMutex
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		startTime:    time.Now(),
		taskStatuses: make(map[string]TaskStatus),
	}
}

// Update records a progress update.
func (pt *ProgressTracker) Update(update ProgressUpdate) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.taskStatuses[update.TaskID] = update.Status
}

// PrintProgress prints a one-line progress report, overwriting in place.
func (pt *ProgressTracker) PrintProgress() {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	counts := make(map[TaskStatus]int)
	for _, status := range pt.taskStatuses {
		counts[status]++
	}

	total := len(pt.taskStatuses)
	completed := counts[TaskStatusCompleted]

	fmt.Printf("\r🔄 Progress: %d/%d completed", completed, total)

	if failed := counts[TaskStatusFailed]; failed > 0 {
		fmt.Printf(" (%d failed)", failed)
	}

	if processing := counts[TaskStatusProcessing]; processing > 0 {
		fmt.Printf(" (%d processing)", processing)
	}

	if total > 0 {
		fmt.Printf(" [%.1f%%]", float64(completed)/float64(total)*100)
	}

	fmt.Printf(" [%v elapsed]", time.Since(pt.startTime).Round(time.Second))
}
