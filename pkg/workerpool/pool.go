package workerpool

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Config configures a bounded worker pool.
type Config struct {
	MaxConcurrent int // Maximum concurrent tasks (default: 8)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxConcurrent: 8}
}

// Pool executes independent tasks with bounded parallelism. A semaphore limits
// outstanding work so concurrent reads against source and target stores stay
// within caller-configured fan-out limits.
type Pool struct {
	config Config
	logger *zap.Logger
}

// New creates a worker pool.
func New(config Config, logger *zap.Logger) *Pool {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 8
	}
	return &Pool{
		config: config,
		logger: logger.Named("worker-pool"),
	}
}

// Task is a unit of work to be executed.
type Task[T any] struct {
	ID      string
	Execute func(ctx context.Context) (T, error)
}

// Result is the outcome of one task.
type Result[T any] struct {
	ID    string
	Value T
	Err   error
}

// Run executes all tasks with bounded parallelism and returns results in
// completion order. Processing continues even if some tasks fail; a cancelled
// context surfaces as ctx.Err() on the remaining results.
func Run[T any](ctx context.Context, pool *Pool, tasks []Task[T], onProgress func(completed, total int)) []Result[T] {
	if len(tasks) == 0 {
		return nil
	}

	results := make([]Result[T], 0, len(tasks))
	resultsChan := make(chan Result[T], len(tasks))
	sem := make(chan struct{}, pool.config.MaxConcurrent)

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task Task[T]) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				var zero T
				resultsChan <- Result[T]{ID: task.ID, Value: zero, Err: ctx.Err()}
				return
			}

			value, err := task.Execute(ctx)
			resultsChan <- Result[T]{ID: task.ID, Value: value, Err: err}
		}(task)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	completed := 0
	for result := range resultsChan {
		results = append(results, result)
		completed++
		if onProgress != nil {
			onProgress(completed, len(tasks))
		}
	}

	return results
}
