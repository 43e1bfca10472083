package async

import (
	"context"
	"sync"
)

// Task is a named unit of work executed by the pool.
type Task struct {
	Name    string
	Execute func(ctx context.Context) (interface{}, error)
}

// Result pairs a task name with its outcome.
type Result struct {
	Name string
	Data interface{}
	Err  error
}

// Pool runs independent tasks over a bounded number of workers.
type Pool struct {
	workerCount int
}

func NewPool(workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{workerCount: workerCount}
}

// Execute runs all tasks and returns their results keyed by name. If the
// context is cancelled before every task finishes, the partial results are
// discarded and ctx.Err() is returned.
func (p *Pool) Execute(ctx context.Context, tasks []Task) (map[string]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	taskCh := make(chan Task)
	resultCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case task, ok := <-taskCh:
					if !ok {
						return
					}
					data, err := task.Execute(ctx)
					resultCh <- Result{Name: task.Name, Data: data, Err: err}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make(map[string]Result, len(tasks))
	for i := 0; i < len(tasks); i++ {
		select {
		case result := <-resultCh:
			results[result.Name] = result
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
