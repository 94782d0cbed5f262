package workers

// Workers starts a fixed set of background workers in registration order.
type Workers struct {
	workers []Worker
}

func NewWorkers(list ...Worker) *Workers {
	return &Workers{workers: list}
}

// Run starts every registered worker. Workers that have nothing to do yet
// (for example the sync job before an identity is set) simply return.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		if worker == nil {
			continue
		}
		worker.Run()
	}
}
