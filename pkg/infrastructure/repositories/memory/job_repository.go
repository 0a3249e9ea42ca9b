package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

// JobRepository provides in-memory job storage
type JobRepository struct {
	mu      sync.RWMutex
	jobs    []entities.JobBatch
	jobsMap map[string]int
}

// NewJobRepository creates a new in-memory job repository
func NewJobRepository(expectedJobs int) *JobRepository {
	return &JobRepository{
		jobs:    make([]entities.JobBatch, 0, expectedJobs),
		jobsMap: make(map[string]int, expectedJobs),
	}
}

// Verify interface compliance
var _ repositories.JobRepository = (*JobRepository)(nil)

// LoadJobs loads jobs into the repository
func (r *JobRepository) LoadJobs(jobs []*entities.JobBatch) error {
	return r.SaveJobs(jobs)
}

// GetJob returns a copy of the job
func (r *JobRepository) GetJob(id string) (*entities.JobBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.jobsMap[id]
	if !exists {
		return nil, fmt.Errorf("job %s: %w", id, shared.ErrNotFound)
	}
	return r.jobs[index].Clone(), nil
}

// GetAllJobs returns copies of all jobs in insertion order
func (r *JobRepository) GetAllJobs() ([]*entities.JobBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]*entities.JobBatch, 0, len(r.jobs))
	for i := range r.jobs {
		jobs = append(jobs, r.jobs[i].Clone())
	}
	return jobs, nil
}

// SaveJob inserts or replaces a job
func (r *JobRepository) SaveJob(job *entities.JobBatch) error {
	return r.SaveJobs([]*entities.JobBatch{job})
}

// SaveJobs inserts or replaces several jobs under one lock
func (r *JobRepository) SaveJobs(jobs []*entities.JobBatch) error {
	for _, job := range jobs {
		if job == nil || job.ID == "" {
			return fmt.Errorf("job id cannot be empty: %w", shared.ErrInvalidInput)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range jobs {
		stored := job.Clone()
		if index, exists := r.jobsMap[job.ID]; exists {
			r.jobs[index] = *stored
			continue
		}
		r.jobsMap[job.ID] = len(r.jobs)
		r.jobs = append(r.jobs, *stored)
	}
	return nil
}

// DeleteJob removes a job and reindexes the remaining ones
func (r *JobRepository) DeleteJob(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.jobsMap[id]
	if !exists {
		return fmt.Errorf("job %s: %w", id, shared.ErrNotFound)
	}
	r.jobs = append(r.jobs[:index], r.jobs[index+1:]...)
	delete(r.jobsMap, id)
	for i := index; i < len(r.jobs); i++ {
		r.jobsMap[r.jobs[i].ID] = i
	}
	return nil
}

// FindRequest locates a purchasing request across all jobs
func (r *JobRepository) FindRequest(requestID string) (*entities.JobBatch, *entities.PurchasingRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.jobs {
		if idx := r.jobs[i].FindRequest(requestID); idx >= 0 {
			job := r.jobs[i].Clone()
			return job, &job.PurchasingRequests[idx], nil
		}
	}
	return nil, nil, fmt.Errorf("purchasing request %s: %w", requestID, shared.ErrNotFound)
}
