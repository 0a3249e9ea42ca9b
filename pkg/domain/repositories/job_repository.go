package repositories

import "github.com/vsinha/garmentmrp/pkg/domain/entities"

// JobRepository provides access to job batches. Implementations return
// copies; changes take effect only through Save.
type JobRepository interface {
	GetJob(id string) (*entities.JobBatch, error)
	GetAllJobs() ([]*entities.JobBatch, error)
	SaveJob(job *entities.JobBatch) error
	// SaveJobs commits several jobs at once; either all are stored or none
	SaveJobs(jobs []*entities.JobBatch) error
	DeleteJob(id string) error

	// FindRequest locates a purchasing request across all jobs
	FindRequest(requestID string) (*entities.JobBatch, *entities.PurchasingRequest, error)
}
