package gemini

import (
	"context"

	"example/imagebatch/internal/model"

	"google.golang.org/genai"
)

// Batches exposes the Batch API in terms of model.Job.
type Batches struct {
	client *genai.Client
}

func NewBatches(client *genai.Client) *Batches {
	return &Batches{client: client}
}

func (b *Batches) Create(ctx context.Context, modelName, srcFile, displayName string) (*model.Job, error) {
	job, err := b.client.Batches.Create(ctx, modelName,
		&genai.BatchJobSource{FileName: srcFile},
		&genai.CreateBatchJobConfig{DisplayName: displayName},
	)
	if err != nil {
		return nil, err
	}
	return toJob(job), nil
}

func (b *Batches) Get(ctx context.Context, name string) (*model.Job, error) {
	job, err := b.client.Batches.Get(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return toJob(job), nil
}

func (b *Batches) List(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	for job, err := range b.client.Batches.All(ctx) {
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *toJob(job))
	}
	return jobs, nil
}

func (b *Batches) Cancel(ctx context.Context, name string) error {
	return b.client.Batches.Cancel(ctx, name, nil)
}

func (b *Batches) Delete(ctx context.Context, name string) error {
	_, err := b.client.Batches.Delete(ctx, name, nil)
	return err
}

func toJob(job *genai.BatchJob) *model.Job {
	j := &model.Job{
		Name:        job.Name,
		DisplayName: job.DisplayName,
		State:       model.JobState(job.State),
		CreateTime:  job.CreateTime,
	}
	if job.Error != nil {
		j.Error = job.Error.Message
	}
	if job.Dest != nil {
		j.ResultFile = job.Dest.FileName
	}
	return j
}
