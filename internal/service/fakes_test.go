package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"example/imagebatch/internal/model"
	"example/imagebatch/internal/report"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func newTestPrinter() (*report.Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return report.NewWithProfile(&buf, termenv.Ascii), &buf
}

type fakeFiles struct {
	mu        sync.Mutex
	next      int
	files     map[string]*model.StoredFile
	uploaded  []string
	uploadErr map[string]error
	// polls is how many Get calls a file stays PROCESSING, by base name.
	polls      map[string]int
	finalState map[string]model.FileState
	downloads  map[string][]byte
	deleteErr  map[string]error
	deleted    []string
	listErr    error

	delay       time.Duration
	inFlight    int32
	maxInFlight int32
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{
		files:      make(map[string]*model.StoredFile),
		uploadErr:  make(map[string]error),
		polls:      make(map[string]int),
		finalState: make(map[string]model.FileState),
		downloads:  make(map[string][]byte),
		deleteErr:  make(map[string]error),
	}
}

func (f *fakeFiles) Upload(ctx context.Context, path, mimeType, displayName string) (*model.StoredFile, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&f.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&f.maxInFlight, peak, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	base := filepath.Base(path)
	f.uploaded = append(f.uploaded, path)
	if err := f.uploadErr[base]; err != nil {
		return nil, err
	}
	f.next++
	sf := &model.StoredFile{
		Name:        fmt.Sprintf("files/%d", f.next),
		DisplayName: displayName,
		URI:         fmt.Sprintf("https://files.example/%d", f.next),
		MIMEType:    mimeType,
		SizeBytes:   1024,
		State:       model.FileStateActive,
	}
	if f.polls[base] > 0 {
		sf.State = model.FileStateProcessing
	} else if s, ok := f.finalState[base]; ok {
		sf.State = s
	}
	f.files[sf.Name] = sf
	cp := *sf
	return &cp, nil
}

func (f *fakeFiles) Get(ctx context.Context, name string) (*model.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sf, ok := f.files[name]
	if !ok {
		return nil, errors.New("NOT_FOUND")
	}
	if sf.State == model.FileStateProcessing {
		f.polls[sf.DisplayName]--
		if f.polls[sf.DisplayName] <= 0 {
			sf.State = model.FileStateActive
			if s, ok := f.finalState[sf.DisplayName]; ok {
				sf.State = s
			}
		}
	}
	cp := *sf
	return &cp, nil
}

func (f *fakeFiles) List(ctx context.Context) ([]model.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.StoredFile
	for i := 1; i <= f.next; i++ {
		if sf, ok := f.files[fmt.Sprintf("files/%d", i)]; ok {
			out = append(out, *sf)
		}
	}
	return out, nil
}

func (f *fakeFiles) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[name]; err != nil {
		return err
	}
	delete(f.files, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeFiles) Download(ctx context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.downloads[name]
	if !ok {
		return nil, errors.New("NOT_FOUND")
	}
	return data, nil
}

type createCall struct {
	Model, Src, DisplayName string
}

type fakeBatches struct {
	mu        sync.Mutex
	jobs      []model.Job
	created   []createCall
	createErr error
	listErr   error
	// states is returned in order by successive Get calls.
	states    []model.JobState
	cancelErr map[string]error
	deleteErr map[string]error
	cancelled []string
	deleted   []string
}

func newFakeBatches(jobs ...model.Job) *fakeBatches {
	return &fakeBatches{
		jobs:      jobs,
		cancelErr: make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (b *fakeBatches) Create(ctx context.Context, modelName, srcFile, displayName string) (*model.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.created = append(b.created, createCall{modelName, srcFile, displayName})
	job := model.Job{
		Name:        fmt.Sprintf("batches/job%d", len(b.created)),
		DisplayName: displayName,
		State:       model.JobStatePending,
	}
	b.jobs = append(b.jobs, job)
	return &job, nil
}

func (b *fakeBatches) Get(ctx context.Context, name string) (*model.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	job := model.Job{Name: name}
	if len(b.states) > 0 {
		job.State = b.states[0]
		if len(b.states) > 1 {
			b.states = b.states[1:]
		}
	}
	return &job, nil
}

func (b *fakeBatches) List(ctx context.Context) ([]model.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	return append([]model.Job(nil), b.jobs...), nil
}

func (b *fakeBatches) Cancel(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.cancelErr[name]; err != nil {
		return err
	}
	b.cancelled = append(b.cancelled, name)
	return nil
}

func (b *fakeBatches) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.deleteErr[name]; err != nil {
		return err
	}
	b.deleted = append(b.deleted, name)
	return nil
}

// scriptedAsker answers questions in order.
type scriptedAsker struct {
	answers []string
	asked   []string
}

func (a *scriptedAsker) Ask(q string) string {
	a.asked = append(a.asked, q)
	if len(a.answers) == 0 {
		return ""
	}
	ans := a.answers[0]
	a.answers = a.answers[1:]
	return ans
}

func (a *scriptedAsker) Confirm(q string) bool {
	ans := a.Ask(q)
	return ans == "y" || ans == "yes"
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("img:"+n), 0o644))
	}
}
