package report

import (
	"bytes"
	"sync"
	"testing"

	"example/imagebatch/internal/model"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestPrinter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithProfile(&buf, termenv.Ascii)

	p.Printf("Job ID: %s\n", "batches/1")
	p.Warnf("careful %d", 1)
	p.Rule(5)
	p.Println(p.State(model.JobStateRunning))

	require.Equal(t, "Job ID: batches/1\ncareful 1\n-----\nJOB_STATE_RUNNING\n", buf.String())
}

func TestPrinter_ColouredState(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithProfile(&buf, termenv.ANSI256)

	running := p.State(model.JobStateRunning)
	require.Contains(t, running, "JOB_STATE_RUNNING")
	require.Contains(t, running, "\x1b[")
	require.Equal(t, "JOB_STATE_PAUSED", p.State(model.JobStatePaused))
}

func TestPrinter_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithProfile(&buf, termenv.Ascii)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Println("line")
		}()
	}
	wg.Wait()
	require.Equal(t, 20, bytes.Count(buf.Bytes(), []byte("line\n")))
}
