package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"spendflix/internal/shared/logging"
)

var (
	log                = logging.ForModule("jobs")
	jobTracer          = otel.Tracer("spendflix/jobs")
	jobMeter           = otel.Meter("spendflix/jobs")
	jobDuration, _     = jobMeter.Float64Histogram("jobs.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("jobs.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("jobs.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

// Job is a unit of background work tied to one uploaded source.
type Job interface {
	SourceID() string
	Description() string
	Execute(ctx context.Context) error
}

// WorkerPool runs background jobs on a fixed set of workers fed by a bounded
// queue. Uploads stay fast because row processing happens here, after the
// HTTP response.
type WorkerPool struct {
	workerCount int
	jobTimeout  time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewWorkerPool(workerCount, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobTimeout:  10 * time.Minute,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	log.WithField("workers", wp.workerCount).Info("starting worker pool")

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(wp.ctx, wp.jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.source_id", job.SourceID()),
		),
	)
	defer span.End()

	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds())
		log.WithFields(map[string]interface{}{
			"worker":    workerID,
			"job":       job.Description(),
			"source_id": job.SourceID(),
		}).WithError(err).Error("job failed")
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds())
	log.WithFields(map[string]interface{}{
		"worker":    workerID,
		"job":       job.Description(),
		"source_id": job.SourceID(),
		"duration":  time.Since(start).String(),
	}).Info("job completed")
}

// Submit enqueues a job without blocking. A full queue drops the job and
// returns an error so the caller can surface it; the source stays PENDING
// and can be re-triggered.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		log.WithField("source_id", job.SourceID()).Warn("job queue full, dropping job")
		return fmt.Errorf("job queue full, dropping job for source %s", job.SourceID())
	}
}

// Shutdown stops accepting jobs, waits for in-flight work up to the timeout,
// then cancels whatever is still running.
func (wp *WorkerPool) Shutdown(timeout time.Duration) {
	log.Info("worker pool shutting down")

	close(wp.jobs)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("worker pool drained")
	case <-time.After(timeout):
		log.Warn("worker pool shutdown timeout, cancelling in-flight jobs")
		wp.cancel()
		<-done
	}
}
