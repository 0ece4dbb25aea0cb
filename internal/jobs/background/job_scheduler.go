package background

import (
	"context"
	"log"
	"sync"
	"time"

	"consultly/internal/models"
	"consultly/internal/repositories"
	"consultly/internal/tenantdb"

	"github.com/go-co-op/gocron/v2"
)

const (
	scanTenantBatch   = 1000
	scanReminderBatch = 100
	scanConcurrency   = 5
)

// JobScheduler runs the periodic per-tenant scans. Each cycle walks every
// tenant; one tenant's failure never aborts the rest of the cycle.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	tenantRepo repositories.TenantRepository
	resolver   *tenantdb.Resolver
	interval   time.Duration
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a scheduler with the task-reminder scan
// registered at the given interval.
func NewJobScheduler(tenantRepo repositories.TenantRepository, resolver *tenantdb.Resolver, interval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		tenantRepo: tenantRepo,
		resolver:   resolver,
		interval:   interval,
		jobs:       make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	reminderJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.ScanTenantReminders, context.Background()),
		gocron.WithName("tenant-task-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.mu.Lock()
	js.jobs["task-reminders"] = reminderJob
	js.mu.Unlock()

	log.Printf("Registered %d background jobs", 1)
	return nil
}

// ScanTenantReminders walks all active tenants and flags overdue open
// tasks. A tenant that is still provisioning simply skips this cycle.
func (js *JobScheduler) ScanTenantReminders(ctx context.Context) error {
	tenants, err := js.tenantRepo.List(ctx, scanTenantBatch, 0)
	if err != nil {
		log.Printf("Failed to list tenants for reminder scan: %v", err)
		return err
	}

	semaphore := make(chan struct{}, scanConcurrency)
	var wg sync.WaitGroup

	for _, tenant := range tenants {
		if tenant.Status == "deleted" {
			continue
		}

		wg.Add(1)
		go func(tenant *models.Tenant) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			js.scanTenant(ctx, tenant)
		}(tenant)
	}

	wg.Wait()
	log.Printf("Completed reminder scan for %d tenants", len(tenants))
	return nil
}

func (js *JobScheduler) scanTenant(ctx context.Context, tenant *models.Tenant) {
	cfg, err := tenant.Config()
	if err != nil {
		log.Printf("Skipping tenant %s with invalid config: %v", tenant.ID, err)
		return
	}

	handle, err := js.resolver.HandleFor(ctx, cfg)
	if err != nil {
		log.Printf("Failed to resolve handle for tenant %s: %v", tenant.ID, err)
		return
	}

	taskRepo := repositories.NewTaskRepo(handle)
	due, err := taskRepo.ListDueReminders(ctx, time.Now(), scanReminderBatch)
	if err != nil {
		if tenantdb.IsNotReady(err) {
			// Expected while the tenant is mid-provisioning; retry next
			// cycle without alarm noise.
			log.Printf("DEBUG: tenant %s not ready yet, skipping this cycle", tenant.ID)
			return
		}
		log.Printf("Failed to list due tasks for tenant %s: %v", tenant.ID, err)
		return
	}

	for _, task := range due {
		// Reminder delivery itself is an external collaborator; here we
		// only mark the task so it is not picked up again.
		if err := taskRepo.MarkReminderSent(ctx, task.ID); err != nil {
			log.Printf("Failed to mark reminder for task %s (tenant %s): %v", task.ID, tenant.ID, err)
			continue
		}
		log.Printf("Reminder queued for task %s (tenant %s)", task.ID, tenant.ID)
	}
}
