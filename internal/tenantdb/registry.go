package tenantdb

import (
	"context"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Tenant pools are deliberately smaller than the central pool, many of them
// may coexist in one process.
const (
	tenantPoolMaxConns       = 5
	tenantPoolMaxConnIdle    = 30 * time.Second
	tenantPoolConnectTimeout = 5 * time.Second
)

// Pool is the subset of *pgxpool.Pool the registry hands out.
type Pool interface {
	DB
	Ping(ctx context.Context) error
	Close()
}

// ConnRegistry is the process-wide cache of pooled connections keyed by
// physical database name. It is owned by the composition root and passed to
// every component that needs tenant handles; entries live until Close or
// CloseAll.
type ConnRegistry struct {
	baseURL string

	mu    sync.Mutex
	pools map[string]Pool

	// open is swapped out in tests.
	open func(ctx context.Context, dsn string) (Pool, error)
}

// NewConnRegistry builds a registry whose pools connect with the given base
// URL, substituting only the database path per tenant.
func NewConnRegistry(baseURL string) *ConnRegistry {
	return &ConnRegistry{
		baseURL: baseURL,
		pools:   make(map[string]Pool),
		open:    openTenantPool,
	}
}

// Get returns the cached pool for a database, opening it on first access.
// Creation is serialized under the registry lock so concurrent first
// accesses for the same name never leak a second pool.
func (r *ConnRegistry) Get(ctx context.Context, databaseName string) (Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pool, ok := r.pools[databaseName]; ok {
		return pool, nil
	}

	dsn, err := r.dsnFor(databaseName)
	if err != nil {
		return nil, &ConnectionError{DatabaseName: databaseName, Err: err}
	}

	pool, err := r.open(ctx, dsn)
	if err != nil {
		return nil, &ConnectionError{DatabaseName: databaseName, Err: err}
	}

	log.Printf("opened tenant pool for database %s", databaseName)
	r.pools[databaseName] = pool
	return pool, nil
}

// Close tears down a single cached pool. Used on tenant deletion and in
// test teardown; a miss is a no-op.
func (r *ConnRegistry) Close(databaseName string) {
	r.mu.Lock()
	pool, ok := r.pools[databaseName]
	delete(r.pools, databaseName)
	r.mu.Unlock()

	if ok {
		pool.Close()
		log.Printf("closed tenant pool for database %s", databaseName)
	}
}

// CloseAll drains the registry. Must run before process exit so tenant
// connections are not cut off mid-flight.
func (r *ConnRegistry) CloseAll() {
	r.mu.Lock()
	pools := r.pools
	r.pools = make(map[string]Pool)
	r.mu.Unlock()

	for name, pool := range pools {
		pool.Close()
		log.Printf("closed tenant pool for database %s", name)
	}
}

// Len reports how many pools are currently cached.
func (r *ConnRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

// dsnFor swaps the database path into the base connection URL, keeping
// credentials, host and options fixed.
func (r *ConnRegistry) dsnFor(databaseName string) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", err
	}
	u.Path = "/" + databaseName
	return u.String(), nil
}

func openTenantPool(ctx context.Context, dsn string) (Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = tenantPoolMaxConns
	cfg.MaxConnIdleTime = tenantPoolMaxConnIdle
	cfg.ConnConfig.ConnectTimeout = tenantPoolConnectTimeout

	return pgxpool.NewWithConfig(ctx, cfg)
}
