package stats

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexivanou/geocity-weather/internal/config"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time      `json:"timestamp"`
	Suggest   SuggestStats   `json:"suggest"`
	Memory    MemoryStats    `json:"memory"`
	Database  *DatabaseStats `json:"database,omitempty"`
	Runtime   RuntimeStats   `json:"runtime"`
}

type SuggestStats struct {
	Source         string `json:"source"`
	ActiveSessions int64  `json:"active_sessions"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// Collector gathers runtime figures and, when a city catalog is attached,
// its table statistics. db may be nil.
type Collector struct {
	db        *sqlx.DB
	config    config.DBConfig
	source    string
	startTime time.Time
	sessions  atomic.Int64

	cacheMutex sync.RWMutex
	cachedMem  *MemoryStats
	cacheTime  time.Time
}

var (
	memStatsCacheDuration = 5 * time.Second
	catalogTables         = []string{"countries", "cities"}
)

func NewCollector(db *sqlx.DB, cfg config.DBConfig, source string) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		source:    source,
		startTime: time.Now(),
	}
}

// SessionOpened and SessionClosed track live interactive sessions
func (c *Collector) SessionOpened() { c.sessions.Add(1) }
func (c *Collector) SessionClosed() { c.sessions.Add(-1) }

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
		Suggest: SuggestStats{
			Source:         c.source,
			ActiveSessions: c.sessions.Load(),
		},
		Memory:  c.collectMemoryStats(),
		Runtime: c.collectRuntimeStats(),
	}

	if c.db != nil {
		dbStats, err := c.collectDatabaseStats(ctx)
		if err != nil {
			return nil, err
		}
		stats.Database = dbStats
	}

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Type:       string(c.config.Type),
		TableStats: []TableStat{},
	}

	if size, err := c.databaseSize(ctx); err == nil {
		stats.SizeBytes = size
	}

	for _, table := range catalogTables {
		stat, err := c.tableStat(ctx, table)
		if err != nil {
			continue
		}
		stats.TableStats = append(stats.TableStats, *stat)
		stats.TotalRecords += stat.RowCount
	}

	return stats, nil
}

func (c *Collector) databaseSize(ctx context.Context) (int64, error) {
	query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	if c.config.Type == config.DBTypePostgreSQL {
		query = "SELECT pg_database_size(current_database())"
	}

	var size int64
	if err := c.db.GetContext(ctx, &size, query); err != nil {
		return 0, err
	}
	return size, nil
}

func (c *Collector) tableStat(ctx context.Context, tableName string) (*TableStat, error) {
	stat := &TableStat{Name: tableName}

	if err := c.db.GetContext(ctx, &stat.RowCount, "SELECT COUNT(*) FROM "+tableName); err != nil {
		return nil, err
	}

	if c.config.Type == config.DBTypePostgreSQL {
		_ = c.db.GetContext(ctx, &stat.SizeBytes, `SELECT COALESCE(pg_total_relation_size($1::regclass), 0)`, tableName)
	}

	return stat, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
	}
}
