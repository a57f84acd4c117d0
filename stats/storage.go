package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MonthlyStats represents usage counters for a specific month.
type MonthlyStats struct {
	Audits      int       `json:"audits"`
	AuditErrors int       `json:"audit_errors"`
	Comparisons int       `json:"comparisons"`
	CacheHits   int       `json:"cache_hits"`
	CacheMisses int       `json:"cache_misses"`
	LastUpdated time.Time `json:"last_updated"`
}

// Storage handles persistent storage of usage statistics.
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// NewStorage creates a new statistics storage instance backed by a JSON
// file under dataDir.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes statistics to file via an atomic temp-file rename.
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter handles periodic and requested writes to disk.
func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			return
		}
	}
}

func getCurrentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// Write already pending.
	}
}

func (s *Storage) increment(apply func(*MonthlyStats)) {
	month := getCurrentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	monthly, exists := s.stats[month]
	if !exists {
		monthly = &MonthlyStats{}
		s.stats[month] = monthly
	}

	apply(monthly)
	monthly.LastUpdated = time.Now()

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// TrackAudit records a completed page audit.
func (s *Storage) TrackAudit(failed bool) {
	s.increment(func(m *MonthlyStats) {
		m.Audits++
		if failed {
			m.AuditErrors++
		}
	})
}

// TrackComparison records a completed comparison.
func (s *Storage) TrackComparison() {
	s.increment(func(m *MonthlyStats) { m.Comparisons++ })
}

// TrackCache records an audit-cache hit or miss.
func (s *Storage) TrackCache(hit bool) {
	s.increment(func(m *MonthlyStats) {
		if hit {
			m.CacheHits++
		} else {
			m.CacheMisses++
		}
	})
}

// GetCurrentStats returns statistics for the current month.
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := getCurrentMonth()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[month]; exists {
		return *monthly
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[yearMonth]; exists {
		return *monthly, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns a sorted list of all months that have statistics,
// newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Cleanup keeps only the current and previous month.
func (s *Storage) Cleanup() {
	now := time.Now()
	currentMonth := now.Format("2006-01")
	previousMonth := now.AddDate(0, -1, 0).Format("2006-01")

	s.mutex.Lock()
	for key := range s.stats {
		if key != currentMonth && key != previousMonth {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
}

// Shutdown stops the background writer after a final save.
func (s *Storage) Shutdown() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.save()
	})
	return err
}
