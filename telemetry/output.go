package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/airship/config"
)

// csvLog is an output file that receives a header with its first batch of records.
type csvLog struct {
	name          string
	file          *os.File
	headerWritten bool
}

func createCSVLog(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{name: name, file: f}, nil
}

// write appends records, which must be a slice of csv-tagged structs.
func (l *csvLog) write(records any) error {
	if !l.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, l.file); err != nil {
			return fmt.Errorf("writing %s: %w", l.name, err)
		}
		l.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.file); err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	return nil
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	flight    *csvLog
	stats     *csvLog
	perf      *csvLog
	arrivals  *csvLog
	bookmarks *csvLog
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	logs := []struct {
		dst  **csvLog
		name string
	}{
		{&om.flight, "flight.csv"},
		{&om.stats, "stats.csv"},
		{&om.perf, "perf.csv"},
		{&om.arrivals, "arrivals.csv"},
		{&om.bookmarks, "bookmarks.csv"},
	}
	for _, l := range logs {
		f, err := createCSVLog(dir, l.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*l.dst = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFlight writes per-craft samples to flight.csv.
func (om *OutputManager) WriteFlight(samples []FlightSample) error {
	if om == nil || len(samples) == 0 {
		return nil
	}
	return om.flight.write(samples)
}

// WriteStats writes a window stats record to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.stats.write([]WindowStats{stats})
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteArrival writes an arrival record to arrivals.csv.
func (om *OutputManager) WriteArrival(e ArrivalEvent) error {
	if om == nil {
		return nil
	}
	return om.arrivals.write([]ArrivalEvent{e})
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write([]Bookmark{b})
}

// WriteFlightLogs saves the per-craft summary as crafts.csv.
func (om *OutputManager) WriteFlightLogs(logs []FlightLog) error {
	if om == nil || len(logs) == 0 {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "crafts.csv"))
	if err != nil {
		return fmt.Errorf("creating crafts.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(logs, f); err != nil {
		return fmt.Errorf("writing crafts.csv: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var errs []error
	for _, l := range []*csvLog{om.flight, om.stats, om.perf, om.arrivals, om.bookmarks} {
		if l == nil {
			continue
		}
		if err := l.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", l.name, err))
		}
	}
	return errors.Join(errs...)
}
