// Package export persists analysis results as a zstd-compressed JSONL
// journal, one file per trading day. The journal is the on-disk form of the
// stable export contract that dashboards and schedulers read.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/gex"
)

// Journal appends analysis exports to a per-day compressed file. Safe for
// concurrent use.
type Journal struct {
	mu      sync.Mutex
	dir     string
	day     string
	file    *os.File
	encoder *zstd.Encoder
	logger  *zap.Logger
}

func NewJournal(dir string, logger *zap.Logger) (*Journal, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Journal{dir: dir, encoder: encoder, logger: logger}, nil
}

// Append writes one result export as a JSON line. Each line is compressed
// as its own complete frame so readers can consume the journal while the
// day is still open. The journal rolls to a new file when the UTC day
// changes.
func (j *Journal) Append(result *gex.AnalysisResult) error {
	line, err := json.Marshal(result.Export())
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	day := result.ComputedAt.UTC().Format("2006-01-02")
	if err := j.rollLocked(day); err != nil {
		return err
	}

	frame := j.encoder.EncodeAll(append(line, '\n'), nil)
	if _, err := j.file.Write(frame); err != nil {
		return fmt.Errorf("writing journal line: %w", err)
	}

	j.logger.Debug("journal appended",
		zap.String("symbol", result.Symbol),
		zap.String("day", day),
	)
	return nil
}

func (j *Journal) rollLocked(day string) error {
	if j.file != nil && j.day == day {
		return nil
	}
	if err := j.closeFileLocked(); err != nil {
		return err
	}

	path := filepath.Join(j.dir, fmt.Sprintf("gex_%s.jsonl.zst", day))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("opening journal file: %w", err)
	}

	j.day = day
	j.file = file
	return nil
}

// Close closes the current journal file and releases the encoder.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.closeFileLocked(); err != nil {
		return err
	}
	if j.encoder != nil {
		j.encoder.Close()
		j.encoder = nil
	}
	return nil
}

func (j *Journal) closeFileLocked() error {
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// ReadDay decodes every export line from one day's journal file. The zstd
// reader decodes the concatenated per-line frames transparently.
func ReadDay(dir, day string) ([]gex.Export, error) {
	path := filepath.Join(dir, fmt.Sprintf("gex_%s.jsonl.zst", day))
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	var exports []gex.Export
	scanner := bufio.NewScanner(decoder)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var exp gex.Export
		if err := json.Unmarshal(scanner.Bytes(), &exp); err != nil {
			return nil, fmt.Errorf("decoding journal line: %w", err)
		}
		exports = append(exports, exp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning journal: %w", err)
	}

	return exports, nil
}

// DayOf formats a timestamp as the journal's day key.
func DayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
