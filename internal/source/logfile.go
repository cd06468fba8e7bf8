package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/record"
)

// defaultLogLimit bounds how many trailing lines a log source exposes.
const defaultLogLimit = 5000

// NewLog builds a log-file source tailing the last limit lines of path.
func NewLog(path string, limit int) Source {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	t := &tailer{path: path, limit: limit}
	return Source{
		Name:            "log " + path,
		Fetch:           t.fetch,
		SignatureFields: []string{"line", "level"},
		Columns:         []string{"n", "level", "line"},
		SortKeys:        []string{"n", "level"},
	}
}

// tailer re-reads a log file on every fetch and keeps the trailing window.
//
// Line identity must be stable across fetches or every refresh would rebuild
// every visible row: a line's record ID is minted once, the first time that
// absolute line number is seen, and reused for as long as the line stays in
// the window. IDs are ULIDs so they stay unique across the truncation resets
// a rotated file forces.
type tailer struct {
	path  string
	limit int

	mu      sync.Mutex
	ids     map[int]string // absolute line number -> record ID
	total   int            // line count at last fetch, for rotation detection
	entropy *rand.Rand
}

func (t *tailer) fetch(ctx context.Context, _ plover.Query) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, total, err := readTail(t.path, t.limit)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if total < t.total {
		// File shrank: rotation or truncation. Old line numbers no
		// longer name the same content.
		t.ids = nil
	}
	t.total = total
	if t.ids == nil {
		t.ids = make(map[int]string)
	}
	if t.entropy == nil {
		t.entropy = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	first := total - len(lines)
	records := make([]record.Record, len(lines))
	for i, line := range lines {
		n := first + i
		id, ok := t.ids[n]
		if !ok {
			id = ulid.MustNew(ulid.Timestamp(time.Now()), t.entropy).String()
			t.ids[n] = id
		}
		records[i] = record.Record{
			ID: id,
			Fields: map[string]any{
				"n":     n + 1,
				"line":  line,
				"level": lineLevel(line),
			},
		}
	}

	// Prune ids that scrolled out of the window.
	for n := range t.ids {
		if n < first {
			delete(t.ids, n)
		}
	}
	return records, nil
}

// readTail returns at most limit lines from the end of the file plus the
// total line count. A missing file is an empty log, not an error: tailing a
// log that has not been written yet is routine.
func readTail(path string, limit int) ([]string, int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, limit)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	total := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, total, nil
}

// lineLevel extracts a coarse severity from a log line.
func lineLevel(line string) string {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "ERROR"), strings.Contains(upper, "FATAL"):
		return "error"
	case strings.Contains(upper, "WARN"):
		return "warn"
	case strings.Contains(upper, "DEBUG"):
		return "debug"
	default:
		return "info"
	}
}
