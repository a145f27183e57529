package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"chronos/internal/core/model"

	"github.com/rs/zerolog"
)

// ErrNoLogDir is reported when no journal directory is configured.
var ErrNoLogDir = errors.New("no log directory set")

const dateLayout = "2006-01-02"

// Config contains runtime options for the Writer.
type Config struct {
	// Dir returns the journal directory at save time.
	Dir    func() string
	Now    func() time.Time
	Logger *zerolog.Logger
}

// Writer appends reflections to daily JSONL and Markdown files.
type Writer struct {
	dir    func() string
	now    func() time.Time
	logger zerolog.Logger

	mu sync.Mutex
}

// New creates a Writer.
func New(config Config) *Writer {
	if config.Dir == nil {
		config.Dir = func() string { return "" }
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "journal").Logger()
	}
	return &Writer{dir: config.Dir, now: config.Now, logger: logger}
}

type jsonEntry struct {
	Timestamp     string         `json:"timestamp"`
	Session       string         `json:"session,omitempty"`
	Phase         string         `json:"phase"`
	DurationMin   durationMin    `json:"durationMin"`
	VirtueRatings map[string]int `json:"virtueRatings"`
	Task          string         `json:"task"`
	Notes         string         `json:"notes"`
}

type durationMin struct {
	Work float64 `json:"work"`
	Rest float64 `json:"rest"`
}

// SaveReflection writes entry to today's files. Failures are reported in
// the result, never returned.
func (writer *Writer) SaveReflection(entry model.Reflection) model.SaveResult {
	path, err := writer.save(entry.Clean())
	if err != nil {
		writer.logger.Warn().Err(err).Msg("reflection save failed")
		return model.SaveResult{Success: false, Error: err.Error()}
	}
	writer.logger.Info().Str("path", path).Msg("reflection saved")
	return model.SaveResult{Success: true, Path: path}
}

func (writer *Writer) save(entry model.Reflection) (string, error) {
	dir := strings.TrimSpace(writer.dir())
	if dir == "" {
		return "", ErrNoLogDir
	}

	writer.mu.Lock()
	defer writer.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}

	now := writer.now()
	date := now.Format(dateLayout)

	line, err := json.Marshal(jsonEntry{
		Timestamp:     now.UTC().Format(time.RFC3339Nano),
		Session:       entry.SessionID,
		Phase:         model.PhaseReflect.String(),
		DurationMin:   durationMin{Work: entry.WorkMinutes, Rest: entry.RestMinutes},
		VirtueRatings: entry.VirtueRatings,
		Task:          entry.Task,
		Notes:         entry.Notes,
	})
	if err != nil {
		return "", fmt.Errorf("encode reflection: %w", err)
	}
	jsonlPath := filepath.Join(dir, date+".jsonl")
	size, existed, err := fileSize(jsonlPath)
	if err != nil {
		return "", err
	}
	if err := appendFile(jsonlPath, append(line, '\n')); err != nil {
		return "", err
	}

	markdownPath := filepath.Join(dir, date+".md")
	var builder strings.Builder
	if _, err := os.Stat(markdownPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(&builder, "# Reflections · %s\n\n", date)
	}
	writeMarkdown(&builder, entry, now)
	if err := appendFile(markdownPath, []byte(builder.String())); err != nil {
		writer.rollback(jsonlPath, size, existed)
		return "", err
	}
	return markdownPath, nil
}

// rollback drops the JSON line of an entry whose Markdown write failed, so
// both files hold the same sessions.
func (writer *Writer) rollback(path string, size int64, existed bool) {
	var err error
	if existed {
		err = os.Truncate(path, size)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		writer.logger.Warn().Err(err).Str("path", path).Msg("journal line not rolled back")
	}
}

func fileSize(path string) (int64, bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	return info.Size(), true, nil
}

func writeMarkdown(builder *strings.Builder, entry model.Reflection, now time.Time) {
	fmt.Fprintf(builder, "## Session at %s\n\n", now.Format("03:04 PM"))
	builder.WriteString("| Field | Value |\n|-------|-------|\n")
	fmt.Fprintf(builder, "| Duration | %s min work · %s min rest |\n",
		model.FormatMinutes(entry.WorkMinutes), model.FormatMinutes(entry.RestMinutes))
	if rated := ratedVirtues(entry.VirtueRatings); len(rated) > 0 {
		fmt.Fprintf(builder, "| Virtues | %s |\n", strings.Join(rated, ", "))
	}
	builder.WriteString("\n")

	if entry.Task != "" {
		fmt.Fprintf(builder, "### What I worked on\n\n%s\n\n", entry.Task)
	}
	if entry.Notes != "" {
		fmt.Fprintf(builder, "### Notes & reflections\n\n%s\n\n", entry.Notes)
	}
	builder.WriteString("---\n\n")
}

// ratedVirtues lists positive ratings, known virtues first in display order.
func ratedVirtues(ratings map[string]int) []string {
	known := make(map[string]bool, len(model.VirtueKeys))
	var rated []string
	for _, key := range model.VirtueKeys {
		known[key] = true
		if value := ratings[key]; value > 0 {
			rated = append(rated, fmt.Sprintf("%s: %d/%d", model.VirtueName(key), value, model.MaxVirtueRating))
		}
	}

	var extra []string
	for key, value := range ratings {
		if !known[key] && value > 0 {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		rated = append(rated, fmt.Sprintf("%s: %d/%d", key, ratings[key], model.MaxVirtueRating))
	}
	return rated
}

func appendFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("append %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
