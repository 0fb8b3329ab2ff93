// Package llmlog keeps an append-only JSONL record of every successful LLM
// interaction. Records are immutable once written.
package llmlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

type Record struct {
	Time            string         `json:"timestamp"`
	Provider        string         `json:"provider"`
	Model           string         `json:"model"`
	InteractionKind string         `json:"interaction_kind"`
	Input           any            `json:"input"`
	Output          any            `json:"output"`
	Usage           map[string]int `json:"usage,omitempty"`
}

func logDir() string {
	if v := os.Getenv("LLM_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	d := t.In(time.FixedZone("IST", 19800)).Format("2006-01-02")
	return filepath.Join(logDir(), "llm", d+".jsonl")
}

// Append writes one record to the current day's log file, stamping it with
// the write time.
func Append(r Record) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().In(time.FixedZone("IST", 19800))
	r.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(r)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzip-compresses log files older than retentionDays and
// removes the originals. A non-positive retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e := os.Stat(gz); e == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e := os.Open(p)
		if e != nil {
			return nil
		}
		defer in.Close()

		out, e := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e := io.Copy(gw, in); e == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
