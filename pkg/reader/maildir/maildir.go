// Package maildir implements a Reader that picks up bank notification
// emails dropped into a spool directory as .eml files.
package maildir

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/budgetmail/budgetmail/pkg/api"
)

const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Reader reads raw emails from a spool directory.
type Reader struct {
	dir      string
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]string // email ID -> spool file path
}

// Config holds configuration for the maildir reader.
type Config struct {
	// Dir is the spool directory to watch for .eml files.
	Dir string
	// Interval between directory scans. Defaults to 30 seconds.
	Interval time.Duration
}

// New creates a new maildir reader. The processed and failed subdirectories
// are created if they do not exist.
func New(cfg Config, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = 30 * time.Second
	}

	for _, sub := range []string{processedDir, failedDir} {
		if err := os.MkdirAll(filepath.Join(cfg.Dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", sub, err)
		}
	}

	return &Reader{
		dir:      cfg.Dir,
		interval: interval,
		logger:   logger,
		pending:  make(map[string]string),
	}, nil
}

// Read continuously scans the spool directory and sends parsed emails to the
// output channel. It runs until the context is canceled.
// Spool files are only moved to processed/ after receiving acknowledgment
// via ackChan, so an email that fails downstream is picked up again on a
// later run.
func (r *Reader) Read(ctx context.Context, out chan<- *api.RawEmail, ackChan <-chan string) error {
	defer close(out)

	go r.handleAcknowledgments(ctx, ackChan)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Run immediately on start
	r.scan(ctx, out)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("maildir reader stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			r.scan(ctx, out)
		}
	}
}

// handleAcknowledgments moves spool files to processed/ when the email has
// been successfully ingested.
func (r *Reader) handleAcknowledgments(ctx context.Context, ackChan <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case emailID, ok := <-ackChan:
			if !ok {
				r.logger.Info("acknowledgment channel closed")
				return
			}
			r.markProcessed(emailID)
		}
	}
}

func (r *Reader) markProcessed(emailID string) {
	r.mu.Lock()
	path, ok := r.pending[emailID]
	delete(r.pending, emailID)
	r.mu.Unlock()

	if !ok {
		r.logger.Warn("acknowledgment for unknown email", "email_id", emailID)
		return
	}

	dest := filepath.Join(r.dir, processedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		r.logger.Warn("failed to move processed email", "email_id", emailID, "error", err)
	} else {
		r.logger.Debug("moved email to processed", "email_id", emailID)
	}
}

func (r *Reader) scan(ctx context.Context, out chan<- *api.RawEmail) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		r.logger.Error("failed to read spool directory", "dir", r.dir, "error", err)
		return
	}

	r.logger.Debug("scanning spool", "dir", r.dir, "entries", len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".eml") {
			continue
		}

		path := filepath.Join(r.dir, entry.Name())
		if r.isPending(path) {
			// Already sent downstream, waiting on acknowledgment
			continue
		}

		email, err := ParseFile(path)
		if err != nil {
			r.logger.Warn("failed to parse email, quarantining", "file", entry.Name(), "error", err)
			r.quarantine(path)
			continue
		}

		r.mu.Lock()
		r.pending[email.ID] = path
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case out <- email:
			r.logger.Debug("spooled email", "email_id", email.ID, "subject", email.Subject)
		}
	}
}

func (r *Reader) isPending(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pending {
		if p == path {
			return true
		}
	}
	return false
}

func (r *Reader) quarantine(path string) {
	dest := filepath.Join(r.dir, failedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		r.logger.Error("failed to quarantine email", "file", path, "error", err)
	}
}

// ParseFile parses a single .eml file into a raw email. The email ID is the
// spool file name, which is stable across rescans.
func ParseFile(path string) (*api.RawEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening email file: %w", err)
	}
	defer f.Close()

	email, err := ParseEmail(f)
	if err != nil {
		return nil, err
	}
	email.ID = filepath.Base(path)
	return email, nil
}

// ParseEmail parses an RFC 5322 message, extracting the headers the
// extractor needs and the first text/plain body part.
func ParseEmail(raw io.Reader) (*api.RawEmail, error) {
	mr, err := mail.CreateReader(raw)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	email := &api.RawEmail{}

	header := mr.Header
	if date, err := header.Date(); err == nil {
		email.Date = date
	} else {
		email.Date = time.Now().UTC()
	}
	if subject, err := header.Subject(); err == nil {
		email.Subject = subject
	}
	if fromList, err := header.AddressList("From"); err == nil && len(fromList) > 0 {
		email.From = fromList[0].Address
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("reading message part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := h.ContentType()
		if err != nil {
			continue
		}
		if contentType == "text/plain" && email.Text == "" {
			body, err := io.ReadAll(p.Body)
			if err != nil {
				continue
			}
			email.Text = string(body)
		}
	}

	if email.Text == "" {
		return nil, fmt.Errorf("no text/plain body found")
	}

	return email, nil
}
