package outreach

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// LocalSender writes each email as a message file into an outbox directory
// instead of delivering it. This is the default transport; real delivery is
// a drop-in Sender away.
type LocalSender struct {
	dir string
	now func() time.Time
}

type LocalSenderOption func(*LocalSender)

func WithLocalClock(now func() time.Time) LocalSenderOption {
	return func(s *LocalSender) {
		if now != nil {
			s.now = now
		}
	}
}

func NewLocalSender(dir string, opts ...LocalSenderOption) *LocalSender {
	s := &LocalSender{dir: dir, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *LocalSender) Send(_ context.Context, email Email) error {
	if strings.TrimSpace(email.To) == "" {
		return fmt.Errorf("%w: email recipient is empty", contractx.ErrValidation)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create outbox: %v", contractx.ErrIO, err)
	}

	ts := s.now().UTC()
	name := fmt.Sprintf("%s_%s.eml", ts.Format("20060102T150405"), sanitize(email.To))
	path := filepath.Join(s.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\n", email.Subject)
	fmt.Fprintf(&b, "Date: %s\n\n", ts.Format(time.RFC1123Z))
	b.WriteString(email.Body)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: write outbox message: %v", contractx.ErrIO, err)
	}

	log.Info().Str("to", email.To).Str("path", path).Msg("outreach: email written to outbox")
	return nil
}

// sanitize keeps the recipient address filesystem-safe.
func sanitize(addr string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, addr)
}
