package readfiles

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"time"

	"github.com/notargets/nekrea/mesh"
)

// Generator names this package in the provenance stamp.
const Generator = "nekrea"

// Option configures ReadRea and WriteRea.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	factory    mesh.ControllerFactory
	headers    *HeaderTable
	provenance *Provenance
	stamp      bool
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		factory: mesh.IdentityFactory{},
		headers: DefaultHeaders(),
		stamp:   true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithControllerFactory decorates every vertex, edge and quad the reader creates.
func WithControllerFactory(f mesh.ControllerFactory) Option {
	return func(c *config) {
		if f != nil {
			c.factory = f
		}
	}
}

func WithHeaders(ht *HeaderTable) Option {
	return func(c *config) {
		if ht != nil {
			c.headers = ht
		}
	}
}

// WithProvenance fixes the stamp the writer appends, by default it is taken from
// the clock, the current user and the hostname.
func WithProvenance(p Provenance) Option {
	return func(c *config) {
		c.provenance = &p
		c.stamp = true
	}
}

func WithoutProvenance() Option {
	return func(c *config) {
		c.stamp = false
	}
}

// Provenance is the comment block appended after the last section. Nek5000 stops
// reading at the object specification, so the block never affects a re-read.
type Provenance struct {
	Generator string
	Date      time.Time
	User      string
	Host      string
}

func DefaultProvenance() (p Provenance) {
	p.Generator = Generator
	p.Date = time.Now()
	p.User, p.Host = "unknown", "unknown"
	if u, err := user.Current(); err == nil {
		p.User = u.Username
	}
	if h, err := os.Hostname(); err == nil {
		p.Host = h
	}
	return
}

func (p Provenance) Lines() []string {
	return []string{
		fmt.Sprintf("C ***** Generated by %s *****", p.Generator),
		fmt.Sprintf("C Date: %s", p.Date.Format(time.RFC1123)),
		fmt.Sprintf("C User: %s", p.User),
		fmt.Sprintf("C Hostname: %s", p.Host),
	}
}
