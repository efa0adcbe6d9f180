package netmon

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultProbeInterval = 15 * time.Second

// Prober is a Monitor that sends a HEAD request to target on every tick.
// Any HTTP response counts as online; only transport failures count as
// offline.
type Prober struct {
	*signal

	target   string
	interval time.Duration
	http     *http.Client
	log      zerolog.Logger

	mu        sync.Mutex
	started   bool
	closeChan chan struct{}
	wg        sync.WaitGroup
}

type ProberOption func(*Prober)

func WithInterval(d time.Duration) ProberOption {
	return func(p *Prober) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithHTTPClient(c *http.Client) ProberOption {
	return func(p *Prober) { p.http = c }
}

func WithLogger(log zerolog.Logger) ProberOption {
	return func(p *Prober) { p.log = log }
}

// NewProber assumes online until the first probe says otherwise.
func NewProber(target string, opts ...ProberOption) *Prober {
	p := &Prober{
		signal:    newSignal(true),
		target:    target,
		interval:  DefaultProbeInterval,
		http:      &http.Client{Timeout: 5 * time.Second},
		log:       zerolog.Nop(),
		closeChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe runs a single check and updates the signal.
func (p *Prober) Probe(ctx context.Context) bool {
	online := p.check(ctx)
	if p.set(online) {
		p.log.Info().Bool("online", online).Str("target", p.target).Msg("Connectivity changed")
	}
	return online
}

func (p *Prober) check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.target, nil)
	if err != nil {
		return false
	}
	resp, err := p.http.Do(req)
	if err != nil {
		p.log.Debug().Err(err).Msg("Probe failed")
		return false
	}
	resp.Body.Close()
	return true
}

// Start probes once and then on every interval until ctx ends or Stop is
// called.
func (p *Prober) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("prober already started")
	}
	p.started = true

	p.wg.Add(1)
	go p.loop(ctx)
	return nil
}

func (p *Prober) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.closeChan:
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

// Stop ends the probe loop and waits for it to exit.
func (p *Prober) Stop(ctx context.Context) error {
	p.mu.Lock()
	select {
	case <-p.closeChan:
	default:
		close(p.closeChan)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
