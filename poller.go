package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Poller drives the portal client on a fixed interval: keep the session
// alive, re-login after the portal drops it, and resolve device-limit
// conflicts according to policy. Ticks that land while an operation is
// still running are skipped, never queued — the client serializes
// operations and a backlog of stale ticks helps nobody.
type Poller struct {
	client        *PortalClient
	notifier      Notifier
	monitor       ConnectivityMonitor
	logger        Logger
	interval      time.Duration
	autoTerminate bool

	inFlight atomic.Bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	wasLoggedIn bool
}

func NewPoller(client *PortalClient, notifier Notifier, monitor ConnectivityMonitor, logger Logger, interval time.Duration, autoTerminate bool) *Poller {
	return &Poller{
		client:        client,
		notifier:      notifier,
		monitor:       monitor,
		logger:        logger,
		interval:      interval,
		autoTerminate: autoTerminate,
	}
}

// Start launches the poll loop. The first tick fires immediately.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.tick()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.tick()
			}
		}
	}()
}

// Close stops the loop and waits for an in-flight tick to finish.
func (p *Poller) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Poller) tick() {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Log("previous check still running, skipping tick")
		return
	}
	defer p.inFlight.Store(false)

	if !p.monitor.OnTargetNetwork() {
		p.logger.Log("not on %s, skipping check", p.monitor.NetworkName())
		return
	}

	status := p.client.Status()
	if status.Success {
		p.observeSession(true, status.Quota)
		return
	}
	p.observeSession(false, nil)

	// Already online through another path: a login attempt would only
	// confuse the portal's session accounting.
	if p.client.CheckInternet() {
		p.logger.Log("direct internet available, no login needed")
		return
	}

	out := p.client.Login()
	p.reportLogin(out)

	if out.NeedsTermination {
		p.handleConflict(out.ConflictHTML)
	}
}

func (p *Poller) handleConflict(conflictHTML string) {
	if !p.autoTerminate {
		p.notifier.Notify("GSB WiFi", "device limit reached, terminate another session to connect")
		return
	}

	term := p.client.HandleDeviceLimit(conflictHTML)
	if !term.Success {
		p.notifier.Notify("GSB WiFi", term.Message)
		return
	}

	p.logger.Log("remote session terminated after %d round(s), retrying login", term.Rounds)
	p.reportLogin(p.client.Login())
}

func (p *Poller) reportLogin(out LoginOutcome) {
	if out.Success {
		p.observeSession(true, out.Quota)
		p.notifier.Notify("GSB WiFi", out.Message+quotaSummary(out.Quota))
		return
	}
	if out.NeedsTermination {
		return // handled by handleConflict
	}
	p.logger.Log("login failed (%s): %s", out.Kind, out.Message)
	if out.Kind == ErrAuthRejected {
		p.notifier.Notify("GSB WiFi", out.Message)
	}
}

// observeSession tracks login-state transitions so the notifier only hears
// about changes, not every poll.
func (p *Poller) observeSession(loggedIn bool, quota *QuotaSnapshot) {
	if loggedIn && !p.wasLoggedIn {
		p.notifier.Notify("GSB WiFi", "session active"+quotaSummary(quota))
	}
	if !loggedIn && p.wasLoggedIn {
		p.logger.Log("session dropped by portal")
	}
	p.wasLoggedIn = loggedIn
}

func quotaSummary(q *QuotaSnapshot) string {
	if q == nil {
		return ""
	}
	gb, ok := q.RemainingGB()
	if !ok {
		return ""
	}
	if pct, ok := q.RemainingPercent(); ok {
		return fmt.Sprintf(" (%.1f GB left, %.0f%%)", gb, pct)
	}
	return fmt.Sprintf(" (%.1f GB left)", gb)
}
