// Package dashboard drives the quote gateway on a schedule and keeps the
// latest snapshot for display.
package dashboard

import (
	"errors"
	"time"

	"github.com/newthinker/fearwatch/internal/core"
	"github.com/newthinker/fearwatch/internal/gateway"
)

// State is an immutable view of the dashboard. Transitions go through Reduce,
// which always returns a new value.
type State struct {
	VIX         *gateway.QuoteView
	Market      *gateway.QuoteView
	Signal      *core.SignalDecision
	Loading     bool
	Err         string
	LastUpdated time.Time
	Now         time.Time
}

// Initial is the state at mount: loading, nothing fetched yet.
func Initial(now time.Time) State {
	return State{Loading: true, Now: now}
}

// HasData reports whether a snapshot was ever obtained.
func (s State) HasData() bool {
	return s.VIX != nil
}

// Event is a state transition input.
type Event interface {
	event()
}

// LoadingStarted marks the start of a refresh.
type LoadingStarted struct{}

// FetchSucceeded carries a gateway payload received at At.
type FetchSucceeded struct {
	Payload *gateway.Payload
	At      time.Time
}

// FetchFailed carries the error of a failed refresh.
type FetchFailed struct {
	Err error
}

// ClockTicked advances the display clock.
type ClockTicked struct {
	Now time.Time
}

func (LoadingStarted) event() {}
func (FetchSucceeded) event() {}
func (FetchFailed) event()    {}
func (ClockTicked) event()    {}

var errNoVIX = errors.New("gateway response has no VIX price")

// Reduce applies ev to s. A failed fetch keeps the previous snapshot and
// LastUpdated; a signal is only ever stored together with its VIX snapshot.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case LoadingStarted:
		s.Loading = true

	case FetchSucceeded:
		p := e.Payload
		if p == nil || p.VIX == nil || p.VIX.CurrentPrice == nil {
			return Reduce(s, FetchFailed{Err: core.WrapError(core.ErrResponseParse, errNoVIX)})
		}
		sig := p.Signal
		s.VIX = p.VIX
		s.Market = p.Market
		s.Signal = &sig
		s.LastUpdated = e.At
		s.Err = ""
		s.Loading = false

	case FetchFailed:
		s.Err = ErrorMessage(e.Err)
		s.Loading = false

	case ClockTicked:
		s.Now = e.Now
	}
	return s
}

// ErrorMessage renders err for display without the internal error code.
func ErrorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		if coreErr.Cause != nil {
			return coreErr.Message + ": " + coreErr.Cause.Error()
		}
		return coreErr.Message
	}
	return err.Error()
}
