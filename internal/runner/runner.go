// Package runner executes user-authored browser scenarios: an ordered list
// of actions dispatched one at a time against a single browser session, with
// progress reported through a log sink and extracted data through a result
// sink. Cancellation is cooperative and takes effect between actions.
package runner

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/v0xg/webrun/internal/action"
	"github.com/v0xg/webrun/internal/browser"
	"github.com/v0xg/webrun/internal/logging"
)

// LogFunc receives one human-readable progress line per event. It is called
// synchronously from the runner's goroutine and must not block.
type LogFunc func(msg string)

// ResultFunc receives one batch of records per extract action, in action
// order. Same calling rules as LogFunc.
type ResultFunc func(records []Record)

// Record is one unit of extracted data. Extract actions produce records
// keyed by "text", one per matched element, in document order.
type Record map[string]string

// Runner executes scenarios against one browser session. A session is owned
// by exactly one Runner; the caller releases it with Close. Run is meant to
// be invoked on a worker goroutine since individual actions block for the
// duration of navigations and waits.
type Runner struct {
	session   browser.Session
	logger    *slog.Logger
	stopped   atomic.Bool
	closeOnce sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for internal diagnostics. Diagnostics never
// reach the log sink; by default they are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner bound to a live browser session.
func New(session browser.Session, opts ...Option) *Runner {
	r := &Runner{
		session: session,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stop signals the runner to halt. It is safe to call from another
// goroutine; the runner observes it at the next action boundary, never
// mid-dispatch.
func (r *Runner) Stop() {
	r.stopped.Store(true)
}

// Close releases the browser session. Idempotent; release errors are
// swallowed as cleanup is best-effort.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		if r.session == nil {
			return
		}
		if err := r.session.Quit(); err != nil {
			r.logger.Debug("browser quit failed", "err", err)
		}
	})
}

// Run executes the actions in order. Both sinks may be nil. Per-action
// failures are converted to log lines and never abort the scenario; the
// terminal "Scenario completed" line is emitted unconditionally, whether the
// loop ran to exhaustion or was interrupted. Callers learn the disposition
// from the log stream, not from a return value.
func (r *Runner) Run(actions []action.Action, onLog LogFunc, onResult ResultFunc) {
	log := func(msg string) {
		if onLog != nil {
			onLog(msg)
		}
	}

	total := len(actions)
	for i, act := range actions {
		if r.stopped.Load() {
			log("Scenario interrupted by user.")
			r.logger.Info("scenario stopped", "executed", i, "total", total)
			break
		}
		desc := act.Describe()
		log(fmt.Sprintf("(%d/%d) Executing: %s", i+1, total, desc))
		r.logger.Debug("dispatching action", "index", i, "type", act.Type)
		if err := r.dispatch(act, log, onResult); err != nil {
			log(fmt.Sprintf("Error executing action '%s': %v", desc, err))
			r.logger.Warn("action failed", "index", i, "type", act.Type, "err", err)
		}
	}
	log("Scenario completed")
}

// controlKeys maps the recognized symbolic key names; any other key value
// passes through as literal input.
var controlKeys = map[string]browser.Key{
	"enter":     browser.KeyEnter,
	"tab":       browser.KeyTab,
	"escape":    browser.KeyEscape,
	"backspace": browser.KeyBackspace,
}

// dispatch translates one action into session-level effects. An action
// missing its required locator or content field is a no-op with an
// informational log, not an error; errors returned here are recovered by the
// run loop.
func (r *Runner) dispatch(act action.Action, log LogFunc, onResult ResultFunc) error {
	switch act.Type {
	case action.KindOpenURL:
		if act.URL == "" {
			log("Skipping open_url: no URL given")
			return nil
		}
		if err := r.session.Navigate(act.URL); err != nil {
			return err
		}
		log("Navigated to " + act.URL)

	case action.KindClick:
		if act.Selector == "" {
			log("Skipping click: no selector given")
			return nil
		}
		el, err := r.session.Element(act.Selector)
		if err != nil {
			return err
		}
		if err := el.Click(); err != nil {
			return err
		}
		log("Clicked element " + act.Selector)

	case action.KindType:
		if act.Selector == "" {
			log("Skipping type: no selector given")
			return nil
		}
		el, err := r.session.Element(act.Selector)
		if err != nil {
			return err
		}
		if err := el.Clear(); err != nil {
			return err
		}
		if err := el.Input(act.Text); err != nil {
			return err
		}
		log("Typed text into " + act.Selector)

	case action.KindKeyPress:
		if act.Key == "" {
			log("Skipping keypress: no key given")
			return nil
		}
		el, err := r.session.ActiveElement()
		if err != nil {
			return err
		}
		if key, ok := controlKeys[strings.ToLower(act.Key)]; ok {
			err = el.Press(key)
		} else {
			err = el.Input(act.Key)
		}
		if err != nil {
			return err
		}
		log(fmt.Sprintf("Sent key '%s'", act.Key))

	case action.KindScroll:
		delta := act.ScrollDelta()
		if err := r.session.Eval(`(dy) => window.scrollBy(0, dy)`, delta); err != nil {
			return err
		}
		direction := "up"
		if delta > 0 {
			direction = "down"
		}
		amount := delta
		if amount < 0 {
			amount = -amount
		}
		log(fmt.Sprintf("Scrolled %s by %d pixels", direction, amount))

	case action.KindWait:
		time.Sleep(act.WaitDuration())
		log(fmt.Sprintf("Waited for %s seconds",
			strconv.FormatFloat(act.WaitSeconds(), 'f', -1, 64)))

	case action.KindExtract:
		if act.Selector == "" {
			log("Skipping extract: no selector given")
			return nil
		}
		els, err := r.session.Elements(act.Selector)
		if err != nil {
			return err
		}
		records := make([]Record, 0, len(els))
		for _, el := range els {
			text, err := el.Text()
			if err != nil {
				return err
			}
			records = append(records, Record{"text": text})
		}
		log(fmt.Sprintf("Extracted %d elements using %s", len(records), act.Selector))
		if onResult != nil {
			onResult(records)
		}

	default:
		log(fmt.Sprintf("Unknown action type: %s", act.Type))
	}
	return nil
}
