package controller

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"pressle-logger/utils"
)

// StatsInterval is how often the headless loop logs session counters.
const StatsInterval = 5 * time.Second

type readResult struct {
	raw []byte
	err error
}

// RunHeadless drives the session without a display. The transport read
// runs on its own goroutine so a silent device does not hold up intents;
// a new read starts on the first tick after the previous line was
// handled. Lines and intents are handled on this goroutine only, one at
// a time. It returns nil on a quit intent or when ctx is cancelled, and
// the first fatal error otherwise.
func RunHeadless(ctx context.Context, s *Session, intents <-chan Intent, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	statsTicker := time.NewTicker(StatsInterval)
	defer statsTicker.Stop()

	// Buffered so an in-flight read can finish after we return.
	results := make(chan readResult, 1)
	reading := false

	utils.L().Info("headless loop running  (tick=%v) - type g/x/t/q and press enter", tick)

	for {
		select {
		case <-ctx.Done():
			utils.L().Info("shutdown requested")
			return nil

		case intent, ok := <-intents:
			if !ok {
				intents = nil
				continue
			}
			err := s.Dispatch(intent)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}

		case <-ticker.C:
			if reading {
				continue
			}
			reading = true
			go func() {
				raw, err := s.ReadLine()
				results <- readResult{raw: raw, err: err}
			}()

		case r := <-results:
			reading = false
			if r.err != nil {
				return r.err
			}
			if err := s.HandleLine(r.raw); err != nil {
				return err
			}

		case <-statsTicker.C:
			s.LogStats()
		}
	}
}

// ReadIntents turns typed lines from r into intents until r is exhausted
// or ctx ends, then closes out. Unknown input is ignored.
func ReadIntents(ctx context.Context, r io.Reader, out chan<- Intent) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		intent, ok := ParseIntent(sc.Text())
		if !ok {
			continue
		}
		select {
		case out <- intent:
		case <-ctx.Done():
			return
		}
	}
}
