package main

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/core"
	"github.com/Silemae70/TheEyeOfCthulhu-sub000/detect"
	"github.com/Silemae70/TheEyeOfCthulhu-sub000/journal"
	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"

	"github.com/gorhill/cronexpr"
)

// Publisher pushes flat export maps toward whatever is watching:
// stdout, an MQTT broker, websocket clients.
type Publisher interface {
	// Publish sends one export map under a topic ("ritual/<name>"
	// or "detector").
	Publish(topic string, export map[string]string) error

	Close() error
}

// ScheduledRitual pairs a Ritual with an optional cron expression.  A
// ritual without a schedule runs on every frame; a scheduled one runs
// on its own clock against the most recent frame.
type ScheduledRitual struct {
	Ritual   *core.Ritual
	Schedule string
}

// Service is the daemon: a frame loop that executes rituals, feeds the
// background detector, journals prophecies, and publishes exports.
type Service struct {
	Rituals    []*ScheduledRitual
	Detector   *detect.Detector
	Journal    journal.Journal
	Publishers []Publisher

	Verbose bool

	// lastFrame keeps the most recent frame for scheduled rituals.
	mu          sync.Mutex
	lastFrame   match.Image
	frameNumber uint64
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.Verbose {
		log.Printf(format, args...)
	}
}

func (s *Service) publish(topic string, export map[string]string) {
	for _, p := range s.Publishers {
		if err := p.Publish(topic, export); err != nil {
			log.Printf("publish %s: %v", topic, err)
		}
	}
}

// Frame processes one arriving frame.
func (s *Service) Frame(ctx context.Context, frame match.Image) {
	s.mu.Lock()
	s.frameNumber++
	n := s.frameNumber
	s.lastFrame = frame
	s.mu.Unlock()

	for _, sr := range s.Rituals {
		if sr.Schedule != "" {
			continue
		}
		s.run(ctx, sr.Ritual, frame)
	}

	if s.Detector != nil {
		s.Detector.Offer(frame, n)
		s.publish("detector", s.Detector.Export())
	}
}

func (s *Service) run(ctx context.Context, rt *core.Ritual, frame match.Image) {
	p := rt.Execute(ctx, frame)
	s.logf("ritual %s: %s (%.3f) %s", p.Ritual, p.State, p.Resonance, p.Message)

	if s.Journal != nil {
		if err := s.Journal.Record(ctx, p); err != nil {
			log.Printf("journal %s: %v", p.Ritual, err)
		}
	}

	s.publish("ritual/"+p.Ritual, p.Export())
}

// RunSchedules starts one goroutine per scheduled ritual and blocks
// until the context is done.
func (s *Service) RunSchedules(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, sr := range s.Rituals {
		if sr.Schedule == "" {
			continue
		}
		expr, err := cronexpr.Parse(sr.Schedule)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func(rt *core.Ritual, expr *cronexpr.Expression) {
			defer wg.Done()
			for {
				next := expr.Next(time.Now())
				if next.IsZero() {
					log.Printf("schedule for %s has no next run", rt.Name)
					return
				}
				timer := time.NewTimer(time.Until(next))
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}

				s.mu.Lock()
				frame := s.lastFrame
				s.mu.Unlock()
				if frame == nil {
					s.logf("ritual %s scheduled with no frame yet", rt.Name)
					continue
				}
				s.run(ctx, rt, frame)
			}
		}(sr.Ritual, expr)
	}
	wg.Wait()
	return nil
}

// Shutdown disposes the detector (bounded) and closes publishers and
// the journal.
func (s *Service) Shutdown(timeout time.Duration) {
	if s.Detector != nil {
		s.Detector.Dispose(timeout)
	}
	for _, p := range s.Publishers {
		if err := p.Close(); err != nil {
			log.Printf("publisher close: %v", err)
		}
	}
	if s.Journal != nil {
		if err := s.Journal.Close(); err != nil {
			log.Printf("journal close: %v", err)
		}
	}
}
