// Package main is eyed, the inspection daemon.
//
// It loads a YAML configuration of patterns and rituals, runs the
// rituals over arriving frames, feeds the background detector, journals
// prophecies, and publishes flat exports to stdout, MQTT, and a
// websocket firehose.
//
// Without a real camera or matcher wired in, eyed runs in demo mode:
// synthetic frames on a ticker and a scripted matcher replaying the
// configured responses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/detect"
	"github.com/Silemae70/TheEyeOfCthulhu-sub000/journal"
	boltjournal "github.com/Silemae70/TheEyeOfCthulhu-sub000/journal/bolt"
	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

func main() {

	var (
		configFile  = flag.String("config", "eye.yaml", "Ritual/pattern configuration file")
		journalFile = flag.String("journal", "", "Optional bolt journal filename")

		interval = flag.Duration("interval", 100*time.Millisecond, "Synthetic frame interval")
		frames   = flag.Int("frames", 0, "Stop after this many frames (0 means run forever)")
		width    = flag.Int("width", 640, "Synthetic frame width")
		height   = flag.Int("height", 480, "Synthetic frame height")

		withMQ = flag.Bool("mq", false, "Publish to MQTT (remaining args go to the mq flag set)")
		wsAddr = flag.String("ws", "", "Optional websocket firehose address (e.g. :8080)")
		quiet  = flag.Bool("quiet", false, "Don't write exports to stdout")

		disposeWait = flag.Duration("dispose-wait", 2*time.Second, "Bounded wait for in-flight searches on shutdown")
		verbose     = flag.Bool("v", false, "Verbose")
		help        = flag.Bool("h", false, "Get usage")
	)

	flag.Parse()

	if *help {
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n-mq args:\n\n")
		_, fs := NewMQTTPublisher(nil)
		fs.PrintDefaults()
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	matcher := cfg.DemoMatcher()
	patterns, rituals, err := cfg.Compile(matcher)
	if err != nil {
		log.Fatal(err)
	}

	s := &Service{
		Rituals: rituals,
		Verbose: *verbose,
	}

	if cfg.Detector != nil {
		ps := make([]*match.Pattern, 0, len(cfg.Detector.Patterns))
		for _, name := range cfg.Detector.Patterns {
			p, have := patterns[name]
			if !have {
				log.Fatalf("detector: unknown pattern %q", name)
			}
			ps = append(ps, p)
		}
		s.Detector = detect.NewDetector(matcher, ps, cfg.Detector.Skip)
		s.Detector.Debug = *verbose
	}

	if *journalFile != "" {
		j := boltjournal.NewJournal(*journalFile)
		j.Debug = *verbose
		if err := j.Open(); err != nil {
			log.Fatal(err)
		}
		s.Journal = j
	} else {
		s.Journal = &journal.Noop{}
	}

	if !*quiet {
		s.Publishers = append(s.Publishers, &StdioPublisher{
			Out:  os.Stdout,
			Tags: true,
		})
	}
	if *withMQ {
		p, _ := NewMQTTPublisher(flag.Args())
		s.Publishers = append(s.Publishers, p)
	}
	if *wsAddr != "" {
		s.Publishers = append(s.Publishers, NewWSPublisher(ctx, *wsAddr))
	}

	go func() {
		if err := s.RunSchedules(ctx); err != nil {
			log.Fatal(err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	n := 0
LOOP:
	for {
		select {
		case <-sigs:
			log.Println("shutting down")
			break LOOP
		case <-ticker.C:
			s.Frame(ctx, match.NewRaster(*width, *height))
			n++
			if 0 < *frames && *frames <= n {
				break LOOP
			}
		}
	}

	cancel()
	s.Shutdown(*disposeWait)
}
