// Package main is eyewatch, a client that tails an eyed websocket
// firehose and prints the exports it hears.
//
// It is the debugging stand-in for an overlay renderer: point it at a
// running daemon and watch the per-rune and per-pattern values stream
// by.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/gorilla/websocket"
	"golang.org/x/net/publicsuffix"
)

func main() {
	var (
		urls = flag.String("url", "ws://localhost:8080/api/exports", "eyed firehose URL")
		raw  = flag.Bool("raw", false, "Print raw JSON instead of sorted key/value lines")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	if err := tail(ctx, *urls, *raw); err != nil {
		log.Fatal(err)
	}
}

func tail(ctx context.Context, urls string, raw bool) error {
	u, err := url.Parse(urls)
	if err != nil {
		return err
	}

	// Cookie-aware dialer so a fronting proxy's session survives
	// reconnects.
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	dialer := websocket.Dialer{
		Proxy: http.ProxyFromEnvironment,
		Jar:   jar,
	}

	c, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer c.Close()

	log.Printf("eyewatch connected: %s", urls)

	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, message, err := c.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if raw {
			fmt.Println(string(message))
			continue
		}

		var event struct {
			Topic  string            `json:"topic"`
			Export map[string]string `json:"export"`
		}
		if err = json.Unmarshal(message, &event); err != nil {
			log.Printf("eyewatch Unmarshal error %s on %s", err, message)
			continue
		}

		keys := make([]string, 0, len(event.Export))
		for k := range event.Export {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("%s %s=%s\n", event.Topic, k, event.Export[k])
		}
	}
}
