package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WSPublisher serves a websocket firehose of exports.
//
// Warning: this is overlay-feed code, and it does not scale.  Every
// export goes to every connected client.
type WSPublisher struct {
	firehose chan interface{}
	conns    sync.Map
	server   *http.Server
}

type wsEvent struct {
	Topic  string            `json:"topic"`
	Export map[string]string `json:"export"`
}

// NewWSPublisher starts an HTTP server at addr with the firehose at
// /api/exports.
func NewWSPublisher(ctx context.Context, addr string) *WSPublisher {
	p := &WSPublisher{
		firehose: make(chan interface{}, 1024),
	}

	var upgrader = websocket.Upgrader{} // use default options

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case x := <-p.firehose:
				p.conns.Range(func(k, v interface{}) bool {
					c := v.(chan interface{})
					select {
					case c <- x:
					default:
						log.Printf("%v firehose blocked", k)
					}
					return true
				})
			}
		}
	}()

	api := func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		feed := make(chan interface{}, 32)
		id := c.RemoteAddr().String()
		p.conns.Store(id, feed)
		defer p.conns.Delete(id)

		for {
			select {
			case <-ctx.Done():
				return
			case x := <-feed:
				js, err := json.Marshal(&x)
				if err != nil {
					log.Printf("firehose Marshal error %v on %#v", err, x)
					continue
				}
				if err = c.WriteMessage(websocket.TextMessage, js); err != nil {
					log.Println("firehose write:", err)
					return
				}
			}
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/exports", api)

	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("ws server: %v", err)
		}
	}()

	return p
}

func (p *WSPublisher) Publish(topic string, export map[string]string) error {
	select {
	case p.firehose <- wsEvent{Topic: topic, Export: export}:
	default:
		// A full firehose drops; a live feed prefers staleness
		// to backpressure.
	}
	return nil
}

func (p *WSPublisher) Close() error {
	return p.server.Close()
}
