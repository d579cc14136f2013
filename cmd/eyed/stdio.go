package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StdioPublisher writes exports as JSON lines.
type StdioPublisher struct {
	Out io.Writer

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// Tags prefixes each line with its topic.
	Tags bool
}

func (p *StdioPublisher) Publish(topic string, export map[string]string) error {
	js, err := json.Marshal(export)
	if err != nil {
		return err
	}
	line := string(js)
	if p.Tags {
		line = topic + " " + line
	}
	if p.Timestamps {
		line = time.Now().UTC().Format(time.RFC3339Nano) + " " + line
	}
	_, err = fmt.Fprintln(p.Out, line)
	return err
}

func (p *StdioPublisher) Close() error {
	return nil
}
