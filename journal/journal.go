// Package journal records Prophecies so an operator can review
// inspection history after the fact.
package journal

import (
	"context"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/core"
)

// Journal is an append-only store of Prophecies.
type Journal interface {
	// Record appends a Prophecy under its ritual name.
	Record(ctx context.Context, p *core.Prophecy) error

	// Recent returns up to limit Prophecies for the ritual, newest
	// first.
	Recent(ctx context.Context, ritual string, limit int) ([]*core.Prophecy, error)

	Close() error
}

// Noop discards everything.  Useful when history isn't wanted.
type Noop struct{}

func (n *Noop) Record(ctx context.Context, p *core.Prophecy) error {
	return nil
}

func (n *Noop) Recent(ctx context.Context, ritual string, limit int) ([]*core.Prophecy, error) {
	return nil, nil
}

func (n *Noop) Close() error {
	return nil
}
