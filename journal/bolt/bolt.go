// Package bolt is a bbolt-backed journal.Journal.
//
// One bucket per ritual; keys are nanosecond timestamps, so a cursor
// walk from the back gives newest-first history.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"log"
	"time"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/core"

	bolt "go.etcd.io/bbolt"
)

type Journal struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

// NewJournal makes a Journal that will store at the given filename.
// Call Open before use.
func NewJournal(filename string) *Journal {
	return &Journal{
		filename: filename,
	}
}

func (j *Journal) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}
	db, err := bolt.Open(j.filename, 0644, opts)
	if err != nil {
		return err
	}
	j.db = db
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) logf(format string, args ...interface{}) {
	if j.Debug {
		log.Printf("bolt.Journal."+format, args...)
	}
}

func key(t time.Time) []byte {
	bs := make([]byte, 8)
	binary.BigEndian.PutUint64(bs, uint64(t.UnixNano()))
	return bs
}

func (j *Journal) Record(ctx context.Context, p *core.Prophecy) error {
	j.logf("Record %s %s", p.Ritual, p.State)
	js, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(p.Ritual))
		if err != nil {
			return err
		}
		k := key(p.When)
		// Nudge forward on collision so nothing is overwritten.
		for b.Get(k) != nil {
			n := binary.BigEndian.Uint64(k)
			binary.BigEndian.PutUint64(k, n+1)
		}
		return b.Put(k, js)
	})
}

func (j *Journal) Recent(ctx context.Context, ritual string, limit int) ([]*core.Prophecy, error) {
	j.logf("Recent %s %d", ritual, limit)
	acc := make([]*core.Prophecy, 0, limit)
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ritual))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(acc) < limit; k, v = c.Prev() {
			var p core.Prophecy
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			acc = append(acc, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}
