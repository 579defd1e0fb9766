package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/beleniosrf/storage"
	"go.vocdoni.io/dvote/db/metadb"
)

func TestNewSources(t *testing.T) {
	c := qt.New(t)
	const seed = "aabbccddeeff00112233445566778899"

	src1, relay1, err := newSources(seed)
	c.Assert(err, qt.IsNil)
	src2, relay2, err := newSources(seed)
	c.Assert(err, qt.IsNil)

	// the seed reproduces the election randomness but not the relay's
	c.Assert(src1.Scalar().Cmp(src2.Scalar()), qt.Equals, 0)
	c.Assert(bytes.Equal(relay1.Seed(), relay2.Seed()), qt.IsFalse)
	c.Assert(bytes.Equal(relay1.Seed(), src1.Seed()), qt.IsFalse)

	_, _, err = newSources("not hex")
	c.Assert(err, qt.IsNotNil)

	src, relay, err := newSources("")
	c.Assert(err, qt.IsNil)
	c.Assert(bytes.Equal(src.Seed(), relay.Seed()), qt.IsFalse)
}

func TestRunDemo(t *testing.T) {
	c := qt.New(t)
	src, relaySrc, err := newSources("00112233")
	c.Assert(err, qt.IsNil)
	stg := storage.New(metadb.NewTest(t))
	opts := &options{bits: 1, voters: 2, rounds: 1, tick: time.Second}
	c.Assert(runDemo(context.Background(), stg, src, relaySrc, opts), qt.IsNil)

	ids, err := stg.ListElections()
	c.Assert(err, qt.IsNil)
	c.Assert(ids, qt.HasLen, 1)
	published, err := stg.PublishedBallots(ids[0])
	c.Assert(err, qt.IsNil)
	c.Assert(published, qt.HasLen, 2)
}
