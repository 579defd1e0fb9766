package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/crypto/rng"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/relay"
	"github.com/vocdoni/beleniosrf/storage"
	"github.com/vocdoni/beleniosrf/types"
)

// runDemo creates an election, casts a random ballot for every voter, lets
// the relay publish them and prints the tally.
func runDemo(ctx context.Context, stg *storage.Storage, src, relaySrc *rng.Source, opts *options) error {
	keys, err := beleniosrf.NewElection(src, opts.bits)
	if err != nil {
		return err
	}
	eid := types.NewElectionID()
	if err := stg.SetElection(&storage.Election{
		ID:        eid,
		Title:     "demo election",
		PublicKey: keys.Public,
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		return fmt.Errorf("store election: %w", err)
	}
	if err := stg.SetElectionSecret(eid, keys.Secret); err != nil {
		return fmt.Errorf("store election secret: %w", err)
	}
	log.Infow("election created", "id", eid.String(), "bits", opts.bits)

	r, err := relay.New(stg, relaySrc, opts.tick, opts.rounds)
	if err != nil {
		return err
	}

	expected := make([]int, 1<<opts.bits)
	space := big.NewInt(int64(len(expected)))
	for i := range opts.voters {
		if err := ctx.Err(); err != nil {
			return err
		}
		user := beleniosrf.NewUserKeys(src, keys.Public)
		voterID, err := stg.RegisterVoter(eid, user.Verification)
		if err != nil {
			return fmt.Errorf("register voter %d: %w", i, err)
		}
		enc, err := beleniosrf.NewEncryptor(keys.Public, user, src)
		if err != nil {
			return err
		}
		choice := src.IntN(space).Uint64()
		b, err := enc.Ballot(beleniosrf.IntToMessage(choice, opts.bits))
		if err != nil {
			return fmt.Errorf("cast ballot of voter %d: %w", i, err)
		}
		if _, err := r.SubmitBallot(eid, voterID, b); err != nil {
			return fmt.Errorf("submit ballot of voter %d: %w", i, err)
		}
		expected[choice]++
		log.Debugw("ballot submitted", "voter", voterID.String(), "choice", choice)
	}

	for {
		processed, err := r.ProcessNext()
		if err != nil {
			return err
		}
		if !processed {
			break
		}
	}

	published, err := stg.PublishedBallots(eid)
	if err != nil {
		return err
	}
	board := make([]*beleniosrf.PublicBallot, len(published))
	for i, pb := range published {
		board[i] = pb.Ballot
	}
	root, size, err := stg.BoardRoot(eid)
	if err != nil {
		return err
	}
	log.Infow("bulletin board closed", "root", root.String(), "ballots", size)

	trustee, err := beleniosrf.NewTrustee(keys)
	if err != nil {
		return err
	}
	res := trustee.Tally(board)
	for a, n := range res.Counts {
		fmt.Printf("%s: %d (expected %d)\n", beleniosrf.IntToMessage(uint64(a), opts.bits), n, expected[a])
	}
	fmt.Printf("invalid: %d\n", res.Invalid)
	return nil
}
