package relay

import (
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/storage"
)

// startBallotProcessor starts a background goroutine that continuously
// processes the pending ballots until the context of the relay is canceled.
func (r *Relay) startBallotProcessor() {
	ticker := time.NewTicker(r.tickInterval)

	go func() {
		defer ticker.Stop()
		log.Infow("ballot processor started")

		for {
			select {
			case <-r.ctx.Done():
				log.Infow("ballot processor stopped")
				return
			default:
			}

			processed, err := r.ProcessNext()
			if err != nil {
				log.Errorw(err, "failed to process ballot")
			}
			if processed {
				continue
			}
			// queue empty or failing, wait for the next tick
			select {
			case <-ticker.C:
			case <-r.ctx.Done():
				log.Infow("ballot processor stopped")
				return
			}
		}
	}()
}

// ProcessNext takes the next pending ballot from the queue and processes
// it. It returns false if the queue was empty. Invalid ballots and ballots
// of voters already on the board are discarded. Ballots hitting a storage
// error are released so they are retried later.
func (r *Relay) ProcessNext() (bool, error) {
	pending, key, err := r.stg.NextBallot()
	if err != nil {
		if errors.Is(err, storage.ErrNoMoreElements) {
			return false, nil
		}
		return false, err
	}

	log.Debugw("processing ballot", "voter", pending.VoterID.String(), "election", pending.ElectionID.String())
	startTime := time.Now()

	published, err := r.processBallot(pending)
	if err != nil {
		if errors.Is(err, beleniosrf.ErrInvalidBallot) || errors.Is(err, ErrUnknownVoter) ||
			errors.Is(err, ErrUnknownElection) || errors.Is(err, storage.ErrAlreadyVoted) {
			log.Warnw("invalid ballot",
				"voter", pending.VoterID.String(),
				"election", pending.ElectionID.String(),
				"error", err.Error(),
			)
			return true, r.stg.MarkBallotDone(key, nil)
		}
		if rerr := r.stg.ReleaseBallot(key); rerr != nil {
			log.Warnw("failed to release ballot", "error", rerr.Error())
		}
		return true, err
	}

	if err := r.stg.MarkBallotDone(key, published); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) || errors.Is(err, storage.ErrAlreadyVoted) {
			log.Warnw("dropping ballot", "id", published.ID.String(), "error", err.Error())
			return true, r.stg.MarkBallotDone(key, nil)
		}
		if rerr := r.stg.ReleaseBallot(key); rerr != nil {
			log.Warnw("failed to release ballot", "error", rerr.Error())
		}
		return true, fmt.Errorf("failed to mark ballot as processed: %w", err)
	}

	log.Debugw("ballot published",
		"id", published.ID.String(),
		"election", pending.ElectionID.String(),
		"duration", time.Since(startTime).String(),
	)
	return true, nil
}

// processBallot verifies the ballot against the key of its voter,
// randomizes it and returns its public form.
func (r *Relay) processBallot(pending *storage.PendingBallot) (*storage.PublishedBallot, error) {
	e, err := r.election(pending.ElectionID)
	if err != nil {
		return nil, err
	}
	vk, err := r.voter(pending.ElectionID, pending.VoterID)
	if err != nil {
		return nil, err
	}
	if r.stg.HasVoted(pending.ElectionID, pending.VoterID) {
		return nil, fmt.Errorf("%w: %s", storage.ErrAlreadyVoted, pending.VoterID)
	}
	if err := e.verifier.CheckPlus(vk, pending.Ballot); err != nil {
		return nil, err
	}

	b := pending.Ballot
	for range r.rounds {
		if b, err = e.randomizer.Randomize(vk, b); err != nil {
			return nil, err
		}
	}
	pb := beleniosrf.Publish(b)
	// a randomized valid ballot is valid, anything else is a bug
	if err := e.verifier.CheckPublicFor(vk, pb); err != nil {
		return nil, fmt.Errorf("randomized ballot does not verify: %w", err)
	}
	return &storage.PublishedBallot{
		ElectionID:  pending.ElectionID,
		ID:          pb.ID(),
		Ballot:      pb,
		PublishedAt: time.Now().Unix(),
	}, nil
}
