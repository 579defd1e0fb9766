package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/crypto/rng"
	"github.com/vocdoni/beleniosrf/relay"
	"github.com/vocdoni/beleniosrf/storage"
	"github.com/vocdoni/beleniosrf/storage/merkle"
	"github.com/vocdoni/beleniosrf/types"
)

type testEnv struct {
	server  *httptest.Server
	stg     *storage.Storage
	eid     types.ElectionID
	voterID types.HexBytes
	keys    *beleniosrf.ElectionKeys
}

func newTestEnv(c *qt.C) *testEnv {
	stg := storage.New(memdb.New())
	src := rng.NewFromSeed([]byte("api test"))
	keys, err := beleniosrf.NewElection(src, 2)
	c.Assert(err, qt.IsNil)
	eid := types.NewElectionID()
	c.Assert(stg.SetElection(&storage.Election{
		ID:        eid,
		Title:     "audit",
		PublicKey: keys.Public,
		CreatedAt: time.Now().Unix(),
	}), qt.IsNil)

	user := beleniosrf.NewUserKeys(src, keys.Public)
	voterID, err := stg.RegisterVoter(eid, user.Verification)
	c.Assert(err, qt.IsNil)
	enc, err := beleniosrf.NewEncryptor(keys.Public, user, src)
	c.Assert(err, qt.IsNil)
	b, err := enc.Ballot(beleniosrf.Message{1, 1})
	c.Assert(err, qt.IsNil)

	r, err := relay.New(stg, src, time.Second, 1)
	c.Assert(err, qt.IsNil)
	_, err = r.SubmitBallot(eid, voterID, b)
	c.Assert(err, qt.IsNil)
	processed, err := r.ProcessNext()
	c.Assert(err, qt.IsNil)
	c.Assert(processed, qt.IsTrue)

	a, err := New(&APIConfig{Storage: stg})
	c.Assert(err, qt.IsNil)
	server := httptest.NewServer(a.Router())
	c.Cleanup(server.Close)
	return &testEnv{server: server, stg: stg, eid: eid, voterID: voterID, keys: keys}
}

func (te *testEnv) get(c *qt.C, path string, out any) int {
	resp, err := http.Get(te.server.URL + path)
	c.Assert(err, qt.IsNil)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		c.Assert(json.NewDecoder(resp.Body).Decode(out), qt.IsNil)
	}
	return resp.StatusCode
}

func TestNew(t *testing.T) {
	c := qt.New(t)
	_, err := New(nil)
	c.Assert(err, qt.IsNotNil)
	_, err = New(&APIConfig{})
	c.Assert(err, qt.IsNotNil)
}

func TestElectionEndpoints(t *testing.T) {
	c := qt.New(t)
	te := newTestEnv(c)

	c.Assert(te.get(c, PingEndpoint, nil), qt.Equals, http.StatusOK)

	var list ElectionsResponse
	c.Assert(te.get(c, ElectionsEndpoint, &list), qt.Equals, http.StatusOK)
	c.Assert(list.Elections, qt.DeepEquals, []types.ElectionID{te.eid})

	var election ElectionResponse
	c.Assert(te.get(c, "/elections/"+te.eid.String(), &election), qt.Equals, http.StatusOK)
	c.Assert(election.ID, qt.Equals, te.eid)
	c.Assert(election.Title, qt.Equals, "audit")
	c.Assert(election.Voters, qt.Equals, 1)
	c.Assert(election.Ballots, qt.Equals, 1)
	c.Assert(election.PublicKey.Validate(), qt.IsNil)
	c.Assert(election.PublicKey.P.Equal(te.keys.Public.P), qt.IsTrue)

	c.Assert(te.get(c, "/elections/not-an-id", nil), qt.Equals, http.StatusBadRequest)
	c.Assert(te.get(c, "/elections/"+types.NewElectionID().String(), nil), qt.Equals, http.StatusNotFound)
}

func TestVoterEndpoint(t *testing.T) {
	c := qt.New(t)
	te := newTestEnv(c)

	var voter VoterResponse
	path := fmt.Sprintf("/elections/%s/voters/%x", te.eid, []byte(te.voterID))
	c.Assert(te.get(c, path, &voter), qt.Equals, http.StatusOK)
	c.Assert(voter.ID, qt.DeepEquals, te.voterID)
	c.Assert(voter.VerificationKey.ID(te.keys.Public), qt.DeepEquals, te.voterID)
	c.Assert(merkle.VerifyProof(voter.Proof), qt.IsTrue)

	unknown := make([]byte, types.RegistryKeyLen)
	c.Assert(te.get(c, fmt.Sprintf("/elections/%s/voters/%x", te.eid, unknown), nil), qt.Equals, http.StatusNotFound)
	c.Assert(te.get(c, fmt.Sprintf("/elections/%s/voters/abcd", te.eid), nil), qt.Equals, http.StatusBadRequest)
}

func TestBoardEndpoints(t *testing.T) {
	c := qt.New(t)
	te := newTestEnv(c)

	var ballots BallotsResponse
	c.Assert(te.get(c, fmt.Sprintf("/elections/%s/ballots", te.eid), &ballots), qt.Equals, http.StatusOK)
	c.Assert(ballots.Ballots, qt.HasLen, 1)
	id := ballots.Ballots[0].ID

	var board BoardResponse
	c.Assert(te.get(c, fmt.Sprintf("/elections/%s/board", te.eid), &board), qt.Equals, http.StatusOK)
	c.Assert(board.Size, qt.Equals, 1)

	var proof BallotProofResponse
	c.Assert(te.get(c, fmt.Sprintf("/elections/%s/ballots/%x/proof", te.eid, []byte(id)), &proof), qt.Equals, http.StatusOK)
	c.Assert(proof.Valid, qt.IsTrue)
	c.Assert(proof.Checks, qt.DeepEquals, []string{
		"e(sigma1, g2) = e(c1, sigma4)", "e(sigma3, g2) = e(g1, sigma4)", "pi_r", "pi_M", "pi_m[0]", "pi_m[1]",
	})
	c.Assert(proof.Proof.Root, qt.DeepEquals, board.Root)
	c.Assert(merkle.VerifyProof(proof.Proof), qt.IsTrue)
	c.Assert(proof.Ballot.Ballot.ID(), qt.DeepEquals, id)

	// the trustee decrypts what the auditors download
	trustee, err := beleniosrf.NewTrustee(te.keys)
	c.Assert(err, qt.IsNil)
	m, err := trustee.DecryptPublic(proof.Ballot.Ballot)
	c.Assert(err, qt.IsNil)
	c.Assert(m, qt.DeepEquals, beleniosrf.Message{1, 1})

	missing := make([]byte, types.BoardKeyLen)
	c.Assert(te.get(c, fmt.Sprintf("/elections/%s/ballots/%x/proof", te.eid, missing), nil), qt.Equals, http.StatusNotFound)
	c.Assert(te.get(c, fmt.Sprintf("/elections/%s/ballots/zz/proof", te.eid), nil), qt.Equals, http.StatusBadRequest)
}
