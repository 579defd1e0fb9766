package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// ElectionsEndpoint lists the elections
	ElectionsEndpoint = "/elections"
	// ElectionEndpoint returns the public parameters of an election
	ElectionURLParam = "electionId"
	ElectionEndpoint = ElectionsEndpoint + "/{" + ElectionURLParam + "}"
	// BallotsEndpoint lists the published ballots of an election
	BallotsEndpoint = ElectionEndpoint + "/ballots"
	// BoardEndpoint returns the root of the bulletin board
	BoardEndpoint = ElectionEndpoint + "/board"
	// BallotProofEndpoint returns a published ballot with its proof of
	// inclusion in the bulletin board
	BallotURLParam      = "ballotId"
	BallotProofEndpoint = BallotsEndpoint + "/{" + BallotURLParam + "}/proof"
	// VoterEndpoint returns the verification key of a registered voter with
	// its proof of inclusion in the registry
	VoterURLParam = "voterId"
	VoterEndpoint = ElectionEndpoint + "/voters/{" + VoterURLParam + "}"
)
