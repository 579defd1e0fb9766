// Package config holds the default settings of the relay and the demo
// election.
package config

import (
	"time"

	"go.vocdoni.io/dvote/db"
)

const (
	// DefaultMessageBits is the number of bits of the messages of the demo
	// election, which allows 2^DefaultMessageBits choices.
	DefaultMessageBits = 2
	// DefaultVoters is the number of voters of the demo election.
	DefaultVoters = 5
	// DefaultRandomizationRounds is the number of times the relay
	// randomizes every ballot before publishing it.
	DefaultRandomizationRounds = 1
	// DefaultRelayTick is the polling interval of the relay when the ballot
	// queue is empty.
	DefaultRelayTick = time.Second
	// DefaultAPIHost and DefaultAPIPort are the listen address of the API.
	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 9090
	// DefaultDBType is the key-value backend used when a data dir is set.
	DefaultDBType = db.TypePebble
	// DefaultLogLevel is the log level of the command.
	DefaultLogLevel = "info"
	// DefaultLogOutput is where the logs are written.
	DefaultLogOutput = "stdout"
)
