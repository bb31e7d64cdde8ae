// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package elector

import (
	"math/big"
)

// Constants of the election.
const (
	MaxVotedProducers = 30  // max producers a single voter may support.
	MaxScheduleSize   = 21  // max producers in a proposed schedule.
	MaxURLLength      = 512 // producer url must be shorter than this.

	BlockTimestampEpoch uint64 = 946684800 // 2000-01-01T00:00:00Z, unit: second.
	SecondsPerDay       uint64 = 24 * 3600
	SecondsPerWeek      uint64 = SecondsPerDay * 7
	WeeksPerDoubling           = 52 // a fixed stake doubles its vote weight every 52 weeks.

	// PropagationDeadBand weight changes not larger than this are not pushed to producers.
	PropagationDeadBand = 1.0
)

// Keys of governance params.
var (
	KeyMinActivatedStake = BytesToBytes32([]byte("min-activated-stake"))
	KeyFeeNumerator      = BytesToBytes32([]byte("fee-numerator"))
	KeyFeeDenominator    = BytesToBytes32([]byte("fee-denominator"))
	KeyMaxScheduleSize   = BytesToBytes32([]byte("max-schedule-size"))

	InitialMinActivatedStake = big.NewInt(150_000_000_0000) // 15% of 1B tokens with 4 decimals.
	InitialFeeNumerator      = big.NewInt(1)
	InitialFeeDenominator    = big.NewInt(200) // 0.5%
	InitialMaxScheduleSize   = big.NewInt(MaxScheduleSize)
)
