// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math"
	"math/big"

	"github.com/dposlab/elector/elector"
)

// ElapsedWeeks returns the number of whole weeks between the block timestamp epoch and now.
// Times before the epoch count as zero weeks.
func ElapsedWeeks(now uint64) uint64 {
	if now <= elector.BlockTimestampEpoch {
		return 0
	}
	return (now - elector.BlockTimestampEpoch) / elector.SecondsPerWeek
}

// Weight converts a staked amount into vote weight at time now.
// A fixed stake doubles its weight every WeeksPerDoubling weeks.
func Weight(staked *big.Int, now uint64) float64 {
	if staked == nil || staked.Sign() <= 0 {
		return 0
	}
	amount, _ := new(big.Float).SetInt(staked).Float64()
	weeks := float64(ElapsedWeeks(now)) / elector.WeeksPerDoubling
	return amount * math.Exp2(weeks)
}
