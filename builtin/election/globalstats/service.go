// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/dposlab/elector/builtin/tables"
)

// State holds the chain-wide election counters.
type State struct {
	TotalActivatedStake        *big.Int
	TotalProducerVoteWeight    float64
	ThreshReached              bool
	ThreshActivatedStakeTime   uint64 // valid only when ThreshReached
	LastProducerScheduleUpdate uint64
	LastProducerScheduleSize   uint32
}

// Activate adds stake that newly entered voting. It returns true when this call crosses
// threshold for the first time, in which case the crossing time is recorded.
func (s *State) Activate(stake, threshold *big.Int, now uint64) bool {
	s.TotalActivatedStake = new(big.Int).Add(s.TotalActivatedStake, stake)
	if !s.ThreshReached && s.TotalActivatedStake.Cmp(threshold) >= 0 {
		s.ThreshReached = true
		s.ThreshActivatedStakeTime = now
		return true
	}
	return false
}

// IsActivated reports whether unstaking is allowed.
func (s *State) IsActivated(threshold *big.Int) bool {
	return s.TotalActivatedStake.Cmp(threshold) >= 0
}

type body struct {
	TotalActivatedStake        *big.Int
	TotalProducerVoteWeight    uint64
	ThreshActivatedStakeTime   uint64
	LastProducerScheduleUpdate uint64
	LastProducerScheduleSize   uint32
	ThreshReached              bool `rlp:"optional"`
}

// Service persists the election counters as a singleton.
type Service struct {
	slot *tables.Slot[body]
}

func New(ctx *tables.Context) *Service {
	return &Service{slot: tables.NewSlot[body](ctx, "global-stake-state")}
}

// Get returns the current counters. Before genesis all counters are zero.
func (s *Service) Get() (*State, error) {
	b, err := s.slot.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get global state")
	}
	if b == nil {
		return &State{TotalActivatedStake: new(big.Int)}, nil
	}
	stake := b.TotalActivatedStake
	if stake == nil {
		stake = new(big.Int)
	}
	return &State{
		TotalActivatedStake:        stake,
		TotalProducerVoteWeight:    math.Float64frombits(b.TotalProducerVoteWeight),
		ThreshReached:              b.ThreshReached || b.ThreshActivatedStakeTime != 0,
		ThreshActivatedStakeTime:   b.ThreshActivatedStakeTime,
		LastProducerScheduleUpdate: b.LastProducerScheduleUpdate,
		LastProducerScheduleSize:   b.LastProducerScheduleSize,
	}, nil
}

func (s *Service) Set(st *State) error {
	stake := st.TotalActivatedStake
	if stake == nil {
		stake = new(big.Int)
	}
	if err := s.slot.Set(&body{
		TotalActivatedStake:        stake,
		TotalProducerVoteWeight:    math.Float64bits(st.TotalProducerVoteWeight),
		ThreshActivatedStakeTime:   st.ThreshActivatedStakeTime,
		LastProducerScheduleUpdate: st.LastProducerScheduleUpdate,
		LastProducerScheduleSize:   st.LastProducerScheduleSize,
		ThreshReached:              st.ThreshReached,
	}); err != nil {
		return errors.Wrap(err, "failed to set global state")
	}
	return nil
}
