// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"
	"sort"

	"github.com/dposlab/elector/builtin/election/globalstats"
	"github.com/dposlab/elector/builtin/election/stakes"
	"github.com/dposlab/elector/builtin/election/voter"
	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/elector"
)

// Vote sets the stake of voterAddr and the producers it supports. The list must be
// strictly ascending and hold at most MaxVotedProducers entries.
// An existing proxy delegation is released.
func (e *Election) Vote(voterAddr elector.Address, stake *big.Int, producers []elector.Address, now uint64) error {
	if stake == nil || stake.Sign() < 0 {
		return reverts.Validation("stake must be non-negative")
	}
	if len(producers) > elector.MaxVotedProducers {
		return reverts.Validation("attempt to vote for too many producers")
	}
	if !elector.IsStrictlyAscending(producers) {
		return reverts.Validation("producer votes must be unique and sorted")
	}

	acc, _, err := e.voters.FindOrInsert(voterAddr)
	if err != nil {
		return err
	}
	gs, threshold, err := e.loadGlobal()
	if err != nil {
		return err
	}
	if err := checkUnstake(acc, stake, gs, threshold); err != nil {
		return err
	}

	var previous []elector.Address
	if acc.Proxy == nil {
		previous = acc.Producers
	}
	newWeight := stakes.Weight(stake, now)
	if acc.IsProxy {
		newWeight += acc.ProxiedVoteWeight
	}
	deltas, err := e.producerDeltas(previous, acc.LastVoteWeight, producers, newWeight)
	if err != nil {
		return err
	}

	// checks passed, state changes from here on
	if err := e.moveStake(acc, stake, gs, threshold, now); err != nil {
		return err
	}
	if acc.Proxy != nil {
		if err := e.releaseProxy(acc, gs, now); err != nil {
			return err
		}
	}
	if err := e.applyDeltas(deltas, gs); err != nil {
		return err
	}

	acc.LastVoteWeight = newWeight
	acc.Producers = producers
	if err := e.voters.Set(acc); err != nil {
		return err
	}
	if err := e.global.Set(gs); err != nil {
		return err
	}

	metricVotes().AddWithLabel(1, map[string]string{"kind": "producers"})
	logger.Debug("voted", "voter", voterAddr, "stake", stake, "weight", newWeight, "producers", len(producers))
	return nil
}

func (e *Election) loadGlobal() (*globalstats.State, *big.Int, error) {
	gs, err := e.global.Get()
	if err != nil {
		return nil, nil, err
	}
	threshold, err := e.params.Get(elector.KeyMinActivatedStake)
	if err != nil {
		return nil, nil, err
	}
	return gs, threshold, nil
}

func checkUnstake(acc *voter.Account, stake *big.Int, gs *globalstats.State, threshold *big.Int) error {
	if stake.Cmp(acc.Staked) < 0 && !gs.IsActivated(threshold) {
		return reverts.New(reverts.KindActivationNotReached, "cannot unstake until the chain is activated")
	}
	return nil
}

// moveStake transfers the stake difference between the voter and the stake account and
// counts the stake as activated when the voter was not voting before.
func (e *Election) moveStake(acc *voter.Account, stake *big.Int, gs *globalstats.State, threshold *big.Int, now uint64) error {
	delta := new(big.Int).Sub(stake, acc.Staked)
	switch delta.Sign() {
	case 1:
		if err := e.transferer.Transfer(acc.Owner, e.stakeAccount, delta, "stake vote"); err != nil {
			return err
		}
	case -1:
		if err := e.transferer.Transfer(e.stakeAccount, acc.Owner, delta.Neg(delta), "unstake vote"); err != nil {
			return err
		}
	}

	if !acc.IsVoting() && gs.Activate(stake, threshold, now) {
		logger.Info("activation threshold reached", "stake", gs.TotalActivatedStake, "time", now)
	}
	acc.Staked = new(big.Int).Set(stake)
	return nil
}

type voteDelta struct {
	producer elector.Address
	value    float64
	voted    bool // the delta adds new support
}

// producerDeltas nets the withdrawal of previous support and the new support per producer,
// and checks every affected producer. Nothing is written.
func (e *Election) producerDeltas(previous []elector.Address, previousWeight float64, next []elector.Address, nextWeight float64) ([]*voteDelta, error) {
	byProducer := make(map[elector.Address]*voteDelta, len(previous)+len(next))
	get := func(p elector.Address) *voteDelta {
		d, ok := byProducer[p]
		if !ok {
			d = &voteDelta{producer: p}
			byProducer[p] = d
		}
		return d
	}

	if previousWeight > 0 {
		for _, p := range previous {
			get(p).value -= previousWeight
		}
	}
	if nextWeight >= 0 {
		for _, p := range next {
			d := get(p)
			d.value += nextWeight
			d.voted = true
		}
	}

	deltas := make([]*voteDelta, 0, len(byProducer))
	for _, d := range byProducer {
		deltas = append(deltas, d)
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].producer.Compare(deltas[j].producer) < 0
	})

	for _, d := range deltas {
		rec, err := e.producers.Get(d.producer)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			if d.voted {
				return nil, reverts.NotFound("producer %v is not registered", d.producer)
			}
			return nil, reverts.Corruption("voted producer %v vanished", d.producer)
		}
		if d.voted && !rec.IsActive {
			return nil, reverts.Newf(reverts.KindInactiveProducer, "producer %v is not currently registered", d.producer)
		}
	}
	return deltas, nil
}

func (e *Election) applyDeltas(deltas []*voteDelta, gs *globalstats.State) error {
	for _, d := range deltas {
		if err := e.addProducerVotes(d.producer, d.value, gs); err != nil {
			return err
		}
	}
	return nil
}

func (e *Election) addProducerVotes(owner elector.Address, delta float64, gs *globalstats.State) error {
	rec, err := e.producers.Get(owner)
	if err != nil {
		return err
	}
	if rec == nil {
		return reverts.Corruption("voted producer %v vanished", owner)
	}
	rec.AddVotes(delta)
	gs.TotalProducerVoteWeight += delta
	return e.producers.Set(rec)
}
