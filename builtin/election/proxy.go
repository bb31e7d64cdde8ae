// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math"
	"math/big"

	"github.com/dposlab/elector/builtin/election/globalstats"
	"github.com/dposlab/elector/builtin/election/stakes"
	"github.com/dposlab/elector/builtin/election/voter"
	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/elector"
)

// RegProxy registers owner as a proxy, or unregisters it when isProxy is false.
func (e *Election) RegProxy(owner elector.Address, isProxy bool, now uint64) error {
	acc, created, err := e.voters.FindOrInsert(owner)
	if err != nil {
		return err
	}
	if acc.IsProxy == isProxy {
		return reverts.Validation("action has no effect")
	}
	if isProxy && acc.Proxy != nil {
		return reverts.New(reverts.KindInvalidProxyChain, "account that uses a proxy is not allowed to become a proxy")
	}
	acc.IsProxy = isProxy

	if created {
		if err := e.voters.Set(acc); err != nil {
			return err
		}
	} else {
		gs, err := e.global.Get()
		if err != nil {
			return err
		}
		if err := e.propagate(acc, gs, now); err != nil {
			return err
		}
		if err := e.global.Set(gs); err != nil {
			return err
		}
	}

	metricVotes().AddWithLabel(1, map[string]string{"kind": "regproxy"})
	logger.Debug("proxy updated", "owner", owner, "isProxy", isProxy)
	return nil
}

// VoteProxy sets the stake of voterAddr and delegates its weight to proxyAddr, withdrawing
// any support given before.
func (e *Election) VoteProxy(voterAddr elector.Address, stake *big.Int, proxyAddr elector.Address, now uint64) error {
	if stake == nil || stake.Sign() < 0 {
		return reverts.Validation("stake must be non-negative")
	}
	if voterAddr == proxyAddr {
		return reverts.Validation("cannot proxy to self")
	}

	acc, _, err := e.voters.FindOrInsert(voterAddr)
	if err != nil {
		return err
	}
	if acc.IsProxy {
		return reverts.New(reverts.KindInvalidProxyChain, "account registered as a proxy is not allowed to use a proxy")
	}
	target, err := e.voters.Get(proxyAddr)
	if err != nil {
		return err
	}
	if target == nil {
		return reverts.NotFound("proxy %v not found", proxyAddr)
	}
	if !target.IsProxy {
		return reverts.Validation("%v is not a registered proxy", proxyAddr)
	}

	gs, threshold, err := e.loadGlobal()
	if err != nil {
		return err
	}
	if err := checkUnstake(acc, stake, gs, threshold); err != nil {
		return err
	}
	var withdraw []*voteDelta
	if acc.Proxy == nil {
		if withdraw, err = e.producerDeltas(acc.Producers, acc.LastVoteWeight, nil, 0); err != nil {
			return err
		}
	}

	// checks passed, state changes from here on
	if err := e.moveStake(acc, stake, gs, threshold, now); err != nil {
		return err
	}
	if acc.Proxy != nil {
		if err := e.releaseProxy(acc, gs, now); err != nil {
			return err
		}
	} else if err := e.applyDeltas(withdraw, gs); err != nil {
		return err
	}

	newWeight := stakes.Weight(stake, now)
	acc.Producers = nil
	acc.Proxy = &proxyAddr
	acc.LastVoteWeight = newWeight
	if err := e.voters.Set(acc); err != nil {
		return err
	}

	if newWeight > 0 {
		// reload, releasing a delegation to the same proxy changed it
		if target, err = e.voters.Get(proxyAddr); err != nil {
			return err
		}
		target.ProxiedVoteWeight += newWeight
		if err := e.propagate(target, gs, now); err != nil {
			return err
		}
	}
	if err := e.global.Set(gs); err != nil {
		return err
	}

	metricVotes().AddWithLabel(1, map[string]string{"kind": "proxy"})
	logger.Debug("voted via proxy", "voter", voterAddr, "proxy", proxyAddr, "stake", stake, "weight", newWeight)
	return nil
}

// releaseProxy takes the weight of acc back from its proxy. acc itself is not stored.
func (e *Election) releaseProxy(acc *voter.Account, gs *globalstats.State, now uint64) error {
	proxy, err := e.voters.Get(*acc.Proxy)
	if err != nil {
		return err
	}
	if proxy == nil {
		return reverts.Corruption("proxy %v of %v vanished", *acc.Proxy, acc.Owner)
	}
	if acc.IsVoting() {
		proxy.ProxiedVoteWeight -= acc.LastVoteWeight
		if err := e.propagate(proxy, gs, now); err != nil {
			return err
		}
	}
	acc.Proxy = nil
	acc.LastVoteWeight = 0
	return nil
}

// PropagateWeightChange recomputes the weight of owner and pushes the change to its
// proxy chain or producers.
func (e *Election) PropagateWeightChange(owner elector.Address, now uint64) error {
	acc, err := e.voters.Get(owner)
	if err != nil {
		return err
	}
	if acc == nil {
		return reverts.NotFound("voter %v not found", owner)
	}
	gs, err := e.global.Get()
	if err != nil {
		return err
	}
	if err := e.propagate(acc, gs, now); err != nil {
		return err
	}
	return e.global.Set(gs)
}

// propagate walks from acc up its proxy chain. Every visited account is stored with its
// recomputed weight; changes within the dead band are not pushed further.
func (e *Election) propagate(acc *voter.Account, gs *globalstats.State, now uint64) error {
	visited := make(map[elector.Address]struct{})
	for acc != nil {
		if _, ok := visited[acc.Owner]; ok {
			return reverts.Corruption("proxy cycle at %v", acc.Owner)
		}
		visited[acc.Owner] = struct{}{}

		if acc.Proxy != nil && acc.IsProxy {
			return reverts.Newf(reverts.KindInvalidProxyChain, "account %v is a proxy and uses a proxy", acc.Owner)
		}

		newWeight := stakes.Weight(acc.Staked, now)
		if acc.IsProxy {
			newWeight += acc.ProxiedVoteWeight
		}
		delta := newWeight - acc.LastVoteWeight

		var next *voter.Account
		if math.Abs(delta) > elector.PropagationDeadBand {
			if acc.Proxy != nil {
				proxy, err := e.voters.Get(*acc.Proxy)
				if err != nil {
					return err
				}
				if proxy == nil {
					return reverts.Corruption("proxy %v of %v vanished", *acc.Proxy, acc.Owner)
				}
				proxy.ProxiedVoteWeight += delta
				next = proxy
			} else {
				for _, p := range acc.Producers {
					if err := e.addProducerVotes(p, delta, gs); err != nil {
						return err
					}
				}
			}
			metricPropagations().Add(1)
		}

		acc.LastVoteWeight = newWeight
		if err := e.voters.Set(acc); err != nil {
			return err
		}
		logger.Trace("weight propagated", "voter", acc.Owner, "weight", newWeight, "delta", delta)
		acc = next
	}
	return nil
}
