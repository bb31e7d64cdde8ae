// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/elector"
)

// Action names accepted by Execute.
const (
	ActionRegProducer  = "regproducer"
	ActionUnregProd    = "unregprod"
	ActionRegProxy     = "regproxy"
	ActionVoteProducer = "voteproducer"
	ActionPayGas       = "paygas"
	ActionElect        = "elect"
)

// Action is a decoded action script entry.
type Action struct {
	Block  uint32          `yaml:"block"`
	Time   uint64          `yaml:"time"`
	Caller elector.Address `yaml:"caller"`
	Name   string          `yaml:"action"`

	// voter, producer, proxy or payer, depending on the action
	Account elector.Address `yaml:"account"`

	Stake     *math.HexOrDecimal256 `yaml:"stake,omitempty"`
	Producers []elector.Address     `yaml:"producers,omitempty"`
	Proxy     *elector.Address      `yaml:"proxy,omitempty"`
	IsProxy   bool                  `yaml:"isProxy,omitempty"`

	Key      elector.ProducerKey `yaml:"key,omitempty"`
	URL      string              `yaml:"url,omitempty"`
	Location uint16              `yaml:"location,omitempty"`

	Payee  elector.Address       `yaml:"payee,omitempty"`
	Amount *math.HexOrDecimal256 `yaml:"amount,omitempty"`
}

func amount(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}

// Execute dispatches a to the typed action methods. a.Block and a.Time are not used,
// the runtime block context applies.
func (rt *Runtime) Execute(a *Action) error {
	switch a.Name {
	case ActionRegProducer:
		return rt.RegisterProducer(a.Caller, a.Account, a.Key, a.URL, a.Location)
	case ActionUnregProd:
		return rt.UnregisterProducer(a.Caller, a.Account)
	case ActionRegProxy:
		return rt.RegProxy(a.Caller, a.Account, a.IsProxy)
	case ActionVoteProducer:
		if a.Proxy != nil {
			if len(a.Producers) > 0 {
				return reverts.Validation("cannot vote for producers and proxy at same time")
			}
			return rt.VoteProxy(a.Caller, a.Account, amount(a.Stake), *a.Proxy)
		}
		return rt.Vote(a.Caller, a.Account, amount(a.Stake), a.Producers)
	case ActionPayGas:
		_, err := rt.PayGas(a.Caller, a.Account, a.Payee, amount(a.Amount))
		return err
	case ActionElect:
		schedule, accepted, err := rt.UpdateElectedProducers(a.Caller)
		if err != nil {
			return err
		}
		if schedule != nil {
			logger.Debug("election done", "block", rt.ctx.Number, "size", schedule.Len(), "accepted", accepted)
		}
		return nil
	default:
		return reverts.Validation("unknown action %q", a.Name)
	}
}
