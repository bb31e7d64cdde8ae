// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"math"
	"math/big"

	"github.com/dposlab/elector/elector"
)

// Account is the vote state of a single voter.
type Account struct {
	Owner             elector.Address
	Staked            *big.Int
	LastVoteWeight    float64           // <= 0 means never voted or withdrawn
	Producers         []elector.Address // strictly ascending
	Proxy             *elector.Address  // set when the voter delegates to a proxy
	IsProxy           bool
	ProxiedVoteWeight float64 // weight delegated to this account
}

// New returns the default account of owner.
func New(owner elector.Address) *Account {
	return &Account{Owner: owner, Staked: new(big.Int)}
}

// IsVoting reports whether the account currently contributes weight.
func (a *Account) IsVoting() bool {
	return a.LastVoteWeight > 0
}

// body is the stored form. rlp has no float support, weights are kept as IEEE-754 bits.
type body struct {
	Staked            *big.Int
	LastVoteWeight    uint64
	Producers         []elector.Address
	Proxy             *elector.Address `rlp:"nil"`
	IsProxy           bool
	ProxiedVoteWeight uint64
}

func (a *Account) toBody() *body {
	staked := a.Staked
	if staked == nil {
		staked = new(big.Int)
	}
	return &body{
		Staked:            staked,
		LastVoteWeight:    math.Float64bits(a.LastVoteWeight),
		Producers:         a.Producers,
		Proxy:             a.Proxy,
		IsProxy:           a.IsProxy,
		ProxiedVoteWeight: math.Float64bits(a.ProxiedVoteWeight),
	}
}

func (b *body) toAccount(owner elector.Address) *Account {
	staked := b.Staked
	if staked == nil {
		staked = new(big.Int)
	}
	return &Account{
		Owner:             owner,
		Staked:            staked,
		LastVoteWeight:    math.Float64frombits(b.LastVoteWeight),
		Producers:         b.Producers,
		Proxy:             b.Proxy,
		IsProxy:           b.IsProxy,
		ProxiedVoteWeight: math.Float64frombits(b.ProxiedVoteWeight),
	}
}
