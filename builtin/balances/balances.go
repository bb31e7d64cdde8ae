// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package balances keeps token balances of accounts.
package balances

import (
	"math/big"

	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
)

type account struct {
	Balance *big.Int
}

type supply struct {
	Total *big.Int
}

// Observer is notified about every successful transfer.
type Observer func(from, to elector.Address, amount *big.Int, memo string)

// Ledger holds balances in the staged store of the current action.
type Ledger struct {
	accounts *tables.Mapping[elector.Address, account]
	supply   *tables.Slot[supply]
	observer Observer
}

func New(ctx *tables.Context, observer Observer) *Ledger {
	return &Ledger{
		accounts: tables.NewMapping[elector.Address, account](ctx, "balances/"),
		supply:   tables.NewSlot[supply](ctx, "token-supply"),
		observer: observer,
	}
}

// Get returns the balance of addr.
func (l *Ledger) Get(addr elector.Address) (*big.Int, error) {
	acc, err := l.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.Balance == nil {
		return new(big.Int), nil
	}
	return acc.Balance, nil
}

func (l *Ledger) set(addr elector.Address, balance *big.Int) error {
	if balance.Sign() == 0 {
		return l.accounts.Delete(addr)
	}
	return l.accounts.Set(addr, &account{balance})
}

// TotalSupply returns the sum of all minted tokens.
func (l *Ledger) TotalSupply() (*big.Int, error) {
	s, err := l.supply.Get()
	if err != nil {
		return nil, err
	}
	if s == nil || s.Total == nil {
		return new(big.Int), nil
	}
	return s.Total, nil
}

// Mint credits amount to addr and grows the total supply. Used by genesis.
func (l *Ledger) Mint(addr elector.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.Validation("negative amount")
	}
	bal, err := l.Get(addr)
	if err != nil {
		return err
	}
	if err := l.set(addr, new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	total, err := l.TotalSupply()
	if err != nil {
		return err
	}
	return l.supply.Set(&supply{new(big.Int).Add(total, amount)})
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(from, to elector.Address, amount *big.Int, memo string) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.Validation("negative amount")
	}
	fromBal, err := l.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.Validation("overdrawn balance")
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	toBal, err := l.Get(to)
	if err != nil {
		return err
	}

	if err := l.set(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	if err := l.set(to, new(big.Int).Add(toBal, amount)); err != nil {
		return err
	}
	if l.observer != nil {
		l.observer(from, to, amount, memo)
	}
	return nil
}
