// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"github.com/pkg/errors"

	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
)

type Repository struct {
	accounts *tables.Mapping[elector.Address, body]
}

func NewRepository(ctx *tables.Context) *Repository {
	return &Repository{
		accounts: tables.NewMapping[elector.Address, body](ctx, "voters/"),
	}
}

// Get returns the account of owner, or nil if owner never voted.
func (r *Repository) Get(owner elector.Address) (*Account, error) {
	b, err := r.accounts.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get voter")
	}
	if b == nil {
		return nil, nil
	}
	return b.toAccount(owner), nil
}

// FindOrInsert returns the account of owner, creating a default one if absent.
// A created account is stored by the next Set.
func (r *Repository) FindOrInsert(owner elector.Address) (acc *Account, created bool, err error) {
	if acc, err = r.Get(owner); err != nil {
		return nil, false, err
	}
	if acc == nil {
		return New(owner), true, nil
	}
	return acc, false, nil
}

func (r *Repository) Set(acc *Account) error {
	if err := r.accounts.Set(acc.Owner, acc.toBody()); err != nil {
		return errors.Wrap(err, "failed to set voter")
	}
	return nil
}

// Iterate visits accounts in owner order.
func (r *Repository) Iterate(fn func(acc *Account) (bool, error)) error {
	return r.accounts.Iterate(func(key []byte, b *body) (bool, error) {
		return fn(b.toAccount(elector.BytesToAddress(key)))
	})
}
