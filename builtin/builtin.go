// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/dposlab/elector/builtin/balances"
	"github.com/dposlab/elector/builtin/election"
	"github.com/dposlab/elector/builtin/gaspay"
	"github.com/dposlab/elector/builtin/params"
	"github.com/dposlab/elector/builtin/proposals"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
)

// Accounts are the system accounts fixed at genesis.
type Accounts struct {
	System       elector.Address // authorized to charge gas and elect producers
	Stake        elector.Address // custody of voting stake
	FeeCollector elector.Address
}

func accountsSlot(ctx *tables.Context) *tables.Slot[Accounts] {
	return tables.NewSlot[Accounts](ctx, "system-accounts")
}

// GetAccounts returns the system accounts, or nil if the store is not initialized.
func GetAccounts(ctx *tables.Context) (*Accounts, error) {
	return accountsSlot(ctx).Get()
}

func SetAccounts(ctx *tables.Context, accounts *Accounts) error {
	return accountsSlot(ctx).Set(accounts)
}

// Natives is the set of builtins bound to one table context.
type Natives struct {
	Accounts  Accounts
	Params    *params.Params
	Balances  *balances.Ledger
	Proposals *proposals.Store
	Election  *election.Election
	GasPay    *gaspay.Payer
}

// Bind binds the builtins on ctx. Transfers are reported to observer, which may be nil.
func Bind(ctx *tables.Context, accounts Accounts, blockTime uint64, observer balances.Observer) *Natives {
	var (
		p      = params.New(ctx)
		ledger = balances.New(ctx, observer)
		props  = proposals.New(ctx, func() uint64 { return blockTime })
	)
	return &Natives{
		Accounts:  accounts,
		Params:    p,
		Balances:  ledger,
		Proposals: props,
		Election:  election.New(ctx, p, accounts.Stake, ledger, props),
		GasPay:    gaspay.New(p, ledger, accounts.FeeCollector),
	}
}
