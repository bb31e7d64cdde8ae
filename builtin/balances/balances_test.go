// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/kv"
)

var (
	alice = elector.BytesToAddress([]byte("alice"))
	bob   = elector.BytesToAddress([]byte("bob"))
)

func TestLedger(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()

	var seen []string
	ledger := New(tables.NewContext(db), func(from, to elector.Address, amount *big.Int, memo string) {
		seen = append(seen, memo+":"+amount.String())
	})

	bal, err := ledger.Get(alice)
	require.NoError(t, err)
	assert.Zero(t, bal.Sign())

	require.NoError(t, ledger.Mint(alice, big.NewInt(100)))
	require.NoError(t, ledger.Mint(bob, big.NewInt(5)))
	total, err := ledger.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, "105", total.String())

	require.NoError(t, ledger.Transfer(alice, bob, big.NewInt(30), "pay"))
	bal, _ = ledger.Get(alice)
	assert.Equal(t, "70", bal.String())
	bal, _ = ledger.Get(bob)
	assert.Equal(t, "35", bal.String())

	err = ledger.Transfer(bob, alice, big.NewInt(36), "too much")
	assert.True(t, errors.Is(err, reverts.ErrValidation))
	assert.Contains(t, err.Error(), "overdrawn balance")

	err = ledger.Transfer(bob, alice, big.NewInt(-1), "negative")
	assert.True(t, errors.Is(err, reverts.ErrValidation))

	require.NoError(t, ledger.Transfer(bob, alice, big.NewInt(0), "noop"))
	require.NoError(t, ledger.Transfer(bob, alice, big.NewInt(35), "all"))
	bal, _ = ledger.Get(bob)
	assert.Zero(t, bal.Sign())

	assert.Equal(t, []string{"pay:30", "all:35"}, seen)

	total, _ = ledger.TotalSupply()
	assert.Equal(t, "105", total.String())
}
