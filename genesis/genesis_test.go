// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dposlab/elector/builtin"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/kv"
)

func TestDevnet_Build(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := NewDevnet()
	require.NoError(t, gen.Build(db))
	assert.Equal(t, ErrAlreadyInitialized, gen.Build(db))

	ctx := tables.NewContext(db)
	accounts, err := builtin.GetAccounts(ctx)
	require.NoError(t, err)
	require.NotNil(t, accounts)
	assert.Equal(t, gen.System, accounts.System)

	natives := builtin.Bind(ctx, *accounts, gen.LaunchTime, nil)
	producers, err := natives.Election.RankedProducers(0)
	require.NoError(t, err)
	assert.Len(t, producers, len(DevAccounts())-3)
	for _, p := range producers {
		assert.True(t, p.IsActive)
	}

	total, err := natives.Balances.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, "70000000000", total.String())

	threshold, err := natives.Params.Get(elector.KeyMinActivatedStake)
	require.NoError(t, err)
	assert.Equal(t, "20000000000", threshold.String())

	gs, err := natives.Election.Global()
	require.NoError(t, err)
	assert.Zero(t, gs.TotalActivatedStake.Sign())
}

func TestParse(t *testing.T) {
	accs := DevAccounts()
	doc := `
name: test
launchTime: 1000
system: ` + accs[0].Address.String() + `
stake: ` + accs[1].Address.String() + `
feeCollector: ` + accs[2].Address.String() + `
params:
  minActivatedStake: 1000
  feeDenominator: "0x64"
accounts:
  - address: ` + accs[3].Address.String() + `
    balance: 5000
producers:
  - address: ` + accs[4].Address.String() + `
    key: ` + accs[4].ProducerKey().String() + `
    url: https://p.example
    location: 7
`
	gen, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "test", gen.Name)
	assert.Equal(t, uint64(1000), gen.LaunchTime)
	assert.Equal(t, accs[3].Address, gen.Accounts[0].Address)
	assert.Equal(t, "5000", (*big.Int)(gen.Accounts[0].Balance).String())
	assert.Equal(t, "100", (*big.Int)(gen.Params.FeeDenominator).String())
	assert.Nil(t, gen.Params.FeeNumerator)
	assert.Equal(t, accs[4].ProducerKey(), gen.Producers[0].Key)
	assert.Equal(t, uint16(7), gen.Producers[0].Location)

	// round trip through the file form
	data, err := gen.Encode()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	loaded, err := Load(path)
	require.NoError(t, err)

	id1, err := gen.ID()
	require.NoError(t, err)
	id2, err := loaded.ID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(g *Genesis)
		errStr string
	}{
		{"missing system", func(g *Genesis) { g.System = elector.Address{} }, "system account must be set"},
		{"shared account", func(g *Genesis) { g.Stake = g.System }, "must differ"},
		{"zero balance", func(g *Genesis) { g.Accounts[0].Balance = nil }, "balance must be a non-zero integer"},
		{"duplicated producer", func(g *Genesis) { g.Producers = append(g.Producers, g.Producers[0]) }, "duplicated producer"},
		{"bad key", func(g *Genesis) { g.Producers[0].Key = elector.ProducerKey{} }, g0Producer()},
		{"schedule size", func(g *Genesis) {
			g.Params.MaxScheduleSize = NewDevnet().Params.MinActivatedStake
		}, "maxScheduleSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewDevnet()
			tt.modify(gen)
			err := gen.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errStr)

			db, err := kv.NewMem()
			require.NoError(t, err)
			defer db.Close()
			assert.Error(t, gen.Build(db))
			accounts, err := builtin.GetAccounts(tables.NewContext(db))
			require.NoError(t, err)
			assert.Nil(t, accounts)
		})
	}
}

func g0Producer() string {
	return NewDevnet().Producers[0].Address.String()
}
