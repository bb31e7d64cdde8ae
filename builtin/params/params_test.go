// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

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

func TestParamsGetSet(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()

	p := New(tables.NewContext(db))
	key := elector.BytesToBytes32([]byte("key"))

	v, err := p.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, p.Set(key, big.NewInt(10)))
	v, err = p.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(10), v)

	err = p.Set(key, big.NewInt(-1))
	assert.True(t, errors.Is(err, reverts.ErrValidation))
}

func TestParamsDefaults(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()

	p := New(tables.NewContext(db))

	v, err := p.Get(elector.KeyMinActivatedStake)
	assert.NoError(t, err)
	assert.Equal(t, elector.InitialMinActivatedStake, v)

	// defaults are copied out
	v.SetInt64(1)
	v, err = p.Get(elector.KeyMinActivatedStake)
	assert.NoError(t, err)
	assert.Equal(t, elector.InitialMinActivatedStake, v)

	require.NoError(t, p.Set(elector.KeyFeeDenominator, big.NewInt(1000)))
	v, err = p.Get(elector.KeyFeeDenominator)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), v)
}
