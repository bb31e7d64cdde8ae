// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
)

var defaults = map[elector.Bytes32]*big.Int{
	elector.KeyMinActivatedStake: elector.InitialMinActivatedStake,
	elector.KeyFeeNumerator:      elector.InitialFeeNumerator,
	elector.KeyFeeDenominator:    elector.InitialFeeDenominator,
	elector.KeyMaxScheduleSize:   elector.InitialMaxScheduleSize,
}

type entry struct {
	Value *big.Int
}

// Params stores governance parameters.
type Params struct {
	values *tables.Mapping[elector.Bytes32, entry]
}

func New(ctx *tables.Context) *Params {
	return &Params{tables.NewMapping[elector.Bytes32, entry](ctx, "params/")}
}

// Get returns the param value. Unset params fall back to their initial value, or zero.
func (p *Params) Get(key elector.Bytes32) (*big.Int, error) {
	e, err := p.values.Get(key)
	if err != nil {
		return nil, err
	}
	if e == nil || e.Value == nil {
		if def, ok := defaults[key]; ok {
			return new(big.Int).Set(def), nil
		}
		return new(big.Int), nil
	}
	return e.Value, nil
}

// Set native way to set param.
func (p *Params) Set(key elector.Bytes32, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return reverts.Validation("param %v must be non-negative", key.AbbrevString())
	}
	return p.values.Set(key, &entry{new(big.Int).Set(value)})
}
