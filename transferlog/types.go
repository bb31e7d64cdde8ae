// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferlog

import (
	"math/big"

	"github.com/dposlab/elector/elector"
)

// Transfer is a committed balance movement.
type Transfer struct {
	Seq         uint64 // assigned on insert
	BlockNumber uint32
	BlockTime   uint64
	From        elector.Address
	To          elector.Address
	Amount      *big.Int
	Memo        string
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range of block numbers, both ends inclusive.
type Range struct {
	From uint32
	To   uint32
}

type Filter struct {
	Address *elector.Address // matches either side
	From    *elector.Address
	To      *elector.Address
	Range   *Range
	Offset  uint64
	Limit   uint64 // zero means no limit
	Order   Order  // default asc
}
