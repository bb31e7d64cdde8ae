// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/transferlog"
)

type Transfer struct {
	Seq         uint64                `json:"seq"`
	BlockNumber uint32                `json:"blockNumber"`
	BlockTime   uint64                `json:"blockTime"`
	From        elector.Address       `json:"from"`
	To          elector.Address       `json:"to"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	Memo        string                `json:"memo"`
}

func convertTransfer(tr *transferlog.Transfer) *Transfer {
	return &Transfer{
		Seq:         tr.Seq,
		BlockNumber: tr.BlockNumber,
		BlockTime:   tr.BlockTime,
		From:        tr.From,
		To:          tr.To,
		Amount:      (*math.HexOrDecimal256)(tr.Amount),
		Memo:        tr.Memo,
	}
}
