// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/dposlab/elector/api/utils"
	"github.com/dposlab/elector/elector"
)

// Activation reports progress towards the activated stake threshold.
type Activation struct {
	Activated           bool                  `json:"activated"`
	MinActivatedStake   *math.HexOrDecimal256 `json:"minActivatedStake"`
	TotalActivatedStake *math.HexOrDecimal256 `json:"totalActivatedStake"`
	Shortfall           *math.HexOrDecimal256 `json:"shortfall"`
	ThreshReached       bool                  `json:"threshReached"`
	ThreshTime          uint64                `json:"threshTime"`
}

type PendingSchedule struct {
	ID        elector.Bytes32 `json:"id"`
	Version   uint32          `json:"version"`
	ProposeAt uint64          `json:"proposeAt"`
	Size      int             `json:"size"`
}

type Status struct {
	Activation         Activation       `json:"activation"`
	LastScheduleUpdate uint64           `json:"lastScheduleUpdate"`
	LastScheduleSize   uint32           `json:"lastScheduleSize"`
	Pending            *PendingSchedule `json:"pending"`
}

func (a *Admin) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	gs, err := a.rt.Global()
	if err != nil {
		return err
	}
	threshold, err := a.rt.Param(elector.KeyMinActivatedStake)
	if err != nil {
		return err
	}
	shortfall := new(big.Int).Sub(threshold, gs.TotalActivatedStake)
	if shortfall.Sign() < 0 {
		shortfall.SetUint64(0)
	}

	status := &Status{
		Activation: Activation{
			Activated:           gs.IsActivated(threshold),
			MinActivatedStake:   (*math.HexOrDecimal256)(threshold),
			TotalActivatedStake: (*math.HexOrDecimal256)(gs.TotalActivatedStake),
			Shortfall:           (*math.HexOrDecimal256)(shortfall),
			ThreshReached:       gs.ThreshReached,
			ThreshTime:          gs.ThreshActivatedStakeTime,
		},
		LastScheduleUpdate: gs.LastProducerScheduleUpdate,
		LastScheduleSize:   gs.LastProducerScheduleSize,
	}

	pending, err := a.rt.PendingSchedule()
	if err != nil {
		return err
	}
	if pending != nil {
		status.Pending = &PendingSchedule{
			ID:        pending.ID(),
			Version:   pending.Version,
			ProposeAt: pending.ProposeAt,
			Size:      pending.Schedule.Len(),
		}
	}
	return utils.WriteJSON(w, status)
}
