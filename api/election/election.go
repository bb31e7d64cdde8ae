// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dposlab/elector/api/utils"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/runtime"
)

type Global struct {
	TotalActivatedStake        *math.HexOrDecimal256 `json:"totalActivatedStake"`
	TotalProducerVoteWeight    float64               `json:"totalProducerVoteWeight"`
	ThreshReached              bool                  `json:"threshReached"`
	ThreshActivatedStakeTime   uint64                `json:"threshActivatedStakeTime"`
	LastProducerScheduleUpdate uint64                `json:"lastProducerScheduleUpdate"`
	LastProducerScheduleSize   uint32                `json:"lastProducerScheduleSize"`
}

type ScheduledProducer struct {
	Owner elector.Address     `json:"owner"`
	Key   elector.ProducerKey `json:"key"`
}

type Schedule struct {
	ID        elector.Bytes32     `json:"id"`
	Version   uint32              `json:"version"`
	ProposeAt uint64              `json:"proposeAt"`
	Producers []ScheduledProducer `json:"producers"`
}

type Election struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Election {
	return &Election{rt}
}

func (e *Election) handleGetGlobal(w http.ResponseWriter, _ *http.Request) error {
	gs, err := e.rt.Global()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Global{
		TotalActivatedStake:        (*math.HexOrDecimal256)(gs.TotalActivatedStake),
		TotalProducerVoteWeight:    gs.TotalProducerVoteWeight,
		ThreshReached:              gs.ThreshReached,
		ThreshActivatedStakeTime:   gs.ThreshActivatedStakeTime,
		LastProducerScheduleUpdate: gs.LastProducerScheduleUpdate,
		LastProducerScheduleSize:   gs.LastProducerScheduleSize,
	})
}

func (e *Election) handleGetSchedule(w http.ResponseWriter, _ *http.Request) error {
	pending, err := e.rt.PendingSchedule()
	if err != nil {
		return err
	}
	if pending == nil {
		return utils.NotFound(errors.New("no schedule proposed"))
	}
	s := &Schedule{
		ID:        pending.ID(),
		Version:   pending.Version,
		ProposeAt: pending.ProposeAt,
		Producers: make([]ScheduledProducer, 0, pending.Schedule.Len()),
	}
	for _, p := range pending.Schedule.Producers {
		s.Producers = append(s.Producers, ScheduledProducer{p.Owner, p.Key})
	}
	return utils.WriteJSON(w, s)
}

func (e *Election) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/global").
		Methods(http.MethodGet).
		Name("GET /global").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetGlobal))
	sub.Path("/schedule").
		Methods(http.MethodGet).
		Name("GET /schedule").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetSchedule))
}
