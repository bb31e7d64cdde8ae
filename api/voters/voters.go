// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voters

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dposlab/elector/api/utils"
	"github.com/dposlab/elector/builtin/election/voter"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/runtime"
)

type Voter struct {
	Owner             elector.Address       `json:"owner"`
	Staked            *math.HexOrDecimal256 `json:"staked"`
	Balance           *math.HexOrDecimal256 `json:"balance"`
	LastVoteWeight    float64               `json:"lastVoteWeight"`
	Producers         []elector.Address     `json:"producers"`
	Proxy             *elector.Address      `json:"proxy"`
	IsProxy           bool                  `json:"isProxy"`
	ProxiedVoteWeight float64               `json:"proxiedVoteWeight"`
}

func convertVoter(acc *voter.Account, balance *math.HexOrDecimal256) *Voter {
	producers := acc.Producers
	if producers == nil {
		producers = []elector.Address{}
	}
	return &Voter{
		Owner:             acc.Owner,
		Staked:            (*math.HexOrDecimal256)(acc.Staked),
		Balance:           balance,
		LastVoteWeight:    acc.LastVoteWeight,
		Producers:         producers,
		Proxy:             acc.Proxy,
		IsProxy:           acc.IsProxy,
		ProxiedVoteWeight: acc.ProxiedVoteWeight,
	}
}

type Voters struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Voters {
	return &Voters{rt}
}

func (v *Voters) handleGetVoter(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	acc, err := v.rt.Voter(addr)
	if err != nil {
		return err
	}
	if acc == nil {
		return utils.NotFound(errors.New("voter not found"))
	}
	balance, err := v.rt.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertVoter(acc, (*math.HexOrDecimal256)(balance)))
}

func (v *Voters) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /voters/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVoter))
}
