// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package producers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dposlab/elector/api/utils"
	"github.com/dposlab/elector/runtime"
)

type Producers struct {
	rt    *runtime.Runtime
	limit uint64
}

// New creates the producers api. limit bounds the size of the ranking.
func New(rt *runtime.Runtime, limit uint64) *Producers {
	return &Producers{rt, limit}
}

func (p *Producers) handleGetRanking(w http.ResponseWriter, req *http.Request) error {
	limit, err := utils.QueryUint64(req, "limit", p.limit)
	if err != nil {
		return err
	}
	if limit == 0 {
		limit = p.limit
	}
	if limit > p.limit {
		return utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", p.limit))
	}
	records, err := p.rt.Producers(int(limit))
	if err != nil {
		return err
	}
	list := make([]*Producer, 0, len(records))
	for _, rec := range records {
		list = append(list, convertProducer(rec))
	}
	return utils.WriteJSON(w, list)
}

func (p *Producers) handleGetProducer(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	rec, err := p.rt.Producer(addr)
	if err != nil {
		return err
	}
	if rec == nil {
		return utils.NotFound(errors.New("producer not found"))
	}
	return utils.WriteJSON(w, convertProducer(rec))
}

func (p *Producers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /producers").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetRanking))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /producers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetProducer))
}
