// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dposlab/elector/api/utils"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/transferlog"
)

type Transfers struct {
	db    *transferlog.TransferLog
	limit uint64
}

func New(db *transferlog.TransferLog, logsLimit uint64) *Transfers {
	return &Transfers{
		db,
		logsLimit,
	}
}

func queryAddress(req *http.Request, name string) (*elector.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := utils.ParseAddress(s, name)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (t *Transfers) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	var (
		filter transferlog.Filter
		err    error
	)
	if filter.Address, err = queryAddress(req, "address"); err != nil {
		return err
	}
	if filter.From, err = queryAddress(req, "from"); err != nil {
		return err
	}
	if filter.To, err = queryAddress(req, "to"); err != nil {
		return err
	}
	if filter.Offset, err = utils.QueryUint64(req, "offset", 0); err != nil {
		return err
	}
	if filter.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("offset must not exceed %d", int64(math.MaxInt64)))
	}
	if filter.Limit, err = utils.QueryUint64(req, "limit", t.limit); err != nil {
		return err
	}
	if filter.Limit == 0 || filter.Limit > t.limit {
		return utils.Forbidden(fmt.Errorf("limit must be within [1, %d]", t.limit))
	}
	switch order := req.URL.Query().Get("order"); order {
	case "", string(transferlog.ASC):
		filter.Order = transferlog.ASC
	case string(transferlog.DESC):
		filter.Order = transferlog.DESC
	default:
		return utils.BadRequest(fmt.Errorf("order: unknown value %q", order))
	}

	transfers, err := t.db.Filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	list := make([]*Transfer, 0, len(transfers))
	for _, tr := range transfers {
		list = append(list, convertTransfer(tr))
	}
	return utils.WriteJSON(w, list)
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /transfers").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFilterTransfers))
}
