// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes election actions against the store, one block at a time.
package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/dposlab/elector/builtin"
	"github.com/dposlab/elector/builtin/election"
	"github.com/dposlab/elector/builtin/election/globalstats"
	"github.com/dposlab/elector/builtin/election/producer"
	"github.com/dposlab/elector/builtin/election/voter"
	"github.com/dposlab/elector/builtin/proposals"
	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/kv"
	"github.com/dposlab/elector/log"
	"github.com/dposlab/elector/transferlog"
)

var logger = log.WithContext("pkg", "runtime")

// ErrNotInitialized is returned when the store holds no genesis.
var ErrNotInitialized = errors.New("store not initialized")

// BlockContext describes the block the actions are included in.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Journal receives the transfers of every committed action.
type Journal interface {
	Insert(transfers []*transferlog.Transfer) error
}

type Options struct {
	Journal Journal
}

// Runtime runs the actions of one block on a single stage. A failed action is reverted
// to the checkpoint taken before it; Commit writes the surviving changes in one batch.
type Runtime struct {
	ctx       *BlockContext
	opts      Options
	stage     *kv.Stage
	transfers []*transferlog.Transfer
}

// New create a Runtime object.
func New(store kv.Store, ctx *BlockContext, opts Options) *Runtime {
	return &Runtime{
		ctx:   ctx,
		opts:  opts,
		stage: kv.NewStage(store),
	}
}

func (rt *Runtime) Context() *BlockContext { return rt.ctx }

func (rt *Runtime) natives(ctx *tables.Context, observer func(from, to elector.Address, amount *big.Int, memo string)) (*builtin.Natives, error) {
	accounts, err := builtin.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return nil, ErrNotInitialized
	}
	return builtin.Bind(ctx, *accounts, rt.ctx.Time, observer), nil
}

func (rt *Runtime) observe(from, to elector.Address, amount *big.Int, memo string) {
	rt.transfers = append(rt.transfers, &transferlog.Transfer{
		BlockNumber: rt.ctx.Number,
		BlockTime:   rt.ctx.Time,
		From:        from,
		To:          to,
		Amount:      new(big.Int).Set(amount),
		Memo:        memo,
	})
}

// exec runs fn after a checkpoint of the block stage. Every write and transfer of a
// failed fn is discarded.
func (rt *Runtime) exec(action string, fn func(n *builtin.Natives) error) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			if reverts.IsRevertErr(err) {
				result = "reverted"
			} else {
				result = "error"
			}
		}
		metricActions().AddWithLabel(1, map[string]string{"action": action, "result": result})
	}()

	checkpoint := rt.stage.Checkpoint()
	pending := len(rt.transfers)
	defer func() {
		if err != nil {
			rt.stage.Revert(checkpoint)
			rt.transfers = rt.transfers[:pending]
		}
	}()

	n, err := rt.natives(tables.NewContext(rt.stage), rt.observe)
	if err != nil {
		return err
	}
	if err := fn(n); err != nil {
		logger.Debug("action failed", "action", action, "block", rt.ctx.Number, "err", err)
		return err
	}
	logger.Trace("action executed", "action", action, "block", rt.ctx.Number, "transfers", len(rt.transfers)-pending)
	return nil
}

// Commit writes the changes of every successful action in one batch, then journals
// their transfers. The journal is best-effort: a failed insert is logged and counted,
// the committed state stays.
func (rt *Runtime) Commit() error {
	if err := rt.stage.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	transfers := rt.transfers
	rt.transfers = nil
	if rt.opts.Journal == nil || len(transfers) == 0 {
		return nil
	}
	if err := rt.opts.Journal.Insert(transfers); err != nil {
		metricJournalFailures().Add(1)
		logger.Error("failed to journal transfers", "block", rt.ctx.Number, "count", len(transfers), "err", err)
	}
	return nil
}

func requireAuth(caller, account elector.Address) error {
	if caller != account {
		return reverts.Validation("missing authority of %v", account)
	}
	return nil
}

func (rt *Runtime) RegisterProducer(caller, owner elector.Address, key elector.ProducerKey, url string, location uint16) error {
	return rt.exec("regproducer", func(n *builtin.Natives) error {
		if err := requireAuth(caller, owner); err != nil {
			return err
		}
		return n.Election.RegisterProducer(owner, key, url, location)
	})
}

func (rt *Runtime) UnregisterProducer(caller, owner elector.Address) error {
	return rt.exec("unregprod", func(n *builtin.Natives) error {
		if err := requireAuth(caller, owner); err != nil {
			return err
		}
		return n.Election.UnregisterProducer(owner)
	})
}

func (rt *Runtime) RegProxy(caller, proxy elector.Address, isProxy bool) error {
	return rt.exec("regproxy", func(n *builtin.Natives) error {
		if err := requireAuth(caller, proxy); err != nil {
			return err
		}
		return n.Election.RegProxy(proxy, isProxy, rt.ctx.Time)
	})
}

func (rt *Runtime) Vote(caller, voter elector.Address, stake *big.Int, producers []elector.Address) error {
	return rt.exec("voteproducer", func(n *builtin.Natives) error {
		if err := requireAuth(caller, voter); err != nil {
			return err
		}
		return n.Election.Vote(voter, stake, producers, rt.ctx.Time)
	})
}

func (rt *Runtime) VoteProxy(caller, voter elector.Address, stake *big.Int, proxy elector.Address) error {
	return rt.exec("voteproxy", func(n *builtin.Natives) error {
		if err := requireAuth(caller, voter); err != nil {
			return err
		}
		return n.Election.VoteProxy(voter, stake, proxy, rt.ctx.Time)
	})
}

// PayGas charges amount from payer on behalf of payee. Only the system account may call it.
func (rt *Runtime) PayGas(caller, payer, payee elector.Address, amount *big.Int) (fee *big.Int, err error) {
	err = rt.exec("paygas", func(n *builtin.Natives) error {
		if err := requireAuth(caller, n.Accounts.System); err != nil {
			return err
		}
		fee, err = n.GasPay.Pay(payer, payee, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

// UpdateElectedProducers runs schedule selection at the block time. Only the system account may call it.
func (rt *Runtime) UpdateElectedProducers(caller elector.Address) (schedule *election.Schedule, accepted bool, err error) {
	err = rt.exec("elect", func(n *builtin.Natives) error {
		if err := requireAuth(caller, n.Accounts.System); err != nil {
			return err
		}
		schedule, accepted, err = n.Election.UpdateElectedProducers(rt.ctx.Time)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return schedule, accepted, nil
}

//
// Read helpers, served from the block stage: committed state plus the changes
// of actions executed so far.
//

func (rt *Runtime) view() (*builtin.Natives, error) {
	return rt.natives(tables.NewContext(rt.stage), nil)
}

// Producers returns up to limit producers ranked by votes.
func (rt *Runtime) Producers(limit int) ([]*producer.Record, error) {
	n, err := rt.view()
	if err != nil {
		return nil, err
	}
	return n.Election.RankedProducers(limit)
}

func (rt *Runtime) Producer(owner elector.Address) (*producer.Record, error) {
	n, err := rt.view()
	if err != nil {
		return nil, err
	}
	return n.Election.Producer(owner)
}

func (rt *Runtime) Voter(owner elector.Address) (*voter.Account, error) {
	n, err := rt.view()
	if err != nil {
		return nil, err
	}
	return n.Election.Voter(owner)
}

func (rt *Runtime) Global() (*globalstats.State, error) {
	n, err := rt.view()
	if err != nil {
		return nil, err
	}
	return n.Election.Global()
}

// PendingSchedule returns the last accepted schedule proposal, or nil.
func (rt *Runtime) PendingSchedule() (*proposals.Pending, error) {
	n, err := rt.view()
	if err != nil {
		return nil, err
	}
	return n.Proposals.Pending()
}

// Param returns the governance parameter stored under key.
func (rt *Runtime) Param(key elector.Bytes32) (*big.Int, error) {
	n, err := rt.view()
	if err != nil {
		return nil, err
	}
	return n.Params.Get(key)
}

func (rt *Runtime) Balance(addr elector.Address) (*big.Int, error) {
	n, err := rt.view()
	if err != nil {
		return nil, err
	}
	return n.Balances.Get(addr)
}

func (rt *Runtime) Accounts() (*builtin.Accounts, error) {
	return builtin.GetAccounts(tables.NewContext(rt.stage))
}
