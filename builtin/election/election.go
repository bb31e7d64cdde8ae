// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"

	"github.com/dposlab/elector/builtin/election/globalstats"
	"github.com/dposlab/elector/builtin/election/producer"
	"github.com/dposlab/elector/builtin/election/voter"
	"github.com/dposlab/elector/builtin/params"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/log"
)

var logger = log.WithContext("pkg", "election")

// Transferer moves balances between accounts. A failed transfer aborts the action.
type Transferer interface {
	Transfer(from, to elector.Address, amount *big.Int, memo string) error
}

// SchedulePublisher hands a proposed schedule to consensus. A false result means the
// proposal was dropped.
type SchedulePublisher interface {
	ProposeSchedule(schedule *Schedule) (bool, error)
}

// Election implements voting, the producer registry and schedule selection.
type Election struct {
	stakeAccount elector.Address
	params       *params.Params
	transferer   Transferer
	publisher    SchedulePublisher

	voters    *voter.Repository
	producers *producer.Repository
	global    *globalstats.Service
}

// New create a new instance. Staked tokens are held by stakeAccount.
func New(
	ctx *tables.Context,
	params *params.Params,
	stakeAccount elector.Address,
	transferer Transferer,
	publisher SchedulePublisher,
) *Election {
	return &Election{
		stakeAccount: stakeAccount,
		params:       params,
		transferer:   transferer,
		publisher:    publisher,

		voters:    voter.NewRepository(ctx),
		producers: producer.NewRepository(ctx),
		global:    globalstats.New(ctx),
	}
}

//
// Getters - no state change
//

// Voter returns the account of owner, or nil if it never voted.
func (e *Election) Voter(owner elector.Address) (*voter.Account, error) {
	return e.voters.Get(owner)
}

// Producer returns the record of owner, or nil if it is not registered.
func (e *Election) Producer(owner elector.Address) (*producer.Record, error) {
	return e.producers.Get(owner)
}

// RankedProducers returns up to limit producers ordered by total votes. A zero limit means all.
func (e *Election) RankedProducers(limit int) ([]*producer.Record, error) {
	var list []*producer.Record
	err := e.producers.IterateByVotes(func(rec *producer.Record) (bool, error) {
		list = append(list, rec)
		return limit <= 0 || len(list) < limit, nil
	})
	return list, err
}

// Global returns the chain-wide counters.
func (e *Election) Global() (*globalstats.State, error) {
	return e.global.Get()
}

// InitGlobal stores the counters at genesis.
func (e *Election) InitGlobal(st *globalstats.State) error {
	return e.global.Set(st)
}
