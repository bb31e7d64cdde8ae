// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proposals keeps the producer schedule pending activation by consensus.
package proposals

import (
	"github.com/dposlab/elector/builtin/election"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
)

// Pending is the last accepted schedule proposal.
type Pending struct {
	Version   uint32
	ProposeAt uint64
	Schedule  election.Schedule
}

// Store accepts schedule proposals.
type Store struct {
	pending *tables.Slot[Pending]
	now     func() uint64
}

var _ election.SchedulePublisher = (*Store)(nil)

// New creates a store. now returns the current block time.
func New(ctx *tables.Context, now func() uint64) *Store {
	return &Store{tables.NewSlot[Pending](ctx, "pending-schedule"), now}
}

// Pending returns the pending proposal, or nil if nothing was ever proposed.
func (s *Store) Pending() (*Pending, error) {
	return s.pending.Get()
}

// ProposeSchedule stores schedule as the new pending proposal. Empty schedules and
// schedules equal to the pending one are dropped.
func (s *Store) ProposeSchedule(schedule *election.Schedule) (bool, error) {
	if schedule == nil || schedule.Len() == 0 {
		return false, nil
	}
	cur, err := s.pending.Get()
	if err != nil {
		return false, err
	}

	var version uint32
	if cur != nil {
		if cur.Schedule.ID() == schedule.ID() {
			return false, nil
		}
		version = cur.Version + 1
	}
	if err := s.pending.Set(&Pending{
		Version:   version,
		ProposeAt: s.now(),
		Schedule:  *schedule,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// ID returns the id of the pending schedule.
func (p *Pending) ID() elector.Bytes32 {
	return p.Schedule.ID()
}
