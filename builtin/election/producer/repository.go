// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package producer

import (
	"github.com/pkg/errors"

	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
)

// Repository stores producer records together with a secondary index ordered by votes.
type Repository struct {
	records *tables.Mapping[elector.Address, body]
	byVotes *tables.Index
}

func NewRepository(ctx *tables.Context) *Repository {
	return &Repository{
		records: tables.NewMapping[elector.Address, body](ctx, "producers/"),
		byVotes: tables.NewIndex(ctx, "producers-by-votes/"),
	}
}

// Get returns the record of owner, or nil if owner is not registered.
func (r *Repository) Get(owner elector.Address) (*Record, error) {
	b, err := r.records.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get producer")
	}
	if b == nil {
		return nil, nil
	}
	return b.toRecord(owner), nil
}

// Set stores rec and moves its index entry when the total votes changed.
func (r *Repository) Set(rec *Record) error {
	old, err := r.records.Get(rec.Owner)
	if err != nil {
		return errors.Wrap(err, "failed to get producer")
	}
	next := rec.toBody()
	if old == nil || old.TotalVotes != next.TotalVotes {
		if old != nil {
			if err := r.byVotes.Remove(votesKey(old.toRecord(rec.Owner).TotalVotes, rec.Owner)); err != nil {
				return errors.Wrap(err, "failed to update votes index")
			}
		}
		if err := r.byVotes.Insert(votesKey(rec.TotalVotes, rec.Owner)); err != nil {
			return errors.Wrap(err, "failed to update votes index")
		}
	}
	if err := r.records.Set(rec.Owner, next); err != nil {
		return errors.Wrap(err, "failed to set producer")
	}
	return nil
}

// Iterate visits records in owner order.
func (r *Repository) Iterate(fn func(rec *Record) (bool, error)) error {
	return r.records.Iterate(func(key []byte, b *body) (bool, error) {
		return fn(b.toRecord(elector.BytesToAddress(key)))
	})
}

// IterateByVotes visits records by total votes descending, ties broken by owner ascending.
func (r *Repository) IterateByVotes(fn func(rec *Record) (bool, error)) error {
	return r.byVotes.Iterate(func(key []byte) (bool, error) {
		owner := ownerOfVotesKey(key)
		rec, err := r.Get(owner)
		if err != nil {
			return false, err
		}
		if rec == nil {
			return false, reverts.Corruption("votes index refers to unknown producer %v", owner)
		}
		return fn(rec)
	})
}
