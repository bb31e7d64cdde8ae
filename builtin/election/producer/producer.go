// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package producer

import (
	"encoding/binary"
	"math"

	"github.com/dposlab/elector/elector"
)

// Record is a registered block producer candidate.
type Record struct {
	Owner      elector.Address
	Key        elector.ProducerKey
	TotalVotes float64 // never negative
	IsActive   bool
	URL        string
	Location   uint16
}

// AddVotes applies delta to the total, flooring the result at zero.
func (r *Record) AddVotes(delta float64) {
	r.TotalVotes += delta
	if r.TotalVotes < 0 {
		r.TotalVotes = 0
	}
}

type body struct {
	Key        elector.ProducerKey
	TotalVotes uint64 // IEEE-754 bits
	IsActive   bool
	URL        string
	Location   uint16
}

func (r *Record) toBody() *body {
	return &body{
		Key:        r.Key,
		TotalVotes: math.Float64bits(r.TotalVotes),
		IsActive:   r.IsActive,
		URL:        r.URL,
		Location:   r.Location,
	}
}

func (b *body) toRecord(owner elector.Address) *Record {
	return &Record{
		Owner:      owner,
		Key:        b.Key,
		TotalVotes: math.Float64frombits(b.TotalVotes),
		IsActive:   b.IsActive,
		URL:        b.URL,
		Location:   b.Location,
	}
}

// votesKey orders records by total votes descending, then owner ascending.
// For non-negative floats the IEEE-754 bit pattern sorts like the value itself.
func votesKey(votes float64, owner elector.Address) []byte {
	key := make([]byte, 8+elector.AddressLength)
	binary.BigEndian.PutUint64(key, ^math.Float64bits(votes))
	copy(key[8:], owner[:])
	return key
}

func ownerOfVotesKey(key []byte) elector.Address {
	return elector.BytesToAddress(key[8:])
}
