// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dposlab/elector/builtin/election/producer"
	"github.com/dposlab/elector/elector"
)

// ScheduledProducer is an entry of a proposed schedule.
type ScheduledProducer struct {
	Owner elector.Address
	Key   elector.ProducerKey
}

// Schedule is the producer set proposed to consensus, ordered by owner.
type Schedule struct {
	Producers []ScheduledProducer
}

// ID returns the blake2b hash of the rlp encoded schedule.
func (s *Schedule) ID() elector.Bytes32 {
	return elector.Blake2bFn(func(w io.Writer) {
		_ = rlp.Encode(w, s.Producers)
	})
}

func (s *Schedule) Len() int {
	return len(s.Producers)
}

// UpdateElectedProducers selects the top active producers by votes and proposes them,
// ordered by owner, as the next schedule. A selection smaller than the last published
// schedule is not proposed. The returned bool tells whether a schedule was accepted.
func (e *Election) UpdateElectedProducers(blockTime uint64) (*Schedule, bool, error) {
	gs, err := e.global.Get()
	if err != nil {
		return nil, false, err
	}
	gs.LastProducerScheduleUpdate = blockTime

	maxSize, err := e.maxScheduleSize()
	if err != nil {
		return nil, false, err
	}

	top := make([]*producer.Record, 0, maxSize)
	if err := e.producers.IterateByVotes(func(rec *producer.Record) (bool, error) {
		if rec.TotalVotes <= 0 {
			return false, nil
		}
		if rec.IsActive {
			top = append(top, rec)
		}
		return len(top) < maxSize, nil
	}); err != nil {
		return nil, false, err
	}

	if len(top) < int(gs.LastProducerScheduleSize) {
		logger.Debug("schedule not proposed, fewer producers than current schedule",
			"selected", len(top), "current", gs.LastProducerScheduleSize)
		return nil, false, e.global.Set(gs)
	}

	sort.Slice(top, func(i, j int) bool {
		return top[i].Owner.Compare(top[j].Owner) < 0
	})
	schedule := &Schedule{Producers: make([]ScheduledProducer, 0, len(top))}
	for _, rec := range top {
		schedule.Producers = append(schedule.Producers, ScheduledProducer{Owner: rec.Owner, Key: rec.Key})
	}

	accepted, err := e.publisher.ProposeSchedule(schedule)
	if err != nil {
		return nil, false, err
	}
	if accepted {
		gs.LastProducerScheduleSize = uint32(len(top))
		metricProposals().AddWithLabel(1, map[string]string{"result": "accepted"})
		metricScheduleSize().Set(int64(len(top)))
		logger.Info("producer schedule proposed", "id", schedule.ID().AbbrevString(), "size", len(top), "time", blockTime)
	} else {
		metricProposals().AddWithLabel(1, map[string]string{"result": "dropped"})
		logger.Warn("producer schedule dropped", "id", schedule.ID().AbbrevString(), "size", len(top))
	}

	if err := e.global.Set(gs); err != nil {
		return nil, false, err
	}
	return schedule, accepted, nil
}

func (e *Election) maxScheduleSize() (int, error) {
	v, err := e.params.Get(elector.KeyMaxScheduleSize)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() || v.Int64() <= 0 || v.Int64() > elector.MaxScheduleSize {
		return elector.MaxScheduleSize, nil
	}
	return int(v.Int64()), nil
}
