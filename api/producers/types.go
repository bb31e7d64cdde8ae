// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package producers

import (
	"github.com/dposlab/elector/builtin/election/producer"
	"github.com/dposlab/elector/elector"
)

type Producer struct {
	Owner      elector.Address     `json:"owner"`
	Key        elector.ProducerKey `json:"key"`
	TotalVotes float64             `json:"totalVotes"`
	IsActive   bool                `json:"isActive"`
	URL        string              `json:"url"`
	Location   uint16              `json:"location"`
}

func convertProducer(rec *producer.Record) *Producer {
	return &Producer{
		Owner:      rec.Owner,
		Key:        rec.Key,
		TotalVotes: rec.TotalVotes,
		IsActive:   rec.IsActive,
		URL:        rec.URL,
		Location:   rec.Location,
	}
}
