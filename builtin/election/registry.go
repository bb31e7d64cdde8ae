// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/dposlab/elector/builtin/election/producer"
	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/elector"
)

// RegisterProducer registers owner as a producer candidate. Registering again
// overwrites the key and metadata and reactivates the producer.
func (e *Election) RegisterProducer(owner elector.Address, key elector.ProducerKey, url string, location uint16) error {
	if len(url) >= elector.MaxURLLength {
		return reverts.Validation("url too long")
	}
	if err := key.Validate(); err != nil {
		return reverts.Validation("invalid producer key: %v", err)
	}

	rec, err := e.producers.Get(owner)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &producer.Record{Owner: owner}
	}
	rec.Key = key
	rec.URL = url
	rec.Location = location
	rec.IsActive = true

	if err := e.producers.Set(rec); err != nil {
		return err
	}
	logger.Debug("producer registered", "owner", owner, "votes", rec.TotalVotes)
	return nil
}

// UnregisterProducer deactivates owner. Accumulated votes are kept.
func (e *Election) UnregisterProducer(owner elector.Address) error {
	rec, err := e.producers.Get(owner)
	if err != nil {
		return err
	}
	if rec == nil {
		return reverts.NotFound("producer %v not found", owner)
	}
	rec.IsActive = false
	if err := e.producers.Set(rec); err != nil {
		return err
	}
	logger.Debug("producer unregistered", "owner", owner)
	return nil
}
