// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import "github.com/dposlab/elector/metrics"

var (
	metricVotes        = metrics.LazyLoadCounterVec("election_votes_count", []string{"kind"})
	metricPropagations = metrics.LazyLoadCounter("election_propagations_count")
	metricScheduleSize = metrics.LazyLoadGauge("election_schedule_size")
	metricProposals    = metrics.LazyLoadCounterVec("election_schedule_proposals_count", []string{"result"})
)
