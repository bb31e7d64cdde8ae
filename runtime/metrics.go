// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/dposlab/elector/metrics"

var (
	metricActions         = metrics.LazyLoadCounterVec("runtime_actions_count", []string{"action", "result"})
	metricJournalFailures = metrics.LazyLoadCounter("runtime_journal_failures_count")
)
