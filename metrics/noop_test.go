// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("count1").Add(1)
	for n, j := rand.Intn(100)+1, 0; j < n; j++ {
		Counter("count2").Add(1)
	}

	histVec := HistogramVec("hist2", []string{"zeroOrOne"}, nil)
	countVec := CounterVec("countVec1", []string{"zeroOrOne"})
	gaugeVec := GaugeVec("gaugeVec1", []string{"zeroOrOne"})
	for n, i := rand.Intn(100)+1, 0; i < n; i++ {
		histVec.ObserveWithLabels(int64(i), map[string]string{"thisIsNonsense": "butDoesntBreak"})
		countVec.AddWithLabel(int64(i), map[string]string{"thisIsNonsense": "butDoesntBreak"})
		gaugeVec.SetWithLabel(int64(i), map[string]string{"thisIsNonsense": "butDoesntBreak"})
	}

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
