// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dposlab/elector/api/election"
	"github.com/dposlab/elector/api/producers"
	"github.com/dposlab/elector/api/transfers"
	"github.com/dposlab/elector/api/voters"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/genesis"
	"github.com/dposlab/elector/kv"
	"github.com/dposlab/elector/metrics"
	"github.com/dposlab/elector/runtime"
	"github.com/dposlab/elector/transferlog"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newTestServer(t *testing.T) (*httptest.Server, *genesis.Genesis) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	journal, err := transferlog.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	gen := genesis.NewDevnet()
	require.NoError(t, gen.Build(db))

	voter := gen.Producers[0].Address
	rt := runtime.New(db, &runtime.BlockContext{Number: 1, Time: gen.LaunchTime + 10}, runtime.Options{Journal: journal})
	require.NoError(t, rt.Vote(voter, voter, big.NewInt(1000), []elector.Address{gen.Producers[1].Address}))
	require.NoError(t, rt.Commit())

	ts := httptest.NewServer(New(rt, journal, Options{
		AllowedOrigins: "*",
		EnableMetrics:  true,
		LogsLimit:      5,
	}))
	t.Cleanup(ts.Close)
	return ts, gen
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestAPI_Producers(t *testing.T) {
	ts, gen := newTestServer(t)

	body, code := httpGet(t, ts.URL+"/producers?limit=3")
	require.Equal(t, http.StatusOK, code, string(body))
	var ranking []*producers.Producer
	require.NoError(t, json.Unmarshal(body, &ranking))
	require.Len(t, ranking, 3)
	assert.Equal(t, gen.Producers[1].Address, ranking[0].Owner)
	assert.True(t, ranking[0].TotalVotes > 0)

	// zero falls back to the maximum
	body, code = httpGet(t, ts.URL+"/producers?limit=0")
	require.Equal(t, http.StatusOK, code, string(body))
	ranking = nil
	require.NoError(t, json.Unmarshal(body, &ranking))
	assert.Len(t, ranking, 5)

	_, code = httpGet(t, ts.URL+"/producers?limit=6")
	assert.Equal(t, http.StatusForbidden, code)
	_, code = httpGet(t, ts.URL+"/producers?limit=abc")
	assert.Equal(t, http.StatusBadRequest, code)

	body, code = httpGet(t, ts.URL+"/producers/"+gen.Producers[2].Address.String())
	require.Equal(t, http.StatusOK, code)
	var p producers.Producer
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, gen.Producers[2].Key, p.Key)
	assert.True(t, p.IsActive)

	_, code = httpGet(t, ts.URL+"/producers/"+elector.Address{}.String())
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/producers/0x")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_Voters(t *testing.T) {
	ts, gen := newTestServer(t)
	owner := gen.Producers[0].Address

	body, code := httpGet(t, ts.URL+"/voters/"+owner.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var v voters.Voter
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, owner, v.Owner)
	assert.Equal(t, "1000", (*big.Int)(v.Staked).String())
	assert.Equal(t, []elector.Address{gen.Producers[1].Address}, v.Producers)
	assert.Nil(t, v.Proxy)

	_, code = httpGet(t, ts.URL+"/voters/"+gen.Producers[3].Address.String())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_Election(t *testing.T) {
	ts, _ := newTestServer(t)

	body, code := httpGet(t, ts.URL+"/global")
	require.Equal(t, http.StatusOK, code)
	var g election.Global
	require.NoError(t, json.Unmarshal(body, &g))
	assert.Equal(t, "1000", (*big.Int)(g.TotalActivatedStake).String())
	assert.False(t, g.ThreshReached)
	assert.Zero(t, g.ThreshActivatedStakeTime)

	_, code = httpGet(t, ts.URL+"/schedule")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_Transfers(t *testing.T) {
	ts, gen := newTestServer(t)
	owner := gen.Producers[0].Address

	body, code := httpGet(t, ts.URL+"/transfers?from="+owner.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var list []*transfers.Transfer
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, gen.Stake, list[0].To)
	assert.Equal(t, "1000", (*big.Int)(list[0].Amount).String())

	_, code = httpGet(t, ts.URL+"/transfers?limit=0")
	assert.Equal(t, http.StatusForbidden, code)
	_, code = httpGet(t, ts.URL+"/transfers?offset=9223372036854775808")
	assert.Equal(t, http.StatusBadRequest, code)
	body, code = httpGet(t, ts.URL+"/transfers?offset=9223372036854775807")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, "[]", string(body))
	_, code = httpGet(t, ts.URL+"/transfers?order=up")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/transfers?to=zz")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_Metrics(t *testing.T) {
	ts, gen := newTestServer(t)

	httpGet(t, ts.URL+"/producers")
	httpGet(t, ts.URL+"/producers/"+gen.Producers[0].Address.String())

	var buf bytes.Buffer
	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	buf.Write(rec.Body.Bytes())

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(&buf)
	require.NoError(t, err)

	family, ok := families["elector_metrics_api_request_count"]
	require.True(t, ok)
	names := make(map[string]bool)
	for _, m := range family.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "name" {
				names[l.GetValue()] = true
			}
		}
	}
	assert.True(t, names["GET /producers"])
	assert.True(t, names["GET /producers/{address}"])
}
