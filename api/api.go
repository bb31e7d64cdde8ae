// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/dposlab/elector/api/election"
	"github.com/dposlab/elector/api/middleware"
	"github.com/dposlab/elector/api/producers"
	"github.com/dposlab/elector/api/transfers"
	"github.com/dposlab/elector/api/voters"
	"github.com/dposlab/elector/log"
	"github.com/dposlab/elector/runtime"
	"github.com/dposlab/elector/transferlog"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	LogsLimit            uint64
}

// New return api router
func New(
	rt *runtime.Runtime,
	journal *transferlog.TransferLog,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	producers.New(rt, opts.LogsLimit).
		Mount(router, "/producers")
	voters.New(rt).
		Mount(router, "/voters")
	if journal != nil {
		transfers.New(journal, opts.LogsLimit).
			Mount(router, "/transfers")
	}
	election.New(rt).
		Mount(router, "")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	return handler.ServeHTTP
}
