// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints: election status, log verbosity and
// request logging of the public api.
package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dposlab/elector/api/utils"
	"github.com/dposlab/elector/log"
	"github.com/dposlab/elector/runtime"
)

var logger = log.WithContext("pkg", "admin")

type Admin struct {
	rt       *runtime.Runtime
	logLevel *slog.LevelVar
	apiLogs  *atomic.Bool
}

// New returns the admin handler mounted under /admin.
func New(rt *runtime.Runtime, logLevel *slog.LevelVar, apiLogs *atomic.Bool) http.HandlerFunc {
	router := mux.NewRouter()
	(&Admin{rt, logLevel, apiLogs}).Mount(router, "/admin")
	return handlers.CompressHandler(router).ServeHTTP
}

type LogLevel struct {
	Level string `json:"level"`
}

type APILogs struct {
	Enabled bool `json:"enabled"`
}

func (a *Admin) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &LogLevel{log.LevelString(a.logLevel.Level())})
}

func (a *Admin) handleSetLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body LogLevel
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	level, err := log.ParseLevel(body.Level)
	if err != nil {
		return utils.BadRequest(err)
	}
	a.logLevel.Set(level)
	logger.Info("log level changed", "level", log.LevelString(level))
	return utils.WriteJSON(w, &LogLevel{log.LevelString(a.logLevel.Level())})
}

func (a *Admin) handleGetAPILogs(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &APILogs{a.apiLogs.Load()})
}

func (a *Admin) handleSetAPILogs(w http.ResponseWriter, req *http.Request) error {
	var body APILogs
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	a.apiLogs.Store(body.Enabled)
	logger.Info("api logs toggled", "enabled", body.Enabled)
	return utils.WriteJSON(w, &APILogs{a.apiLogs.Load()})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /admin/status").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))
	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetLogLevel))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAPILogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetAPILogs))
}
