// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dposlab/elector/api"
	"github.com/dposlab/elector/api/admin"
	"github.com/dposlab/elector/genesis"
	"github.com/dposlab/elector/log"
	"github.com/dposlab/elector/metrics"
	"github.com/dposlab/elector/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "elector")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "Elector",
		Usage:   "Delegated proof-of-stake producer election",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "initialize the data dir with a genesis",
				Flags:  []cli.Flag{dataDirFlag, genesisFlag, verbosityFlag, jsonLogsFlag},
				Action: initAction,
			},
			{
				Name:      "apply",
				Usage:     "apply a script of actions, in order",
				ArgsUsage: "<actions.yaml>",
				Flags:     []cli.Flag{dataDirFlag, genesisFlag, cacheFlag, verbosityFlag, jsonLogsFlag},
				Action:    applyAction,
			},
			{
				Name:  "serve",
				Usage: "serve the query API",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiLogsLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					apiLog5xxErrorsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
					ntpServerFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	if err := gene.Build(mainDB); err != nil {
		if errors.Is(err, genesis.ErrAlreadyInitialized) {
			logger.Info("genesis already built", "dir", instanceDir)
			return nil
		}
		return errors.Wrap(err, "build genesis")
	}
	logger.Info("genesis built", "name", gene.Name, "dir", instanceDir, "producers", len(gene.Producers))
	return nil
}

func applyAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 1 {
		return errors.New("expected exactly one actions file")
	}
	actions, err := loadActions(ctx.Args().First())
	if err != nil {
		return err
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	transferLog, err := openTransferLog(instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing transfer log..."); transferLog.Close() }()

	return applyActions(mainDB, transferLog, actions, true)
}

func serveAction(ctx *cli.Context) error {
	logLevel := initLogger(ctx)
	defer func() { logger.Info("exited") }()

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	transferLog, err := openTransferLog(instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing transfer log..."); transferLog.Close() }()

	rt := runtime.New(mainDB, &runtime.BlockContext{Time: uint64(time.Now().Unix())}, runtime.Options{})
	accounts, err := rt.Accounts()
	if err != nil {
		return err
	}
	if accounts == nil {
		return errors.New("data dir not initialized, run 'init' with the same genesis first")
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler := api.New(rt, transferLog, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      &apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})

	servers := []*server{{name: "API", addr: ctx.String(apiAddrFlag.Name), handler: handler}}
	if ctx.Bool(enableMetricsFlag.Name) {
		servers = append(servers, &server{name: "metrics", addr: ctx.String(metricsAddrFlag.Name), handler: metrics.HTTPHandler()})
	}
	if ctx.Bool(enableAdminFlag.Name) {
		servers = append(servers, &server{name: "admin", addr: ctx.String(adminAddrFlag.Name), handler: admin.New(rt, logLevel, &apiLogs)})
	}

	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ntpServer := ctx.String(ntpServerFlag.Name); ntpServer != "" {
		go checkClockOffset(ntpServer)
	}

	group, groupCtx := errgroup.WithContext(exitCtx)
	for _, srv := range servers {
		if err := srv.listen(); err != nil {
			return err
		}
		logger.Info("server started", "name", srv.name, "url", srv.url())
		group.Go(srv.serve)
	}
	group.Go(func() error {
		<-groupCtx.Done()
		for _, srv := range servers {
			logger.Info("stopping server...", "name", srv.name)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			srv.shutdown(shutdownCtx)
			cancel()
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
