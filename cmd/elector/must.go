// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dposlab/elector/genesis"
	"github.com/dposlab/elector/kv"
	"github.com/dposlab/elector/log"
	"github.com/dposlab/elector/transferlog"
)

// maxClockOffset is the largest tolerated drift of the local clock.
const maxClockOffset = 5 * time.Second

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	lvl := &slog.LevelVar{}
	lvl.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.TerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(handler)
	return lvl
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	switch name := ctx.String(genesisFlag.Name); name {
	case "":
		cli.ShowAppHelp(ctx)
		return nil, errors.New("genesis flag not specified")
	case "devnet":
		return genesis.NewDevnet(), nil
	default:
		gene, err := genesis.Load(name)
		if err != nil {
			return nil, errors.WithMessage(err, "load genesis")
		}
		return gene, nil
	}
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

// makeInstanceDir returns a per-genesis directory inside the data dir.
func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return "", err
	}
	id, err := gene.ID()
	if err != nil {
		return "", err
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id.Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, dir string) (*kv.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	path := filepath.Join(dir, "main.db")
	db, err := kv.New(path, kv.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

// normalizeCacheSize clamps sizeMB to [128, half of the physical memory].
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openTransferLog(dir string) (*transferlog.TransferLog, error) {
	path := filepath.Join(dir, "transfers.db")
	db, err := transferlog.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open transfer log [%v]", path)
	}
	return db, nil
}

func checkClockOffset(server string) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", server, "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
}

type server struct {
	name     string
	addr     string
	handler  http.Handler
	listener net.Listener
	srv      *http.Server
}

func (s *server) listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s addr [%v]", s.name, s.addr)
	}
	s.listener = listener
	s.srv = &http.Server{Handler: s.handler, ReadHeaderTimeout: time.Second}
	return nil
}

func (s *server) url() string {
	return "http://" + s.listener.Addr().String() + "/"
}

func (s *server) serve() error {
	return s.srv.Serve(s.listener)
}

func (s *server) shutdown(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		logger.Warn("failed to shutdown server", "name", s.name, "err", err)
	}
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.dposlab.elector")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.dposlab.elector")
		}
		return filepath.Join(home, ".org.dposlab.elector")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
