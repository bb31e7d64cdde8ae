// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transferlog journals committed transfers into sqlite.
package transferlog

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/dposlab/elector/cache"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/log"
	"github.com/dposlab/elector/metrics"
)

const stmtCacheSize = 64

var (
	logger = log.WithContext("pkg", "transferlog")

	metricInserted    = metrics.LazyLoadCounter("transferlog_inserted_count")
	metricLimitBucket = metrics.LazyLoadHistogramVec("transferlog_query_limit_bucket", []string{"order"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

type TransferLog struct {
	path          string
	db            *sql.DB
	stmts         *cache.LRU
	driverVersion string
}

// New create or open the transfer log at given path.
func New(path string) (tl *TransferLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if tl == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	stmts, err := cache.NewLRUWithEvict(stmtCacheSize, func(_, value any) {
		_ = value.(*sql.Stmt).Close()
	})
	if err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &TransferLog{
		path:          path,
		db:            db,
		stmts:         stmts,
		driverVersion: driverVer,
	}, nil
}

// NewMem create a transfer log in ram.
func NewMem() (*TransferLog, error) {
	return New(":memory:")
}

func (tl *TransferLog) Path() string {
	return tl.path
}

// Close closes cached statements and the database.
func (tl *TransferLog) Close() error {
	hit, miss := tl.stmts.Stats()
	logger.Debug("closing transfer log", "stmtHit", hit, "stmtMiss", miss, "sqlite", tl.driverVersion)
	tl.stmts.Purge()
	return tl.db.Close()
}

func (tl *TransferLog) prepare(query string) (*sql.Stmt, error) {
	v, err := tl.stmts.GetOrLoad(query, func(key any) (any, error) {
		return tl.db.Prepare(key.(string))
	})
	if err != nil {
		return nil, errors.Wrap(err, "prepare")
	}
	return v.(*sql.Stmt), nil
}

// Insert appends transfers in one sql transaction.
func (tl *TransferLog) Insert(transfers []*Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	tx, err := tl.db.Begin()
	if err != nil {
		return err
	}
	for _, tr := range transfers {
		res, err := tx.Exec("INSERT INTO transfer(blockNumber, blockTime, fromAddress, toAddress, amount, memo) VALUES (?, ?, ?, ?, ?, ?)",
			tr.BlockNumber,
			tr.BlockTime,
			tr.From.Bytes(),
			tr.To.Bytes(),
			tr.Amount.Bytes(),
			tr.Memo,
		)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "insert transfer")
		}
		if id, err := res.LastInsertId(); err == nil {
			tr.Seq = uint64(id)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricInserted().Add(int64(len(transfers)))
	return nil
}

// Filter queries transfers matching filter. A nil filter returns everything in insertion order.
func (tl *TransferLog) Filter(ctx context.Context, filter *Filter) ([]*Transfer, error) {
	if filter == nil {
		filter = &Filter{}
	}
	var (
		args  []any
		conds = []string{"1"}
	)
	if filter.Address != nil {
		conds = append(conds, "(fromAddress = ? OR toAddress = ?)")
		args = append(args, filter.Address.Bytes(), filter.Address.Bytes())
	}
	if filter.From != nil {
		conds = append(conds, "fromAddress = ?")
		args = append(args, filter.From.Bytes())
	}
	if filter.To != nil {
		conds = append(conds, "toAddress = ?")
		args = append(args, filter.To.Bytes())
	}
	if filter.Range != nil {
		conds = append(conds, "blockNumber >= ?")
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			conds = append(conds, "blockNumber <= ?")
			args = append(args, filter.Range.To)
		}
	}

	query := "SELECT seq, blockNumber, blockTime, fromAddress, toAddress, amount, memo FROM transfer WHERE " +
		strings.Join(conds, " AND ")
	order := "asc"
	if filter.Order == DESC {
		query += " ORDER BY seq DESC"
		order = "desc"
	} else {
		query += " ORDER BY seq ASC"
	}
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := int64(-1)
		if filter.Limit > 0 {
			limit = int64(filter.Limit)
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}
	metricLimitBucket().ObserveWithLabels(int64(min(filter.Limit, 1001)), map[string]string{"order": order})

	stmt, err := tl.prepare(query)
	if err != nil {
		return nil, err
	}
	return queryTransfers(ctx, stmt, args...)
}

func queryTransfers(ctx context.Context, stmt *sql.Stmt, args ...any) ([]*Transfer, error) {
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			tr       Transfer
			from, to []byte
			amount   []byte
		)
		if err := rows.Scan(
			&tr.Seq,
			&tr.BlockNumber,
			&tr.BlockTime,
			&from,
			&to,
			&amount,
			&tr.Memo,
		); err != nil {
			return nil, err
		}
		tr.From = elector.BytesToAddress(from)
		tr.To = elector.BytesToAddress(to)
		tr.Amount = new(big.Int).SetBytes(amount)
		transfers = append(transfers, &tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}
