// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gaspay splits gas payments between the payee and the fee collector.
package gaspay

import (
	"math/big"

	"github.com/dposlab/elector/builtin/params"
	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/log"
	"github.com/dposlab/elector/metrics"
)

var (
	logger             = log.WithContext("pkg", "gaspay")
	metricFeeCollected = metrics.LazyLoadCounter("gaspay_fee_collected")
)

// Transfer memos.
const (
	MemoPayGas = "pay gas"
	MemoGasFee = "gas fee"
)

// Transferer moves balances between accounts.
type Transferer interface {
	Transfer(from, to elector.Address, amount *big.Int, memo string) error
}

// Split divides amount into a fee of num/den, rounded up, and the remaining net.
func Split(amount, num, den *big.Int) (fee *big.Int, net *big.Int, err error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, nil, reverts.Validation("amount must be non-negative")
	}
	if den == nil || den.Sign() <= 0 {
		return nil, nil, reverts.Validation("fee denominator must be positive")
	}
	if num == nil || num.Sign() < 0 || num.Cmp(den) > 0 {
		return nil, nil, reverts.Validation("fee numerator must be within [0, denominator]")
	}

	// ceil(amount * num / den)
	fee = new(big.Int).Mul(amount, num)
	fee.Add(fee, den)
	fee.Sub(fee, big.NewInt(1))
	fee.Quo(fee, den)

	net = new(big.Int).Sub(amount, fee)
	return fee, net, nil
}

// Payer charges gas payments at the governed fee rate.
type Payer struct {
	params       *params.Params
	transferer   Transferer
	feeCollector elector.Address
}

func New(params *params.Params, transferer Transferer, feeCollector elector.Address) *Payer {
	return &Payer{params, transferer, feeCollector}
}

// Rate returns the current fee numerator and denominator.
func (p *Payer) Rate() (num *big.Int, den *big.Int, err error) {
	if num, err = p.params.Get(elector.KeyFeeNumerator); err != nil {
		return
	}
	den, err = p.params.Get(elector.KeyFeeDenominator)
	return
}

// Pay moves amount from payer, the net part to payee and the fee to the fee collector.
func (p *Payer) Pay(payer, payee elector.Address, amount *big.Int) (fee *big.Int, err error) {
	num, den, err := p.Rate()
	if err != nil {
		return nil, err
	}
	fee, net, err := Split(amount, num, den)
	if err != nil {
		return nil, err
	}

	if payer != payee && net.Sign() > 0 {
		if err := p.transferer.Transfer(payer, payee, net, MemoPayGas); err != nil {
			return nil, err
		}
	}
	if fee.Sign() > 0 {
		if err := p.transferer.Transfer(payer, p.feeCollector, fee, MemoGasFee); err != nil {
			return nil, err
		}
		if fee.IsInt64() {
			metricFeeCollected().Add(fee.Int64())
		}
	}
	logger.Debug("gas paid", "payer", payer, "payee", payee, "amount", amount, "fee", fee)
	return fee, nil
}
