// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gaspay

import (
	"errors"
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dposlab/elector/builtin/params"
	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/kv"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		amount, num, den int64
		fee, net         int64
	}{
		{10000, 1, 200, 50, 9950},
		{199, 1, 200, 1, 198},
		{1, 1, 200, 1, 0},
		{0, 1, 200, 0, 0},
		{100, 0, 200, 0, 100},
		{100, 200, 200, 100, 0},
		{7, 1, 3, 3, 4},
	}
	for _, tt := range tests {
		fee, net, err := Split(big.NewInt(tt.amount), big.NewInt(tt.num), big.NewInt(tt.den))
		require.NoError(t, err)
		assert.Equal(t, tt.fee, fee.Int64(), "fee of %d", tt.amount)
		assert.Equal(t, tt.net, net.Int64(), "net of %d", tt.amount)
	}
}

func TestSplit_Invalid(t *testing.T) {
	tests := []struct {
		name             string
		amount, num, den int64
	}{
		{"negative amount", -1, 1, 200},
		{"zero denominator", 100, 1, 0},
		{"numerator above denominator", 100, 201, 200},
		{"negative numerator", 100, -1, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Split(big.NewInt(tt.amount), big.NewInt(tt.num), big.NewInt(tt.den))
			assert.True(t, errors.Is(err, reverts.ErrValidation))
		})
	}
}

func TestSplit_Fuzz(t *testing.T) {
	f := fuzz.New()
	for j := 0; j < 1000; j++ {
		var amount uint64
		var num, den uint16
		f.Fuzz(&amount)
		f.Fuzz(&den)
		f.Fuzz(&num)
		if den == 0 {
			den = 1
		}
		num %= den + 1

		a := new(big.Int).SetUint64(amount)
		fee, net, err := Split(a, big.NewInt(int64(num)), big.NewInt(int64(den)))
		require.NoError(t, err)

		assert.Zero(t, a.Cmp(new(big.Int).Add(fee, net)))
		assert.True(t, net.Sign() >= 0)

		// fee is the smallest value with fee*den >= amount*num
		want := new(big.Int).Mul(a, big.NewInt(int64(num)))
		assert.True(t, new(big.Int).Mul(fee, big.NewInt(int64(den))).Cmp(want) >= 0)
		if fee.Sign() > 0 {
			below := new(big.Int).Sub(fee, big.NewInt(1))
			assert.True(t, below.Mul(below, big.NewInt(int64(den))).Cmp(want) < 0)
		}
	}
}

type transfer struct {
	from, to elector.Address
	amount   int64
	memo     string
}

type recorder []transfer

func (r *recorder) Transfer(from, to elector.Address, amount *big.Int, memo string) error {
	*r = append(*r, transfer{from, to, amount.Int64(), memo})
	return nil
}

func newPayer(t *testing.T) (*Payer, *params.Params, *recorder) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p := params.New(tables.NewContext(db))
	rec := &recorder{}
	return New(p, rec, collector), p, rec
}

var (
	payer     = elector.BytesToAddress([]byte("payer"))
	payee     = elector.BytesToAddress([]byte("payee"))
	collector = elector.BytesToAddress([]byte("collector"))
)

func TestPay(t *testing.T) {
	payerImpl, _, rec := newPayer(t)

	fee, err := payerImpl.Pay(payer, payee, big.NewInt(10000))
	require.NoError(t, err)
	assert.Equal(t, int64(50), fee.Int64())
	assert.Equal(t, recorder{
		{payer, payee, 9950, MemoPayGas},
		{payer, collector, 50, MemoGasFee},
	}, *rec)
}

func TestPay_SelfAndZero(t *testing.T) {
	payerImpl, _, rec := newPayer(t)

	_, err := payerImpl.Pay(payer, payer, big.NewInt(10000))
	require.NoError(t, err)
	assert.Equal(t, recorder{{payer, collector, 50, MemoGasFee}}, *rec)

	*rec = nil
	_, err = payerImpl.Pay(payer, payee, big.NewInt(0))
	require.NoError(t, err)
	assert.Empty(t, *rec)
}

func TestPay_GovernedRate(t *testing.T) {
	payerImpl, p, rec := newPayer(t)
	require.NoError(t, p.Set(elector.KeyFeeNumerator, big.NewInt(1)))
	require.NoError(t, p.Set(elector.KeyFeeDenominator, big.NewInt(10)))

	fee, err := payerImpl.Pay(payer, payee, big.NewInt(95))
	require.NoError(t, err)
	assert.Equal(t, int64(10), fee.Int64())
	assert.Equal(t, int64(85), (*rec)[0].amount)

	require.NoError(t, p.Set(elector.KeyFeeDenominator, big.NewInt(0)))
	_, err = payerImpl.Pay(payer, payee, big.NewInt(95))
	assert.True(t, errors.Is(err, reverts.ErrValidation))
}
