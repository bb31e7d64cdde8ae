// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dposlab/elector/elector"
)

// DevAccount account for development.
type DevAccount struct {
	Address    elector.Address
	PrivateKey *ecdsa.PrivateKey
}

// ProducerKey returns the compressed public key of the account.
func (a DevAccount) ProducerKey() elector.ProducerKey {
	return elector.BytesToProducerKey(crypto.CompressPubkey(&a.PrivateKey.PublicKey))
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for development networks.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{elector.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet create genesis for development. The first three dev accounts serve as
// system, stake custody and fee collector. The others are funded and registered as producers.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	balance := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(10_000)) // 1M tokens, 4 decimals

	gen := &Genesis{
		Name:         "devnet",
		LaunchTime:   1526400000, // 'Wed May 16 2018 00:00:00 GMT+0800 (CST)'
		System:       accs[0].Address,
		Stake:        accs[1].Address,
		FeeCollector: accs[2].Address,
		Params: Params{
			MinActivatedStake: (*math.HexOrDecimal256)(new(big.Int).Mul(balance, big.NewInt(2))),
		},
	}
	for i, a := range accs[3:] {
		gen.Accounts = append(gen.Accounts, Account{
			Address: a.Address,
			Balance: (*math.HexOrDecimal256)(new(big.Int).Set(balance)),
		})
		gen.Producers = append(gen.Producers, Producer{
			Address: a.Address,
			Key:     a.ProducerKey(),
			URL:     fmt.Sprintf("https://producer%d.dev.local", i),
		})
	}
	return gen
}
