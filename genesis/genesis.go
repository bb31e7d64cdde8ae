// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dposlab/elector/builtin"
	"github.com/dposlab/elector/builtin/election/globalstats"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/kv"
	"github.com/dposlab/elector/log"
)

var logger = log.WithContext("pkg", "genesis")

// ErrAlreadyInitialized is returned by Build when the store holds a genesis.
var ErrAlreadyInitialized = errors.New("store already initialized")

// Genesis is the initial state of the election.
type Genesis struct {
	Name         string          `yaml:"name,omitempty"`
	LaunchTime   uint64          `yaml:"launchTime"`
	System       elector.Address `yaml:"system"`
	Stake        elector.Address `yaml:"stake"`
	FeeCollector elector.Address `yaml:"feeCollector"`
	Params       Params          `yaml:"params"`
	Accounts     []Account       `yaml:"accounts"`
	Producers    []Producer      `yaml:"producers"`
}

// Params are the initial governance params. Unset params keep their defaults.
type Params struct {
	MinActivatedStake *math.HexOrDecimal256 `yaml:"minActivatedStake,omitempty"`
	FeeNumerator      *math.HexOrDecimal256 `yaml:"feeNumerator,omitempty"`
	FeeDenominator    *math.HexOrDecimal256 `yaml:"feeDenominator,omitempty"`
	MaxScheduleSize   *math.HexOrDecimal256 `yaml:"maxScheduleSize,omitempty"`
}

// Account is an initial balance.
type Account struct {
	Address elector.Address       `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

// Producer is a producer registered at genesis.
type Producer struct {
	Address  elector.Address     `yaml:"address"`
	Key      elector.ProducerKey `yaml:"key"`
	URL      string              `yaml:"url"`
	Location uint16              `yaml:"location,omitempty"`
}

// Load reads a genesis document from file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml genesis document.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Encode returns the yaml form of gen.
func (gen *Genesis) Encode() ([]byte, error) {
	return yaml.Marshal(gen)
}

// ID returns the blake2b hash of the yaml form.
func (gen *Genesis) ID() (elector.Bytes32, error) {
	data, err := gen.Encode()
	if err != nil {
		return elector.Bytes32{}, err
	}
	return elector.Blake2b(data), nil
}

// Validate checks the document without touching any store.
func (gen *Genesis) Validate() error {
	system := map[string]elector.Address{
		"system":       gen.System,
		"stake":        gen.Stake,
		"feeCollector": gen.FeeCollector,
	}
	seen := make(map[elector.Address]string)
	for name, addr := range system {
		if addr.IsZero() {
			return fmt.Errorf("%s account must be set", name)
		}
		if other, ok := seen[addr]; ok {
			return fmt.Errorf("%s and %s accounts must differ", other, name)
		}
		seen[addr] = name
	}

	if p := gen.Params.FeeDenominator; p != nil && (*big.Int)(p).Sign() <= 0 {
		return errors.New("feeDenominator must be a positive integer")
	}
	if p := gen.Params.MaxScheduleSize; p != nil {
		if v := (*big.Int)(p); v.Sign() <= 0 || v.Cmp(big.NewInt(elector.MaxScheduleSize)) > 0 {
			return fmt.Errorf("maxScheduleSize must be within [1, %d]", elector.MaxScheduleSize)
		}
	}

	for _, a := range gen.Accounts {
		if a.Balance == nil || (*big.Int)(a.Balance).Sign() < 1 {
			return fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
	}

	producers := make(map[elector.Address]struct{})
	for _, p := range gen.Producers {
		if _, ok := producers[p.Address]; ok {
			return fmt.Errorf("%s: duplicated producer", p.Address)
		}
		producers[p.Address] = struct{}{}
		if err := p.Key.Validate(); err != nil {
			return fmt.Errorf("%s: %w", p.Address, err)
		}
	}
	return nil
}

// Build writes the genesis state into store in one batch.
func (gen *Genesis) Build(store kv.Store) error {
	if err := gen.Validate(); err != nil {
		return err
	}

	stage := kv.NewStage(store)
	ctx := tables.NewContext(stage)

	existing, err := builtin.GetAccounts(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyInitialized
	}

	accounts := builtin.Accounts{
		System:       gen.System,
		Stake:        gen.Stake,
		FeeCollector: gen.FeeCollector,
	}
	if err := builtin.SetAccounts(ctx, &accounts); err != nil {
		return err
	}
	natives := builtin.Bind(ctx, accounts, gen.LaunchTime, nil)

	for key, value := range map[elector.Bytes32]*math.HexOrDecimal256{
		elector.KeyMinActivatedStake: gen.Params.MinActivatedStake,
		elector.KeyFeeNumerator:      gen.Params.FeeNumerator,
		elector.KeyFeeDenominator:    gen.Params.FeeDenominator,
		elector.KeyMaxScheduleSize:   gen.Params.MaxScheduleSize,
	} {
		if value == nil {
			continue
		}
		if err := natives.Params.Set(key, (*big.Int)(value)); err != nil {
			return err
		}
	}

	for _, a := range gen.Accounts {
		if err := natives.Balances.Mint(a.Address, (*big.Int)(a.Balance)); err != nil {
			return err
		}
	}
	for _, p := range gen.Producers {
		if err := natives.Election.RegisterProducer(p.Address, p.Key, p.URL, p.Location); err != nil {
			return errors.WithMessagef(err, "register producer %v", p.Address)
		}
	}
	if err := natives.Election.InitGlobal(&globalstats.State{TotalActivatedStake: new(big.Int)}); err != nil {
		return err
	}

	if err := stage.Commit(); err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	logger.Info("genesis built", "name", gen.Name, "accounts", len(gen.Accounts), "producers", len(gen.Producers))
	return nil
}
