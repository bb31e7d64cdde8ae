// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tables

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/dposlab/elector/kv"
)

// Slot holds a single rlp encoded value.
type Slot[V any] struct {
	key   []byte
	store kv.Store
}

func NewSlot[V any](ctx *Context, name string) *Slot[V] {
	return &Slot[V]{key: []byte(name), store: ctx.bucket("slot/")}
}

// Get returns the stored value, or nil if the slot was never written.
func (s *Slot[V]) Get() (*V, error) {
	raw, err := s.store.Get(s.key)
	if err != nil {
		if kv.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get slot %s", s.key)
	}
	var value V
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return nil, errors.Wrapf(err, "decode slot %s", s.key)
	}
	return &value, nil
}

func (s *Slot[V]) Set(value *V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrapf(err, "encode slot %s", s.key)
	}
	return s.store.Put(s.key, raw)
}
