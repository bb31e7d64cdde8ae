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

type Key interface {
	Bytes() []byte
}

// Mapping is a rlp encoded key/value table, iterable in key order.
type Mapping[K Key, V any] struct {
	name  string
	store kv.Store
}

func NewMapping[K Key, V any](ctx *Context, prefix string) *Mapping[K, V] {
	return &Mapping[K, V]{name: prefix, store: ctx.bucket(prefix)}
}

// Get returns the row stored under key, or nil if there is none.
func (m *Mapping[K, V]) Get(key K) (*V, error) {
	raw, err := m.store.Get(key.Bytes())
	if err != nil {
		if kv.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get %s", m.name)
	}
	var value V
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return nil, errors.Wrapf(err, "decode %s", m.name)
	}
	return &value, nil
}

func (m *Mapping[K, V]) Has(key K) (bool, error) {
	return m.store.Has(key.Bytes())
}

func (m *Mapping[K, V]) Set(key K, value *V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", m.name)
	}
	return m.store.Put(key.Bytes(), raw)
}

func (m *Mapping[K, V]) Delete(key K) error {
	return m.store.Delete(key.Bytes())
}

// Iterate calls fn for every row in ascending key order until fn returns false or an error.
func (m *Mapping[K, V]) Iterate(fn func(key []byte, value *V) (bool, error)) error {
	it := m.store.Iterate(kv.Range{})
	defer it.Release()

	for it.Next() {
		var value V
		if err := rlp.DecodeBytes(it.Value(), &value); err != nil {
			return errors.Wrapf(err, "decode %s", m.name)
		}
		next, err := fn(it.Key(), &value)
		if err != nil {
			return err
		}
		if !next {
			break
		}
	}
	return it.Error()
}
