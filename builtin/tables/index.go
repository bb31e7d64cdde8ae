// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tables

import "github.com/dposlab/elector/kv"

var present = []byte{1}

// Index is an ordered set of keys. Callers encode sort order into the key bytes.
type Index struct {
	store kv.Store
}

func NewIndex(ctx *Context, prefix string) *Index {
	return &Index{store: ctx.bucket(prefix)}
}

func (i *Index) Insert(key []byte) error {
	return i.store.Put(key, present)
}

func (i *Index) Remove(key []byte) error {
	return i.store.Delete(key)
}

func (i *Index) Has(key []byte) (bool, error) {
	return i.store.Has(key)
}

// Iterate calls fn for every key in ascending order until fn returns false or an error.
func (i *Index) Iterate(fn func(key []byte) (bool, error)) error {
	it := i.store.Iterate(kv.Range{})
	defer it.Release()

	for it.Next() {
		next, err := fn(it.Key())
		if err != nil {
			return err
		}
		if !next {
			break
		}
	}
	return it.Error()
}
