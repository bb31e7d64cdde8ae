// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tables

import "github.com/dposlab/elector/kv"

// Context binds typed tables to a kv store.
type Context struct {
	store kv.Store
}

func NewContext(store kv.Store) *Context {
	return &Context{store: store}
}

func (c *Context) Store() kv.Store {
	return c.store
}

func (c *Context) bucket(prefix string) kv.Store {
	return kv.Bucket(prefix).NewStore(c.store)
}
