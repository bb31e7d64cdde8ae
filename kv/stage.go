// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"

	"github.com/dposlab/elector/stackedmap"
)

var _ Store = (*Stage)(nil)

type stagedValue struct {
	val     []byte
	deleted bool
}

// Stage buffers writes over a source store. Reads see buffered writes first.
// Nothing reaches the source until Commit.
type Stage struct {
	src Store
	sm  *stackedmap.StackedMap[string, stagedValue]
}

// NewStage creates a stage over src.
func NewStage(src Store) *Stage {
	s := &Stage{src: src}
	s.reset()
	return s
}

func (s *Stage) reset() {
	s.sm = stackedmap.New(func(key string) (stagedValue, bool, error) {
		val, err := s.src.Get([]byte(key))
		if err != nil {
			if IsNotFound(err) {
				return stagedValue{}, false, nil
			}
			return stagedValue{}, false, err
		}
		return stagedValue{val: val}, true, nil
	})
}

func (s *Stage) Get(key []byte) ([]byte, error) {
	v, ok, err := s.sm.Get(string(key))
	if err != nil {
		return nil, err
	}
	if !ok || v.deleted {
		return nil, ErrNotFound
	}
	return v.val, nil
}

func (s *Stage) Has(key []byte) (bool, error) {
	v, ok, err := s.sm.Get(string(key))
	if err != nil {
		return false, err
	}
	return ok && !v.deleted, nil
}

func (s *Stage) Put(key, val []byte) error {
	s.sm.Put(string(key), stagedValue{val: append([]byte(nil), val...)})
	return nil
}

func (s *Stage) Delete(key []byte) error {
	s.sm.Put(string(key), stagedValue{deleted: true})
	return nil
}

// Checkpoint marks the current state. Revert with the returned value discards
// every write made after it.
func (s *Stage) Checkpoint() int {
	return s.sm.Push()
}

// Revert discards writes back to the given checkpoint.
func (s *Stage) Revert(checkpoint int) {
	s.sm.PopTo(checkpoint)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Len returns the number of keys with buffered writes.
func (s *Stage) Len() (n int) {
	s.sm.Dirty(func(string, stagedValue) bool {
		n++
		return true
	})
	return
}

// Commit flushes buffered writes into the source. When the source supports bulk writes,
// they are applied atomically.
func (s *Stage) Commit() error {
	var putter Putter = s.src
	var bulk Bulk
	if b, ok := s.src.(interface{ Bulk() Bulk }); ok {
		bulk = b.Bulk()
		putter = bulk
	}

	var err error
	s.sm.Dirty(func(key string, v stagedValue) bool {
		if v.deleted {
			err = putter.Delete([]byte(key))
		} else {
			err = putter.Put([]byte(key), v.val)
		}
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "commit stage")
	}
	if bulk != nil {
		if err := bulk.Write(); err != nil {
			return errors.Wrap(err, "commit stage")
		}
	}
	s.reset()
	return nil
}

func inRange(r Range, key []byte) bool {
	if bytes.Compare(key, r.Start) < 0 {
		return false
	}
	return len(r.Limit) == 0 || bytes.Compare(key, r.Limit) < 0
}

type stagedPair struct {
	key []byte
	stagedValue
}

// Iterate merges buffered writes with the source iterator.
func (s *Stage) Iterate(r Range) Iterator {
	var dirty []stagedPair
	s.sm.Dirty(func(key string, v stagedValue) bool {
		if k := []byte(key); inRange(r, k) {
			dirty = append(dirty, stagedPair{k, v})
		}
		return true
	})
	sort.Slice(dirty, func(i, j int) bool {
		return bytes.Compare(dirty[i].key, dirty[j].key) < 0
	})
	return &stageIterator{src: s.src.Iterate(r), dirty: dirty}
}

type stageIterator struct {
	src     Iterator
	srcOK   bool
	started bool
	dirty   []stagedPair
	key     []byte
	val     []byte
}

func (it *stageIterator) Next() bool {
	if !it.started {
		it.started = true
		it.srcOK = it.src.Next()
	}
	for {
		hasDirty := len(it.dirty) > 0
		if !it.srcOK && !hasDirty {
			it.key, it.val = nil, nil
			return false
		}

		cmp := 1
		if it.srcOK && hasDirty {
			cmp = bytes.Compare(it.src.Key(), it.dirty[0].key)
		} else if it.srcOK {
			cmp = -1
		}

		if cmp < 0 {
			it.key = append(it.key[:0], it.src.Key()...)
			it.val = append(it.val[:0], it.src.Value()...)
			it.srcOK = it.src.Next()
			return true
		}

		d := it.dirty[0]
		it.dirty = it.dirty[1:]
		if cmp == 0 {
			it.srcOK = it.src.Next()
		}
		if d.deleted {
			continue
		}
		it.key = append(it.key[:0], d.key...)
		it.val = append(it.val[:0], d.val...)
		return true
	}
}

func (it *stageIterator) Key() []byte   { return it.key }
func (it *stageIterator) Value() []byte { return it.val }
func (it *stageIterator) Release()      { it.src.Release() }
func (it *stageIterator) Error() error  { return it.src.Error() }
