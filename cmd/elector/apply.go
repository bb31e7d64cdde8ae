// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	"gopkg.in/yaml.v3"

	"github.com/dposlab/elector/kv"
	"github.com/dposlab/elector/runtime"
)

func loadActions(path string) ([]*runtime.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read actions")
	}
	var actions []*runtime.Action
	if err := yaml.Unmarshal(data, &actions); err != nil {
		return nil, errors.Wrap(err, "decode actions")
	}
	return actions, nil
}

// applyActions executes actions in order, committing once per block, and stops at the
// first failure. Actions already applied stay committed. The block time is taken from
// the first action of each block.
func applyActions(store kv.Store, journal runtime.Journal, actions []*runtime.Action, progress bool) error {
	if len(actions) == 0 {
		return nil
	}
	for i := 1; i < len(actions); i++ {
		if actions[i].Block < actions[i-1].Block {
			return fmt.Errorf("action #%d: block %d precedes block %d", i, actions[i].Block, actions[i-1].Block)
		}
	}

	var bar *pb.ProgressBar
	if progress {
		fmt.Println(">> Applying actions <<")
		bar = pb.New64(int64(len(actions))).
			SetMaxWidth(90).
			Start()
		defer func() { bar.NotPrint = true }()
	}

	var rt *runtime.Runtime
	for i, a := range actions {
		if rt == nil || rt.Context().Number != a.Block {
			if rt != nil {
				if err := rt.Commit(); err != nil {
					return err
				}
			}
			rt = runtime.New(store, &runtime.BlockContext{Number: a.Block, Time: a.Time}, runtime.Options{Journal: journal})
		}
		if err := rt.Execute(a); err != nil {
			if cerr := rt.Commit(); cerr != nil {
				return cerr
			}
			return errors.WithMessagef(err, "action #%d (%s)", i, a.Name)
		}
		if bar != nil {
			bar.Add64(1)
		}
	}
	if err := rt.Commit(); err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}
	logger.Info("actions applied", "count", len(actions), "lastBlock", actions[len(actions)-1].Block)
	return nil
}
