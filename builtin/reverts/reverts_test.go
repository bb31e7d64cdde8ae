// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := Validation("url too long: %d", 600)
	assert.Equal(t, "url too long: 600", revert.Error())
	assert.Equal(t, KindValidation, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(pkgerrors.WithMessage(revert, "vote")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
	assert.False(t, IsRevertErr(Corruption("proxy cycle")))
}

func Test_Is(t *testing.T) {
	tests := []struct {
		err    error
		target error
		want   bool
	}{
		{NotFound("producer"), ErrNotFound, true},
		{NotFound("producer"), ErrValidation, false},
		{New(KindInactiveProducer, "x"), ErrInactiveProducer, true},
		{fmt.Errorf("wrapped: %w", New(KindActivationNotReached, "")), ErrActivationNotReached, true},
		{pkgerrors.Wrap(Corruption("cycle"), "propagate"), ErrCorruption, true},
		{errors.New("io"), ErrCorruption, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errors.Is(tt.err, tt.target), tt.err.Error())
	}

	assert.Equal(t, "invalid proxy chain", ErrInvalidProxyChain.Error())
	assert.Equal(t, KindNotFound, KindOf(pkgerrors.Wrap(NotFound("x"), "y")))
	assert.Equal(t, Kind(0), KindOf(errors.New("x")))
}
