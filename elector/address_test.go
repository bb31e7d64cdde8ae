// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package elector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("voter"))

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x" + addr.String()[2:])
	assert.EqualError(t, err, "invalid prefix")
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("producer"))
	data, err := json.Marshal(&addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestIsStrictlyAscending(t *testing.T) {
	a := BytesToAddress([]byte{1})
	b := BytesToAddress([]byte{2})
	c := BytesToAddress([]byte{3})

	tests := []struct {
		addrs    []Address
		expected bool
	}{
		{nil, true},
		{[]Address{a}, true},
		{[]Address{a, b, c}, true},
		{[]Address{a, c, b}, false},
		{[]Address{a, a}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsStrictlyAscending(tt.addrs))
	}
}
