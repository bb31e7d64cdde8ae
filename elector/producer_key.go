// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package elector

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ProducerKeyLength length of a compressed secp256k1 public key.
const ProducerKeyLength = secp256k1.PubKeyBytesLenCompressed

// ProducerKey is the block signing key a producer registers with.
type ProducerKey [ProducerKeyLength]byte

// String implements the stringer interface
func (k ProducerKey) String() string {
	return "0x" + hex.EncodeToString(k[:])
}

// Bytes returns byte slice form of the key.
func (k ProducerKey) Bytes() []byte {
	return k[:]
}

// IsZero returns whether the key is the default value.
func (k ProducerKey) IsZero() bool {
	return k == ProducerKey{}
}

// Validate checks the key is not the default value and is a point on the curve.
func (k ProducerKey) Validate() error {
	if k.IsZero() {
		return errors.New("public key should not be the default value")
	}
	if _, err := secp256k1.ParsePubKey(k[:]); err != nil {
		return err
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k ProducerKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ProducerKey) UnmarshalText(text []byte) error {
	parsed, err := ParseProducerKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseProducerKey parses a hex encoded compressed public key.
func ParseProducerKey(s string) (ProducerKey, error) {
	if len(s) >= 2 && strings.ToLower(s[:2]) == "0x" {
		s = s[2:]
	}
	if len(s) != ProducerKeyLength*2 {
		return ProducerKey{}, errors.New("invalid length")
	}
	var k ProducerKey
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return ProducerKey{}, err
	}
	return k, nil
}

// BytesToProducerKey copies b into a ProducerKey, cropping or left padding as needed.
func BytesToProducerKey(b []byte) (k ProducerKey) {
	if len(b) > len(k) {
		b = b[len(b)-len(k):]
	}
	copy(k[len(k)-len(b):], b)
	return
}
