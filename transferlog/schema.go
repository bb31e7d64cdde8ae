// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferlog

const transferTableSchema = `
CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	fromAddress BLOB(20) NOT NULL,
	toAddress BLOB(20) NOT NULL,
	amount BLOB NOT NULL,
	memo TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS transferFromIndex ON transfer(fromAddress);
CREATE INDEX IF NOT EXISTS transferToIndex ON transfer(toAddress);
CREATE INDEX IF NOT EXISTS transferBlockIndex ON transfer(blockNumber);
`
