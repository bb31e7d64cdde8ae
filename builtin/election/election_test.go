// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dposlab/elector/builtin/election/stakes"
	"github.com/dposlab/elector/builtin/election/voter"
	"github.com/dposlab/elector/builtin/params"
	"github.com/dposlab/elector/builtin/reverts"
	"github.com/dposlab/elector/builtin/tables"
	"github.com/dposlab/elector/elector"
	"github.com/dposlab/elector/kv"
)

const now = uint64(1_700_000_000)

var (
	stakeAccount = elector.BytesToAddress([]byte("stake"))
	prodA        = elector.BytesToAddress([]byte("A"))
	prodB        = elector.BytesToAddress([]byte("B"))
	prodC        = elector.BytesToAddress([]byte("C"))
	voterX       = elector.BytesToAddress([]byte("X"))
	voterY       = elector.BytesToAddress([]byte("Y"))
	proxyP       = elector.BytesToAddress([]byte("P"))
	voterQ       = elector.BytesToAddress([]byte("Q"))
)

type transfer struct {
	from, to elector.Address
	amount   string
	memo     string
}

type recordingTransferer struct {
	transfers []transfer
	err       error
}

func (r *recordingTransferer) Transfer(from, to elector.Address, amount *big.Int, memo string) error {
	if r.err != nil {
		return r.err
	}
	r.transfers = append(r.transfers, transfer{from, to, amount.String(), memo})
	return nil
}

type recordingPublisher struct {
	proposed []*Schedule
	reject   bool
}

func (r *recordingPublisher) ProposeSchedule(s *Schedule) (bool, error) {
	r.proposed = append(r.proposed, s)
	return !r.reject, nil
}

type testEnv struct {
	*Election
	stage      *kv.Stage
	params     *params.Params
	transferer *recordingTransferer
	publisher  *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stage := kv.NewStage(db)
	ctx := tables.NewContext(stage)
	p := params.New(ctx)
	tr := &recordingTransferer{}
	pub := &recordingPublisher{}
	return &testEnv{
		Election:   New(ctx, p, stakeAccount, tr, pub),
		stage:      stage,
		params:     p,
		transferer: tr,
		publisher:  pub,
	}
}

func newKey(t *testing.T) elector.ProducerKey {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return elector.BytesToProducerKey(priv.PubKey().SerializeCompressed())
}

func (env *testEnv) register(t *testing.T, owners ...elector.Address) {
	for _, owner := range owners {
		require.NoError(t, env.RegisterProducer(owner, newKey(t), "https://"+owner.String(), 0))
	}
}

func (env *testEnv) votes(t *testing.T, owner elector.Address) float64 {
	rec, err := env.Producer(owner)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.TotalVotes
}

func (env *testEnv) voter(t *testing.T, owner elector.Address) *voter.Account {
	acc, err := env.Voter(owner)
	require.NoError(t, err)
	return acc
}

func (env *testEnv) setThreshold(t *testing.T, v int64) {
	require.NoError(t, env.params.Set(elector.KeyMinActivatedStake, big.NewInt(v)))
}

func weight(stake int64, ts uint64) float64 {
	return stakes.Weight(big.NewInt(stake), ts)
}

func TestVote_Scenario(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA, prodB, prodC)

	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA, prodB}, now))

	w := weight(1000, now)
	assert.Equal(t, w, env.votes(t, prodA))
	assert.Equal(t, w, env.votes(t, prodB))
	assert.Equal(t, 0.0, env.votes(t, prodC))

	acc := env.voter(t, voterX)
	assert.Equal(t, "1000", acc.Staked.String())
	assert.Equal(t, w, acc.LastVoteWeight)
	assert.Equal(t, []elector.Address{prodA, prodB}, acc.Producers)

	gs, err := env.Global()
	require.NoError(t, err)
	assert.Equal(t, "1000", gs.TotalActivatedStake.String())
	assert.Equal(t, 2*w, gs.TotalProducerVoteWeight)
	assert.Zero(t, gs.ThreshActivatedStakeTime)

	assert.Equal(t, []transfer{{voterX, stakeAccount, "1000", "stake vote"}}, env.transferer.transfers)
}

func TestVote_ActivatedStakeCountedOnce(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.Vote(voterX, big.NewInt(500), nil, now))
	gs, err := env.Global()
	require.NoError(t, err)
	assert.Equal(t, "500", gs.TotalActivatedStake.String())

	require.NoError(t, env.Vote(voterX, big.NewInt(800), nil, now))
	gs, err = env.Global()
	require.NoError(t, err)
	assert.Equal(t, "500", gs.TotalActivatedStake.String())
	assert.Equal(t, transfer{voterX, stakeAccount, "300", "stake vote"}, env.transferer.transfers[1])
}

func TestVote_ThresholdTimeSetOnce(t *testing.T) {
	env := newTestEnv(t)
	env.setThreshold(t, 1000)

	require.NoError(t, env.Vote(voterX, big.NewInt(600), nil, now))
	require.NoError(t, env.Vote(voterY, big.NewInt(600), nil, now+10))
	require.NoError(t, env.Vote(voterQ, big.NewInt(600), nil, now+20))

	gs, err := env.Global()
	require.NoError(t, err)
	assert.True(t, gs.ThreshReached)
	assert.Equal(t, now+10, gs.ThreshActivatedStakeTime)
	assert.Equal(t, "1800", gs.TotalActivatedStake.String())
}

func TestVote_NetDeltas(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA, prodB, prodC)

	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA, prodB}, now))
	w1 := weight(1000, now)

	later := now + 60*elector.SecondsPerWeek
	require.NoError(t, env.Vote(voterX, big.NewInt(1500), []elector.Address{prodB, prodC}, later))
	w2 := weight(1500, later)

	assert.Equal(t, 0.0, env.votes(t, prodA))
	assert.InDelta(t, w2, env.votes(t, prodB), 1e-9)
	assert.Equal(t, w2, env.votes(t, prodC))

	gs, err := env.Global()
	require.NoError(t, err)
	assert.InDelta(t, 2*w2, gs.TotalProducerVoteWeight, 1e-9)
	assert.Equal(t, w2, env.voter(t, voterX).LastVoteWeight)
	assert.Greater(t, w2, w1)
}

func TestVote_ClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA)

	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA}, now))

	// drain the producer below the voter's weight
	rec, err := env.Producer(prodA)
	require.NoError(t, err)
	rec.TotalVotes = 10
	require.NoError(t, env.producers.Set(rec))

	require.NoError(t, env.Vote(voterX, big.NewInt(1000), nil, now))
	assert.Equal(t, 0.0, env.votes(t, prodA))
}

func TestVote_Unstake(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA, prodB)

	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA, prodB}, now))
	w := weight(1000, now)

	err := env.Vote(voterX, big.NewInt(0), nil, now)
	assert.True(t, errors.Is(err, reverts.ErrActivationNotReached))
	assert.Equal(t, w, env.votes(t, prodA))
	assert.Equal(t, "1000", env.voter(t, voterX).Staked.String())

	env.setThreshold(t, 1000)
	require.NoError(t, env.Vote(voterX, big.NewInt(0), nil, now))

	assert.Equal(t, 0.0, env.votes(t, prodA))
	assert.Equal(t, 0.0, env.votes(t, prodB))
	acc := env.voter(t, voterX)
	assert.Equal(t, 0, acc.Staked.Sign())
	assert.Empty(t, acc.Producers)
	assert.False(t, acc.IsVoting())
	assert.Equal(t, transfer{stakeAccount, voterX, "1000", "unstake vote"}, env.transferer.transfers[1])
}

func TestVote_InactiveProducer(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA, prodB)

	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA}, now))
	require.NoError(t, env.UnregisterProducer(prodA))

	before := env.votes(t, prodA)
	err := env.Vote(voterY, big.NewInt(500), []elector.Address{prodA}, now)
	assert.True(t, errors.Is(err, reverts.ErrInactiveProducer))
	assert.Equal(t, before, env.votes(t, prodA))
	assert.Nil(t, env.voter(t, voterY))
	assert.Len(t, env.transferer.transfers, 1)

	// withdrawing support from an inactive producer is allowed
	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodB}, now))
	assert.Equal(t, 0.0, env.votes(t, prodA))
	assert.Equal(t, weight(1000, now), env.votes(t, prodB))

	// keeping support for an inactive producer is not
	env.register(t, prodA)
	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA, prodB}, now))
	require.NoError(t, env.UnregisterProducer(prodA))
	err = env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA, prodB}, now)
	assert.True(t, errors.Is(err, reverts.ErrInactiveProducer))
}

func TestVote_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA, prodB)

	tooMany := make([]elector.Address, elector.MaxVotedProducers+1)
	for i := range tooMany {
		tooMany[i] = elector.BytesToAddress([]byte{byte(i + 1)})
	}

	tests := []struct {
		name      string
		stake     *big.Int
		producers []elector.Address
		want      error
	}{
		{"negative stake", big.NewInt(-1), nil, reverts.ErrValidation},
		{"nil stake", nil, nil, reverts.ErrValidation},
		{"unsorted", big.NewInt(1), []elector.Address{prodB, prodA}, reverts.ErrValidation},
		{"duplicated", big.NewInt(1), []elector.Address{prodA, prodA}, reverts.ErrValidation},
		{"too many", big.NewInt(1), tooMany, reverts.ErrValidation},
		{"unknown producer", big.NewInt(1), []elector.Address{prodA, prodC}, reverts.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.Vote(voterX, tt.stake, tt.producers, now)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, reverts.IsRevertErr(err))
		})
	}
	assert.Nil(t, env.voter(t, voterX))
	assert.Empty(t, env.transferer.transfers)
}

func TestVote_TransferFailure(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA)
	env.transferer.err = reverts.Validation("overdrawn balance")

	err := env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA}, now)
	assert.True(t, errors.Is(err, reverts.ErrValidation))
	assert.Equal(t, 0.0, env.votes(t, prodA))
	assert.Nil(t, env.voter(t, voterX))
}

func TestVote_MaxProducers(t *testing.T) {
	env := newTestEnv(t)
	list := make([]elector.Address, elector.MaxVotedProducers)
	for i := range list {
		list[i] = elector.BytesToAddress([]byte{0xee, byte(i)})
	}
	env.register(t, list...)

	require.NoError(t, env.Vote(voterX, big.NewInt(10), list, now))
	for _, p := range list {
		assert.Equal(t, weight(10, now), env.votes(t, p))
	}
}

func TestRegisterProducer(t *testing.T) {
	env := newTestEnv(t)
	key := newKey(t)

	err := env.RegisterProducer(prodA, key, strings.Repeat("x", elector.MaxURLLength), 0)
	assert.True(t, errors.Is(err, reverts.ErrValidation))

	err = env.RegisterProducer(prodA, elector.ProducerKey{}, "", 0)
	assert.True(t, errors.Is(err, reverts.ErrValidation))

	var offCurve elector.ProducerKey
	offCurve[0] = 0x02
	for i := 1; i < len(offCurve); i++ {
		offCurve[i] = 0xff
	}
	err = env.RegisterProducer(prodA, offCurve, "", 0)
	assert.True(t, errors.Is(err, reverts.ErrValidation))

	rec, err := env.Producer(prodA)
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, env.RegisterProducer(prodA, key, strings.Repeat("x", elector.MaxURLLength-1), 3))
	rec, err = env.Producer(prodA)
	require.NoError(t, err)
	assert.True(t, rec.IsActive)
	assert.Equal(t, key, rec.Key)
	assert.Equal(t, uint16(3), rec.Location)
	assert.Zero(t, rec.TotalVotes)
}

func TestRegisterProducer_ReactivateKeepsVotes(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA)
	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodA}, now))

	require.NoError(t, env.UnregisterProducer(prodA))
	rec, err := env.Producer(prodA)
	require.NoError(t, err)
	assert.False(t, rec.IsActive)
	assert.Equal(t, weight(1000, now), rec.TotalVotes)

	key := newKey(t)
	require.NoError(t, env.RegisterProducer(prodA, key, "https://new", 9))
	rec, err = env.Producer(prodA)
	require.NoError(t, err)
	assert.True(t, rec.IsActive)
	assert.Equal(t, key, rec.Key)
	assert.Equal(t, "https://new", rec.URL)
	assert.Equal(t, weight(1000, now), rec.TotalVotes)

	err = env.UnregisterProducer(prodC)
	assert.True(t, errors.Is(err, reverts.ErrNotFound))
}

func TestRankedProducers(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, prodA, prodB, prodC)
	require.NoError(t, env.Vote(voterX, big.NewInt(1000), []elector.Address{prodB}, now))
	require.NoError(t, env.Vote(voterY, big.NewInt(2000), []elector.Address{prodC}, now))

	list, err := env.RankedProducers(0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, prodC, list[0].Owner)
	assert.Equal(t, prodB, list[1].Owner)
	assert.Equal(t, prodA, list[2].Owner)

	list, err = env.RankedProducers(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
