// Copyright 2026 The go-probe Authors
// This file is part of the go-probe library.
//
// The go-probe library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probe library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probe library. If not, see <http://www.gnu.org/licenses/>.

package core

import (
	gomath "math"
	"testing"

	"github.com/probechain/agentledger/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCommission(t *testing.T) {
	tests := []struct {
		rate uint16
		want uint64
	}{
		{0, 0},
		{1, 100},
		{300, 30_000},
		{1000, 100_000},
		{gomath.MaxUint16, 6_553_500},
	}
	for _, tt := range tests {
		have, err := CalculateCommission(tt.rate)
		require.NoError(t, err)
		assert.Equal(t, tt.want, have, "rate %d", tt.rate)
	}
}

func TestCalculateReward(t *testing.T) {
	tests := []struct {
		score, increase, want uint64
	}{
		{5100, 100, 100_000},
		{5999, 25, 25_000},
		{6000, 100, 200_000},
		{7050, 50, 150_000},
		{8000, 75, 300_000},
		{10_000, 100, 500_000},
		{10_000, 0, 0},
	}
	for _, tt := range tests {
		have, err := CalculateReward(tt.score, tt.increase)
		require.NoError(t, err)
		assert.Equal(t, tt.want, have, "score %d increase %d", tt.score, tt.increase)
	}
	_, err := CalculateReward(9000, gomath.MaxUint64)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestAdjustScore(t *testing.T) {
	tests := []struct {
		score  uint64
		change int64
		want   uint64
	}{
		{5000, 100, 5100},
		{9950, 100, 10_000},
		{100, -150, 0},
		{0, -50, 0},
		{10_000, -50, 9950},
	}
	for _, tt := range tests {
		have, err := adjustScore(tt.score, tt.change)
		require.NoError(t, err)
		assert.Equal(t, tt.want, have)
	}
	_, err := adjustScore(gomath.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrInvalidReputationScore)
}

func TestApplyValidation(t *testing.T) {
	rep := &types.ReputationRegistry{Score: 5000}

	reward, err := applyValidation(rep, true, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), reward)
	assert.Equal(t, uint64(5100), rep.Score)
	assert.Equal(t, uint64(10), rep.LastUpdated)

	// One success out of two tasks rates 50%.
	reward, err = applyValidation(rep, false, 11)
	require.NoError(t, err)
	assert.Zero(t, reward)
	assert.Equal(t, uint64(4950), rep.Score)
	assert.Equal(t, uint64(2), rep.TotalTasks)
	assert.Equal(t, uint64(1), rep.SuccessfulTasks)
	assert.Equal(t, uint64(1), rep.FailedTasks)

	rep.Score = 10_001
	_, err = applyValidation(rep, true, 12)
	assert.ErrorIs(t, err, ErrInvalidReputationScore)

	rep = &types.ReputationRegistry{Score: 5000, TotalTasks: gomath.MaxUint64}
	_, err = applyValidation(rep, true, 12)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}
