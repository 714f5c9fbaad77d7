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
	"fmt"
	gomath "math"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
)

// CalculateCommission returns floor(ValidationFee * rate / 10000). The product
// is formed in 256 bits and range-checked before narrowing.
func CalculateCommission(rate uint16) (uint64, error) {
	v := new(uint256.Int).Mul(uint256.NewInt(params.ValidationFee), uint256.NewInt(uint64(rate)))
	v.Div(v, uint256.NewInt(params.CommissionDenominator))
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: commission at rate %d", ErrArithmeticOverflow, rate)
	}
	return v.Uint64(), nil
}

// CalculateReward returns BaseReward * ScoreMultiplier(score) * increase / 100
// for an agent whose score rose by increase to score.
func CalculateReward(score uint64, increase uint64) (uint64, error) {
	v := new(uint256.Int).Mul(uint256.NewInt(params.BaseReward), uint256.NewInt(types.ScoreMultiplier(score)))
	v.Mul(v, uint256.NewInt(increase))
	v.Div(v, uint256.NewInt(100))
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: reward for increase %d", ErrArithmeticOverflow, increase)
	}
	return v.Uint64(), nil
}

// adjustScore adds change to score in signed 64-bit arithmetic and clamps the
// result to the valid score range.
func adjustScore(score uint64, change int64) (uint64, error) {
	if score > gomath.MaxInt64 {
		return 0, ErrInvalidReputationScore
	}
	s := int64(score)
	if (change > 0 && s > gomath.MaxInt64-change) || (change < 0 && s < gomath.MinInt64-change) {
		return 0, ErrArithmeticOverflow
	}
	s += change
	switch {
	case s < int64(params.MinReputationScore):
		return params.MinReputationScore, nil
	case s > int64(params.MaxReputationScore):
		return params.MaxReputationScore, nil
	}
	return uint64(s), nil
}

// applyValidation folds one judged task into rep and returns the reward the
// agent earned, zero for rejected tasks.
func applyValidation(rep *types.ReputationRegistry, approved bool, now uint64) (uint64, error) {
	if rep.Score > params.MaxReputationScore {
		return 0, fmt.Errorf("%w: %d", ErrInvalidReputationScore, rep.Score)
	}
	total, overflow := math.SafeAdd(rep.TotalTasks, 1)
	if overflow {
		return 0, ErrArithmeticOverflow
	}
	rep.TotalTasks = total

	change := rep.CalculateScoreChange(approved)
	score, err := adjustScore(rep.Score, change)
	if err != nil {
		return 0, err
	}
	rep.Score = score

	var reward uint64
	if approved {
		if rep.SuccessfulTasks, overflow = math.SafeAdd(rep.SuccessfulTasks, 1); overflow {
			return 0, ErrArithmeticOverflow
		}
		if reward, err = CalculateReward(rep.Score, uint64(change)); err != nil {
			return 0, err
		}
	} else {
		if rep.FailedTasks, overflow = math.SafeAdd(rep.FailedTasks, 1); overflow {
			return 0, ErrArithmeticOverflow
		}
	}
	rep.LastUpdated = now
	return reward, nil
}
