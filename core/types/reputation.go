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

package types

import "github.com/holiman/uint256"

func percent(part, whole uint64) uint64 {
	rate := new(uint256.Int).Mul(uint256.NewInt(part), uint256.NewInt(100))
	return rate.Div(rate, uint256.NewInt(whole)).Uint64()
}

// SuccessRate returns the percentage of judged tasks that were approved,
// truncated. An agent without judged tasks reports 100.
func (r *ReputationRegistry) SuccessRate() uint64 {
	if r.TotalTasks == 0 {
		return 100
	}
	return percent(r.SuccessfulTasks, r.TotalTasks)
}

// JudgedTasks is the number of tasks whose outcome has been folded into the
// success and failure counters.
func (r *ReputationRegistry) JudgedTasks() uint64 {
	return r.SuccessfulTasks + r.FailedTasks
}

// CalculateScoreChange returns the score delta for the task being judged. It
// is called after TotalTasks counted the task and before its outcome reaches
// the success or failure counter. The rate is taken over TotalTasks; an agent
// judged for the first time is rated 100.
func (r *ReputationRegistry) CalculateScoreChange(approved bool) int64 {
	rate := uint64(100)
	if r.JudgedTasks() > 0 && r.TotalTasks > 0 {
		rate = percent(r.SuccessfulTasks, r.TotalTasks)
	}
	if approved {
		switch {
		case rate >= 90:
			return 100
		case rate >= 80:
			return 75
		case rate >= 70:
			return 50
		default:
			return 25
		}
	}
	switch {
	case rate <= 50:
		return -150
	case rate <= 70:
		return -100
	default:
		return -50
	}
}

// ScoreMultiplier is the reward multiplier for an agent holding the given score.
func ScoreMultiplier(score uint64) uint64 {
	switch {
	case score >= 9000:
		return 5
	case score >= 8000:
		return 4
	case score >= 7000:
		return 3
	case score >= 6000:
		return 2
	default:
		return 1
	}
}
