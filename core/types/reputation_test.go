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

import "testing"

// pending returns a record with ok successes out of judged tasks and one more
// task counted but not yet judged.
func pending(judged, ok uint64) *ReputationRegistry {
	return &ReputationRegistry{TotalTasks: judged + 1, SuccessfulTasks: ok, FailedTasks: judged - ok}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		total, ok uint64
		want      uint64
	}{
		{0, 0, 100},
		{1, 1, 100},
		{3, 2, 66},
		{10, 9, 90},
		{7, 0, 0},
	}
	for i, tt := range tests {
		r := &ReputationRegistry{TotalTasks: tt.total, SuccessfulTasks: tt.ok, FailedTasks: tt.total - tt.ok}
		if have := r.SuccessRate(); have != tt.want {
			t.Errorf("test %d: success rate mismatch: have %d, want %d", i, have, tt.want)
		}
	}
}

func TestCalculateScoreChange(t *testing.T) {
	tests := []struct {
		judged, ok uint64
		approved   bool
		want       int64
	}{
		// First judgement is rated 100.
		{0, 0, true, 100},
		{0, 0, false, -50},

		// Rates are taken over the total including the pending task.
		{1, 1, true, 25},      // 1/2 = 50%
		{9, 9, true, 100},     // 9/10 = 90%
		{9, 8, true, 75},      // 8/10
		{99, 89, true, 75},    // 89/100
		{9, 7, true, 50},      // 7/10
		{9, 6, true, 25},      // 6/10
		{9, 0, true, 25},      // 0/10
		{9, 9, false, -50},    // 9/10
		{99, 71, false, -50},  // 71/100
		{9, 7, false, -100},   // 7/10
		{99, 51, false, -100}, // 51/100
		{9, 5, false, -150},   // 5/10
		{9, 0, false, -150},
	}
	for i, tt := range tests {
		if have := pending(tt.judged, tt.ok).CalculateScoreChange(tt.approved); have != tt.want {
			t.Errorf("test %d: score change mismatch: have %d, want %d", i, have, tt.want)
		}
	}
}

func TestScoreChangeRange(t *testing.T) {
	approved := map[int64]bool{100: true, 75: true, 50: true, 25: true}
	rejected := map[int64]bool{-150: true, -100: true, -50: true}
	for judged := uint64(0); judged <= 40; judged++ {
		for ok := uint64(0); ok <= judged; ok++ {
			r := pending(judged, ok)
			if c := r.CalculateScoreChange(true); !approved[c] {
				t.Fatalf("approved change %d out of range (judged %d, ok %d)", c, judged, ok)
			}
			if c := r.CalculateScoreChange(false); !rejected[c] {
				t.Fatalf("rejected change %d out of range (judged %d, ok %d)", c, judged, ok)
			}
		}
	}
}

func TestScoreMultiplier(t *testing.T) {
	tests := map[uint64]uint64{
		0: 1, 5100: 1, 5999: 1, 6000: 2, 6999: 2, 7000: 3, 8000: 4, 8999: 4, 9000: 5, 10000: 5,
	}
	for score, want := range tests {
		if have := ScoreMultiplier(score); have != want {
			t.Errorf("score %d: multiplier mismatch: have %d, want %d", score, have, want)
		}
	}
}
