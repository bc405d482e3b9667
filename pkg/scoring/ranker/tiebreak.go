package ranker

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/model"
)

const (
	explainHeadToHead   = "Head-to-head tiebreaker"
	explainHighFinishes = "Number of high-place (%d) finishes"
	explainLastRace     = "According to last race"
	explainAlphabetical = "Alphabetical"
)

// raceSet gives the tiebreak stages access to the per-race results of the
// ranked entries. Columns are race slots in chronological order.
type raceSet struct {
	columns int
	fleet   int
	// score is the result of r in column col; ok is false without a finish.
	score func(r *model.Rank, col int) (value int, ok bool)
	// places lists the individual finish scores of r in column col. For
	// combined rankings a column holds one finish per division.
	places func(r *model.Rank, col int) []int
}

func (rs raceSet) allColumns() []int {
	ret := make([]int, rs.columns)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

// rankAll sorts by total score and resolves every run of equal totals. The
// returned slice is a new one, numbered 1..n.
func rankAll(ranks []*model.Rank, rs raceSet) []*model.Rank {
	sorted := slices.Clone(ranks)
	slices.SortStableFunc(sorted, func(a, b *model.Rank) int {
		return cmp.Compare(a.Score, b.Score)
	})
	ret := make([]*model.Rank, 0, len(sorted))
	for _, group := range groupBy(sorted, func(r *model.Rank) int { return r.Score }) {
		if len(group) > 1 {
			group = settleHeadToHead(group, rs, rs.allColumns())
		}
		ret = append(ret, group...)
	}
	for i, r := range ret {
		r.Rank = i + 1
	}
	return ret
}

// settleHeadToHead ranks the tied entries against each other in every race
// all of them sailed. Equal scores share the better place. The entry with
// the lowest sum of places wins.
func settleHeadToHead(tied []*model.Rank, rs raceSet, cols []int) []*model.Rank {
	if len(tied) < 2 {
		return tied
	}
	sums := make(map[*model.Rank]int, len(tied))
	for _, col := range cols {
		scores := make(map[*model.Rank]int, len(tied))
		complete := true
		for _, r := range tied {
			v, ok := rs.score(r, col)
			if !ok {
				complete = false
				break
			}
			scores[r] = v
		}
		if !complete {
			continue
		}
		ordered := slices.Clone(tied)
		slices.SortStableFunc(ordered, func(a, b *model.Rank) int {
			return cmp.Compare(scores[a], scores[b])
		})
		place := 1
		for i, r := range ordered {
			if i > 0 && scores[r] != scores[ordered[i-1]] {
				place = i + 1
			}
			sums[r] += place
		}
	}
	sorted := slices.Clone(tied)
	slices.SortStableFunc(sorted, func(a, b *model.Rank) int {
		return cmp.Compare(sums[a], sums[b])
	})
	ret := make([]*model.Rank, 0, len(sorted))
	for _, group := range groupBy(sorted, func(r *model.Rank) int { return sums[r] }) {
		for _, r := range group {
			r.Explanation = explainHeadToHead
		}
		if len(group) > 1 {
			group = rankMostHighFinishes(group, rs, cols, 1)
		}
		ret = append(ret, group...)
	}
	return ret
}

// rankMostHighFinishes prefers the entry with more finishes of exactly
// place, escalating to the next place on ties.
func rankMostHighFinishes(tied []*model.Rank, rs raceSet, cols []int, place int) []*model.Rank {
	if len(tied) < 2 {
		return tied
	}
	if place > rs.fleet {
		return rankByLastRace(tied, rs, cols)
	}
	counts := make(map[*model.Rank]int, len(tied))
	for _, r := range tied {
		for _, col := range cols {
			for _, v := range rs.places(r, col) {
				if v == place {
					counts[r]++
				}
			}
		}
	}
	sorted := slices.Clone(tied)
	slices.SortStableFunc(sorted, func(a, b *model.Rank) int {
		return cmp.Compare(counts[b], counts[a])
	})
	ret := make([]*model.Rank, 0, len(sorted))
	for _, group := range groupBy(sorted, func(r *model.Rank) int { return counts[r] }) {
		for _, r := range group {
			r.Explanation = fmt.Sprintf(explainHighFinishes, place)
		}
		if len(group) > 1 {
			group = rankMostHighFinishes(group, rs, cols, place+1)
		}
		ret = append(ret, group...)
	}
	return ret
}

// rankByLastRace compares the last race, walking backwards on ties.
func rankByLastRace(tied []*model.Rank, rs raceSet, cols []int) []*model.Rank {
	if len(tied) < 2 {
		return tied
	}
	if len(cols) == 0 {
		return rankAlphabetically(tied)
	}
	last := cols[len(cols)-1]
	remaining := cols[:len(cols)-1]
	scoreOf := func(r *model.Rank) int {
		if v, ok := rs.score(r, last); ok {
			return v
		}
		return math.MaxInt
	}
	sorted := slices.Clone(tied)
	slices.SortStableFunc(sorted, func(a, b *model.Rank) int {
		return cmp.Compare(scoreOf(a), scoreOf(b))
	})
	ret := make([]*model.Rank, 0, len(sorted))
	for _, group := range groupBy(sorted, scoreOf) {
		for _, r := range group {
			r.Explanation = explainLastRace
		}
		if len(group) > 1 {
			group = rankByLastRace(group, rs, remaining)
		}
		ret = append(ret, group...)
	}
	return ret
}

func rankAlphabetically(tied []*model.Rank) []*model.Rank {
	sorted := slices.Clone(tied)
	slices.SortStableFunc(sorted, func(a, b *model.Rank) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	for _, r := range sorted {
		r.Explanation = explainAlphabetical
	}
	return sorted
}

// groupBy splits a sorted slice into runs of equal keys.
func groupBy[T any, K comparable](sorted []T, key func(T) K) [][]T {
	ret := make([][]T, 0)
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || key(sorted[i]) != key(sorted[start]) {
			ret = append(ret, sorted[start:i])
			start = i
		}
	}
	return ret
}
