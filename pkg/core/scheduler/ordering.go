package scheduler

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/jakechorley/lesson-scheduler/pkg/core/model"
)

// Ordering is the processing order of one trial
type Ordering struct {
	// Forced students in encounter order, applied before everyone else
	Forced []*model.Student

	// Ordered is every remaining student in processing order
	Ordered []*model.Student
}

// OrderStudents computes the processing order for a trial.
//
// Forced students are split off untouched. The rest are sorted by:
//  1. simultaneous-family requesters first
//  2. current students before new students
//  3. instrument rank in the priority list (instruments absent from the list go last)
//
// Ties keep input order. When shuffle is set, the remaining students are first shuffled with a
// generator seeded from seed, so the same (students, seed) always yields the same order.
func OrderStudents(students []*model.Student, priority []string, shuffle bool, seed int64) Ordering {
	forced, rest := lo.FilterReject(students, func(student *model.Student, _ int) bool {
		return student.Forced != nil
	})

	if shuffle {
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
		rng.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
	}

	ranks := instrumentRanks(priority)
	slices.SortStableFunc(rest, func(a, b *model.Student) int {
		if d := boolRank(a.SimultaneousFamily) - boolRank(b.SimultaneousFamily); d != 0 {
			return d
		}
		if d := boolRank(a.CurrentStudent) - boolRank(b.CurrentStudent); d != 0 {
			return d
		}
		return ranks.of(a.Instrument) - ranks.of(b.Instrument)
	})

	return Ordering{Forced: forced, Ordered: rest}
}

type rankTable map[string]int

func instrumentRanks(priority []string) rankTable {
	ranks := make(rankTable, len(priority))
	for i, instrument := range priority {
		key := strings.ToLower(strings.TrimSpace(instrument))
		if _, exists := ranks[key]; !exists {
			ranks[key] = i
		}
	}
	return ranks
}

func (r rankTable) of(instrument string) int {
	if rank, ok := r[strings.ToLower(strings.TrimSpace(instrument))]; ok {
		return rank
	}
	return len(r)
}

// boolRank sorts true before false
func boolRank(b bool) int {
	if b {
		return 0
	}
	return 1
}
