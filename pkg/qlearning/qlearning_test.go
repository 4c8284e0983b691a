package qlearning

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
)

func TestTemporalDifference(t *testing.T) {
	tests := []struct {
		name                         string
		oldQ, reward, maxNext, a, g float64
		want                         float64
	}{
		{"Goal from zero", 0, 10, 0, 0.1, 0.9, 1.0},
		{"No learning", 3, 10, 5, 0, 0.9, 3},
		{"Full replacement", 4, 1, 2, 1, 0.5, 2},
		{"Myopic", 0, -5, 100, 1, 0, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TemporalDifference(tt.oldQ, tt.reward, tt.maxNext, tt.a, tt.g); got != tt.want {
				t.Errorf("TemporalDifference() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestTable_Update(t *testing.T) {
	var q Table
	s := grid.Position{X: 5, Y: 1}
	goal := grid.Position{X: 6, Y: 1}
	got := q.Update(s, grid.Right, GoalReward, goal, Hyperparameters{LearningRate: 0.1, DiscountFactor: 0.9})
	if got != 1.0 {
		t.Fatalf("Update() = %v; want 1.0", got)
	}
	if q.Values(s)[grid.Right] != 1.0 {
		t.Errorf("table not written, Q(s,right) = %v", q.Values(s)[grid.Right])
	}

	// The bootstrap term reads the successor's best value.
	prev := grid.Position{X: 4, Y: 1}
	got = q.Update(prev, grid.Right, StepPenalty, s, Hyperparameters{LearningRate: 1, DiscountFactor: 0.5})
	if want := StepPenalty + 0.5*1.0; got != want {
		t.Errorf("Update() bootstrap = %v; want %v", got, want)
	}
}

func TestActionValues_Best(t *testing.T) {
	tests := []struct {
		name string
		v    ActionValues
		want []grid.Action
	}{
		{"All zero", ActionValues{}, []grid.Action{grid.Up, grid.Down, grid.Left, grid.Right}},
		{"Unique", ActionValues{0, 2, 1, -1}, []grid.Action{grid.Down}},
		{"Tie", ActionValues{3, 0, 3, -1}, []grid.Action{grid.Up, grid.Left}},
		{"All negative", ActionValues{-1, -0.5, -2, -3}, []grid.Action{grid.Down}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Best()
			if len(got) != len(tt.want) {
				t.Fatalf("Best() = %v; want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Best() = %v; want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSelectAction(t *testing.T) {
	p := grid.Position{X: 2, Y: 2}

	t.Run("Greedy picks the unique best", func(t *testing.T) {
		var q Table
		q.Set(p, grid.Left, 1)
		rng := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < 200; i++ {
			if a := SelectAction(&q, p, 0, rng); a != grid.Left {
				t.Fatalf("SelectAction() = %s; want left", a)
			}
		}
	})

	t.Run("Greedy ties are broken uniformly", func(t *testing.T) {
		var q Table
		rng := rand.New(rand.NewPCG(3, 4))
		counts := map[grid.Action]int{}
		for i := 0; i < 4000; i++ {
			counts[SelectAction(&q, p, 0, rng)]++
		}
		for _, a := range grid.Actions {
			if counts[a] < 800 {
				t.Errorf("action %s chosen %d/4000 times; tie-break is not uniform", a, counts[a])
			}
		}
	})

	t.Run("Full exploration ignores values", func(t *testing.T) {
		var q Table
		q.Set(p, grid.Up, 100)
		rng := rand.New(rand.NewPCG(5, 6))
		seen := map[grid.Action]bool{}
		for i := 0; i < 400; i++ {
			seen[SelectAction(&q, p, 1, rng)] = true
		}
		if len(seen) != grid.NumActions {
			t.Errorf("epsilon=1 explored %d actions; want %d", len(seen), grid.NumActions)
		}
	})
}

func TestHyperparameters_Apply(t *testing.T) {
	h := DefaultHyperparameters()
	eps := 0.5
	next, err := h.Apply(Patch{ExplorationRate: &eps})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if next.ExplorationRate != 0.5 || next.LearningRate != h.LearningRate || next.DiscountFactor != h.DiscountFactor {
		t.Errorf("Apply() = %+v; only epsilon should change", next)
	}

	bad := 1.5
	kept, err := h.Apply(Patch{LearningRate: &bad})
	if !errors.Is(err, ErrInvalidHyperparameters) {
		t.Errorf("Apply(alpha=1.5) error = %v; want ErrInvalidHyperparameters", err)
	}
	if kept != h {
		t.Errorf("rejected patch changed hyperparameters: %+v", kept)
	}

	zero := 0.0
	if _, err := h.Apply(Patch{LearningRate: &zero}); err != nil {
		t.Errorf("alpha=0 must be accepted, got %v", err)
	}
}
