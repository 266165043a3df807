package rules_test

import (
	"context"
	"fmt"

	"github.com/ahrav/go-ballot/infrastructure/rules"
	"github.com/ahrav/go-ballot/internal/domain"
)

func exampleProfile() *domain.Profile[int, int] {
	profile, err := domain.NewProfile(
		[]int{1, 2, 3, 4, 5, 6},
		[]int{1, 2, 3, 4, 5, 6},
		map[int][]int{
			1: {2, 1, 3, 5, 6, 4},
			2: {1, 2, 3, 6, 5, 4},
			3: {1, 2, 3, 4, 5, 6},
			4: {6, 5, 4, 3, 2, 1},
			5: {2, 1, 3, 4, 6, 5},
			6: {5, 6, 3, 4, 1, 2},
		},
	)
	if err != nil {
		panic(err)
	}
	return profile
}

func ExampleDictatorship() {
	winner, err := rules.Dictatorship(exampleProfile(), 4)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(winner)
	// Output: 6
}

func ExamplePlurality() {
	winner, _ := rules.Plurality(exampleProfile(), 2)
	fmt.Println(winner)
	// Output: 1
}

func ExampleScoringRule() {
	_, err := rules.ScoringRule(exampleProfile(), []float64{1, 2, 3}, 2)
	fmt.Println(err)
	// Output: invalid score vector: got 3 weights for 6 candidates
}

func ExampleSTVRule_Elect() {
	rule, err := rules.NewSTVRule[int]("irv", 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	outcome, err := rule.Elect(context.Background(), exampleProfile())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, round := range outcome.Rounds {
		fmt.Printf("round %d: eliminated %v, remaining %v\n", round.Number, round.Eliminated, round.Remaining)
	}
	fmt.Println("winner:", outcome.Winner)
	// Output:
	// round 1: eliminated [3 4], remaining [1 2 5 6]
	// round 2: eliminated [5 6], remaining [1 2]
	// round 3: eliminated [2], remaining [1]
	// winner: 1
}
