// Command valuation prints a return-on-investment report for every
// technology converter across the six confluences of a standard game.
// Values are adjusted for inflation at the standard 7/5 rate; the
// report is sorted best return first.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/cubatrice/engine/internal/data"
	"github.com/cubatrice/engine/internal/entity"
	"github.com/cubatrice/engine/internal/numeric"
)

const confluences = 6

type row struct {
	id   entity.TechID
	name string
	tier int
	in   numeric.Fraction
	out  numeric.Fraction
	ret  float64
}

func main() {
	dataDir := flag.String("data", "data", "reference data directory")
	flag.Parse()

	store, err := data.LoadAll(*dataDir)
	if err != nil {
		log.Fatalf("load reference data: %v", err)
	}

	rate, err := numeric.New(7, 5)
	if err != nil {
		log.Fatalf("inflation rate: %v", err)
	}

	for confluence := 1; confluence <= confluences; confluence++ {
		fmt.Printf("Confluence %d\n\n", confluence)
		rows, err := valuations(store, rate, confluences-confluence+1)
		if err != nil {
			log.Fatalf("confluence %d: %v", confluence, err)
		}
		for _, r := range rows {
			upgraded := " "
			name := r.name
			if r.id >= entity.UpgradedIDOffset {
				upgraded = "+"
				name = "Upgraded " + name
			}
			fmt.Printf("[%d%s] %-40s | %+7.2f%% | %.2f -> %.2f\n",
				r.tier, upgraded, name,
				(r.ret-1)*100, r.in.Value(), r.out.Value())
		}
		fmt.Println()
	}
}

// valuations computes the adjusted input and output value of every
// technology prototype with the given number of turns left, sorted by
// output/input ratio descending.
func valuations(store *data.Store, rate numeric.Fraction, turnsLeft int) ([]row, error) {
	var rows []row
	for _, p := range store.Prototypes() {
		baseID := p.ID
		if baseID >= entity.UpgradedIDOffset {
			baseID -= entity.UpgradedIDOffset
		}
		tech, ok := store.Tech(baseID)
		if !ok || tech.Invents == "" {
			continue
		}

		in, err := p.InputValueAdjusted(rate, turnsLeft)
		if err != nil {
			return nil, fmt.Errorf("input value of %s: %w", p.Name, err)
		}
		out, err := p.OutputValueAdjusted(rate, turnsLeft)
		if err != nil {
			return nil, fmt.Errorf("output value of %s: %w", p.Name, err)
		}
		if in.IsZero() {
			// Free converters have no meaningful return ratio.
			continue
		}
		ratio, err := out.Div(in)
		if err != nil {
			return nil, fmt.Errorf("return of %s: %w", p.Name, err)
		}

		rows = append(rows, row{
			id:   p.ID,
			name: tech.Invents,
			tier: tech.Tier,
			in:   in,
			out:  out,
			ret:  ratio.Value(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ret != rows[j].ret {
			return rows[i].ret > rows[j].ret
		}
		return rows[i].id < rows[j].id
	})
	return rows, nil
}
