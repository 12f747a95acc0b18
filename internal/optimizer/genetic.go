package optimizer

import (
	"fmt"
	"math/rand"

	"github.com/ggtechco/finsaas/internal/workers"
)

// GeneticOptimizer searches a ParameterSpace with a generational genetic
// algorithm: tournament selection (size 3), uniform per-gene crossover at
// 0.5, and single-gene random-replacement mutation on every child.
// Replacement is fully generational — no elitism carries a generation's
// best individual forward untouched.
type GeneticOptimizer struct {
	Space          ParameterSpace
	Objective      ObjectiveFunction
	Run            RunFunc
	PopulationSize int
	Generations    int
	Seed           int64
	Pool           *workers.Pool // nil runs sequentially
	Metrics        *TrialMetrics
}

// individual is a parameter assignment encoded as one gene (an index into
// Space.Ranges[g].Values) per range.
type individual []int

// Search runs the genetic algorithm to completion and returns the
// best-scoring trial seen across every generation, alongside every trial
// evaluated.
func (o *GeneticOptimizer) Search() (GridResult, error) {
	nGenes := len(o.Space.Ranges)
	if nGenes == 0 {
		return GridResult{}, fmt.Errorf("parameter space has no ranges")
	}
	if o.PopulationSize <= 0 {
		return GridResult{}, fmt.Errorf("population size must be positive")
	}

	rng := rand.New(rand.NewSource(o.Seed))
	population := make([]individual, o.PopulationSize)
	for i := range population {
		population[i] = o.randomIndividual(rng)
	}

	var allTrials []Trial
	var best Trial
	haveBest := false
	nextIndex := 0

	evaluate := func(pop []individual) []Trial {
		paramSets := make([]map[string]any, len(pop))
		for i, ind := range pop {
			paramSets[i] = o.decode(ind)
		}
		var trials []Trial
		if o.Pool != nil {
			trials = RunTrialsParallel(paramSets, o.Run, o.Objective, o.Pool, o.Metrics)
		} else {
			trials = RunTrialsSequential(paramSets, o.Run, o.Objective, o.Metrics)
		}
		for i := range trials {
			trials[i].Index = nextIndex
			nextIndex++
		}
		return trials
	}

	fitness := evaluate(population)
	allTrials = append(allTrials, fitness...)
	for _, t := range fitness {
		if !haveBest || t.Score.GreaterThan(best.Score) {
			best, haveBest = t, true
		}
	}

	for gen := 0; gen < o.Generations; gen++ {
		next := make([]individual, 0, o.PopulationSize)
		for len(next) < o.PopulationSize {
			parent1 := o.tournamentSelect(rng, population, fitness)
			parent2 := o.tournamentSelect(rng, population, fitness)
			child := o.crossover(rng, parent1, parent2)
			o.mutate(rng, child)
			next = append(next, child)
		}
		population = next
		fitness = evaluate(population)
		allTrials = append(allTrials, fitness...)
		for _, t := range fitness {
			if t.Score.GreaterThan(best.Score) {
				best = t
			}
		}
	}

	return GridResult{Best: best, Trials: allTrials}, nil
}

func (o *GeneticOptimizer) randomIndividual(rng *rand.Rand) individual {
	ind := make(individual, len(o.Space.Ranges))
	for g, r := range o.Space.Ranges {
		ind[g] = rng.Intn(len(r.Values))
	}
	return ind
}

func (o *GeneticOptimizer) decode(ind individual) map[string]any {
	params := make(map[string]any, len(ind))
	for g, r := range o.Space.Ranges {
		params[r.Name] = r.Values[ind[g]]
	}
	return params
}

// tournamentSelect picks the fittest of 3 randomly drawn individuals.
func (o *GeneticOptimizer) tournamentSelect(rng *rand.Rand, population []individual, fitness []Trial) individual {
	bestIdx := rng.Intn(len(population))
	for i := 1; i < 3; i++ {
		cand := rng.Intn(len(population))
		if fitness[cand].Score.GreaterThan(fitness[bestIdx].Score) {
			bestIdx = cand
		}
	}
	return population[bestIdx]
}

// crossover builds a child by picking each gene from parent1 or parent2
// with equal probability.
func (o *GeneticOptimizer) crossover(rng *rand.Rand, parent1, parent2 individual) individual {
	child := make(individual, len(parent1))
	for g := range child {
		if rng.Float64() < 0.5 {
			child[g] = parent1[g]
		} else {
			child[g] = parent2[g]
		}
	}
	return child
}

// mutate replaces exactly one gene with a freshly drawn random value.
func (o *GeneticOptimizer) mutate(rng *rand.Rand, child individual) {
	gene := rng.Intn(len(child))
	child[gene] = rng.Intn(len(o.Space.Ranges[gene].Values))
}
