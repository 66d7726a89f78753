package lowpipeline

import (
	"sort"

	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/source"
)

var noSpan source.Span

// computeWaves partitions module's functions into dependency-ordered
// waves: a function's wave is one past the max wave of every same-module
// function it reaches through map (spec.md §5). Functions within a wave
// have no map dependency on one another and can be lowered concurrently.
//
// A function that is never the target of a map invocation, directly or
// transitively, lands in wave 0 alongside every other dependency-free
// function.
func computeWaves(module *ast.Module) ([][]*ast.Function, error) {
	deps := make(map[string][]string, len(module.Funcs))
	byName := make(map[string]*ast.Function, len(module.Funcs))
	for _, fn := range module.Funcs {
		byName[fn.Name] = fn
		for _, callee := range sameModuleMapCallees(module, fn.Body) {
			if _, ok := byName[callee]; ok {
				deps[fn.Name] = append(deps[fn.Name], callee)
			}
		}
	}

	wave := make(map[string]int, len(module.Funcs))
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(module.Funcs))

	var visit func(name string) (int, error)
	visit = func(name string) (int, error) {
		switch state[name] {
		case done:
			return wave[name], nil
		case visiting:
			return 0, diagx.Internalf(noSpan, "map dependency cycle involving function %q", name)
		}
		state[name] = visiting
		maxDep := -1
		for _, callee := range deps[name] {
			w, err := visit(callee)
			if err != nil {
				return 0, err
			}
			if w > maxDep {
				maxDep = w
			}
		}
		state[name] = done
		wave[name] = maxDep + 1
		return wave[name], nil
	}

	for _, fn := range module.Funcs {
		if _, err := visit(fn.Name); err != nil {
			return nil, err
		}
	}

	maxWave := -1
	for _, w := range wave {
		if w > maxWave {
			maxWave = w
		}
	}
	waves := make([][]*ast.Function, maxWave+1)
	for _, fn := range module.Funcs {
		w := wave[fn.Name]
		waves[w] = append(waves[w], fn)
	}
	for _, group := range waves {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}
	return waves, nil
}
