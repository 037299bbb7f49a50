// Profiling:
// go build ./cmd/archon-bench/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/kestrelsim/archon"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

type comp5 struct {
	V int64
	W int64
}

type comp6 struct {
	V int64
	W int64
}

func main() {
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	entities := 100000
	run(count, iters, entities)

	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w := archon.NewWorld()
		es := w.CreateEntities(numEntities)
		for _, e := range es {
			archon.AddComponent(w, e, comp1{})
			archon.AddComponent(w, e, comp2{V: 1})
			archon.AddComponent(w, e, comp3{})
			archon.AddComponent(w, e, comp4{})
			archon.AddComponent(w, e, comp5{})
			archon.AddComponent(w, e, comp6{})
		}

		q := w.Query()
		q = archon.With[comp1](q)
		q = archon.With[comp2](q)
		q = archon.With[comp3](q)
		q = archon.With[comp4](q)
		q = archon.With[comp5](q)
		q = archon.With[comp6](q)

		for range iters {
			it := q.ChunksPooled()
			for {
				c, ok := it.Next()
				if !ok {
					break
				}
				c1 := archon.Span[comp1](c)
				c2 := archon.Span[comp2](c)
				for i := range c1 {
					c1[i].V += c2[i].V
					c1[i].W += c2[i].W
				}
			}
			it.Close()
		}
	}
}
