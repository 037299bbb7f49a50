// Profiling:
// go build ./cmd/archon-bench/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/kestrelsim/archon"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w := archon.NewWorld()

		es := w.CreateEntities(numEntities)
		for _, e := range es {
			archon.AddComponent(w, e, comp1{})
			archon.AddComponent(w, e, comp2{V: 1, W: 1})
		}

		for range iters {
			q := archon.With[comp2](archon.With[comp1](w.Query()))
			it := q.ChunksStack()
			toRemove := make([]archon.Entity, 0, numEntities)
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
					toRemove = append(toRemove, c.EntityAt(i))
				}
			}
			for _, e := range toRemove {
				w.QueueDestroy(e)
			}
			w.FlushDestroyed()

			es = w.CreateEntities(numEntities)
			for _, e := range es {
				archon.AddComponent(w, e, comp1{})
				archon.AddComponent(w, e, comp2{V: 1, W: 1})
			}
		}
	}
}
