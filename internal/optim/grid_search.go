package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/ctxlog"
	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/experiment"
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Param  string
	Values []float64
}

// ParseAxis reads "name=start:stop:count" (count evenly spaced values,
// both ends included) or "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(spec) == "" {
		return Axis{}, fmt.Errorf("axis %q: want name=start:stop:count or name=v1,v2", s)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		start, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		stop, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		count, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil || count < 1 {
			return Axis{}, fmt.Errorf("axis %q: bad range", s)
		}
		values := make([]float64, count)
		for i := range values {
			values[i] = start
			if count > 1 {
				values[i] = start + (stop-start)*float64(i)/float64(count-1)
			}
		}
		if count > 1 {
			values[count-1] = stop
		}
		return Axis{Param: name, Values: values}, nil
	}

	var values []float64
	for _, part := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %v", s, err)
		}
		values = append(values, v)
	}
	return Axis{Param: name, Values: values}, nil
}

type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Points enumerates the grid; the last axis varies fastest.
func (g *GridSearch) Points() []map[string]float64 {
	if len(g.axes) == 0 {
		return nil
	}
	var out []map[string]float64
	g.searchRecursive(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.axes) {
		point := make(map[string]float64, len(current))
		for k, v := range current {
			point[k] = v
		}
		*out = append(*out, point)
		return
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		current[axis.Param] = val
		g.searchRecursive(depth+1, current, out)
	}
	delete(current, axis.Param)
}

// Outcome is one grid point. Err is set when the point's run failed;
// failures do not stop the sweep.
type Outcome struct {
	Params map[string]float64
	Final  map[string]float64
	Stats  dynamo.Stats
	Err    error
}

// Search runs base once per grid point, overriding the swept parameters,
// on up to workers goroutines (GOMAXPROCS when workers <= 0). Outcomes are
// in Points order.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, workers int) ([]Outcome, error) {
	log := ctxlog.FromContext(ctx)
	points := g.Points()
	outcomes := make([]Outcome, len(points))

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, point := range points {
		i, point := i, point
		eg.Go(func() error {
			cfg := base.Clone()
			for k, v := range point {
				cfg.Params[k] = v
			}

			out := Outcome{Params: point}
			exp := experiment.New(cfg, nil)
			if err := exp.Setup(ctx); err != nil {
				out.Err = err
				outcomes[i] = out
				return nil
			}
			res, err := exp.Run(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				out.Err = err
				log.Debug("sweep point failed", "params", point, "error", err)
			} else {
				out.Stats = res.Stats
				out.Final = make(map[string]float64, len(res.Names))
				final := res.Final()
				for j, name := range res.Names {
					out.Final[name] = final[j]
				}
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	log.Info("sweep finished", "model", base.Name, "points", len(points))
	return outcomes, nil
}

// Best returns the successful outcome with the largest (or smallest) final
// concentration of species.
func Best(outcomes []Outcome, species string, maximize bool) (Outcome, bool) {
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	var bestOut Outcome
	found := false
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		v, ok := o.Final[species]
		if !ok {
			continue
		}
		if (maximize && v > best) || (!maximize && v < best) {
			best, bestOut, found = v, o, true
		}
	}
	return bestOut, found
}
