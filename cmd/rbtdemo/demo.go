package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xrbt/lib/infra"
	"github.com/benz9527/xrbt/lib/tree"
	"github.com/benz9527/xrbt/lib/xlog"
)

const (
	defaultTrials = 1000
	envTrials     = "RBT_DEMO_TRIALS"
	envDump       = "RBT_DEMO_DUMP"
)

type demoConfig struct {
	trials int
	dump   bool
}

func newDemoConfig(trials int, dump bool) (*demoConfig, error) {
	if trials < 0 {
		return nil, infra.NewErrorStack(fmt.Sprintf("[rbtdemo] negative trials %d", trials))
	}
	return &demoConfig{
		trials: trials,
		dump:   dump,
	}, nil
}

type demo struct {
	cfg    *demoConfig
	logger xlog.XLogger
	w      io.Writer
}

type dumper interface {
	Dump(w io.Writer) error
}

func (d *demo) print(t dumper) error {
	if !d.cfg.dump {
		return nil
	}
	return t.Dump(d.w)
}

func (d *demo) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(d.w, format, args...)
	return err
}

// runDemo walks through the tree operations step by step.
func runDemo(cfg *demoConfig, logger xlog.XLogger, w io.Writer) error {
	d := &demo{
		cfg:    cfg,
		logger: logger,
		w:      w,
	}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"ints", d.ints},
		{"colours", d.colours},
		{"doubles", d.doubles},
		{"trials", d.timeTrials},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			err = infra.WrapErrorStackWithMessage(err, "[rbtdemo] "+step.name+" failed")
			logger.ErrorStack(err, "[rbtdemo] step failed", zap.String("step", step.name))
			return err
		}
		logger.Debug("[rbtdemo] step done", zap.String("step", step.name))
	}
	return nil
}

func (d *demo) ints() error {
	vals := tree.NewRBTree[int, struct{}](
		tree.WithRBTreeLogger[int, struct{}](d.logger),
		tree.WithRBTreeDebugCheck[int, struct{}](),
	)
	for i := 0; i < 25; i++ {
		vals.InsertKey(i)
		if err := d.print(vals); err != nil {
			return err
		}
	}

	// 52 is absent, its erasure is ignored.
	for _, it := range []tree.RBIterator[int, struct{}]{vals.Find(11), vals.Find(52), vals.Find(22)} {
		if _, err := vals.Erase(it); err != nil {
			return err
		}
		if err := d.print(vals); err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) colours() error {
	colours := tree.NewRBTree[string, struct{}](tree.WithRBTreeLogger[string, struct{}](d.logger))
	for _, colour := range []string{"red", "orange", "yellow", "green", "blue", "indigo", "green", "violet"} {
		colours.InsertKey(colour)
	}
	if err := d.printf("colours size: %d\n", colours.Len()); err != nil {
		return err
	}
	if err := d.printf("colours current structure:\n"); err != nil {
		return err
	}
	if err := d.print(colours); err != nil {
		return err
	}

	keys := []string{"red", "cherry", "green"}
	places := lo.Map(keys, func(key string, _ int) tree.RBIterator[string, struct{}] {
		return colours.Find(key)
	})
	if err := d.printf("green has %d characters.\n", len(places[2].Key())); err != nil {
		return err
	}
	for i, it := range places {
		if it.IsEnd() {
			continue
		}
		_, err := colours.Erase(it)
		if errors.Is(err, tree.ErrInvalidIterator) {
			// An earlier erase moved this entry into another node.
			d.logger.Warn("[rbtdemo] stale position, remove by key", zap.String("key", keys[i]))
			_, err = colours.Remove(keys[i])
		}
		if err != nil {
			return err
		}
	}
	if err := d.printf("colours new structure:\n"); err != nil {
		return err
	}
	return d.print(colours)
}

func getDoubles() tree.RBTree[float64, struct{}] {
	vals := tree.NewRBTree[float64, struct{}](tree.WithRBTreeDesc[float64, struct{}]())
	vals.InsertKey(3.3)
	vals.InsertKey(1.1)
	vals.InsertKey(4.4)
	vals.InsertKey(5.3)
	vals.InsertKey(1.1) // duplicate
	vals.InsertKey(0)
	return vals
}

func (d *demo) doubles() error {
	doubles := getDoubles()
	if err := d.printf("printing the doubles:\n"); err != nil {
		return err
	}
	for v := range doubles.All() {
		if err := d.printf("%v\n", v); err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) timeTrials() error {
	if err := d.printf("now we do some time trials...\n"); err != nil {
		return err
	}
	ints := tree.NewRBTree[int, struct{}](
		tree.WithRBTreeLogger[int, struct{}](d.logger),
		tree.WithRBTreeCapacity[int, struct{}](d.cfg.trials),
	)

	elapsed := make([]time.Duration, 0, d.cfg.trials)
	for i := 0; i < d.cfg.trials; i++ {
		start := time.Now()
		ints.InsertKey(i)
		elapsed = append(elapsed, time.Since(start))
	}
	if err := d.summary("insertions", elapsed); err != nil {
		return err
	}

	elapsed = elapsed[:0]
	for i := 0; i < d.cfg.trials; i++ {
		start := time.Now()
		if _, err := ints.Erase(ints.Find(i)); err != nil {
			return err
		}
		elapsed = append(elapsed, time.Since(start))
	}
	if err := d.summary("removals", elapsed); err != nil {
		return err
	}
	if ints.Len() != 0 {
		return infra.NewErrorStack(fmt.Sprintf("[rbtdemo] %d entries left after removals", ints.Len()))
	}
	return nil
}

func (d *demo) summary(op string, elapsed []time.Duration) error {
	if len(elapsed) == 0 {
		return d.printf("time each of 0 %s: none\n", op)
	}
	total := lo.Sum(elapsed)
	mean := total / time.Duration(len(elapsed))
	slowest := lo.Max(elapsed)
	d.logger.Info("[rbtdemo] trials finished",
		zap.String("op", op),
		zap.Int("count", len(elapsed)),
		zap.Duration("total", total),
		zap.Duration("mean", mean),
		zap.Duration("max", slowest),
	)
	return d.printf("time each of %d %s: total %s, mean %s, max %s\n", len(elapsed), op, total, mean, slowest)
}
