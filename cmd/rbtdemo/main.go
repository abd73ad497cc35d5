package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/benz9527/xrbt/lib/xlog"
)

func main() {
	app := cli.NewApp()
	app.Name = "rbtdemo"
	app.Usage = "walk through the red-black tree operations"
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:   "trials, t",
			Value:  defaultTrials,
			EnvVar: envTrials,
			Usage:  " number of timed insertions and removals `N`",
		},
		cli.BoolTFlag{
			Name:   "dump, d",
			EnvVar: envDump,
			Usage:  " print the tree structure after each mutation",
		},
	}
	app.Action = func(c *cli.Context) error {
		cfg, err := newDemoConfig(c.Int("trials"), c.BoolT("dump"))
		if err != nil {
			return err
		}
		return run(newApp(cfg, c.App.Writer))
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(app.ErrWriter, "rbtdemo: %s\n", err)
		os.Exit(1)
	}
}

func newApp(cfg *demoConfig, w io.Writer, logOpts ...xlog.XLoggerOption) *fx.App {
	return fx.New(
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Supply(cfg),
		fx.Provide(
			func(lc fx.Lifecycle) xlog.XLogger {
				logger := xlog.NewXLogger(logOpts...)
				lc.Append(fx.StopHook(func() {
					_ = logger.Sync()
				}))
				return logger
			},
			func() io.Writer {
				return w
			},
		),
		fx.Invoke(runDemo),
	)
}

func run(app *fx.App) error {
	if err := app.Err(); err != nil {
		return err
	}
	startCtx, startCancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	return app.Stop(stopCtx)
}
