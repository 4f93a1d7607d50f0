package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"vending-console/internal/apiclient"
	"vending-console/internal/config"
	"vending-console/internal/notice"
	"vending-console/internal/purchase"
	"vending-console/internal/resources"
	"vending-console/pkg/logging"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cfg := config.New()
	return &cli.App{
		Name:  "simulate-purchase",
		Usage: "drive the vending purchase flow against the upstream API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: cfg.APIBaseURL, EnvVars: []string{"API_BASE_URL"}, Usage: "upstream base URL"},
			&cli.DurationFlag{Name: "timeout", Value: cfg.APITimeout(), Usage: "request timeout"},
			&cli.StringFlag{Name: "log-level", Value: "error", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logging.InitLogging(c.String("log-level"))
			logging.SetOutput(stderr)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "stock",
				Usage: "show the products of a machine",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "machine", Usage: "machine id, defaults to the first machine"},
				},
				Action: func(c *cli.Context) error {
					sim, err := setup(c, stderr)
					if err != nil {
						return err
					}
					printState(stdout, sim.State())
					return nil
				},
			},
			{
				Name:  "buy",
				Usage: "buy one product",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "machine", Usage: "machine id, defaults to the first machine"},
					&cli.Int64Flag{Name: "user", Usage: "user id, defaults to the first user"},
					&cli.Int64Flag{Name: "product", Required: true, Usage: "product id"},
				},
				Action: func(c *cli.Context) error {
					sim, err := setup(c, stderr)
					if err != nil {
						return err
					}
					if id := c.Int64("user"); id != 0 {
						if err := sim.SelectUser(id); err != nil {
							return err
						}
					}
					if err := sim.Purchase(c.Context, c.Int64("product")); err != nil {
						printState(stdout, sim.State())
						return err
					}
					printState(stdout, sim.State())
					return nil
				},
			},
		},
	}
}

// setup initializes a simulator and selects --machine when given
func setup(c *cli.Context, stderr io.Writer) (*purchase.Simulator, error) {
	client, err := apiclient.New(c.String("api"), apiclient.WithTimeout(c.Duration("timeout")))
	if err != nil {
		return nil, err
	}
	printer := notice.NotifierFunc(func(_ context.Context, n notice.Notice) {
		fmt.Fprintf(stderr, "[%s] %s\n", n.Level, n.Message)
	})
	reg := resources.NewRegistry(client, printer)
	sim := purchase.New(reg, client, printer, time.Second)

	if err := sim.Init(c.Context); err != nil {
		return nil, err
	}
	if id := c.Int64("machine"); id != 0 {
		if err := sim.SelectMachine(c.Context, id); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

func printState(w io.Writer, st purchase.State) {
	if st.Machine != nil {
		fmt.Fprintf(w, "machine: %s (%s)\n", st.Machine.MachineCode, st.Machine.Location)
	}
	if st.User != nil {
		fmt.Fprintf(w, "user:    %s balance %s\n", st.User.Username, st.User.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "status:  %s\n", st.Status)
	if st.Dropped != nil {
		fmt.Fprintf(w, "dropped: %s\n", st.Dropped.Name)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tPRICE\tSTOCK")
	for _, it := range st.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", it.ProductID, it.Name, it.Price.StringFixed(2), it.Stock)
	}
	tw.Flush()
}
