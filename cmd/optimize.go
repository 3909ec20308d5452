package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solvtools/poolopt/pkg/optimizer"
	"github.com/solvtools/poolopt/pkg/policy"
	"github.com/solvtools/poolopt/pkg/poolfile"
	"github.com/solvtools/poolopt/pkg/sat"
)

type optimizeOpts struct {
	poolfile    string
	requestfile string
	out         string
	verify      bool
}

var optimizeopts = optimizeOpts{}

func NewOptimizeCmd() *cobra.Command {

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "removes redundant interchangeable packages from a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			logrus.Info("Loading pool.")
			pool, err := poolfile.LoadPool(optimizeopts.poolfile)
			if err != nil {
				return err
			}
			request, err := poolfile.LoadRequest(optimizeopts.requestfile, pool)
			if err != nil {
				return err
			}
			logrus.Infof("Loaded %d pool packages.", pool.Size())

			logrus.Info("Optimizing the pool.")
			optimized := optimizer.New(policy.PreferNewest{}).Optimize(request, pool)
			logrus.Infof("Optimized the pool down to %d packages.", optimized.Size())

			if optimizeopts.verify {
				before, err := sat.Satisfiable(request, pool)
				if err != nil {
					return err
				}
				after, err := sat.Satisfiable(request, optimized)
				if err != nil {
					return err
				}
				if before != after {
					return fmt.Errorf("optimization changed solvability from %v to %v", before, after)
				}
				logrus.Infof("Verified that solvability is unchanged (%v).", after)
			}

			if err := poolfile.WritePool(optimized, optimizeopts.out); err != nil {
				return err
			}
			logrus.Info("Done.")
			return nil
		},
	}

	optimizeCmd.Flags().StringVarP(&optimizeopts.poolfile, "pool", "p", "pool.yaml", "pool file with the candidate packages")
	optimizeCmd.Flags().StringVarP(&optimizeopts.requestfile, "request", "r", "request.yaml", "request file with top-level requirements and fixed packages")
	optimizeCmd.Flags().StringVarP(&optimizeopts.out, "output", "o", "pool.optimized.yaml", "where to write the optimized pool")
	optimizeCmd.Flags().BoolVarP(&optimizeopts.verify, "verify", "", false, "check with the sat solver that solvability of the request did not change")
	return optimizeCmd
}
