package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	pgexerciserepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/exerciserepo"
	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/domain"
	platformclock "github.com/liftlog/liftlog-api/internal/platform/clock"
	"github.com/liftlog/liftlog-api/internal/platform/seed"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <name>...",
		Short:   "Print the normalization key of each exercise name",
		GroupID: "vocab",
		Example: `  liftctl normalize "Push-Ups" pushups "Push Up"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, a := range args {
				fmt.Fprintf(out, "%s\t%s\n", a, domain.NormalizationKey(a))
			}
			return nil
		},
	}
}

func newClassifyCmd() *cobra.Command {
	var (
		weight  float64
		reps    int
		history []string
	)
	cmd := &cobra.Command{
		Use:     "classify",
		Short:   "Classify a lift against a history of lifts",
		GroupID: "vocab",
		Example: `  liftctl classify --weight 100 --reps 6 --history 100x5 --history 95x8`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidate := domain.Lift{Weight: weight, Reps: reps}
			if p := candidate.Problems(); p != nil {
				return fmt.Errorf("invalid lift: %v", p)
			}
			lifts := make([]domain.Lift, 0, len(history))
			for _, h := range history {
				l, err := parseLift(h)
				if err != nil {
					return err
				}
				lifts = append(lifts, l)
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.ClassifyPR(candidate, lifts))
			return nil
		},
	}
	cmd.Flags().Float64Var(&weight, "weight", 0, "candidate weight")
	cmd.Flags().IntVar(&reps, "reps", 0, "candidate reps")
	cmd.Flags().StringArrayVar(&history, "history", nil, "historical lift as WEIGHTxREPS (repeatable)")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("reps")
	return cmd
}

// parseLift reads "WEIGHTxREPS", e.g. "102.5x5".
func parseLift(s string) (domain.Lift, error) {
	w, r, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return domain.Lift{}, fmt.Errorf("lift %q: want WEIGHTxREPS", s)
	}
	weight, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return domain.Lift{}, fmt.Errorf("lift %q: weight: %w", s, err)
	}
	reps, err := strconv.Atoi(r)
	if err != nil {
		return domain.Lift{}, fmt.Errorf("lift %q: reps: %w", s, err)
	}
	return domain.Lift{Weight: weight, Reps: reps}, nil
}

func newSeedCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Append the built-in exercises to the Postgres vocabulary",
		GroupID: "vocab",
		Args:    cobra.NoArgs,
	}
	dsn := databaseURLFlag(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "print the built-in exercises and exit")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if list {
			cats, err := seed.Categories()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range cats {
				fmt.Fprintf(out, "%s: %s\n", c.Name, strings.Join(c.Exercises, ", "))
			}
			return nil
		}
		if err := requireDatabaseURL(*dsn); err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, *dsn, postgres.PoolOptions{MaxConns: 2})
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := exercises.NewService(pgexerciserepo.NewRepo(pool), platformclock.NewSystemClock(), nil)
		if err := svc.Refresh(ctx); err != nil {
			return err
		}
		added, err := seed.Apply(ctx, svc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %d exercises\n", added)
		return nil
	}
	return cmd
}
