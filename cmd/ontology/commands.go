package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/signalgraph/ontology/internal/db"
	"github.com/signalgraph/ontology/internal/util"
	"github.com/signalgraph/ontology/pkg/leaselock"
	"github.com/signalgraph/ontology/pkg/logger"
	"github.com/signalgraph/ontology/pkg/ontology"
	"github.com/signalgraph/ontology/pkg/query"
	storepgx "github.com/signalgraph/ontology/pkg/store/pgx"
)

// withPool connects a pgx pool from DATABASE_URL and hands it to the command
// body, closing it afterwards.
func withPool(ctx context.Context, fn func(*pgxpool.Pool) error) error {
	url := util.GetEnv("DATABASE_URL")
	if url == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	return fn(pool)
}

func withStorage(ctx context.Context, fn func(*storepgx.GraphDBStorage) error) error {
	return withPool(ctx, func(pool *pgxpool.Pool) error {
		return fn(storepgx.NewGraphDBStorage(pool))
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := util.GetEnv("DATABASE_URL")
			if url == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			return db.Migrate(url)
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(s *storepgx.GraphDBStorage) error {
				stats, err := s.GetStats(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(stats)
			})
		},
	}
}

func newValidateCommand() *cobra.Command {
	var (
		assertion  string
		confidence float64
		evidence   []string
		role       string
	)

	cmd := &cobra.Command{
		Use:   "validate SUBJECT_TYPE PREDICATE OBJECT_TYPE",
		Short: "Check a candidate relationship against the constraint table",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ontology.ValidationInput{
				SubjectType:   ontology.EntityType(args[0]),
				Predicate:     ontology.Predicate(args[1]),
				ObjectType:    ontology.EntityType(args[2]),
				AssertionType: ontology.AssertionType(assertion),
				EvidenceIDs:   evidence,
				Confidence:    confidence,
			}
			if role != "" {
				in.Properties = map[string]string{"role": role}
			}
			return printJSON(ontology.Validate(in))
		},
	}

	cmd.Flags().StringVar(&assertion, "assertion", string(ontology.AssertionObserved), "assertion type (observed or inferred)")
	cmd.Flags().Float64Var(&confidence, "confidence", 1.0, "candidate confidence in [0,1]")
	cmd.Flags().StringSliceVar(&evidence, "evidence", nil, "evidence entity ids")
	cmd.Flags().StringVar(&role, "role", "", "role property for the legacy has_role predicate")
	return cmd
}

func newSweepCommand() *cobra.Command {
	var (
		thresholdDays int
		wait          bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Flag sources that have not synced recently as stale",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				locks := leaselock.New(pool)
				repo := storepgx.NewGraphDBStorage(pool)

				return locks.WithLease(cmd.Context(), "sweep:stale-sources", leaselock.Options{
					TTL:  2 * time.Minute,
					Wait: wait,
				}, func(ctx context.Context) error {
					marked, err := repo.MarkStaleSources(ctx, time.Duration(thresholdDays)*24*time.Hour)
					if err != nil {
						return err
					}
					logger.Info("Sweep finished", "marked", marked, "threshold_days", thresholdDays)
					return nil
				})
			})
		},
	}

	cmd.Flags().IntVar(&thresholdDays, "threshold-days", 30, "age in days after which an unsynced source counts as stale")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the sweep lock instead of failing when another sweep runs")
	return cmd
}

func pathOptionsFlags(cmd *cobra.Command, opts *query.PathOptions) {
	cmd.Flags().StringVar((*string)(&opts.Mode), "mode", string(query.ModeSafe), "safety mode (safe, normal or full)")
	cmd.Flags().IntVar(&opts.MaxHops, "max-hops", query.DefaultMaxHops, "maximum path length in hops")
	cmd.Flags().IntVar(&opts.MaxResults, "max-results", query.DefaultMaxResults, "maximum number of paths")
	cmd.Flags().Float64Var(&opts.MinConfidence, "min-confidence", query.DefaultMinConfidence, "per-edge confidence floor")
	cmd.Flags().BoolVar(&opts.IncludeDeprecated, "include-deprecated", false, "traverse deprecated edges")
	cmd.Flags().Float64Var(&opts.MinFreshness, "min-freshness", 0, "prune nodes below this freshness score")
}

func newPathCommand() *cobra.Command {
	var opts query.PathOptions

	cmd := &cobra.Command{
		Use:   "path SOURCE_ID TARGET_ID",
		Short: "Search for confidence-weighted paths between two entities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(s *storepgx.GraphDBStorage) error {
				results, err := query.New(s).FindPath(cmd.Context(), args[0], args[1], opts)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Println("no path found")
					return nil
				}
				for _, r := range results {
					fmt.Printf("%.3f  %s\n", r.Confidence, r.Explanation)
				}
				return nil
			})
		},
	}

	pathOptionsFlags(cmd, &opts)
	return cmd
}

func newNeighborsCommand() *cobra.Command {
	var (
		opts      query.PathOptions
		direction string
	)

	cmd := &cobra.Command{
		Use:   "neighbors ENTITY_ID",
		Short: "List the filtered single-hop neighborhood of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(s *storepgx.GraphDBStorage) error {
				neighbors, err := query.New(s).GetNeighbors(
					cmd.Context(), args[0], opts, query.Direction(direction))
				if err != nil {
					return err
				}
				return printJSON(neighbors)
			})
		},
	}

	pathOptionsFlags(cmd, &opts)
	cmd.Flags().StringVar(&direction, "direction", string(query.DirectionBoth), "outgoing, incoming or both")
	return cmd
}
