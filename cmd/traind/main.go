package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"traind/internal/common/fsutil"
	"traind/internal/config"
	"traind/internal/httpapi"
	"traind/internal/optim"
	"traind/internal/registry"
	"traind/internal/runlog"
	"traind/internal/trainer"
	"traind/pkg/types"

	// Built-in feeders and models register themselves.
	_ "traind/internal/feeder"
	_ "traind/internal/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := config.Default()
	var corsEnabled bool
	var corsOrigins []string

	cmd := &cobra.Command{
		Use:           "traind",
		Short:         "Epoch-driven training and evaluation runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd, configPath, cfg)
			if err != nil {
				return err
			}
			return run(resolved, corsEnabled, corsOrigins)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "Path to a yaml/json/toml config file")
	f.StringVarP(&cfg.WorkDir, "work-dir", "w", cfg.WorkDir, "Directory for checkpoints, scores and logs")
	f.StringVar(&cfg.Phase, "phase", cfg.Phase, "Run phase: train or test")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for shuffling feeders")
	f.StringVar(&cfg.Model, "model", cfg.Model, "Model identifier")
	f.StringVar(&cfg.Weights, "weights", cfg.Weights, "Checkpoint to seed the model from")
	f.StringSliceVar(&cfg.IgnoreWeights, "ignore-weights", cfg.IgnoreWeights, "Checkpoint keys to drop before seeding")
	f.StringVar(&cfg.Feeder, "feeder", cfg.Feeder, "Feeder identifier")
	f.IntVar(&cfg.NumWorker, "num-worker", cfg.NumWorker, "Feeder parallelism hint")
	f.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Training batch size")
	f.IntVar(&cfg.TestBatchSize, "test-batch-size", cfg.TestBatchSize, "Evaluation batch size")
	f.StringVar(&cfg.Optimizer, "optimizer", cfg.Optimizer, "Optimizer: SGD or Adam")
	f.Float64Var(&cfg.BaseLR, "base-lr", cfg.BaseLR, "Initial learning rate")
	f.IntSliceVar(&cfg.Step, "step", cfg.Step, "Epoch boundaries where the learning rate decays by 10x")
	f.Float64Var(&cfg.Momentum, "momentum", cfg.Momentum, "SGD momentum")
	f.BoolVar(&cfg.Nesterov, "nesterov", cfg.Nesterov, "Use Nesterov momentum")
	f.Float64Var(&cfg.WeightDecay, "weight-decay", cfg.WeightDecay, "L2 weight decay")
	f.IntVar(&cfg.StartEpoch, "start-epoch", cfg.StartEpoch, "First epoch index")
	f.IntVar(&cfg.NumEpoch, "num-epoch", cfg.NumEpoch, "Epoch index to stop before")
	f.IntVar(&cfg.LogInterval, "log-interval", cfg.LogInterval, "Batches between progress lines")
	f.IntVar(&cfg.SaveInterval, "save-interval", cfg.SaveInterval, "Epochs between checkpoints")
	f.IntVar(&cfg.EvalInterval, "eval-interval", cfg.EvalInterval, "Epochs between evaluation passes")
	f.IntSliceVar(&cfg.ShowTopK, "show-topk", cfg.ShowTopK, "Top-k values reported by evaluation")
	f.StringSliceVar(&cfg.Devices, "devices", cfg.Devices, "Device selectors passed through to the model")
	f.BoolVar(&cfg.PrintLog, "print-log", cfg.PrintLog, "Append run output to log.txt in the work dir")
	f.StringVar(&cfg.StatusAddr, "status-addr", cfg.StatusAddr, "HTTP status listen address (empty disables)")
	f.BoolVar(&corsEnabled, "cors-enabled", false, "Enable CORS on the status server")
	f.StringSliceVar(&corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	return cmd
}

// resolveConfig layers the three sources: defaults, then the config
// file, then any flag the user actually set. flagCfg already holds
// defaults plus flag values, so only changed flags are copied over.
func resolveConfig(cmd *cobra.Command, path string, flagCfg config.Config) (config.Config, error) {
	cfg := config.Default()
	var err error
	if path != "" {
		if err = config.Load(path, &cfg); err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	if f.Changed("work-dir") {
		cfg.WorkDir = flagCfg.WorkDir
	}
	if f.Changed("phase") {
		cfg.Phase = flagCfg.Phase
	}
	if f.Changed("seed") {
		cfg.Seed = flagCfg.Seed
	}
	if f.Changed("model") {
		cfg.Model = flagCfg.Model
	}
	if f.Changed("weights") {
		cfg.Weights = flagCfg.Weights
	}
	if f.Changed("ignore-weights") {
		cfg.IgnoreWeights = flagCfg.IgnoreWeights
	}
	if f.Changed("feeder") {
		cfg.Feeder = flagCfg.Feeder
	}
	if f.Changed("num-worker") {
		cfg.NumWorker = flagCfg.NumWorker
	}
	if f.Changed("batch-size") {
		cfg.BatchSize = flagCfg.BatchSize
	}
	if f.Changed("test-batch-size") {
		cfg.TestBatchSize = flagCfg.TestBatchSize
	}
	if f.Changed("optimizer") {
		cfg.Optimizer = flagCfg.Optimizer
	}
	if f.Changed("base-lr") {
		cfg.BaseLR = flagCfg.BaseLR
	}
	if f.Changed("step") {
		cfg.Step = flagCfg.Step
	}
	if f.Changed("momentum") {
		cfg.Momentum = flagCfg.Momentum
	}
	if f.Changed("nesterov") {
		cfg.Nesterov = flagCfg.Nesterov
	}
	if f.Changed("weight-decay") {
		cfg.WeightDecay = flagCfg.WeightDecay
	}
	if f.Changed("start-epoch") {
		cfg.StartEpoch = flagCfg.StartEpoch
	}
	if f.Changed("num-epoch") {
		cfg.NumEpoch = flagCfg.NumEpoch
	}
	if f.Changed("log-interval") {
		cfg.LogInterval = flagCfg.LogInterval
	}
	if f.Changed("save-interval") {
		cfg.SaveInterval = flagCfg.SaveInterval
	}
	if f.Changed("eval-interval") {
		cfg.EvalInterval = flagCfg.EvalInterval
	}
	if f.Changed("show-topk") {
		cfg.ShowTopK = flagCfg.ShowTopK
	}
	if f.Changed("devices") {
		cfg.Devices = flagCfg.Devices
	}
	if f.Changed("print-log") {
		cfg.PrintLog = flagCfg.PrintLog
	}
	if f.Changed("status-addr") {
		cfg.StatusAddr = flagCfg.StatusAddr
	}

	if cfg.WorkDir, err = fsutil.ExpandHome(cfg.WorkDir); err != nil {
		return cfg, err
	}
	if cfg.Weights != "" {
		if cfg.Weights, err = fsutil.ExpandHome(cfg.Weights); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(cfg config.Config, corsEnabled bool, corsOrigins []string) error {
	if err := fsutil.EnsureDir(cfg.WorkDir); err != nil {
		return err
	}
	log, err := runlog.New(cfg.WorkDir, cfg.PrintLog)
	if err != nil {
		return err
	}
	defer log.Close()

	runID, err := config.WriteResolved(cfg)
	if err != nil {
		return err
	}
	log.Infof("run %s starting (phase: %s, work dir: %s)", runID, cfg.Phase, cfg.WorkDir)

	mdl, err := registry.NewModel(cfg.Model, cfg.ModelArgs)
	if err != nil {
		return err
	}
	opt, err := optim.New(cfg)
	if err != nil {
		return err
	}
	feeders, err := buildFeeders(cfg)
	if err != nil {
		return err
	}

	runner, err := trainer.New(trainer.RunnerConfig{
		Config:    cfg,
		RunID:     runID,
		Model:     mdl,
		Optimizer: opt,
		Feeders:   feeders,
		Log:       log,
	})
	if err != nil {
		return err
	}

	var srv *http.Server
	if cfg.StatusAddr != "" {
		httpapi.SetLogger(log.Z())
		httpapi.SetCORSOptions(corsEnabled, corsOrigins, []string{"GET"}, []string{"Content-Type"})
		srv = &http.Server{Addr: cfg.StatusAddr, Handler: httpapi.NewMux(runner)}
		go func() {
			log.Infof("status server listening on %s", cfg.StatusAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("status server: %v", err)
			}
		}()
	}

	// Ctrl+C / SIGTERM stops the status server and exits; training has
	// no resumable mid-epoch state to flush.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		log.Warnf("received %s, exiting", sig)
		shutdownServer(srv)
		os.Exit(1)
	}()

	runErr := runner.Start()
	shutdownServer(srv)
	if runErr != nil {
		log.Errorf("run %s failed: %v", runID, runErr)
		return runErr
	}
	log.Infof("run %s finished", runID)
	return nil
}

func buildFeeders(cfg config.Config) (map[string]types.Feeder, error) {
	feeders := make(map[string]types.Feeder)
	if cfg.Phase == string(types.PhaseTrain) {
		f, err := registry.NewFeeder(cfg.Feeder, registry.FeederOptions{
			Args:      cfg.TrainFeederArgs,
			BatchSize: cfg.BatchSize,
			Workers:   cfg.NumWorker,
			Seed:      cfg.Seed,
			Shuffle:   true,
		})
		if err != nil {
			return nil, err
		}
		feeders[trainer.TrainSplit] = f
	}
	for _, split := range cfg.EvalSplits {
		f, err := registry.NewFeeder(cfg.Feeder, registry.FeederOptions{
			Args:      cfg.TestFeederArgs,
			BatchSize: cfg.TestBatchSize,
			Workers:   cfg.NumWorker,
			Seed:      cfg.Seed,
		})
		if err != nil {
			return nil, err
		}
		feeders[split] = f
	}
	return feeders, nil
}

func shutdownServer(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
