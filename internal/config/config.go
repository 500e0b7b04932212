package config

// Config holds the resolved parameters for one run. It is built once
// from defaults, an optional config file, and CLI overrides (in that
// priority order, CLI winning) and never mutated after Validate.
type Config struct {
	// Run
	WorkDir string `json:"work_dir" yaml:"work_dir" toml:"work_dir"`
	Phase   string `json:"phase" yaml:"phase" toml:"phase"`
	Seed    int64  `json:"seed" yaml:"seed" toml:"seed"`

	// Model
	Model         string         `json:"model" yaml:"model" toml:"model"`
	ModelArgs     map[string]any `json:"model_args" yaml:"model_args" toml:"model_args"`
	Weights       string         `json:"weights" yaml:"weights" toml:"weights"`
	IgnoreWeights []string       `json:"ignore_weights" yaml:"ignore_weights" toml:"ignore_weights"`

	// Feeder
	Feeder          string         `json:"feeder" yaml:"feeder" toml:"feeder"`
	TrainFeederArgs map[string]any `json:"train_feeder_args" yaml:"train_feeder_args" toml:"train_feeder_args"`
	TestFeederArgs  map[string]any `json:"test_feeder_args" yaml:"test_feeder_args" toml:"test_feeder_args"`
	NumWorker       int            `json:"num_worker" yaml:"num_worker" toml:"num_worker"`
	BatchSize       int            `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
	TestBatchSize   int            `json:"test_batch_size" yaml:"test_batch_size" toml:"test_batch_size"`

	// Optimization
	Optimizer   string  `json:"optimizer" yaml:"optimizer" toml:"optimizer"`
	BaseLR      float64 `json:"base_lr" yaml:"base_lr" toml:"base_lr"`
	Step        []int   `json:"step" yaml:"step" toml:"step"`
	Momentum    float64 `json:"momentum" yaml:"momentum" toml:"momentum"`
	Nesterov    bool    `json:"nesterov" yaml:"nesterov" toml:"nesterov"`
	WeightDecay float64 `json:"weight_decay" yaml:"weight_decay" toml:"weight_decay"`
	AdamBeta1   float64 `json:"adam_beta1" yaml:"adam_beta1" toml:"adam_beta1"`
	AdamBeta2   float64 `json:"adam_beta2" yaml:"adam_beta2" toml:"adam_beta2"`
	AdamEps     float64 `json:"adam_eps" yaml:"adam_eps" toml:"adam_eps"`

	// Epoch range and cadence
	StartEpoch   int `json:"start_epoch" yaml:"start_epoch" toml:"start_epoch"`
	NumEpoch     int `json:"num_epoch" yaml:"num_epoch" toml:"num_epoch"`
	LogInterval  int `json:"log_interval" yaml:"log_interval" toml:"log_interval"`
	SaveInterval int `json:"save_interval" yaml:"save_interval" toml:"save_interval"`
	EvalInterval int `json:"eval_interval" yaml:"eval_interval" toml:"eval_interval"`

	// Evaluation
	ShowTopK        []int    `json:"show_topk" yaml:"show_topk" toml:"show_topk"`
	EvalSplits      []string `json:"eval_splits" yaml:"eval_splits" toml:"eval_splits"`
	ScoreVersioning bool     `json:"score_versioning" yaml:"score_versioning" toml:"score_versioning"`

	// Environment
	Devices    []string `json:"devices" yaml:"devices" toml:"devices"`
	PrintLog   bool     `json:"print_log" yaml:"print_log" toml:"print_log"`
	StatusAddr string   `json:"status_addr" yaml:"status_addr" toml:"status_addr"`
}

// Supported optimizer kinds.
const (
	OptimizerSGD  = "SGD"
	OptimizerAdam = "Adam"
)

// Default returns the built-in configuration. A config file and CLI
// flags overlay these values field by field.
func Default() Config {
	return Config{
		WorkDir: "./work_dir",
		Phase:   "train",
		Seed:    1,

		Model: "linear",

		Feeder:        "memory",
		NumWorker:     1,
		BatchSize:     256,
		TestBatchSize: 256,

		Optimizer:   OptimizerSGD,
		BaseLR:      0.01,
		Step:        []int{20, 40, 60},
		Momentum:    0.9,
		WeightDecay: 0.0005,
		AdamBeta1:   0.9,
		AdamBeta2:   0.999,
		AdamEps:     1e-8,

		StartEpoch:   0,
		NumEpoch:     80,
		LogInterval:  100,
		SaveInterval: 10,
		EvalInterval: 5,

		ShowTopK:   []int{1, 5},
		EvalSplits: []string{"test"},

		PrintLog: true,
	}
}

// Validate checks the invariants of a resolved Config. Every failure is
// a config error (IsConfig) and must abort before any training begins.
func (c Config) Validate() error {
	if c.WorkDir == "" {
		return errorf("work_dir must not be empty")
	}
	if c.Phase != "train" && c.Phase != "test" {
		return errorf("unknown phase %q (want train or test)", c.Phase)
	}
	if c.Model == "" {
		return errorf("model identifier must not be empty")
	}
	if c.Feeder == "" {
		return errorf("feeder identifier must not be empty")
	}
	if c.BatchSize <= 0 || c.TestBatchSize <= 0 {
		return errorf("batch sizes must be positive (batch_size=%d test_batch_size=%d)", c.BatchSize, c.TestBatchSize)
	}
	if c.Optimizer != OptimizerSGD && c.Optimizer != OptimizerAdam {
		return errorf("unsupported optimizer %q (want SGD or Adam)", c.Optimizer)
	}
	if c.BaseLR <= 0 {
		return errorf("base_lr must be positive, got %g", c.BaseLR)
	}
	for i := 1; i < len(c.Step); i++ {
		if c.Step[i] < c.Step[i-1] {
			return errorf("step boundaries must be non-decreasing, got %v", c.Step)
		}
	}
	if c.StartEpoch < 0 {
		return errorf("start_epoch must be >= 0, got %d", c.StartEpoch)
	}
	if c.StartEpoch >= c.NumEpoch {
		return errorf("start_epoch (%d) must be < num_epoch (%d)", c.StartEpoch, c.NumEpoch)
	}
	if c.LogInterval <= 0 || c.SaveInterval <= 0 || c.EvalInterval <= 0 {
		return errorf("log/save/eval intervals must be positive")
	}
	for _, k := range c.ShowTopK {
		if k < 1 {
			return errorf("top-k values must be >= 1, got %d", k)
		}
	}
	if len(c.EvalSplits) == 0 {
		return errorf("at least one eval split is required")
	}
	return nil
}
