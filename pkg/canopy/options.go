package canopy

import "path/filepath"

type options struct {
	modelDir  string
	modelPath string
	vocabPath string
	threshold float64
	maxLength int
	poolSize  int
}

// Option configures a Canopy instance.
type Option func(*options)

// WithModelDir sets the directory containing model files.
// Expects: model_quantized.onnx, vocab.txt.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPaths sets explicit paths for each model file.
// Use this when model files aren't in the default directory layout.
func WithModelPaths(model, vocab string) Option {
	return func(o *options) {
		o.modelPath = model
		o.vocabPath = vocab
	}
}

// WithThreshold sets the entailment score a label must exceed to be
// accepted. At or below it, the fallback label wins. Default: 0.3.
func WithThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithMaxLength sets the tokenizer sequence length budget. Default: 192.
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// WithPoolSize sets the number of concurrent inference sessions.
// Default: 4.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

func defaultOptions() options {
	return options{
		threshold: 0.3,
		maxLength: 192,
		poolSize:  4,
	}
}

// resolvePaths determines the model and vocab file paths from the
// configured options. Explicit paths take precedence over modelDir.
func resolvePaths(o options) (model, vocab string) {
	if o.modelPath != "" {
		return o.modelPath, o.vocabPath
	}
	dir := o.modelDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "model_quantized.onnx"),
		filepath.Join(dir, "vocab.txt")
}
