// Package config loads the tunable thresholds of the reconstruction pipeline
// from a YAML file. The numeric constants are deliberately tunable, not fixed
// contracts; the defaults mirror the most permissive production settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/boletim/pkg/align"
	"github.com/coolbeans/boletim/pkg/classify"
	"github.com/coolbeans/boletim/pkg/textmatch"
)

// Config holds every tunable of the pipeline.
type Config struct {
	// MergeMaxGap bounds the gap, in bytes, between org-header spans
	// coalesced into one anchor.
	MergeMaxGap int `yaml:"merge_max_gap"`

	// ContainmentRatio is the minimum shorter/longer ratio for a containment
	// match in the cascade.
	ContainmentRatio float64 `yaml:"containment_ratio"`

	// NGramSize is the character n-gram size of the last cascade stage.
	NGramSize int `yaml:"ngram_size"`

	// NGramJaccardMin is the minimum n-gram Jaccard similarity.
	NGramJaccardMin float64 `yaml:"ngram_jaccard_min"`

	// NGramMinLetters is the minimum letters-only length before the n-gram
	// stage applies.
	NGramMinLetters int `yaml:"ngram_min_letters"`

	// JunkMaxLen is the maximum trimmed length of a junk line.
	JunkMaxLen int `yaml:"junk_max_len"`

	// Subdivide toggles the recursive subdivision pass.
	Subdivide bool `yaml:"subdivide"`

	// DocNameAllowList overrides the all-caps document type names accepted
	// as document headers. Empty keeps the built-in list.
	DocNameAllowList []string `yaml:"doc_name_allow_list"`
}

// Default returns the production defaults.
func Default() Config {
	t := textmatch.DefaultThresholds()
	return Config{
		MergeMaxGap:      align.DefaultMergeMaxGap,
		ContainmentRatio: t.ContainmentRatio,
		NGramSize:        t.NGramSize,
		NGramJaccardMin:  t.NGramJaccardMin,
		NGramMinLetters:  t.NGramMinLetters,
		JunkMaxLen:       classify.DefaultJunkMaxLen,
		Subdivide:        true,
	}
}

// Load reads a YAML config file over the defaults. Absent keys keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Thresholds converts the config into cascade thresholds.
func (c Config) Thresholds() textmatch.Thresholds {
	return textmatch.Thresholds{
		ContainmentRatio: c.ContainmentRatio,
		NGramSize:        c.NGramSize,
		NGramJaccardMin:  c.NGramJaccardMin,
		NGramMinLetters:  c.NGramMinLetters,
	}
}

// Classifier builds a classifier configured by this config.
func (c Config) Classifier() *classify.Classifier {
	opts := []classify.Option{classify.WithJunkMaxLen(c.JunkMaxLen)}
	if len(c.DocNameAllowList) > 0 {
		opts = append(opts, classify.WithDocNameAllowList(c.DocNameAllowList))
	}
	return classify.New(opts...)
}

// Aligner builds an aligner configured by this config.
func (c Config) Aligner() *align.Aligner {
	return align.New(
		align.WithMatcher(textmatch.NewMatcher(c.Thresholds())),
		align.WithClassifier(c.Classifier()),
		align.WithMergeMaxGap(c.MergeMaxGap),
		align.WithSubdivision(c.Subdivide),
	)
}
