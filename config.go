package main

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

const ConfigVersion = 1

func LoadConfig(configFilepath string) (*Config, error) {
	ok, err := exists(configFilepath)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", configFilepath, err)
	}
	if !ok {
		return nil, fmt.Errorf("config file %q does not exist", configFilepath)
	}
	if regular, err := isFile(configFilepath); err != nil {
		return nil, fmt.Errorf("config file %q: %w", configFilepath, err)
	} else if !regular {
		return nil, fmt.Errorf("config path %q is not a file", configFilepath)
	}

	var config Config
	if isJSONFile(configFilepath) {
		if err := loadFromJSON(configFilepath, &config); err != nil {
			return nil, err
		}
	} else if isYAMLFile(configFilepath) {
		if err := loadFromYAML(configFilepath, &config); err != nil {
			return nil, err
		}
	} else {
		return nil, fmt.Errorf("config file %q must be JSON or YAML", configFilepath)
	}
	config.originalFilepath = configFilepath
	sum, err := hashFileSha256(configFilepath)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %s", configFilepath, err.Error())
	}
	config.hashOfConfigFile = sum
	return &config, nil
}

func hashFileSha256(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Config holds the reusable defaults for sketch construction and
// sampling, loadable from a JSON or YAML profile file so a pipeline
// does not have to repeat the same flags on every invocation.
type Config struct {
	originalFilepath string
	hashOfConfigFile string
	Version          *uint64 `json:"version" yaml:"version"`

	Kmer struct {
		K         uint8 `json:"k" yaml:"k"`
		Canonical bool  `json:"canonical" yaml:"canonical"`
	} `json:"kmer" yaml:"kmer"`

	Sketch struct {
		R    uint8   `json:"r" yaml:"r"`
		Eps  float64 `json:"eps" yaml:"eps"`
		N    uint64  `json:"n" yaml:"n"`
		Seed uint64  `json:"seed" yaml:"seed"`
	} `json:"sketch" yaml:"sketch"`

	Sampler struct {
		// Mode is one of "none", "syncmer", "minimizer".
		Mode       string `json:"mode" yaml:"mode"`
		Z          uint8  `json:"z" yaml:"z"`
		O1         uint8  `json:"o1" yaml:"o1"`
		O2         uint8  `json:"o2" yaml:"o2"`
		Window     uint8  `json:"window" yaml:"window"`
		SampleSeed uint64 `json:"sample_seed" yaml:"sample_seed"`
		Unique     bool   `json:"unique" yaml:"unique"`
	} `json:"sampler" yaml:"sampler"`

	IO struct {
		ChunkSize int    `json:"chunk_size" yaml:"chunk_size"`
		TmpDir    string `json:"tmp_dir" yaml:"tmp_dir"`
	} `json:"io" yaml:"io"`
}

func (c *Config) ConfigFilepath() string {
	return c.originalFilepath
}

func (c *Config) HashOfConfigFile() string {
	return c.hashOfConfigFile
}

func (c *Config) IsSameHash(other *Config) bool {
	return c.hashOfConfigFile == other.hashOfConfigFile
}

func (c *Config) IsSameHashAsFile(filepath string) bool {
	sum, err := hashFileSha256(filepath)
	if err != nil {
		return false
	}
	return c.hashOfConfigFile == sum
}

// Validate checks the config for internally-consistent, constructible
// parameters. It does not know about any particular input file.
func (c *Config) Validate() error {
	if c.Version == nil {
		return fmt.Errorf("version must be set")
	}
	if *c.Version != ConfigVersion {
		return fmt.Errorf("version must be %d", ConfigVersion)
	}
	if c.Kmer.K == 0 || c.Kmer.K > 32 {
		return fmt.Errorf("kmer.k must be in [1,32]")
	}
	if c.Sketch.R < 3 || c.Sketch.R > 7 {
		return fmt.Errorf("sketch.r must be in [3,7]")
	}
	if c.Sketch.Eps < 0 || c.Sketch.Eps > 1 {
		return fmt.Errorf("sketch.eps must be in [0,1]")
	}
	switch c.Sampler.Mode {
	case "", "none", "syncmer", "minimizer":
	default:
		return fmt.Errorf("sampler.mode must be one of none, syncmer, minimizer")
	}
	if c.Sampler.Mode == "syncmer" && (c.Sampler.Z == 0 || c.Sampler.Z > c.Kmer.K) {
		return fmt.Errorf("sampler.z must be in [1,kmer.k] when sampler.mode is syncmer")
	}
	if c.Sampler.Mode == "minimizer" && c.Sampler.Window == 0 {
		return fmt.Errorf("sampler.window must be > 0 when sampler.mode is minimizer")
	}
	return nil
}
