package config

// Config is the top-level YAML structure.
type Config struct {
	Server      ServerConf     `yaml:"server"`
	Storage     StorageConf    `yaml:"storage"`
	Simulation  SimulationConf `yaml:"simulation"`
	CORSOrigins []string       `yaml:"cors_origins"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr string `yaml:"addr"`
}

// StorageConf bounds the in-memory event window and bucket index.
type StorageConf struct {
	MaxEvents  int `yaml:"max_events"`
	MaxBuckets int `yaml:"max_buckets"`
}

// SimulationConf controls the synthetic event generator. Enabled is a
// pointer so an absent key defaults to true rather than false.
type SimulationConf struct {
	Enabled         *bool `yaml:"enabled"`
	IntervalSeconds int   `yaml:"interval_seconds"`
}
