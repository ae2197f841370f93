package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"ibochain/crypto"
	"ibochain/native/ibo"
)

// Config carries the node-level settings for the listing chain module.
type Config struct {
	DataDir    string     `toml:"DataDir"`
	Env        string     `toml:"Env"`
	LogFile    string     `toml:"LogFile"`
	Governance Governance `toml:"Governance"`
}

// Governance optionally overrides the phase durations and names the treasury
// account credited with residual rewards. Zero durations fall back to the
// production defaults.
type Governance struct {
	AllowModifyMillis    uint64 `toml:"AllowModifyMillis"`
	ReviewMillis         uint64 `toml:"ReviewMillis"`
	VoteMillis           uint64 `toml:"VoteMillis"`
	ReceiveRewardsMillis uint64 `toml:"ReceiveRewardsMillis"`
	TreasuryAddress      string `toml:"TreasuryAddress"`
}

// Policy resolves the configured durations into an engine policy, applying
// defaults for unset values.
func (g Governance) Policy() ibo.Policy {
	policy := ibo.DefaultPolicy()
	if g.AllowModifyMillis > 0 {
		policy.AllowModifyMillis = g.AllowModifyMillis
	}
	if g.ReviewMillis > 0 {
		policy.ReviewMillis = g.ReviewMillis
	}
	if g.VoteMillis > 0 {
		policy.VoteMillis = g.VoteMillis
	}
	if g.ReceiveRewardsMillis > 0 {
		policy.ReceiveRewardsMillis = g.ReceiveRewardsMillis
	}
	return policy
}

// Treasury decodes the configured treasury address.
func (g Governance) Treasury() ([20]byte, error) {
	var out [20]byte
	trimmed := strings.TrimSpace(g.TreasuryAddress)
	if trimmed == "" {
		return out, fmt.Errorf("config: treasury address not set")
	}
	addr, err := crypto.DecodeAddress(trimmed)
	if err != nil {
		return out, fmt.Errorf("config: invalid treasury address: %w", err)
	}
	copy(out[:], addr.Bytes())
	return out, nil
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./ibo-data"
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir: "./ibo-data",
		Env:     "dev",
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
