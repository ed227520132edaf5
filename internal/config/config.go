package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"lab-go/internal/lab"
)

// Config represents the main configuration for lab.
type Config struct {
	LabID       string           `toml:"lab_id"`
	BaseDir     string           `toml:"base_dir"`
	LogDir      string           `toml:"log_dir"`
	LogLevel    string           `toml:"log_level,omitempty"` // DEBUG, INFO, WARN or ERROR
	TeacherName string           `toml:"teacher_name"`
	Timezone    string           `toml:"timezone,omitempty"` // IANA name; empty means local time
	Database    DatabaseConfig   `toml:"database"`
	Seed        SeedConfig       `toml:"seed"`
	Backup      BackupConfig     `toml:"backup"`
	Vaults      []VaultConfig    `toml:"vaults"`
	Encryption  EncryptionConfig `toml:"encryption"`
}

// DatabaseConfig represents configuration for the lab store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// SeedConfig describes the room created the first time the store is opened.
type SeedConfig struct {
	MachineCount int               `toml:"machine_count"`
	Columns      int               `toml:"columns"`
	Specs        string            `toml:"specs"`
	Broken       []int             `toml:"broken"`
	Maintenance  []int             `toml:"maintenance"`
	Classes      []SeedClassConfig `toml:"classes"`
}

type SeedClassConfig struct {
	Name string `toml:"name"`
	Note string `toml:"note,omitempty"`
}

// BackupConfig controls snapshot uploads.
type BackupConfig struct {
	// AutoPush uploads a snapshot after every command that changed data.
	AutoPush bool `toml:"auto_push"`
}

// VaultConfig represents configuration for a vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // S3-compatible services such as MinIO

	// Static credentials. When empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for snapshots.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a Config for labID rooted at baseDir, with a SQLite store,
// the stock seed and default key paths. No vault is configured.
func NewConfig(labID, baseDir string) *Config {
	return &Config{
		LabID:       labID,
		BaseDir:     baseDir,
		LogDir:      filepath.Join(baseDir, "log"),
		TeacherName: "Admin",
		Database:    DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(baseDir, "db")},
		Seed:        SeedConfigFrom(lab.DefaultSeedPolicy()),
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "lab.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "lab.key"),
		},
	}
}

// SeedConfigFrom converts a seed policy into its config form.
func SeedConfigFrom(p lab.SeedPolicy) SeedConfig {
	sc := SeedConfig{
		MachineCount: p.MachineCount,
		Columns:      p.Columns,
		Specs:        p.Specs,
		Broken:       append([]int(nil), p.Broken...),
		Maintenance:  append([]int(nil), p.Maintenance...),
	}
	for _, c := range p.Classes {
		sc.Classes = append(sc.Classes, SeedClassConfig{Name: c.Name, Note: c.Note})
	}
	return sc
}

// SeedPolicy converts the seed section into a lab.SeedPolicy. An empty
// section yields the stock policy.
func (c *Config) SeedPolicy() lab.SeedPolicy {
	s := c.Seed
	if s.MachineCount == 0 && s.Columns == 0 && len(s.Classes) == 0 {
		return lab.DefaultSeedPolicy()
	}
	p := lab.SeedPolicy{
		MachineCount: s.MachineCount,
		Columns:      s.Columns,
		Specs:        s.Specs,
		Broken:       append([]int(nil), s.Broken...),
		Maintenance:  append([]int(nil), s.Maintenance...),
	}
	if p.Columns == 0 {
		p.Columns = lab.DefaultSeedPolicy().Columns
	}
	for _, cl := range s.Classes {
		p.Classes = append(p.Classes, lab.ClassSeed{Name: cl.Name, Note: cl.Note})
	}
	return p
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
