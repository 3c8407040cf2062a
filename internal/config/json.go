package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// JsonConfig is a DTO used only for JSON unmarshalling. Pointer fields tell
// an absent key apart from an explicit zero value.
type JsonConfig struct {
	ReceiptsFile    *string `json:"receipts_file"`
	Collection      *string `json:"collection_name"`
	Vault           *string `json:"vault_name"`
	DryRun          *bool   `json:"dry_run"`
	Force           *bool   `json:"force"`
	TestDebug       *bool   `json:"test_debug"`
	Region          *string `json:"region"`
	Endpoint        *string `json:"endpoint"`
	AccessKeyID     *string `json:"access_key_id"`
	SecretAccessKey *string `json:"secret_access_key"`
	OutputDir       *string `json:"output_dir"`
	LogLevel        *string `json:"log_level"`
}

// parseJson overlays cfg with the keys present in the JSON file at path.
// An empty path leaves cfg unchanged.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ReceiptsFile, jc.ReceiptsFile)
	setString(&cfg.Collection, jc.Collection)
	setString(&cfg.Vault, jc.Vault)
	setBool(&cfg.DryRun, jc.DryRun)
	setBool(&cfg.Force, jc.Force)
	setBool(&cfg.TestDebug, jc.TestDebug)
	setString(&cfg.Region, jc.Region)
	setString(&cfg.Endpoint, jc.Endpoint)
	setString(&cfg.AccessKeyID, jc.AccessKeyID)
	setString(&cfg.SecretAccessKey, jc.SecretAccessKey)
	setString(&cfg.OutputDir, jc.OutputDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
