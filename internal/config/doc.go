// Package config loads runtime configuration for glacierkeep.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (see parseJson).
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Flags may appear anywhere on the command line, before or after the
// command word and its file arguments.
//
// # JSON schema
//
//	{
//	  "receipts_file": "glacier_receipts.json",
//	  "collection_name": "",
//	  "vault_name": "corbuntu_archive",
//	  "dry_run": false,
//	  "force": false,
//	  "test_debug": false,
//	  "region": "us-east-1",
//	  "endpoint": "",
//	  "access_key_id": "",
//	  "secret_access_key": "",
//	  "output_dir": ".",
//	  "log_level": "info"
//	}
//
// Absent keys leave the default in place. Credentials can only be set from
// JSON; when they are empty the default AWS credential chain is used.
package config
