// Package config provides configuration management for the migrator.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into
// subsections:
//   - Dataset: location of the normalized JSON collection files
//   - Reconcile: fuzzy-matching thresholds for reference reconciliation
//   - Storage: S3/MinIO credentials and bucket for remote snapshots
//   - Migrate: document-database project and credentials
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Dataset.Dir)
package config
