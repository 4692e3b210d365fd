// Package config provides configuration management for the manifest tools.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults live next to each setting in `default`
// struct tags and are registered by reflection, so every key is also
// reachable through its environment variable (pipeline.workers is
// PIPELINE_WORKERS).
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Log: Logging level and format
//   - Pipeline: Worker count, duplicate policy, label file and JSON indents
//   - Embedding: Inference endpoint and model for the clip command
//   - Storage: S3/MinIO publishing of manifests
//   - Database: Catalog connection details
//   - Server: Catalog API port and key
//
// Command line flags override the loaded values when they are set explicitly.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Pipeline.Workers)
package config
