// Package config provides configuration management for the map editor.
//
// Configuration comes from environment variables, optionally seeded from a
// .env file. Every key is declared on a section struct with a 'mapstructure'
// tag and a 'default' tag, and bound to Viper reflectively.
//
// # Sections
//
//   - Server: listen port, API key, read timeout
//   - Log: level and format
//   - Database: driver (mysql, sqlite) and connection details
//   - Storage: MinIO credentials and the bucket holding policy documents
//   - Policy: where layer policies are loaded from (file, storage, database)
//   - Bridge: renderer bridge request buffer
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Policy.Source)
package config
