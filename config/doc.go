// Package config loads the service configuration with viper.
//
// The file is config.yaml (or the path given to LoadConfig); every key can be
// overridden by an environment variable prefixed with TRANSPORT_, dots
// replaced by underscores, e.g. TRANSPORT_DATA_MONGODB_URI.
//
//	app_name: transport
//	run_mode: release
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	  request_timeout: 15s
//	logger:
//	  level: 4
//	  format: json
//	  output: stdout
//	data:
//	  mongodb:
//	    uri: mongodb://localhost:27017
//	    database: transport
//	    timeout: 5s
//	  redis:
//	    addr: localhost:6379
//	    ttl: 10m
//	auth:
//	  jwt:
//	    secret: change-me
//	storage:
//	  provider: filesystem
//	  bucket: ./uploads
//	job:
//	  assign_policy: applicants_only
//
// Watch reloads the file on change and hands the new configuration to the
// callback.
package config
