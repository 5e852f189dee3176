// Package config provides configuration parsing for the changetree command.
//
// The configuration is stored in changetree.json in the working directory.
// This package handles loading, saving, and validating configuration.
// Command-line flags override what the file says.
//
// # Configuration File Structure
//
//	{
//	  "name": "Order",
//	  "debug": false,
//	  "serve": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "metricsPath": "/metrics",
//	    "eventsPath": "/events",
//	    "shutdownTimeout": "5s"
//	  },
//	  "journal": {
//	    "path": "s3://audit-bucket/changetree/",
//	    "s3": {
//	      "region": "eu-west-1"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
