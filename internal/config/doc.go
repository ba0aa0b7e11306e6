// Package config loads stress scenario configuration from YAML or JSON files.
//
// A file may start from a named preset and override individual fields:
//
//	log:
//	  level: info
//	scenario:
//	  preset: readheavy
//	  duration: 30s
//	  list:
//	    max_len: 0
//	    prefill: 2000
//	  client:
//	    workers: 32
//	    key_range: 4000
//	    mix:
//	      find: 90
//	      insert: 5
//	      remove: 5
//
// Zero values keep the preset (or default) value.
package config
