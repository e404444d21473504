// Package config loads the queuemap configuration.
//
// Sources, lowest precedence first: built-in defaults, the configuration
// file (YAML, JSON, or JSON with comments when the name ends in .jsonc),
// and QUEUEMAP_* environment variables. Example:
//
//	service:
//	  server: printsrv.example.edu
//	  postPath: /printservices/printservices.asmx
//	  soapAction: http://printsrv/PrintServices/GetPrintQueuesForWorkstation
//	  namespace: http://printsrv/PrintServices/
//	  key: s3cret
//	  userDomain: CAMPUS
//	catalog:
//	  - name: Xerox 5550
//	    file: Xerox Phaser 5550N.gz
//	    matchTerms: [5550, phaser, xerox]
//
// A catalog in the file replaces the default catalog entirely.
package config
