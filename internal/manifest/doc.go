// Package manifest loads YAML service graphs and installs them into a
// registry as tracing services.
//
// Example manifest:
//
//	services:
//	  - id: 1
//	    name: reader
//	    createDependencies: [2]
//	  - id: 2
//	    name: storage
//	    destroyDependencies: [1]
//
// Each installed service records its construction and destruction in a
// Trace, which makes the order chosen by the registry observable.
package manifest
