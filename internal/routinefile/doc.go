// Package routinefile loads routine definitions in bulk.
//
// Two formats are accepted. A .yaml or .yml file holds a list:
//
//	routines:
//	  - name: rent
//	    title: Pay rent
//	    type: monthly
//	    dates: ["1"]
//	    finance:
//	      price: "900.00"
//	      currency: EUR
//
// A directory holds .cue files with a top-level routine map keyed by name:
//
//	routine: rent: {
//		title: "Pay rent"
//		type:  "monthly"
//		dates: ["1"]
//	}
//
// Every definition is checked the same way a routine added by hand is:
// a title, a type and at least one date are required, and yearly dates must
// be MM-DD. All problems are collected, each with its source position, so a
// file can be fixed in one pass.
package routinefile
