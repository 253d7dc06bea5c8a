// Package cinema is the reservation engine of the box office.  It keeps
// the registry of rooms, claims seats with a single atomic
// check-and-decrement per room and issues globally unique ticket ids.
//
// The package is safe for concurrent use and performs no I/O.  Drivers
// such as the HTTP server or the command line demo call into it and
// render the results.
package cinema
