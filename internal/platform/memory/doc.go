// Package memory provides mutex-guarded in-process implementations of the
// record store contracts. They honor the same natural-key uniqueness and
// optimistic version checks as the SQL stores and back the default
// configuration and the unit tests.
package memory
