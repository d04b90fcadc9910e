// Package catalog assembles resolved version tables into the output
// files consumed by game servers: one combined catalog plus one catalog
// per community definition file. Client names must be unique within a
// merge scope.
package catalog
