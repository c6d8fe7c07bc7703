// Package kernel contains shared value objects for the crowdship domain:
// UUID identifiers, geographic points, and the spherical-geometry helpers the
// route matching logic is built on.
//
// All value objects are immutable and constructor-guarded: the zero value is
// invalid and fails Validate, so aggregates can detect structs that bypassed
// their factory functions.
package kernel
