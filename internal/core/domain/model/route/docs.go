// Package route contains the Route aggregate: a courier's planned trip
// between two points with a matching corridor width and an optional trip
// date after which the route is considered expired.
package route
