// Package parcel contains the Parcel aggregate: a sender's delivery request
// that moves through bidding, courier assignment, transit and completion.
//
// The status graph is encoded once, in status.go, as a static
// allowed-transition table; all call sites validate transitions against it
// instead of scattering status comparisons. Side effects of a transition
// (timestamps, courier clearing) are applied atomically in one place and
// never partially on a rejected transition.
package parcel
