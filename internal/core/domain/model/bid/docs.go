// Package bid contains the Bid aggregate: a courier's priced offer on a
// parcel. Bids carry their own small status machine (pending, selected,
// rejected, withdrawn, expired); cross-aggregate rules, like "exactly one
// selected bid per parcel", live in the application workflows that
// coordinate bids with parcels.
package bid
