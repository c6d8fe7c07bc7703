package parcel

import (
	"fmt"

	"crowdship/internal/pkg/errs"
)

// SizeClass categorizes a parcel's physical size for courier capacity
// decisions and pricing.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// Validate checks that the size class is one of the defined categories.
func (s SizeClass) Validate() error {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("sizeClass",
			fmt.Errorf("%q is not a valid size class", string(s)))
	}
}

func (s SizeClass) String() string {
	return string(s)
}
