package kernel_test

import (
	"testing"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create point with valid coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(34.0522, -118.2437)

		require.NoError(t, err)
		assert.InDelta(t, 34.0522, p.Lat(), 1e-9)
		assert.InDelta(t, -118.2437, p.Lng(), 1e-9)
		require.NoError(t, p.Validate())
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		for _, c := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
			_, err := kernel.NewGeoPoint(c[0], c[1])
			require.NoError(t, err)
		}
	})

	t.Run("should reject out-of-range latitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(95, 0)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject out-of-range longitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -200)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value should fail validation", func(t *testing.T) {
		var p kernel.GeoPoint
		require.ErrorIs(t, p.Validate(), kernel.ErrGeoPointIsNotConstructed)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("should compare by coordinates", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(10, 20)
		p2, _ := kernel.NewGeoPoint(10, 20)
		p3, _ := kernel.NewGeoPoint(10, 21)

		equal, err := p1.IsEqual(p2)
		require.NoError(t, err)
		assert.True(t, equal)

		equal, err = p1.IsEqual(p3)
		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("should fail for unconstructed points", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(10, 20)
		var p2 kernel.GeoPoint

		_, err := p1.IsEqual(p2)
		require.Error(t, err)
	})
}

func TestGeoPoint_String(t *testing.T) {
	p, _ := kernel.NewGeoPoint(34.0522, -118.2437)
	assert.Equal(t, "GeoPoint(34.052200,-118.243700)", p.String())
}
