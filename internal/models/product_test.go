package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "netflix-premium-1-bulan", Slugify("Netflix Premium 1 Bulan"))
	assert.Equal(t, "canva-pro", Slugify("  Canva   Pro "))
	assert.Equal(t, "spotify-family", Slugify("Spotify (Family)"))
}

func TestProductSnapshot(t *testing.T) {
	original := int64(150000)
	p := &Product{
		ID:            7,
		Name:          "Netflix Premium",
		Price:         35000,
		OriginalPrice: &original,
		CategoryID:    "streaming",
		Features:      []string{"4K", "4 screens"},
		ImageColor:    "bg-red-600",
		IsBestSeller:  true,
	}

	snap := p.Snapshot()
	assert.Equal(t, uint(7), snap.ID)
	assert.Equal(t, "Netflix Premium", snap.Title)
	assert.Equal(t, "Rp 35.000", snap.Price)
	assert.Equal(t, "Rp 150.000", snap.OriginalPrice)
	assert.Equal(t, "streaming", snap.Category)

	p.Features[0] = "HD"
	assert.Equal(t, "4K", snap.Features[0], "snapshot must not share the feature slice")
}
