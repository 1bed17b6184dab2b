package hwenergy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFeatures(t *testing.T) {
	tests := []struct {
		name        string
		productType string
		firmware    string
		want        FeatureSet
	}{
		{
			name:        "p1 meter current firmware",
			productType: "HWE-P1",
			firmware:    "4.00",
			want:        FeatureSet{HasSystem: true, HasIdentify: true, HasDecryption: true},
		},
		{
			name:        "p1 meter newer firmware",
			productType: "HWE-P1",
			firmware:    "4.13",
			want:        FeatureSet{HasSystem: true, HasIdentify: true, HasDecryption: true},
		},
		{
			name:        "p1 meter old firmware",
			productType: "HWE-P1",
			firmware:    "2.17",
			want:        FeatureSet{},
		},
		{
			name:        "energy socket current firmware",
			productType: "HWE-SKT",
			firmware:    "3.01",
			want:        FeatureSet{HasState: true, HasSystem: true, HasIdentify: true},
		},
		{
			name:        "energy socket old firmware keeps state",
			productType: "HWE-SKT",
			firmware:    "2.05",
			want:        FeatureSet{HasState: true},
		},
		{
			name:        "sdm230 kwh meter",
			productType: "SDM230-wifi",
			firmware:    "3.00",
			want:        FeatureSet{HasSystem: true, HasIdentify: true},
		},
		{
			name:        "sdm630 kwh meter old firmware",
			productType: "SDM630-wifi",
			firmware:    "2.90",
			want:        FeatureSet{},
		},
		{
			name:        "unknown product type",
			productType: "HWE-XYZ",
			firmware:    "9.99",
			want:        FeatureSet{},
		},
		{
			name:        "empty product type",
			productType: "",
			firmware:    "4.00",
			want:        FeatureSet{},
		},
		{
			name:        "unparsable firmware fails closed",
			productType: "HWE-P1",
			firmware:    "beta",
			want:        FeatureSet{},
		},
		{
			name:        "unparsable firmware keeps product gated state",
			productType: "HWE-SKT",
			firmware:    "weird.version",
			want:        FeatureSet{HasState: true},
		},
		{
			name:        "empty firmware fails closed",
			productType: "HWE-P1",
			firmware:    "",
			want:        FeatureSet{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveFeatures(tc.productType, tc.firmware))
			// pure function: identical inputs always give identical output
			assert.Equal(t, tc.want, ResolveFeatures(tc.productType, tc.firmware))
		})
	}
}

func TestVersionAtLeast(t *testing.T) {
	assert.True(t, versionAtLeast("4.00", "4.00"))
	assert.True(t, versionAtLeast("4.01", "4.00"))
	assert.True(t, versionAtLeast("4.1", "4.00"))
	assert.True(t, versionAtLeast("10.0", "9.9"))
	assert.True(t, versionAtLeast("4.0.1", "4.00"))
	assert.False(t, versionAtLeast("3.99", "4.00"))
	assert.False(t, versionAtLeast("4", "4.01"))
	assert.False(t, versionAtLeast("abc", "4.00"))
	assert.False(t, versionAtLeast("4.0b", "4.00"))
	assert.False(t, versionAtLeast("", "4.00"))
}
