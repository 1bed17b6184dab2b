package hwenergy

import (
	"strconv"
	"strings"
)

// Product types of the supported device families.
const (
	ProductTypeP1           = "HWE-P1"
	ProductTypeEnergySocket = "HWE-SKT"
	ProductTypeSDM230       = "SDM230-wifi"
	ProductTypeSDM630       = "SDM630-wifi"
)

// FeatureSet is the capability surface of one product type and firmware
// version pair.
type FeatureSet struct {
	HasState      bool
	HasSystem     bool
	HasIdentify   bool
	HasDecryption bool
}

// Firmware generation that introduced the system, identify and decryption
// endpoints, per product type.
var minFirmware = map[string]string{
	ProductTypeP1:           "4.00",
	ProductTypeEnergySocket: "3.00",
	ProductTypeSDM230:       "3.00",
	ProductTypeSDM630:       "3.00",
}

// ResolveFeatures derives the capability set for a device. It is a pure
// function of its inputs. Unknown product types resolve to no capabilities
// at all, so reads on unrecognized hardware keep working while writes are
// refused.
func ResolveFeatures(productType, firmwareVersion string) FeatureSet {
	minimum, known := minFirmware[productType]
	if !known {
		return FeatureSet{}
	}
	recent := versionAtLeast(firmwareVersion, minimum)
	return FeatureSet{
		HasState:      productType == ProductTypeEnergySocket,
		HasSystem:     recent,
		HasIdentify:   recent,
		HasDecryption: productType == ProductTypeP1 && recent,
	}
}

// versionAtLeast compares dot-separated numeric version strings component by
// component. An unparsable version counts as too old, so version-gated
// capabilities fail closed.
func versionAtLeast(version, minimum string) bool {
	have := strings.Split(version, ".")
	want := strings.Split(minimum, ".")
	for i := 0; i < len(have) || i < len(want); i++ {
		h, w := 0, 0
		var err error
		if i < len(have) {
			if h, err = strconv.Atoi(have[i]); err != nil {
				return false
			}
		}
		if i < len(want) {
			if w, err = strconv.Atoi(want[i]); err != nil {
				return false
			}
		}
		if h != w {
			return h > w
		}
	}
	return true
}
