package bit

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index uint8, value uint32) bool {
	return ((value >> index) & 1) == 1
}

// Clear will return the passed value with the bit at the specified index set to 0.
func Clear(index uint8, value uint32) uint32 {
	return value &^ (1 << index)
}

// Set will return the passed value with the bit at the specified index set to 1.
func Set(index uint8, value uint32) uint32 {
	return value | (1 << index)
}

// Mask returns a value with the lowest width bits set.
func Mask(width uint8) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (1 << width) - 1
}

// ExtractBits extracts width bits starting at lowBit.
// Example: ExtractBits(0b11010110, 4, 3) -> 0b101 (extracts bits 6, 5, 4)
func ExtractBits(value uint32, lowBit, width uint8) uint32 {
	return (value >> lowBit) & Mask(width)
}

// InsertBits returns value with the width bits starting at lowBit replaced by field.
// Bits of field above width are discarded.
func InsertBits(value uint32, lowBit, width uint8, field uint32) uint32 {
	mask := Mask(width) << lowBit
	return (value &^ mask) | ((field << lowBit) & mask)
}
